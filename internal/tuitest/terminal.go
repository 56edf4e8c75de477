package tuitest

import (
	"bytes"
	"io"
)

// terminalReply answers a query the program writes to the terminal. Bubble
// Tea and lipgloss probe cursor position and colours at startup and block
// until a reply arrives.
type terminalReply struct {
	query []byte
	reply []byte
}

var terminalReplies = []terminalReply{
	{[]byte("\x1b[6n"), []byte("\x1b[1;1R")},
	{[]byte("\x1b]10;?\x07"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{[]byte("\x1b]10;?\x1b\\"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{[]byte("\x1b]11;?\x07"), []byte("\x1b]11;rgb:0000/0000/0000\x07")},
	{[]byte("\x1b]11;?\x1b\\"), []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
}

type terminalResponder struct {
	w   io.Writer
	buf []byte
}

func newTerminalResponder(w io.Writer) *terminalResponder {
	return &terminalResponder{w: w, buf: make([]byte, 0, 128)}
}

func (tr *terminalResponder) Process(chunk []byte) {
	tr.buf = append(tr.buf, chunk...)
	for tr.answerNext() {
	}
	// Queries can straddle reads, so keep a short tail.
	if len(tr.buf) > 256 {
		tr.buf = tr.buf[len(tr.buf)-64:]
	}
}

// answerNext replies to the earliest pending query and reports whether it
// found one.
func (tr *terminalResponder) answerNext() bool {
	first, at := -1, len(tr.buf)
	for i, r := range terminalReplies {
		if idx := bytes.Index(tr.buf, r.query); idx >= 0 && idx < at {
			first, at = i, idx
		}
	}
	if first < 0 {
		return false
	}
	r := terminalReplies[first]
	tr.buf = tr.buf[at+len(r.query):]
	_, _ = tr.w.Write(r.reply)
	return true
}
