package media

import (
	"fmt"
	goimage "image"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/image/draw"
)

// RenderHalfBlock converts img to ANSI art that fits in cols x rows cells.
// Each cell shows two vertical pixels with the lower-half block: background
// is the top pixel, foreground the bottom one.
func RenderHalfBlock(img goimage.Image, cols, rows int) []string {
	if img == nil || cols <= 0 || rows <= 0 {
		return nil
	}
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW == 0 || srcH == 0 {
		return nil
	}

	targetW, targetH := fitBox(srcW, srcH, cols, rows*2)
	var scaled goimage.Image = img
	if targetW != srcW || targetH != srcH {
		dst := goimage.NewRGBA(goimage.Rect(0, 0, targetW, targetH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		scaled = dst
	}
	origin := scaled.Bounds().Min

	lines := make([]string, 0, (targetH+1)/2)
	for y := 0; y < targetH; y += 2 {
		var b strings.Builder
		for x := 0; x < targetW; x++ {
			topR, topG, topB := rgbAt(scaled, origin.X+x, origin.Y+y)
			var botR, botG, botB uint8
			if y+1 < targetH {
				botR, botG, botB = rgbAt(scaled, origin.X+x, origin.Y+y+1)
			}
			fmt.Fprintf(&b, "\x1b[48;2;%d;%d;%dm\x1b[38;2;%d;%d;%dm▄", topR, topG, topB, botR, botG, botB)
		}
		b.WriteString("\x1b[0m")
		lines = append(lines, b.String())
	}
	return lines
}

// fitBox scales w x h down to fit maxW x maxH, keeping the aspect ratio.
// Images already inside the box are not enlarged.
func fitBox(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	if w*maxH > h*maxW {
		h = h * maxW / w
		w = maxW
	} else {
		w = w * maxH / h
		h = maxH
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func rgbAt(img goimage.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

// Placeholder draws a plain box of cols x rows cells with label centred,
// used when an image cannot be shown.
func Placeholder(label string, cols, rows int) []string {
	if cols < 4 || rows < 3 {
		return []string{runewidth.Truncate(label, cols, "…")}
	}
	inner := cols - 2
	label = runewidth.Truncate(label, inner-2, "…")
	lines := make([]string, 0, rows)
	lines = append(lines, "┌"+strings.Repeat("─", inner)+"┐")
	middle := (rows - 2) / 2
	for i := 0; i < rows-2; i++ {
		if i == middle {
			pad := inner - runewidth.StringWidth(label)
			left := pad / 2
			lines = append(lines, "│"+strings.Repeat(" ", left)+label+strings.Repeat(" ", pad-left)+"│")
			continue
		}
		lines = append(lines, "│"+strings.Repeat(" ", inner)+"│")
	}
	lines = append(lines, "└"+strings.Repeat("─", inner)+"┘")
	return lines
}
