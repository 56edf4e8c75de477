package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/folio/internal/contact"
	"github.com/csheth/folio/internal/media"
	"github.com/csheth/folio/internal/resume"
)

func preloadImagesJob(loader *media.Loader, refs []string, limit int) jobRunner {
	toLoad := append([]string(nil), refs...)
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 2*time.Minute)
		defer cancel()
		results, err := loader.Preload(ctx, toLoad, limit)
		return imagesLoadedMsg{results: results, err: err}, err
	}
}

func submitContactJob(client *contact.Client, form contact.Form) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 30*time.Second)
		defer cancel()
		err := client.Submit(ctx, form)
		return contactResultMsg{err: err}, err
	}
}

func loadResumeJob(ref string, fetcher resume.Fetcher) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 35*time.Second)
		defer cancel()
		doc, err := resume.Load(ctx, ref, fetcher)
		return resumeLoadedMsg{doc: doc, err: err}, err
	}
}

func contactResetCmd(seq int) tea.Cmd {
	return tea.Tick(contact.ResetAfter, func(time.Time) tea.Msg {
		return contactResetMsg{seq: seq}
	})
}

// contactErrorText turns a submit failure into the line shown under the form.
func contactErrorText(err error) string {
	var submitErr *contact.SubmitError
	switch {
	case errors.Is(err, contact.ErrNoEndpoint):
		return "Contact form is not configured (set contact.endpoint)."
	case errors.As(err, &submitErr):
		return fmt.Sprintf("Sending failed (HTTP %d). Please email me directly.", submitErr.StatusCode)
	default:
		return "Sending failed: " + err.Error()
	}
}
