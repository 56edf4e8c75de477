package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/folio/internal/contact"
	"github.com/csheth/folio/internal/content"
	"github.com/csheth/folio/internal/media"
	"github.com/csheth/folio/internal/resume"
)

func TestPreloadImagesJobDecodesAssets(t *testing.T) {
	portfolio, err := content.Default()
	if err != nil {
		t.Fatalf("default content: %v", err)
	}
	refs := portfolio.Projects[0].ImageRefs()
	loader := media.NewLoader(portfolio.Assets, nil, nil)

	msg, err := preloadImagesJob(loader, append(refs, "assets/nope.png"), 2)(context.Background())
	if err != nil {
		t.Fatalf("preload: %v", err)
	}
	loaded, ok := msg.(imagesLoadedMsg)
	if !ok {
		t.Fatalf("expected imagesLoadedMsg, got %T", msg)
	}
	for _, ref := range refs {
		if res := loaded.results[ref]; res.Err != nil || res.Image == nil {
			t.Fatalf("asset %s did not decode: %v", ref, res.Err)
		}
	}
	if loaded.results["assets/nope.png"].Err == nil {
		t.Fatal("missing assets should carry an error")
	}

	m := newTestModel(t)
	m.Update(loaded)
	if len(m.images.Missing(refs)) != 0 {
		t.Fatal("loaded images should be stored")
	}
	if !strings.Contains(m.infoMessage, "could not be loaded") {
		t.Fatalf("expected a failure notice, got %q", m.infoMessage)
	}
}

func TestSubmitContactJobWithoutEndpoint(t *testing.T) {
	msg, err := submitContactJob(nil, contact.Form{})(context.Background())
	if !errors.Is(err, contact.ErrNoEndpoint) {
		t.Fatalf("expected ErrNoEndpoint, got %v", err)
	}
	if result, ok := msg.(contactResultMsg); !ok || !errors.Is(result.err, contact.ErrNoEndpoint) {
		t.Fatalf("unexpected payload %#v", msg)
	}
}

func TestLoadResumeJobWithoutPath(t *testing.T) {
	msg, err := loadResumeJob("", nil)(context.Background())
	if !errors.Is(err, resume.ErrNoResume) {
		t.Fatalf("expected ErrNoResume, got %v", err)
	}
	m := newTestModel(t)
	m.resumeLoading = true
	m.Update(msg)
	if m.resumeLoading || m.resumeErr == nil {
		t.Fatal("resume result should stop loading and keep the error")
	}
}

func TestContactErrorText(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{contact.ErrNoEndpoint, "not configured"},
		{&contact.SubmitError{StatusCode: 502}, "HTTP 502"},
		{errors.New("dial tcp: refused"), "dial tcp: refused"},
	}
	for _, tt := range tests {
		if got := contactErrorText(tt.err); !strings.Contains(got, tt.want) {
			t.Fatalf("contactErrorText(%v) = %q, want it to contain %q", tt.err, got, tt.want)
		}
	}
}

func TestJobEnvelopeDeliversPayload(t *testing.T) {
	m := newTestModel(t)
	snapshot := jobSnapshot{ID: "contact-1", Kind: jobKindContact, Status: jobStatusRunning}
	m.Update(jobSignalMsg{Snapshot: snapshot})
	if len(m.jobStatusBadges()) != 1 {
		t.Fatal("running jobs should show a badge")
	}

	m.contact.status = contact.StatusSubmitting
	snapshot.Status = jobStatusSucceeded
	_, cmd := m.Update(jobResultEnvelope{Snapshot: snapshot, Payload: contactResultMsg{}})
	if len(m.activeJobs) != 0 {
		t.Fatal("finished jobs should leave the badge list")
	}
	if m.contact.status != contact.StatusSuccess {
		t.Fatalf("payload should be handled, got status %v", m.contact.status)
	}
	if cmd == nil {
		t.Fatal("a finished submission schedules the status reset")
	}
}

func TestJobBusIDsAreUnique(t *testing.T) {
	bus := newJobBus(nil)
	first, second := bus.nextID(jobKindPreload), bus.nextID(jobKindPreload)
	if first == second {
		t.Fatalf("ids should differ, got %s twice", first)
	}
	if !strings.HasPrefix(first, string(jobKindPreload)) {
		t.Fatalf("id should carry the kind, got %s", first)
	}
	var cmd tea.Cmd = bus.Start(jobKindResume, loadResumeJob("", nil))
	if cmd == nil {
		t.Fatal("Start should return a command")
	}
}
