package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/folio/internal/contact"
)

const (
	fieldName = iota
	fieldEmail
	fieldSubject
	fieldMessage
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Email", "Subject", "Message"}

// contactForm is the editable form plus its submission status.
type contactForm struct {
	inputs  [fieldMessage]textinput.Model
	message textarea.Model
	focus   int
	status  contact.Status
	notice  string
	// seq invalidates reset timers that belong to an earlier submission.
	seq int
}

func newContactForm() contactForm {
	placeholders := [fieldMessage]string{"Your name", "you@example.com", "What's this about?"}
	var form contactForm
	for i := range form.inputs {
		input := textinput.New()
		input.Placeholder = placeholders[i]
		input.CharLimit = 120
		input.Width = 48
		form.inputs[i] = input
	}
	form.inputs[fieldEmail].CharLimit = 254

	message := textarea.New()
	message.Placeholder = "Tell me about your project…"
	message.ShowLineNumbers = false
	message.CharLimit = 4000
	message.SetWidth(52)
	message.SetHeight(4)
	form.message = message
	return form
}

func (f *contactForm) Focus() tea.Cmd {
	f.blurAll()
	if f.focus == fieldMessage {
		return f.message.Focus()
	}
	return f.inputs[f.focus].Focus()
}

func (f *contactForm) Blur() {
	f.blurAll()
}

func (f *contactForm) blurAll() {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	f.message.Blur()
}

// Cycle moves focus by delta fields, wrapping around.
func (f *contactForm) Cycle(delta int) tea.Cmd {
	f.focus = ((f.focus+delta)%fieldCount + fieldCount) % fieldCount
	return f.Focus()
}

func (f *contactForm) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.focus == fieldMessage {
		f.message, cmd = f.message.Update(msg)
		return cmd
	}
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *contactForm) Form() contact.Form {
	return contact.Form{
		Name:    strings.TrimSpace(f.inputs[fieldName].Value()),
		Email:   strings.TrimSpace(f.inputs[fieldEmail].Value()),
		Subject: strings.TrimSpace(f.inputs[fieldSubject].Value()),
		Message: strings.TrimSpace(f.message.Value()),
	}
}

func (f *contactForm) Clear() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.message.Reset()
}

func (f *contactForm) Busy() bool {
	return f.status == contact.StatusSubmitting
}

func (f *contactForm) fieldView(i int) string {
	if i == fieldMessage {
		return f.message.View()
	}
	return f.inputs[i].View()
}

func (m *model) writeContact(cb *contentBuilder) {
	cb.WriteLine(m.markdown.Render("Have a project in mind? Send a message and I'll get back to you.", m.wrapWidth(0)))
	if email := m.portfolio.Site.Email; email != "" {
		cb.WriteLine(helperStyle.Render("Or email ") + linkStyle.Render(email))
	}
	cb.WriteRune('\n')
	editing := m.stage == stageContact
	for i := 0; i < fieldCount; i++ {
		label := fieldLabelStyle.Render(fieldLabels[i])
		if editing && m.contact.focus == i {
			label = fieldFocusedLabelStyle.Render(fieldLabels[i])
		}
		cb.WriteLine(label)
		cb.WriteLine(indentBlock(m.contact.fieldView(i), "  "))
	}
	cb.WriteRune('\n')
	cb.WriteLine(m.contactStatusLine(editing))
}

func (m *model) contactStatusLine(editing bool) string {
	switch m.contact.status {
	case contact.StatusSubmitting:
		return helperStyle.Render(m.spinner.View() + " Sending…")
	case contact.StatusSuccess:
		return successStyle.Render("✓ " + m.contact.notice)
	case contact.StatusError:
		return errorStyle.Render("✗ " + m.contact.notice)
	}
	if editing {
		return buttonFocusedStyle.Render("Send message") + helperStyle.Render("  ctrl+s send • tab next field • esc done")
	}
	return buttonStyle.Render("Send message") + helperStyle.Render("  press c to write a message")
}

func indentBlock(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
