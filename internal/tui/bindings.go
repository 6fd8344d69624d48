package tui

import (
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
)

// inputBinding lets the controller drive the prompt. The blink command
// returned by Focus is dropped; Init already schedules blinking.
type inputBinding struct {
	field *textinput.Model
}

func (b inputBinding) SetEnabled(enabled bool) {
	if enabled {
		b.field.Focus()
		return
	}
	b.field.Blur()
}

func (b inputBinding) Clear() { b.field.SetValue("") }

func (b inputBinding) Focus() { b.field.Focus() }

// noticeBox receives notices from export commands, which run off the
// Update goroutine, and hands them to Update.
type noticeBox struct {
	mu   sync.Mutex
	text string
}

func (n *noticeBox) Notice(text string) {
	n.mu.Lock()
	n.text = text
	n.mu.Unlock()
}

func (n *noticeBox) take() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	text := n.text
	n.text = ""
	return text
}
