// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lockscreen

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ttylock/internal/lock"
)

// KeyMap binds terminal keys to lock keys. Printable characters are not
// bindings; they always become lock.KeyChar events.
type KeyMap struct {
	Submit    key.Binding
	Cancel    key.Binding
	Backspace key.Binding
	Left      key.Binding
	Right     key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "unlock"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "back to lock screen"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace", "ctrl+h"),
			key.WithHelp("Backspace", "delete"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "ctrl+b"),
			key.WithHelp("←", "move left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "ctrl+f"),
			key.WithHelp("→", "move right"),
		),
	}
}

// Translate converts one Bubble Tea key message into lock events. A pasted
// or multi-rune message yields one KeyChar per rune; keys the lock does not
// know become a single KeyUnknown.
func Translate(msg tea.KeyMsg, km KeyMap) []lock.KeyEvent {
	switch {
	case key.Matches(msg, km.Submit):
		return []lock.KeyEvent{lock.Press(lock.KeyEnter)}
	case key.Matches(msg, km.Cancel):
		return []lock.KeyEvent{lock.Press(lock.KeyEscape)}
	case key.Matches(msg, km.Backspace):
		return []lock.KeyEvent{lock.Press(lock.KeyBackspace)}
	case key.Matches(msg, km.Left):
		return []lock.KeyEvent{lock.Press(lock.KeyLeft)}
	case key.Matches(msg, km.Right):
		return []lock.KeyEvent{lock.Press(lock.KeyRight)}
	}

	switch msg.Type {
	case tea.KeySpace:
		return []lock.KeyEvent{lock.Char(' ')}
	case tea.KeyRunes:
		// alt+<key> is a chord, not text.
		if msg.Alt || len(msg.Runes) == 0 {
			break
		}
		events := make([]lock.KeyEvent, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			events = append(events, lock.Char(r))
		}
		return events
	}

	return []lock.KeyEvent{lock.Press(lock.KeyUnknown)}
}
