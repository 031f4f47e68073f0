// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lockscreen

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/ttylock/internal/lock"
)

func TestTranslate(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want []lock.KeyEvent
	}{
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, []lock.KeyEvent{lock.Press(lock.KeyEnter)}},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, []lock.KeyEvent{lock.Press(lock.KeyEscape)}},
		{"backspace", tea.KeyMsg{Type: tea.KeyBackspace}, []lock.KeyEvent{lock.Press(lock.KeyBackspace)}},
		{"ctrl+h", tea.KeyMsg{Type: tea.KeyCtrlH}, []lock.KeyEvent{lock.Press(lock.KeyBackspace)}},
		{"left", tea.KeyMsg{Type: tea.KeyLeft}, []lock.KeyEvent{lock.Press(lock.KeyLeft)}},
		{"right", tea.KeyMsg{Type: tea.KeyRight}, []lock.KeyEvent{lock.Press(lock.KeyRight)}},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, []lock.KeyEvent{lock.Char(' ')}},
		{"rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}, []lock.KeyEvent{lock.Char('x')}},
		{"paste", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("pä")}, []lock.KeyEvent{lock.Char('p'), lock.Char('ä')}},
		{"alt chord", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}, Alt: true}, []lock.KeyEvent{lock.Press(lock.KeyUnknown)}},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, []lock.KeyEvent{lock.Press(lock.KeyUnknown)}},
		{"tab", tea.KeyMsg{Type: tea.KeyTab}, []lock.KeyEvent{lock.Press(lock.KeyUnknown)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Translate(tt.msg, km))
		})
	}
}

func TestTranslate_CustomKeyMap(t *testing.T) {
	km := DefaultKeyMap()
	km.Cancel.SetKeys("ctrl+g")

	assert.Equal(t, []lock.KeyEvent{lock.Press(lock.KeyEscape)}, Translate(tea.KeyMsg{Type: tea.KeyCtrlG}, km))
	assert.Equal(t, []lock.KeyEvent{lock.Press(lock.KeyUnknown)}, Translate(tea.KeyMsg{Type: tea.KeyEsc}, km))
}
