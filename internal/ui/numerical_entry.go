package ui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// NumericalEntry is an Entry that only accepts digits, up to MaxLen of them.
type NumericalEntry struct {
	widget.Entry

	// MaxLen caps the number of digits. Zero means no limit.
	MaxLen int
}

// NewNumericalEntry creates a new instance of NumericalEntry.
func NewNumericalEntry() *NumericalEntry {
	entry := &NumericalEntry{}
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedRune drops anything that is not a digit or would exceed MaxLen.
func (e *NumericalEntry) TypedRune(r rune) {
	if r < '0' || r > '9' || e.full(1) {
		return
	}
	e.Entry.TypedRune(r)
}

// TypedShortcut filters pasted text down to its digits.
func (e *NumericalEntry) TypedShortcut(s fyne.Shortcut) {
	paste, ok := s.(*fyne.ShortcutPaste)
	if !ok {
		e.Entry.TypedShortcut(s)
		return
	}
	if paste.Clipboard == nil {
		return
	}
	for _, r := range digitsOnly(paste.Clipboard.Content()) {
		e.TypedRune(r)
	}
}

// Keyboard shows a numeric keypad on mobile devices.
func (e *NumericalEntry) Keyboard() mobile.KeyboardType {
	return mobile.NumberKeyboard
}

func (e *NumericalEntry) full(adding int) bool {
	return e.MaxLen > 0 && len([]rune(e.Text))+adding > e.MaxLen
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
