package ui

import (
	"errors"
	"strconv"

	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-vernissage/internal/config"
)

// Errors returned by NumericalEntry.Parse.
var (
	ErrEntryEmpty     = errors.New(config.ErrEntryEmpty)
	ErrEntryNotNumber = errors.New(config.ErrEntryNotNumber)
	ErrEntryRange     = errors.New(config.ErrEntryRange)
)

// NumericalEntry is an Entry that only accepts digits and knows its valid range.
type NumericalEntry struct {
	widget.Entry
	Min, Max int
}

// NewNumericalEntry creates an entry accepting integers in [lo, hi].
func NewNumericalEntry(lo, hi int) *NumericalEntry {
	entry := &NumericalEntry{Min: lo, Max: hi}
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedRune drops everything but 0-9.
// Pasted text bypasses this filter; Parse catches it.
func (e *NumericalEntry) TypedRune(r rune) {
	if r >= '0' && r <= '9' {
		e.Entry.TypedRune(r)
	}
}

// Keyboard requests the numeric keypad on mobile devices.
func (e *NumericalEntry) Keyboard() mobile.KeyboardType {
	return mobile.NumberKeyboard
}

// Parse converts s and checks it against the entry's range.
func (e *NumericalEntry) Parse(s string) (int, error) {
	if s == "" {
		return 0, ErrEntryEmpty
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrEntryNotNumber
	}
	if v < e.Min || v > e.Max {
		return v, ErrEntryRange
	}
	return v, nil
}

// Int parses the current text.
func (e *NumericalEntry) Int() (int, error) {
	return e.Parse(e.Text)
}
