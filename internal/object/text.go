package object

import (
	"fmt"
	"io"
	"sync/atomic"
)

// Label is a text display sink that can be drawn to a terminal.
// Coordinates are 1-based terminal positions. SetText may be called from
// any goroutine.
type Label struct {
	X     int
	Y     int
	value atomic.Pointer[string]
}

// Compile-time check that Label implements Display.
var _ Display = (*Label)(nil)

// NewLabel creates a label at the given terminal position.
func NewLabel(x, y int, text string) *Label {
	l := &Label{X: x, Y: y}
	l.SetText(text)
	return l
}

// SetText replaces the label's text.
func (l *Label) SetText(text string) {
	l.value.Store(&text)
}

// Text returns the label's current text.
func (l *Label) Text() string {
	if v := l.value.Load(); v != nil {
		return *v
	}
	return ""
}

// Draw writes the text at its position using ANSI cursor movement.
func (l *Label) Draw(w io.Writer) error {
	text := l.Text()
	if text == "" {
		return nil
	}
	x := l.X
	y := l.Y
	if x < 1 {
		x = 1
	}
	if y < 1 {
		y = 1
	}
	if _, err := fmt.Fprintf(w, "\033[%d;%dH%s", y, x, text); err != nil {
		return err
	}
	return nil
}
