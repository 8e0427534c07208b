package server

import (
	"fmt"
	"regexp"
	"strconv"
	"sync/atomic"

	"github.com/tomz197/kunai/internal/object"
)

// collisionsPattern matches the display projection written by Tally.
var collisionsPattern = regexp.MustCompile(`Collisions: (\d+)`)

// Tally counts collision events. OnCollision is safe to call from any goroutine.
type Tally struct {
	count   atomic.Int64
	display object.Display
}

// NewTally creates a tally that mirrors its count to display, if non-nil.
func NewTally(display object.Display) *Tally {
	t := &Tally{display: display}
	if display != nil {
		display.SetText(FormatCollisions(0))
	}
	return t
}

// OnCollision records one overlap event.
func (t *Tally) OnCollision() {
	n := t.count.Add(1)
	if t.display != nil {
		t.display.SetText(FormatCollisions(int(n)))
	}
}

// Current returns the running count.
func (t *Tally) Current() int {
	return int(t.count.Load())
}

// Text returns the display projection of the current count.
func (t *Tally) Text() string {
	return FormatCollisions(t.Current())
}

// FormatCollisions renders a count the way it is shown to players.
func FormatCollisions(n int) string {
	return fmt.Sprintf("Collisions: %d", n)
}

// ParseCollisions recovers the count from a display string.
// Returns false when the text does not contain a count.
func ParseCollisions(text string) (int, bool) {
	m := collisionsPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
