package object

import (
	"sync"
)

// Vec3 is a position in the host scene. The simulation only moves Z.
type Vec3 struct {
	X, Y, Z float64
}

// Body is the capability a host binding exposes for one projectile.
// Implementations decouple the simulation from a specific engine's API.
type Body interface {
	// Position returns the body's local position.
	Position() Vec3
	// SetPosition moves the body.
	SetPosition(p Vec3)
	// SetEnabled shows or hides the body in the host scene.
	SetEnabled(enabled bool)
	// Enabled reports whether the body is currently shown.
	Enabled() bool
}

// Display is a text sink, e.g. an on-screen label.
type Display interface {
	SetText(text string)
}

// Rand is the random source slots draw speeds and delays from.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Range is a half-open interval [Min, Max) for uniform draws.
type Range struct {
	Min, Max float64
}

// Draw returns a uniform value in [Min, Max). A degenerate range returns Min.
func (r Range) Draw(src Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + src.Float64()*(r.Max-r.Min)
}

// MemoryBody is an in-process Body used when no host engine is attached.
// It is safe for concurrent use so viewers can read it while the tick loop writes.
type MemoryBody struct {
	mu      sync.RWMutex
	pos     Vec3
	enabled bool
}

// Compile-time check that MemoryBody implements Body.
var _ Body = (*MemoryBody)(nil)

// NewMemoryBody creates an enabled body at p.
func NewMemoryBody(p Vec3) *MemoryBody {
	return &MemoryBody{pos: p, enabled: true}
}

// Position returns the body's position.
func (b *MemoryBody) Position() Vec3 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pos
}

// SetPosition moves the body.
func (b *MemoryBody) SetPosition(p Vec3) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pos = p
}

// SetEnabled shows or hides the body.
func (b *MemoryBody) SetEnabled(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = enabled
}

// Enabled reports whether the body is shown.
func (b *MemoryBody) Enabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.enabled
}
