package physics

import "github.com/tomz197/kunai/internal/object"

// Collider is a sphere that fires OnEnter each time a body starts overlapping it.
// A body that stays inside fires once; it has to leave (or be disabled) before
// it can fire again. Not safe for concurrent use; call Detect from the tick loop.
type Collider struct {
	Center  object.Vec3
	Radius  float64
	OnEnter func()

	inside map[object.Body]bool
}

// NewCollider creates a collider centered at center.
func NewCollider(center object.Vec3, radius float64, onEnter func()) *Collider {
	return &Collider{
		Center:  center,
		Radius:  radius,
		OnEnter: onEnter,
		inside:  make(map[object.Body]bool),
	}
}

// Detect checks every body against the sphere and returns the number of new overlaps.
// Disabled bodies never overlap.
func (c *Collider) Detect(bodies []object.Body) int {
	entered := 0
	for _, b := range bodies {
		if b == nil {
			continue
		}
		overlapping := b.Enabled() && PointInSphere(b.Position(), c.Center, c.Radius)
		if overlapping && !c.inside[b] {
			entered++
			if c.OnEnter != nil {
				c.OnEnter()
			}
		}
		if overlapping {
			c.inside[b] = true
		} else {
			delete(c.inside, b)
		}
	}
	return entered
}

// Overlapping reports whether b was inside the sphere at the last Detect.
func (c *Collider) Overlapping(b object.Body) bool {
	return c.inside[b]
}
