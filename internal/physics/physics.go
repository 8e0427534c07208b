// Package physics provides distance utilities and a stand-in overlap source
// for running without a host physics engine.
package physics

import (
	"math"

	"github.com/tomz197/kunai/internal/object"
)

// Distance calculates the Euclidean distance between two points.
func Distance(a, b object.Vec3) float64 {
	return math.Sqrt(DistanceSquared(a, b))
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(a, b object.Vec3) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dz := b.Z - a.Z
	return dx*dx + dy*dy + dz*dz
}

// PointInSphere checks if a point is within radius of a center.
func PointInSphere(p, center object.Vec3, radius float64) bool {
	return DistanceSquared(p, center) <= radius*radius
}
