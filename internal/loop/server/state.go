package server

import (
	"math/rand"
	"time"

	"github.com/tomz197/kunai/internal/loop/config"
	"github.com/tomz197/kunai/internal/object"
)

// SlotSnapshot is one slot as seen by viewers.
type SlotSnapshot struct {
	object.SlotView
	Lane        float64 // x offset of the slot's lane
	Overlapping bool    // Inside the camera collider
}

// Snapshot is an immutable copy of the simulation state for viewers.
type Snapshot struct {
	Slots         []SlotSnapshot
	Display       string // "Collisions: n"
	Collisions    int
	Cycle         int // Completed cycles
	Respawned     int // Respawns toward the open cycle
	TotalExpected int
	Buckets       Buckets
	TravelLimit   float64
	Finished      bool
	ReportSent    bool
	Viewers       int
	Elapsed       time.Duration
}

// laneX spreads n lanes evenly around x=0.
func laneX(i, n int) float64 {
	return (float64(i) - float64(n-1)/2) * config.LaneSpacing
}

// newSlots creates n slots on their own lanes, each bound to a MemoryBody.
func newSlots(n, maxTurns int, rng *rand.Rand) ([]*object.Slot, []object.Body) {
	slots := make([]*object.Slot, n)
	bodies := make([]object.Body, n)
	for i := range slots {
		initial := object.Vec3{X: laneX(i, n)}
		body := object.NewMemoryBody(initial)
		bodies[i] = body
		slots[i] = object.NewSlot(object.SlotConfig{
			MaxTurns:     maxTurns,
			Initial:      initial,
			InitialSpeed: object.Range{Min: config.InitialSpeedMin, Max: config.InitialSpeedMax},
			InitialDelay: object.Range{Min: config.InitialDelayMin, Max: config.InitialDelayMax},
			Speed:        object.Range{Min: config.SpeedMin, Max: config.SpeedMax},
			Delay:        object.Range{Min: config.DelayMin, Max: config.DelayMax},
			Rand:         rng,
			Body:         body,
		})
	}
	return slots, bodies
}
