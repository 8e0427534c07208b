// Package config centralizes all tunable simulation parameters.
package config

import "time"

// Travel axis. Slots move along +z and park once they pass TravelLimit.
const (
	TravelLimit = 40.0
)

// Population defaults, overridable through the environment settings.
const (
	DefaultSlots    = 4
	DefaultMaxTurns = 5
)

// Speed ranges in units per second, drawn uniformly as [min, max).
const (
	InitialSpeedMin = 5.0
	InitialSpeedMax = 20.0
	SpeedMin        = 5.0
	SpeedMax        = 35.0
)

// Respawn delay ranges in seconds, drawn uniformly as [min, max).
const (
	InitialDelayMin = 1.0
	InitialDelayMax = 2.0
	DelayMin        = 1.0
	DelayMax        = 3.0
)

// Lanes and the camera collider the projectiles fly through.
const (
	LaneSpacing    = 1.5  // Distance between neighbouring slots on x
	ColliderZ      = 32.0 // Camera position on the travel axis
	ColliderRadius = 2.0
)

// Server tick rate
const (
	ServerTickRate = 60
	ServerTickTime = time.Second / ServerTickRate
)

// Client rendering
const (
	ClientTargetFPS       = 20
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	BarWidth              = 40 // Characters used for a slot's travel bar
)

// Shutdown
const (
	ShutdownDisplaySeconds = 5.0 // Seconds to show shutdown message before auto-disconnect
	ReportLingerSeconds    = 2.0 // Seconds the local runner keeps the final panel up
)
