package client

import (
	"time"
)

// Phase is what a viewer is currently showing.
type Phase int

const (
	PhaseWatching Phase = iota // Run in progress
	PhaseFinished              // All slots spent, report pending or sent
	PhaseShutdown              // Server is shutting down
)

// ViewerState holds per-viewer state. Each viewer has its own instance.
type ViewerState struct {
	Phase         Phase
	Running       bool
	prevPhase     Phase
	width, height int
	delta         time.Duration
	shutdownTimer float64 // Countdown before auto-disconnect on shutdown
}

// NewViewerState creates a new initialized viewer state.
func NewViewerState() *ViewerState {
	return &ViewerState{
		Phase:   PhaseWatching,
		Running: true,
		width:   80,
		height:  24,
	}
}
