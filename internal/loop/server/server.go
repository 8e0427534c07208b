package server

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/kunai/internal/loop/config"
	"github.com/tomz197/kunai/internal/object"
	"github.com/tomz197/kunai/internal/physics"
)

// SimServer is the interface viewers use to watch a running simulation.
type SimServer interface {
	RegisterViewer(name string) *ViewerHandle
	UnregisterViewer(viewerID int)
	GetSnapshot() *Snapshot
}

// Options configures a Server.
type Options struct {
	Slots      int
	MaxTurns   int
	Seed       int64 // Zero seeds from the clock
	BucketMode BucketMode
	Reporter   Reporter
	Display    object.Display // Optional extra sink for "Collisions: n"
	Logger     *log.Logger
}

// Server owns the simulation and drives it at a fixed tick rate.
type Server struct {
	coord    *Coordinator
	tally    *Tally
	label    *object.Label
	collider *physics.Collider
	bodies   []object.Body
	reporter Reporter
	logger   *log.Logger

	snapshot     atomic.Pointer[Snapshot]
	viewers      map[int]*ViewerHandle
	nextViewerID int
	registerCh   chan *ViewerHandle
	unregisterCh chan int
	mu           sync.RWMutex

	elapsed  time.Duration
	finished chan struct{}
}

// Compile-time check that Server implements SimServer.
var _ SimServer = (*Server)(nil)

// ViewerHandle represents a viewer's connection to the server.
type ViewerHandle struct {
	ID       int
	Name     string
	EventsCh chan ViewerEvent
}

// ViewerEvent is sent from the server to viewers.
type ViewerEvent struct {
	Type ViewerEventType
}

// ViewerEventType identifies the type of viewer event.
type ViewerEventType int

const (
	EventRunFinished ViewerEventType = iota
	EventServerShutdown
)

// NewServer creates a server with a fresh population of slots.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	label := object.NewLabel(1, 1, "")
	tally := NewTally(multiDisplay{label, opts.Display})
	slots, bodies := newSlots(opts.Slots, opts.MaxTurns, rng)

	coord := NewCoordinator(slots, CoordinatorOptions{
		MaxTurns:   opts.MaxTurns,
		Counter:    tally,
		Aggregator: NewAggregator(opts.MaxTurns*opts.Slots, opts.BucketMode),
		Reporter:   opts.Reporter,
		Logger:     logger,
	})

	s := &Server{
		coord:        coord,
		tally:        tally,
		label:        label,
		collider:     physics.NewCollider(object.Vec3{Z: config.ColliderZ}, config.ColliderRadius, tally.OnCollision),
		bodies:       bodies,
		reporter:     opts.Reporter,
		logger:       logger,
		viewers:      make(map[int]*ViewerHandle),
		nextViewerID: 1,
		registerCh:   make(chan *ViewerHandle, 16),
		unregisterCh: make(chan int, 16),
		finished:     make(chan struct{}),
	}
	logger.Info("simulation ready", "slots", opts.Slots, "maxTurns", opts.MaxTurns, "seed", seed)
	s.createSnapshot()
	return s
}

// Run drives the simulation until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		s.Step(delta)

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ServerTickTime {
			time.Sleep(config.ServerTickTime - elapsed)
		}
	}
}

// Step advances the simulation by one tick of length delta.
// Run calls it from its loop; tests call it directly.
func (s *Server) Step(delta time.Duration) {
	s.processRegistrations()

	s.elapsed += delta
	wasFinished := s.coord.Finished()
	s.coord.Tick(delta.Seconds())
	s.collider.Detect(s.bodies)

	if !wasFinished && s.coord.Finished() {
		close(s.finished)
		s.broadcast(ViewerEvent{Type: EventRunFinished})
	}

	s.createSnapshot()
}

// Finished is closed once every slot has used its turns.
func (s *Server) Finished() <-chan struct{} {
	return s.finished
}

// Tally returns the collision tally, e.g. to wire a host overlap source.
func (s *Server) Tally() *Tally {
	return s.tally
}

// Coordinator returns the cycle coordinator.
func (s *Server) Coordinator() *Coordinator {
	return s.coord
}

// Shutdown notifies all viewers and waits for them to disconnect (up to timeout).
// The caller should cancel the server context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.broadcast(ViewerEvent{Type: EventServerShutdown})

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			s.mu.RLock()
			remaining := len(s.viewers)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// RegisterViewer registers a new viewer and returns its handle.
func (s *Server) RegisterViewer(name string) *ViewerHandle {
	s.mu.Lock()
	id := s.nextViewerID
	s.nextViewerID++
	s.mu.Unlock()

	handle := &ViewerHandle{
		ID:       id,
		Name:     name,
		EventsCh: make(chan ViewerEvent, 16),
	}

	s.registerCh <- handle
	return handle
}

// UnregisterViewer removes a viewer from the server.
func (s *Server) UnregisterViewer(viewerID int) {
	s.unregisterCh <- viewerID
}

// GetSnapshot returns the latest snapshot.
func (s *Server) GetSnapshot() *Snapshot {
	return s.snapshot.Load()
}

// processRegistrations handles pending viewer registrations/unregistrations.
func (s *Server) processRegistrations() {
	for {
		select {
		case handle := <-s.registerCh:
			s.mu.Lock()
			s.viewers[handle.ID] = handle
			s.mu.Unlock()
			s.logger.Debug("viewer joined", "id", handle.ID, "name", handle.Name)
			if s.coord.Finished() {
				trySend(handle, ViewerEvent{Type: EventRunFinished})
			}
		case viewerID := <-s.unregisterCh:
			s.mu.Lock()
			if handle, ok := s.viewers[viewerID]; ok {
				close(handle.EventsCh)
				delete(s.viewers, viewerID)
			}
			s.mu.Unlock()
		default:
			return
		}
	}
}

func (s *Server) broadcast(ev ViewerEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, handle := range s.viewers {
		trySend(handle, ev)
	}
}

func trySend(handle *ViewerHandle, ev ViewerEvent) {
	select {
	case handle.EventsCh <- ev:
	default:
	}
}

// createSnapshot publishes an immutable copy of the current state.
func (s *Server) createSnapshot() {
	slots := s.coord.Slots()
	views := make([]SlotSnapshot, len(slots))
	for i, slot := range slots {
		views[i] = SlotSnapshot{
			SlotView:    slot.View(),
			Lane:        laneX(i, len(slots)),
			Overlapping: s.collider.Overlapping(s.bodies[i]),
		}
	}

	s.mu.RLock()
	viewers := len(s.viewers)
	s.mu.RUnlock()

	snap := &Snapshot{
		Slots:         views,
		Display:       s.label.Text(),
		Collisions:    s.tally.Current(),
		Cycle:         s.coord.Cycles(),
		Respawned:     s.coord.Respawned(),
		TotalExpected: s.coord.Aggregator().TotalExpected(),
		Buckets:       s.coord.Aggregator().Buckets(),
		TravelLimit:   s.coord.TravelLimit(),
		Finished:      s.coord.Finished(),
		ReportSent:    reportSent(s.reporter),
		Viewers:       viewers,
		Elapsed:       s.elapsed,
	}
	s.snapshot.Store(snap)
}

// reportSent reports the sent flag of reporters that expose one.
func reportSent(r Reporter) bool {
	if sr, ok := r.(interface{ Sent() bool }); ok {
		return sr.Sent()
	}
	return false
}

// multiDisplay fans text out to several sinks, skipping nil ones.
type multiDisplay []object.Display

func (m multiDisplay) SetText(text string) {
	for _, d := range m {
		if d != nil {
			d.SetText(text)
		}
	}
}
