package server

//go:generate go tool mockgen -destination=./mocks/reporter_mock.go -package=mocks . Reporter

import (
	"github.com/charmbracelet/log"

	"github.com/tomz197/kunai/internal/loop/config"
	"github.com/tomz197/kunai/internal/object"
	"github.com/tomz197/kunai/internal/report"
)

// Counter exposes the running collision count.
type Counter interface {
	Current() int
}

// Reporter receives the end-of-run summary. Send is called on every tick
// after the run finishes and must be idempotent.
type Reporter interface {
	Send(s report.Summary)
}

// CoordinatorOptions configures a Coordinator. Zero values pick defaults.
type CoordinatorOptions struct {
	MaxTurns    int
	TravelLimit float64 // Defaults to config.TravelLimit
	Counter     Counter // Nil skips aggregation for every cycle
	Aggregator  *Aggregator
	Reporter    Reporter
	Logger      *log.Logger
}

// Coordinator advances every slot each tick, closes a cycle once every slot
// has respawned since the last one, and reports once all slots are spent.
type Coordinator struct {
	slots       []*object.Slot
	maxTurns    int
	travelLimit float64
	respawned   int // Respawns since the last completed cycle
	cycles      int
	finished    bool

	counter    Counter
	aggregator *Aggregator
	reporter   Reporter
	logger     *log.Logger
}

// NewCoordinator creates a coordinator owning slots.
func NewCoordinator(slots []*object.Slot, opts CoordinatorOptions) *Coordinator {
	travelLimit := opts.TravelLimit
	if travelLimit == 0 {
		travelLimit = config.TravelLimit
	}
	agg := opts.Aggregator
	if agg == nil {
		agg = NewAggregator(opts.MaxTurns*len(slots), BucketAbsolute)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Coordinator{
		slots:       slots,
		maxTurns:    opts.MaxTurns,
		travelLimit: travelLimit,
		counter:     opts.Counter,
		aggregator:  agg,
		reporter:    opts.Reporter,
		logger:      logger,
	}
}

// Tick advances the simulation by dt seconds.
func (c *Coordinator) Tick(dt float64) {
	for _, s := range c.slots {
		if !s.Advance(dt, c.travelLimit) {
			continue
		}
		c.respawned++
		if c.respawned == len(c.slots) {
			c.completeCycle()
		}
	}

	if !c.allInactive() {
		return
	}
	if !c.finished {
		c.finished = true
		c.logger.Info("all cycles complete", "cycles", c.cycles, "collisions", c.collisions())
	}
	if c.reporter != nil {
		c.reporter.Send(c.Summary())
	}
}

// completeCycle records the tally for the cycle that just closed.
func (c *Coordinator) completeCycle() {
	if c.counter != nil {
		c.aggregator.Record(c.cycles, c.counter.Current())
	} else {
		c.logger.Warn("no collision count, cycle not aggregated", "cycle", c.cycles)
	}
	c.logger.Info("cycle complete", "cycle", c.cycles)
	c.cycles++
	c.respawned = 0
}

func (c *Coordinator) allInactive() bool {
	for _, s := range c.slots {
		if s.Visible() {
			return false
		}
	}
	return true
}

func (c *Coordinator) collisions() int {
	if c.counter == nil {
		return 0
	}
	return c.counter.Current()
}

// Summary returns the report built from the current state.
func (c *Coordinator) Summary() report.Summary {
	b := c.aggregator.Buckets()
	n := c.collisions()
	return report.Summary{
		Collisions:  n,
		Display:     FormatCollisions(n),
		Capacity:    c.Capacity(),
		FirstThird:  b.FirstThird,
		SecondThird: b.SecondThird,
		ThirdThird:  b.ThirdThird,
	}
}

// Capacity is the total number of turns the population can make.
func (c *Coordinator) Capacity() int {
	return c.maxTurns * len(c.slots)
}

// Slots returns the owned slots. Inactive slots stay addressable.
func (c *Coordinator) Slots() []*object.Slot { return c.slots }

// Respawned returns the respawns counted toward the open cycle.
func (c *Coordinator) Respawned() int { return c.respawned }

// Cycles returns the number of completed cycles.
func (c *Coordinator) Cycles() int { return c.cycles }

// Finished reports whether every slot is inactive.
func (c *Coordinator) Finished() bool { return c.finished }

// Aggregator returns the bucket aggregator.
func (c *Coordinator) Aggregator() *Aggregator { return c.aggregator }

// TravelLimit returns the z distance slots park at.
func (c *Coordinator) TravelLimit() float64 { return c.travelLimit }
