package server

// BucketMode selects what a completed cycle adds to its bucket.
type BucketMode int

const (
	// BucketAbsolute adds the running collision tally at cycle end.
	// Earlier collisions are counted again by every later cycle.
	BucketAbsolute BucketMode = iota
	// BucketDelta adds only the collisions since the previous cycle.
	BucketDelta
)

// ParseBucketMode maps a settings name to a mode. Anything other than
// "delta" selects BucketAbsolute.
func ParseBucketMode(name string) BucketMode {
	if name == "delta" {
		return BucketDelta
	}
	return BucketAbsolute
}

// Buckets are the three cumulative collision totals.
type Buckets struct {
	FirstThird  int
	SecondThird int
	ThirdThird  int
}

// Sum returns the total across all buckets.
func (b Buckets) Sum() int {
	return b.FirstThird + b.SecondThird + b.ThirdThird
}

// Aggregator classifies completed cycles into thirds of the expected run.
type Aggregator struct {
	totalExpected int
	mode          BucketMode
	buckets       Buckets
	last          int // Tally at the previous record, for BucketDelta
	recorded      int // Sum of every value added
}

// NewAggregator creates an aggregator for totalExpected cycles (maxTurns * slots).
func NewAggregator(totalExpected int, mode BucketMode) *Aggregator {
	return &Aggregator{totalExpected: totalExpected, mode: mode}
}

// Record adds the collision count for the cycle at cycleIndex to one bucket.
func (a *Aggregator) Record(cycleIndex, count int) {
	value := count
	if a.mode == BucketDelta {
		value = count - a.last
		a.last = count
	}

	first := float64(a.totalExpected) / 3
	second := 2 * float64(a.totalExpected) / 3
	idx := float64(cycleIndex)

	switch {
	case idx <= first:
		a.buckets.FirstThird += value
	case idx <= second:
		a.buckets.SecondThird += value
	default:
		a.buckets.ThirdThird += value
	}
	a.recorded += value
}

// Buckets returns the current totals.
func (a *Aggregator) Buckets() Buckets {
	return a.buckets
}

// Recorded returns the sum of every value passed to a bucket.
func (a *Aggregator) Recorded() int {
	return a.recorded
}

// TotalExpected returns the cycle count the thresholds are computed from.
func (a *Aggregator) TotalExpected() int {
	return a.totalExpected
}
