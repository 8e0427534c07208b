package server

import (
	"testing"

	"pgregory.net/rapid"
)

func TestAggregator_Thirds(t *testing.T) {
	// 4 slots x 5 turns: thresholds 6.67 and 13.33
	a := NewAggregator(20, BucketAbsolute)
	if a.TotalExpected() != 20 {
		t.Fatalf("expected 20 cycles, got %d", a.TotalExpected())
	}

	a.Record(3, 5)
	a.Record(10, 7)
	a.Record(18, 11)

	want := Buckets{FirstThird: 5, SecondThird: 7, ThirdThird: 11}
	if got := a.Buckets(); got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestAggregator_ThresholdBoundaries(t *testing.T) {
	// 9 cycles: thresholds exactly 3 and 6
	a := NewAggregator(9, BucketAbsolute)
	a.Record(3, 1)
	a.Record(4, 10)
	a.Record(6, 100)
	a.Record(7, 1000)

	want := Buckets{FirstThird: 1, SecondThird: 110, ThirdThird: 1000}
	if got := a.Buckets(); got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestAggregator_AbsoluteCountsAgain(t *testing.T) {
	a := NewAggregator(3, BucketAbsolute)
	a.Record(0, 2)
	a.Record(1, 2)
	if got := a.Buckets().FirstThird; got != 4 {
		t.Fatalf("absolute mode should add the running tally twice, got %d", got)
	}
}

func TestAggregator_DeltaMode(t *testing.T) {
	a := NewAggregator(3, BucketDelta)
	a.Record(0, 2)
	a.Record(1, 5)
	a.Record(2, 5)
	a.Record(3, 9)

	want := Buckets{FirstThird: 5, SecondThird: 0, ThirdThird: 4}
	if got := a.Buckets(); got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if a.Buckets().Sum() != 9 {
		t.Fatalf("delta buckets should sum to the final tally, got %d", a.Buckets().Sum())
	}
}

func TestAggregator_SumEqualsRecorded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := rapid.IntRange(0, 60).Draw(t, "total")
		mode := BucketMode(rapid.IntRange(0, 1).Draw(t, "mode"))
		a := NewAggregator(total, mode)

		sum := 0
		count := 0
		cycles := rapid.IntRange(0, 40).Draw(t, "cycles")
		for i := 0; i < cycles; i++ {
			count += rapid.IntRange(0, 5).Draw(t, "collisions")
			a.Record(i, count)
			if mode == BucketAbsolute {
				sum += count
			}
		}
		if mode == BucketDelta {
			sum = count
		}

		if got := a.Buckets().Sum(); got != sum {
			t.Fatalf("buckets sum %d, recorded %d", got, sum)
		}
		if a.Recorded() != sum {
			t.Fatalf("recorded %d, want %d", a.Recorded(), sum)
		}
	})
}

func TestParseBucketMode(t *testing.T) {
	if ParseBucketMode("delta") != BucketDelta {
		t.Fatal("delta should map to BucketDelta")
	}
	for _, name := range []string{"absolute", "", "other"} {
		if ParseBucketMode(name) != BucketAbsolute {
			t.Fatalf("%q should map to BucketAbsolute", name)
		}
	}
}
