package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/tomz197/kunai/internal/object"
	"github.com/tomz197/kunai/internal/report"
	reportmocks "github.com/tomz197/kunai/internal/report/mocks"
)

const step = 50 * time.Millisecond

func runToFinish(t *testing.T, s *Server) {
	t.Helper()
	for i := 0; i < 10000; i++ {
		select {
		case <-s.Finished():
			return
		default:
		}
		s.Step(step)
	}
	t.Fatal("simulation did not finish")
}

func TestServer_RunsToCompletionAndReportsOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := reportmocks.NewMockTransport(ctrl)
	tr.EXPECT().Do(gomock.Any(), gomock.Any()).Return(http.StatusOK, nil).Times(1)
	emitter := report.NewEmitter(tr, report.Options{URL: "http://receiver.test", Logger: quiet})

	display := object.NewLabel(1, 1, "")
	s := NewServer(Options{
		Slots:    4,
		MaxTurns: 3,
		Seed:     99,
		Reporter: emitter,
		Display:  display,
		Logger:   quiet,
	})
	runToFinish(t, s)
	for i := 0; i < 5; i++ {
		s.Step(step)
	}

	select {
	case <-emitter.Done():
	case <-time.After(time.Second):
		t.Fatal("report was never sent")
	}
	s.Step(step)

	snap := s.GetSnapshot()
	if !snap.Finished || !snap.ReportSent {
		t.Fatalf("snapshot should be finished and sent: %+v", snap)
	}
	if snap.TotalExpected != 12 {
		t.Fatalf("expected 12 total cycles, got %d", snap.TotalExpected)
	}
	if snap.Cycle != 3 {
		t.Fatalf("expected 3 cycles, got %d", snap.Cycle)
	}
	for i, slot := range snap.Slots {
		if slot.Visible || slot.Turns != 3 {
			t.Fatalf("slot %d not spent: %+v", i, slot)
		}
	}
	if snap.Display != FormatCollisions(snap.Collisions) {
		t.Fatalf("display %q does not match count %d", snap.Display, snap.Collisions)
	}
	if display.Text() != snap.Display {
		t.Fatalf("extra display sink got %q, want %q", display.Text(), snap.Display)
	}
	if snap.Collisions == 0 {
		t.Fatal("inner lanes should pass through the collider")
	}
}

func TestServer_LanesAreSpreadOnX(t *testing.T) {
	s := NewServer(Options{Slots: 4, MaxTurns: 1, Seed: 1, Logger: quiet})
	snap := s.GetSnapshot()
	if len(snap.Slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(snap.Slots))
	}
	if snap.Slots[0].Lane != -2.25 || snap.Slots[3].Lane != 2.25 {
		t.Fatalf("unexpected lanes %v .. %v", snap.Slots[0].Lane, snap.Slots[3].Lane)
	}
	if snap.Display != "Collisions: 0" {
		t.Fatalf("unexpected initial display %q", snap.Display)
	}
}

func TestServer_ViewerEvents(t *testing.T) {
	s := NewServer(Options{Slots: 1, MaxTurns: 1, Seed: 3, Logger: quiet})
	h := s.RegisterViewer("alice")
	s.Step(step)

	if s.GetSnapshot().Viewers != 1 {
		t.Fatalf("expected one viewer, got %d", s.GetSnapshot().Viewers)
	}

	runToFinish(t, s)
	select {
	case ev := <-h.EventsCh:
		if ev.Type != EventRunFinished {
			t.Fatalf("expected run finished, got %v", ev.Type)
		}
	default:
		t.Fatal("viewer was not told the run finished")
	}

	late := s.RegisterViewer("bob")
	s.Step(step)
	select {
	case ev := <-late.EventsCh:
		if ev.Type != EventRunFinished {
			t.Fatalf("expected run finished, got %v", ev.Type)
		}
	default:
		t.Fatal("late viewer was not told the run finished")
	}

	s.UnregisterViewer(h.ID)
	s.UnregisterViewer(late.ID)
	s.Step(step)
	if _, ok := <-h.EventsCh; ok {
		t.Fatal("events channel should be closed after unregister")
	}
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	s := NewServer(Options{Slots: 2, MaxTurns: 1, Seed: 5, Logger: quiet})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after context cancel")
	}
}

func TestServer_ShutdownReturnsWithoutViewers(t *testing.T) {
	s := NewServer(Options{Slots: 1, MaxTurns: 1, Seed: 5, Logger: quiet})
	start := time.Now()
	s.Shutdown(2 * time.Second)
	if time.Since(start) > time.Second {
		t.Fatal("Shutdown should return as soon as no viewers remain")
	}
}
