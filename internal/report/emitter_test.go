package report_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"go.uber.org/mock/gomock"

	"github.com/tomz197/kunai/internal/report"
	"github.com/tomz197/kunai/internal/report/mocks"
)

var fixedNow = time.Date(2025, 4, 12, 10, 30, 0, 0, time.UTC)

func newEmitter(tr report.Transport) *report.Emitter {
	return report.NewEmitter(tr, report.Options{
		URL:    "http://receiver.test/submit_game_data",
		Logger: log.New(io.Discard),
		Now:    func() time.Time { return fixedNow },
	})
}

func waitDone(t *testing.T, e *report.Emitter) {
	t.Helper()
	select {
	case <-e.Done():
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the report attempt")
	}
}

func TestEmitter_SendTwiceCallsTransportOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := mocks.NewMockTransport(ctrl)
	tr.EXPECT().Do(gomock.Any(), gomock.Any()).Return(http.StatusOK, nil).Times(1)

	e := newEmitter(tr)
	e.Send(report.Summary{Collisions: 2, Capacity: 20})
	e.Send(report.Summary{Collisions: 2, Capacity: 20})
	waitDone(t, e)
	e.Send(report.Summary{Collisions: 3, Capacity: 20})

	if !e.Sent() {
		t.Fatal("emitter should be marked sent")
	}
}

func TestEmitter_FailureStillMarksSent(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := mocks.NewMockTransport(ctrl)
	tr.EXPECT().Do(gomock.Any(), gomock.Any()).Return(0, errors.New("connection refused")).Times(1)

	e := newEmitter(tr)
	e.Send(report.Summary{})
	waitDone(t, e)

	if !e.Sent() {
		t.Fatal("failed attempt must still mark the emitter sent")
	}
	e.Send(report.Summary{})
}

func TestEmitter_PayloadAndHeaders(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := mocks.NewMockTransport(ctrl)

	var got report.Request
	tr.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req report.Request) (int, error) {
			got = req
			return http.StatusOK, nil
		}).Times(1)

	e := newEmitter(tr)
	e.Send(report.Summary{
		Collisions:  7,
		Display:     "Collisions: 7",
		Capacity:    20,
		FirstThird:  9,
		SecondThird: 0,
		ThirdThird:  0,
	})
	waitDone(t, e)

	if got.Method != http.MethodPost {
		t.Fatalf("expected POST, got %s", got.Method)
	}
	if got.URL != "http://receiver.test/submit_game_data" {
		t.Fatalf("unexpected url %s", got.URL)
	}
	if ct := got.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if id := got.Header.Get("X-Run-ID"); id != e.RunID().String() {
		t.Fatalf("run id header %q, want %q", id, e.RunID())
	}

	var body map[string]any
	if err := json.Unmarshal(got.Body, &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	want := map[string]any{
		"date":                  "2025-04-12T10:30:00Z",
		"Collisions":            "Collisions: 7",
		"Total Kunais":          float64(20),
		"collisionsFirstThird":  float64(9),
		"collisionsSecondThird": float64(0),
		"collisionsThirdThird":  float64(0),
	}
	for k, v := range want {
		if body[k] != v {
			t.Errorf("%s: got %v, want %v", k, body[k], v)
		}
	}
	if len(body) != len(want) {
		t.Errorf("unexpected payload keys: %v", body)
	}
}

func TestEmitter_SendDoesNotBlock(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := mocks.NewMockTransport(ctrl)
	release := make(chan struct{})
	tr.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, report.Request) (int, error) {
			<-release
			return http.StatusOK, nil
		}).Times(1)

	e := newEmitter(tr)
	returned := make(chan struct{})
	go func() {
		e.Send(report.Summary{})
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Send blocked on the transport")
	}
	if e.Sent() {
		t.Fatal("sent must not settle before the transport returns")
	}
	if !e.Started() {
		t.Fatal("emitter should report the attempt as started")
	}
	e.Send(report.Summary{})

	close(release)
	waitDone(t, e)
}

func TestNewPayload_DefaultsDisplay(t *testing.T) {
	p := report.NewPayload(report.Summary{Collisions: 0, Capacity: 4}, fixedNow)
	if p.Collisions != "Collisions: 0" {
		t.Fatalf("unexpected display %q", p.Collisions)
	}
	if p.TotalKunais != 4 {
		t.Fatalf("unexpected capacity %d", p.TotalKunais)
	}
}

func TestHTTPTransport_Do(t *testing.T) {
	seen := make(chan *http.Request, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Clone(context.Background())
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	status, err := report.NewHTTPTransport(srv.Client()).Do(context.Background(), report.Request{
		Method: http.MethodPost,
		URL:    srv.URL,
		Header: header,
		Body:   []byte(`{}`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	r := <-seen
	if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
		t.Fatalf("server saw %s with content type %q", r.Method, r.Header.Get("Content-Type"))
	}
}

func TestHTTPTransport_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	status, err := report.NewHTTPTransport(nil).Do(context.Background(), report.Request{
		Method: http.MethodPost,
		URL:    srv.URL,
	})
	if !errors.Is(err, report.ErrStatus) {
		t.Fatalf("expected ErrStatus, got %v", err)
	}
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
}

func TestEmitter_DeliversOverHTTP(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	e := report.NewEmitter(report.NewHTTPTransport(srv.Client()), report.Options{
		URL:     srv.URL + "/submit_game_data",
		Timeout: time.Second,
		Logger:  log.New(io.Discard),
	})
	e.Send(report.Summary{})
	e.Send(report.Summary{})
	waitDone(t, e)

	if n := hits.Load(); n != 1 {
		t.Fatalf("expected one request, got %d", n)
	}
}
