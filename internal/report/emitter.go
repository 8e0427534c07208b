// Package report delivers the end-of-run summary to a remote endpoint.
package report

//go:generate go tool mockgen -destination=./mocks/transport_mock.go -package=mocks . Transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// ErrStatus is returned by transports for non-2xx responses.
var ErrStatus = errors.New("unexpected response status")

// Request is a single outbound call.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Transport performs one request and returns the response status code.
type Transport interface {
	Do(ctx context.Context, req Request) (int, error)
}

// Summary is the simulation state a report is built from.
type Summary struct {
	Collisions  int
	Display     string // Display projection of Collisions, e.g. "Collisions: 3"
	Capacity    int    // maxTurns * slot count
	FirstThird  int
	SecondThird int
	ThirdThird  int
}

// Payload is the JSON body sent to the endpoint.
type Payload struct {
	Date                  time.Time `json:"date"`
	Collisions            string    `json:"Collisions"`
	TotalKunais           int       `json:"Total Kunais"`
	CollisionsFirstThird  int       `json:"collisionsFirstThird"`
	CollisionsSecondThird int       `json:"collisionsSecondThird"`
	CollisionsThirdThird  int       `json:"collisionsThirdThird"`
}

// Options configures an Emitter.
type Options struct {
	URL     string
	Timeout time.Duration // Zero means no timeout
	Logger  *log.Logger
	Now     func() time.Time
}

// Emitter sends at most one report per run. Send never blocks the caller;
// the request runs on its own goroutine and is never retried.
type Emitter struct {
	transport Transport
	url       string
	timeout   time.Duration
	logger    *log.Logger
	now       func() time.Time
	runID     uuid.UUID

	started atomic.Bool
	sent    atomic.Bool
	done    chan struct{}
}

// NewEmitter creates an emitter posting to opts.URL through t.
func NewEmitter(t Transport, opts Options) *Emitter {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Emitter{
		transport: t,
		url:       opts.URL,
		timeout:   opts.Timeout,
		logger:    logger,
		now:       now,
		runID:     uuid.New(),
		done:      make(chan struct{}),
	}
}

// NewPayload builds the report body for s at time now.
func NewPayload(s Summary, now time.Time) Payload {
	display := s.Display
	if display == "" {
		display = fmt.Sprintf("Collisions: %d", s.Collisions)
	}
	return Payload{
		Date:                  now,
		Collisions:            display,
		TotalKunais:           s.Capacity,
		CollisionsFirstThird:  s.FirstThird,
		CollisionsSecondThird: s.SecondThird,
		CollisionsThirdThird:  s.ThirdThird,
	}
}

// Send starts the single report attempt. Later calls are no-ops.
func (e *Emitter) Send(s Summary) {
	if e.sent.Load() || !e.started.CompareAndSwap(false, true) {
		return
	}
	req, err := e.buildRequest(s)
	if err != nil {
		e.logger.Error("build report", "err", err)
		e.settle()
		return
	}
	go e.deliver(req)
}

func (e *Emitter) buildRequest(s Summary) (Request, error) {
	body, err := json.Marshal(NewPayload(s, e.now()))
	if err != nil {
		return Request{}, fmt.Errorf("marshal payload: %w", err)
	}
	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	header.Set("X-Run-ID", e.runID.String())
	return Request{
		Method: http.MethodPost,
		URL:    e.url,
		Header: header,
		Body:   body,
	}, nil
}

func (e *Emitter) deliver(req Request) {
	defer e.settle()

	ctx := context.Background()
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	status, err := e.transport.Do(ctx, req)
	if err != nil {
		e.logger.Error("report not delivered", "url", req.URL, "status", status, "err", err)
		return
	}
	e.logger.Info("report delivered", "url", req.URL, "status", status, "run", e.runID)
}

// settle marks the attempt finished, successful or not.
func (e *Emitter) settle() {
	e.sent.Store(true)
	close(e.done)
}

// Sent reports whether the single attempt has completed.
func (e *Emitter) Sent() bool {
	return e.sent.Load()
}

// Started reports whether Send has been called.
func (e *Emitter) Started() bool {
	return e.started.Load()
}

// Done is closed once the attempt has completed.
func (e *Emitter) Done() <-chan struct{} {
	return e.done
}

// RunID identifies this run in the X-Run-ID header.
func (e *Emitter) RunID() uuid.UUID {
	return e.runID
}
