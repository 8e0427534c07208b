// Package client shows a running simulation to one terminal viewer.
package client

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/tomz197/kunai/internal/draw"
	"github.com/tomz197/kunai/internal/input"
	"github.com/tomz197/kunai/internal/loop/config"
	"github.com/tomz197/kunai/internal/loop/server"
)

// Viewer renders snapshots for a single connection.
type Viewer struct {
	server       server.SimServer
	handle       *server.ViewerHandle
	state        *ViewerState
	chunkWriter  *draw.ChunkWriter
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
}

// ViewerOptions configures the viewer.
type ViewerOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Name         string
}

// NewViewer creates a viewer registered with the given server.
func NewViewer(ss server.SimServer, r *bufio.Reader, w io.Writer, opts ViewerOptions) *Viewer {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}

	return &Viewer{
		server:       ss,
		handle:       ss.RegisterViewer(opts.Name),
		state:        NewViewerState(),
		chunkWriter:  draw.NewChunkWriter(w),
		writer:       w,
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
	}
}

// Run starts the viewer loop. Blocks until the viewer quits, the server
// closes the connection, or ctx is cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	draw.HideCursor(v.writer)
	defer draw.ShowCursor(v.writer)
	draw.ClearScreen(v.writer)

	lastTime := time.Now()

	for v.state.Running {
		select {
		case <-ctx.Done():
			v.state.Running = false
			continue
		default:
		}

		frameStart := time.Now()
		v.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		v.processInput()
		v.processServerEvents()
		v.updateScreen()

		if v.state.Phase == PhaseShutdown {
			v.updateShutdownState()
		}

		if err := v.drawFrame(); err != nil {
			v.server.UnregisterViewer(v.handle.ID)
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	v.server.UnregisterViewer(v.handle.ID)

	draw.ClearScreen(v.writer)
	return nil
}

// processInput stops the viewer on a quit key or a closed input stream.
func (v *Viewer) processInput() {
	in := input.ReadInput(v.inputStream)
	if in.Quit || in.Closed {
		v.state.Running = false
	}
}

// processServerEvents handles events from the server.
func (v *Viewer) processServerEvents() {
	for {
		select {
		case event, ok := <-v.handle.EventsCh:
			if !ok {
				// Server closed the channel
				v.state.Running = false
				return
			}
			switch event.Type {
			case server.EventRunFinished:
				if v.state.Phase == PhaseWatching {
					v.state.Phase = PhaseFinished
				}
			case server.EventServerShutdown:
				v.state.Phase = PhaseShutdown
				v.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen tracks the terminal size; a change forces a full clear.
func (v *Viewer) updateScreen() {
	width, height, err := v.termSizeFunc()
	if err != nil || width <= 0 || height <= 0 {
		return
	}
	if width != v.state.width || height != v.state.height {
		v.chunkWriter.WriteString("\033[H\033[2J")
	}
	v.state.width = width
	v.state.height = height
}

// updateShutdownState handles the shutdown screen countdown.
func (v *Viewer) updateShutdownState() {
	v.state.shutdownTimer -= v.state.delta.Seconds()
	if v.state.shutdownTimer <= 0 {
		v.state.Running = false
	}
}
