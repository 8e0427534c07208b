// Package loop runs a simulation in the local process, optionally with a
// terminal viewer attached.
package loop

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/kunai/internal/draw"
	"github.com/tomz197/kunai/internal/loop/client"
	"github.com/tomz197/kunai/internal/loop/server"
)

// Options configures a local run.
type Options struct {
	Server *server.Server
	// ReportDone is closed once the completion report has settled.
	// Nil means the run does not wait for it.
	ReportDone <-chan struct{}
	// Input and Output attach a viewer. A nil Input runs headless.
	Input        *bufio.Reader
	Output       io.Writer
	TermSizeFunc draw.TermSizeFunc
	// Linger keeps the final state on screen after the report settles.
	Linger time.Duration
	Logger *log.Logger
}

// Run drives the server until the run finishes and its report settles,
// the viewer quits, or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		opts.Server.Run(gctx)
		return nil
	})

	if opts.Input != nil {
		v := client.NewViewer(opts.Server, opts.Input, opts.Output, client.ViewerOptions{
			TermSizeFunc: opts.TermSizeFunc,
			Name:         "local",
		})
		g.Go(func() error {
			defer cancel()
			return v.Run(gctx)
		})
	}

	g.Go(func() error {
		defer cancel()
		awaitCompletion(gctx, opts, logger)
		return nil
	})

	return g.Wait()
}

// awaitCompletion returns once the run finished, the report settled and
// the linger period passed, or when ctx is done.
func awaitCompletion(ctx context.Context, opts Options, logger *log.Logger) {
	select {
	case <-ctx.Done():
		return
	case <-opts.Server.Finished():
	}

	if opts.ReportDone != nil {
		select {
		case <-ctx.Done():
			return
		case <-opts.ReportDone:
		}
	}

	if snap := opts.Server.GetSnapshot(); snap != nil {
		logger.Info("run complete",
			"collisions", snap.Collisions,
			"cycles", snap.Cycle,
			"firstThird", snap.Buckets.FirstThird,
			"secondThird", snap.Buckets.SecondThird,
			"thirdThird", snap.Buckets.ThirdThird,
			"reportSent", snap.ReportSent,
		)
	}

	if opts.Linger <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(opts.Linger):
	}
}
