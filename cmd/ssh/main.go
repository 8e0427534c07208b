package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/kunai/internal/config"
	"github.com/tomz197/kunai/internal/draw"
	"github.com/tomz197/kunai/internal/loop/client"
	"github.com/tomz197/kunai/internal/loop/server"
	"github.com/tomz197/kunai/internal/report"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ssh",
	})
	if level, err := log.ParseLevel(settings.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	logger.Info("SSH config", "host", settings.SSHHost, "port", settings.SSHPort, "hostKeyPath", settings.SSHHostKey)

	emitter := report.NewEmitter(
		report.NewHTTPTransport(&http.Client{Timeout: settings.ReportTimeout}),
		report.Options{
			URL:     settings.ReportURL,
			Timeout: settings.ReportTimeout,
			Logger:  logger.WithPrefix("report"),
		},
	)

	// One simulation shared by every SSH viewer
	sim := server.NewServer(server.Options{
		Slots:      settings.Slots,
		MaxTurns:   settings.MaxTurns,
		Seed:       settings.Seed,
		BucketMode: server.ParseBucketMode(settings.BucketMode),
		Reporter:   emitter,
		Logger:     logger.WithPrefix("sim"),
	})

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(settings.SSHHost, settings.SSHPort)),
		wish.WithMiddleware(
			viewerMiddleware(sim, logger),
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.DebugLevel),
		),
		// Set TCP_NODELAY so key presses reach the viewer promptly
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if settings.SSHHostKey != "" {
		opts = append(opts, wish.WithHostKeyPath(settings.SSHHostKey))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	simCtx, cancelSim := context.WithCancel(context.Background())
	defer cancelSim()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sim.Run(simCtx)
		return nil
	})

	g.Go(func() error {
		logger.Info("starting SSH server", "addr", s.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("ssh server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		// Notify viewers and wait for them to disconnect
		sim.Shutdown(15 * time.Second)
		cancelSim()
		logger.Info("simulation stopped")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("ssh shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

// viewerMiddleware attaches a status viewer to each SSH session.
func viewerMiddleware(sim server.SimServer, logger *log.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			logger.Info("new viewer session", "user", sess.User(), "term", pty.Term,
				"width", pty.Window.Width, "height", pty.Window.Height)

			// Track terminal size from window change events
			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			v := client.NewViewer(sim, bufio.NewReader(sess), sess, client.ViewerOptions{
				TermSizeFunc: sizeTracker.getSize,
				Name:         sess.User(),
			})
			if err := v.Run(sess.Context()); err != nil {
				logger.Warn("viewer error", "user", sess.User(), "err", err)
			}

			logger.Info("session ended", "user", sess.User())
			next(sess)
		}
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
