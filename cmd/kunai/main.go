package main

import (
	"bufio"
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/kunai/internal/config"
	"github.com/tomz197/kunai/internal/loop"
	loopconfig "github.com/tomz197/kunai/internal/loop/config"
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
		Prefix:          "kunai",
	})
	if level, err := log.ParseLevel(settings.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	emitter := report.NewEmitter(
		report.NewHTTPTransport(&http.Client{Timeout: settings.ReportTimeout}),
		report.Options{
			URL:     settings.ReportURL,
			Timeout: settings.ReportTimeout,
			Logger:  logger.WithPrefix("report"),
		},
	)

	srv := server.NewServer(server.Options{
		Slots:      settings.Slots,
		MaxTurns:   settings.MaxTurns,
		Seed:       settings.Seed,
		BucketMode: server.ParseBucketMode(settings.BucketMode),
		Reporter:   emitter,
		Logger:     logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := loop.Options{
		Server:     srv,
		ReportDone: emitter.Done(),
		Logger:     logger,
	}

	// Only draw the panel when attached to a terminal; otherwise log only.
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) && term.IsTerminal(int(os.Stdout.Fd())) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			logger.Fatal("failed to enable raw mode", "err", err)
		}
		defer func() {
			_ = term.Restore(fd, oldState)
		}()
		// The panel owns the screen; keep logs quiet below warnings.
		logger.SetLevel(max(logger.GetLevel(), log.WarnLevel))

		opts.Input = bufio.NewReader(os.Stdin)
		opts.Output = os.Stdout
		opts.Linger = time.Duration(loopconfig.ReportLingerSeconds * float64(time.Second))
	}

	logger.Info("starting run", "run", emitter.RunID(), "url", settings.ReportURL)
	if err := loop.Run(ctx, opts); err != nil {
		logger.Error("run error", "err", err)
		os.Exit(1)
	}
}
