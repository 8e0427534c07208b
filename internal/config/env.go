// Package config provides runtime settings loaded from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ErrInvalid reports a setting that parsed but cannot be used.
var ErrInvalid = errors.New("invalid setting")

// Bucket modes accepted by KUNAI_BUCKET_MODE.
const (
	BucketModeAbsolute = "absolute"
	BucketModeDelta    = "delta"
)

// Settings holds everything the commands read from the environment.
// Simulation packages receive plain values and never read the environment.
type Settings struct {
	Slots         int           `env:"KUNAI_SLOTS"          envDefault:"4"`
	MaxTurns      int           `env:"KUNAI_MAX_TURNS"      envDefault:"5"`
	Seed          int64         `env:"KUNAI_SEED"`
	ReportURL     string        `env:"KUNAI_REPORT_URL"     envDefault:"http://localhost:9000/submit_game_data"`
	ReportTimeout time.Duration `env:"KUNAI_REPORT_TIMEOUT" envDefault:"10s"`
	BucketMode    string        `env:"KUNAI_BUCKET_MODE"    envDefault:"absolute"`
	LogLevel      string        `env:"KUNAI_LOG_LEVEL"      envDefault:"info"`

	SSHHost    string `env:"SSH_HOST"     envDefault:"::"`
	SSHPort    string `env:"SSH_PORT"     envDefault:"2222"`
	SSHHostKey string `env:"SSH_HOST_KEY" envDefault:"/app/keys/host_key"`

	ReceiverHost   string `env:"RECEIVER_HOST"   envDefault:"0.0.0.0"`
	ReceiverPort   string `env:"RECEIVER_PORT"   envDefault:"9000"`
	ReceiverOutput string `env:"RECEIVER_OUTPUT" envDefault:"received_game_data.json"`
}

// Load parses Settings from the environment and validates them.
func Load() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the settings that env parsing cannot.
// Zero slots or turns are allowed: the run finishes immediately.
func (s Settings) Validate() error {
	if s.Slots < 0 {
		return fmt.Errorf("%w: KUNAI_SLOTS must not be negative, got %d", ErrInvalid, s.Slots)
	}
	if s.MaxTurns < 0 {
		return fmt.Errorf("%w: KUNAI_MAX_TURNS must not be negative, got %d", ErrInvalid, s.MaxTurns)
	}
	switch s.BucketMode {
	case BucketModeAbsolute, BucketModeDelta:
	default:
		return fmt.Errorf("%w: KUNAI_BUCKET_MODE must be %q or %q, got %q",
			ErrInvalid, BucketModeAbsolute, BucketModeDelta, s.BucketMode)
	}
	return nil
}
