package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"stuckfish/searcher"
)

// Config holds every tunable of a stuckfish run. Environment variables provide the
// defaults, command line flags override them.
type Config struct {
	Simulations  int           `env:"STUCKFISH_SIMULATIONS"   envDefault:"1000"`
	Exploration  float64       `env:"STUCKFISH_EXPLORATION"   envDefault:"1.4142135623730951"`
	Seed         uint64        `env:"STUCKFISH_SEED"          envDefault:"0"` // 0 seeds from the clock
	RolloutLimit int           `env:"STUCKFISH_ROLLOUT_LIMIT" envDefault:"0"`
	Duration     time.Duration `env:"STUCKFISH_DURATION"` // Per move, 0 means unbounded
	MaxTurns     int           `env:"STUCKFISH_MAX_TURNS"     envDefault:"500"`
	Games        int           `env:"STUCKFISH_GAMES"         envDefault:"1"`
	RecordDir    string        `env:"STUCKFISH_RECORD_DIR"`
	FEN          string        `env:"STUCKFISH_FEN"`
	LogLevel     string        `env:"LOG_LEVEL"               envDefault:"info"`
	NoColor      bool
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// BindFlags registers a flag for every field, using the current values as defaults.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Simulations, "simulations", c.Simulations, "Number of MCTS simulations per move")
	fs.Float64Var(&c.Exploration, "exploration", c.Exploration, "UCT exploration constant")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "Random seed, 0 seeds from the clock")
	fs.IntVar(&c.RolloutLimit, "rollout-limit", c.RolloutLimit, "Maximum plies of a random playout, 0 for no limit")
	fs.DurationVar(&c.Duration, "duration", c.Duration, "Search time per move, 0 for no limit")
	fs.IntVar(&c.MaxTurns, "max-turns", c.MaxTurns, "Maximum number of moves in a game")
	fs.IntVar(&c.Games, "games", c.Games, "Number of games to play")
	fs.StringVar(&c.RecordDir, "record", c.RecordDir, "Directory to write game and move records to")
	fs.StringVar(&c.FEN, "fen", c.FEN, "Starting position in FEN, standard start if empty")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (trace, debug, info, warn, error)")
	fs.BoolVar(&c.NoColor, "no-color", c.NoColor, "Render the board without colours")
}

func (c Config) Validate() error {
	var errs []error
	if c.Simulations <= 0 {
		errs = append(errs, fmt.Errorf("simulations must be positive, got %d", c.Simulations))
	}
	if c.Exploration < 0 {
		errs = append(errs, fmt.Errorf("exploration must not be negative, got %g", c.Exploration))
	}
	if c.RolloutLimit < 0 {
		errs = append(errs, fmt.Errorf("rollout limit must not be negative, got %d", c.RolloutLimit))
	}
	if c.Duration < 0 {
		errs = append(errs, fmt.Errorf("duration must not be negative, got %s", c.Duration))
	}
	if c.MaxTurns <= 0 {
		errs = append(errs, fmt.Errorf("max turns must be positive, got %d", c.MaxTurns))
	}
	if c.Games <= 0 {
		errs = append(errs, fmt.Errorf("games must be positive, got %d", c.Games))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// SearchOptions translates the search settings into searcher options.
func (c Config) SearchOptions() []searcher.Option {
	options := []searcher.Option{
		searcher.WithSimulations(c.Simulations),
		searcher.WithExploration(c.Exploration),
		searcher.WithRolloutLimit(c.RolloutLimit),
	}
	if c.Seed != 0 {
		options = append(options, searcher.WithSeed(c.Seed))
	}
	if c.Duration > 0 {
		options = append(options, searcher.WithDuration(c.Duration))
	}
	return options
}
