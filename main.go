package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"

	"stuckfish/config"
	"stuckfish/display"
	"stuckfish/experiments"
	"stuckfish/player"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	fs := flag.NewFlagSet("stuckfish", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: stuckfish [flags] <white> <black>\n\nPlayers: %s\n\nFlags:\n", strings.Join(player.Names(), ", "))
		fs.PrintDefaults()
	}
	cfg.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	level, _ := cfg.Level()
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()

	white, black := fs.Arg(0), fs.Arg(1)
	if !slices.Contains(player.Names(), white) {
		fmt.Fprintf(stdout, "White player %s not found!\n", white)
		return 1
	}
	if !slices.Contains(player.Names(), black) {
		fmt.Fprintf(stdout, "Black player %s not found!\n", black)
		return 1
	}

	series := experiments.Series{
		White:    white,
		Black:    black,
		Games:    cfg.Games,
		FEN:      cfg.FEN,
		MaxTurns: cfg.MaxTurns,
		Seed:     cfg.Seed,
		Search:   cfg.SearchOptions(),
		Players:  player.Options{In: stdin, Out: stdout},
		Renderer: display.NewRenderer(stdout, cfg.NoColor),
	}
	gameRecords, moveRecords, summary, err := experiments.Run(ctx, series)
	if err != nil {
		log.Error().Err(err).Msg("series aborted")
		return 1
	}

	if summary.Games == 1 {
		fmt.Fprintf(stdout, "Result: %s (%s)\n", gameRecords[0].Outcome, gameRecords[0].Method)
	} else {
		fmt.Fprintf(stdout, "White wins: %d, Black wins: %d, Draws: %d, Unfinished: %d\n",
			summary.WhiteWins, summary.BlackWins, summary.Draws, summary.Unfinished)
	}

	if cfg.RecordDir != "" {
		dir, err := experiments.Record(cfg.RecordDir, gameRecords, moveRecords)
		if err != nil {
			log.Error().Err(err).Msg("failed to write records")
			return 1
		}
		log.Info().Str("dir", dir).Msg("records written")
	}
	return 0
}
