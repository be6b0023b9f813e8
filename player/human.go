package player

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/slices"

	"stuckfish/experiments/metrics"
	"stuckfish/game"
)

type humanPlayer struct {
	side  game.Side
	in    io.Reader
	out   io.Writer
	once  sync.Once
	lines chan string
	err   error // Set before lines is closed
}

// NewHuman returns a player that reads moves in UCI notation (e2e4, e7e8q) from in.
// "?" or "moves" lists the legal moves, "quit" or "resign" gives up the game.
func NewHuman(side game.Side, in io.Reader, out io.Writer) Player {
	return &humanPlayer{
		side:  side,
		in:    in,
		out:   out,
		lines: make(chan string),
	}
}

// read scans input lines in the background so a blocked read never outlives ctx.
func (p *humanPlayer) read() {
	defer close(p.lines)
	scanner := bufio.NewScanner(p.in)
	for scanner.Scan() {
		p.lines <- scanner.Text()
	}
	p.err = scanner.Err()
}

func (p *humanPlayer) next(ctx context.Context) (string, error) {
	p.once.Do(func() { go p.read() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-p.lines:
		if !ok {
			if p.err != nil {
				return "", fmt.Errorf("read move: %w", p.err)
			}
			return "", io.EOF
		}
		return line, nil
	}
}

func (p *humanPlayer) Name() string {
	return HumanPlayer
}

func (p *humanPlayer) Side() game.Side {
	return p.side
}

func (p *humanPlayer) ChooseMove(ctx context.Context, state game.State) (game.Move, metrics.SearchMetric, error) {
	start := time.Now()
	moves := state.LegalMoves(p.side)
	if len(moves) == 0 {
		return nil, metrics.SearchMetric{StopReason: metrics.StopNoMoves}, ErrNoLegalMoves
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, metrics.SearchMetric{StopReason: metrics.StopInterrupt}, err
		}

		fmt.Fprintf(p.out, "%s to move: ", p.side)
		line, err := p.next(ctx)
		if errors.Is(err, io.EOF) {
			return nil, metrics.SearchMetric{}, ErrResigned // Input closed
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, metrics.SearchMetric{StopReason: metrics.StopInterrupt}, err
			}
			return nil, metrics.SearchMetric{}, err
		}

		input := strings.ToLower(strings.TrimSpace(line))
		switch input {
		case "":
			continue
		case "?", "moves":
			fmt.Fprintf(p.out, "Legal moves: %s\n", strings.Join(moveNames(moves), " "))
			continue
		case "quit", "resign":
			return nil, metrics.SearchMetric{}, ErrResigned
		}

		for _, move := range moves {
			if move.String() == input {
				return move, metrics.SearchMetric{Duration: time.Since(start)}, nil
			}
		}
		fmt.Fprintf(p.out, "Illegal move %q, type ? to list legal moves\n", input)
	}
}

func moveNames(moves []game.Move) []string {
	names := make([]string, len(moves))
	for i, m := range moves {
		names[i] = m.String()
	}
	slices.Sort(names)
	return names
}
