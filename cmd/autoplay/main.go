// Command autoplay drives a running game server through its REST API, playing
// both sides until someone wins. Connected browsers watch the game live, which
// makes it handy for demos and soak testing the broadcast path.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/gridduel/game/engine"
)

// Report summarizes one game
type Report struct {
	Winner   engine.Player
	Moves    int
	Rejected int
}

// Player settings for one run
type Player struct {
	Strategies map[engine.Player]Strategy
	MaxMoves   int
	Delay      time.Duration
	Verbose    bool
}

// Play resets the server and plays one game to completion or MaxMoves
func (p *Player) Play(ctx context.Context, client *Client) (Report, error) {
	var report Report

	state, err := client.Reset(ctx)
	if err != nil {
		return report, fmt.Errorf("reset: %w", err)
	}

	for !state.GameOver && report.Moves < p.MaxMoves {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		strategy := p.Strategies[state.CurrentPlayer]
		candidate, ok := strategy.Next(state)
		if !ok {
			log.Printf("⚠️  No legal moves for %s", state.CurrentPlayer)
			break
		}

		result, err := client.Move(ctx, candidate.Request())
		if err != nil {
			return report, err
		}
		if !result.Valid {
			// Someone else moved in between; resync and try again
			report.Rejected++
			if p.Verbose {
				log.Printf("Move %s %v->%v rejected: %s", candidate.Piece, candidate.From, candidate.To, result.Detail)
			}
			if state, err = client.GetState(ctx); err != nil {
				return report, err
			}
			if report.Rejected > p.MaxMoves {
				return report, fmt.Errorf("too many rejected moves")
			}
			continue
		}

		report.Moves++
		state = result.GameState
		if p.Verbose {
			log.Printf("%3d. %s %v->%v (A=%d B=%d)", report.Moves, candidate.Piece, candidate.From, candidate.To,
				state.Board.Count(engine.PlayerA), state.Board.Count(engine.PlayerB))
		}

		if p.Delay > 0 {
			select {
			case <-time.After(p.Delay):
			case <-ctx.Done():
				return report, ctx.Err()
			}
		}
	}

	report.Winner = state.Winner
	return report, nil
}

func newStrategy(name string, seed int64) (Strategy, error) {
	switch name {
	case "greedy":
		return NewGreedyStrategy(seed), nil
	case "random":
		return NewRandomStrategy(seed), nil
	}
	return nil, fmt.Errorf("unknown strategy %q (use greedy or random)", name)
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "autoplay",
		Usage: "Play games against a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Game server URL", Sources: cli.EnvVars("GRIDDUEL_API_URL")},
			&cli.IntFlag{Name: "games", Value: 1, Usage: "Number of games to play"},
			&cli.IntFlag{Name: "max-moves", Value: 200, Usage: "Maximum moves per game"},
			&cli.StringFlag{Name: "a", Value: "greedy", Usage: "Strategy for player A (greedy, random)"},
			&cli.StringFlag{Name: "b", Value: "random", Usage: "Strategy for player B (greedy, random)"},
			&cli.Int64Flag{Name: "seed", Usage: "Random seed (default: current time)"},
			&cli.DurationFlag{Name: "delay", Usage: "Delay between moves"},
			&cli.BoolFlag{Name: "v", Usage: "Verbose output"},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	seed := cmd.Int64("seed")
	if !cmd.IsSet("seed") {
		seed = time.Now().UnixNano()
	}

	strategyA, err := newStrategy(cmd.String("a"), seed)
	if err != nil {
		return err
	}
	strategyB, err := newStrategy(cmd.String("b"), seed+1)
	if err != nil {
		return err
	}

	player := &Player{
		Strategies: map[engine.Player]Strategy{engine.PlayerA: strategyA, engine.PlayerB: strategyB},
		MaxMoves:   cmd.Int("max-moves"),
		Delay:      cmd.Duration("delay"),
		Verbose:    cmd.Bool("v"),
	}

	log.Printf("Connecting to game server at %s", cmd.String("url"))
	client := NewClient(cmd.String("url"))

	wins := map[engine.Player]int{}
	games := cmd.Int("games")
	for i := 1; i <= games; i++ {
		report, err := player.Play(ctx, client)
		if err != nil {
			return fmt.Errorf("game %d: %w", i, err)
		}

		if report.Winner != "" {
			wins[report.Winner]++
			log.Printf("Game %d: %s wins in %d moves", i, report.Winner, report.Moves)
		} else {
			log.Printf("Game %d: no winner after %d moves", i, report.Moves)
		}
	}

	log.Printf("Results over %d games: A=%d B=%d undecided=%d", games, wins[engine.PlayerA], wins[engine.PlayerB],
		games-wins[engine.PlayerA]-wins[engine.PlayerB])
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
