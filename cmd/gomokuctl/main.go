// Command gomokuctl is a minimal smoke-test harness for the engine package:
// it plays one side against itself (or against stdin coordinates) on a single
// board and prints each chosen move, mirroring morlock's cmd/morlock flag
// style without the UCI/console protocol machinery.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/caroengine/core/internal/board"
	"github.com/caroengine/core/internal/difficulty"
	"github.com/caroengine/core/internal/engine"
	"github.com/caroengine/core/internal/threat"
)

var (
	diffFlag  = flag.String("difficulty", "medium", "AI difficulty: beginner, easy, medium, hard, expert")
	helpers   = flag.Int("helpers", -1, "helper thread override (-1: use difficulty profile)")
	thinkMS   = flag.Int("think-ms", 2000, "time budget per move, in milliseconds")
	selfPlay  = flag.Bool("self-play", true, "play both sides automatically until a win or the board fills")
	zobristSd = flag.Int64("seed", 0, "ZobristTable seed")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: gomokuctl [options]

GOMOKUCTL drives the search engine for one game, printing the board after
every move.
Options:
`)
		flag.PrintDefaults()
	}
}

func parseDifficulty(s string) (difficulty.Level, error) {
	switch strings.ToLower(s) {
	case "beginner":
		return difficulty.Beginner, nil
	case "easy":
		return difficulty.Easy, nil
	case "medium":
		return difficulty.Medium, nil
	case "hard":
		return difficulty.Hard, nil
	case "expert":
		return difficulty.Expert, nil
	default:
		return 0, fmt.Errorf("unknown difficulty %q", s)
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	diff, err := parseDifficulty(*diffFlag)
	if err != nil {
		flag.Usage()
		logw.Exitf(ctx, "%v", err)
	}

	opts := []engine.Option{engine.WithDifficulty(diff), engine.WithZobrist(*zobristSd)}
	if *helpers >= 0 {
		opts = append(opts, engine.WithHelpers(*helpers))
	}
	e := engine.New("gomokuctl", opts...)
	pos := e.NewPosition()

	think := time.Duration(*thinkMS) * time.Millisecond
	side := board.Red
	moveNumber := 1

	if *selfPlay {
		for moveNumber <= board.Size*board.Size {
			out := e.BestMove(ctx, pos, side, diff, lang.Some(think), 0, moveNumber, false)
			if out.Move == board.NoMove {
				fmt.Println("no legal move remains")
				break
			}
			if err := pos.Place(out.Move.X, out.Move.Y, side); err != nil {
				logw.Exitf(ctx, "illegal move %v: %v", out.Move, err)
			}

			fmt.Printf("move %v: %v plays %v (depth=%v nodes=%v score=%v)\n", moveNumber, side, out.Move, out.DepthReached, out.Nodes, out.Score)
			fmt.Println(pos)

			if w, ok := threat.Winner(pos); ok {
				fmt.Printf("%v wins\n", w)
				return
			}

			side = side.Opponent()
			moveNumber++
		}
		return
	}

	runInteractive(ctx, e, pos, diff, think)
}

func runInteractive(ctx context.Context, e *engine.Engine, pos *board.Position, diff difficulty.Level, think time.Duration) {
	scanner := bufio.NewScanner(os.Stdin)
	side := board.Red
	moveNumber := 1

	fmt.Println("enter moves as 'x y' for the human side (Blue); the engine plays Red")
	fmt.Println(pos)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) != 2 {
			fmt.Println("expected 'x y'")
			continue
		}
		x, errX := strconv.Atoi(parts[0])
		y, errY := strconv.Atoi(parts[1])
		if errX != nil || errY != nil {
			fmt.Println("expected integer coordinates")
			continue
		}
		if err := pos.Place(x, y, board.Blue); err != nil {
			fmt.Printf("illegal move: %v\n", err)
			continue
		}
		moveNumber++

		out := e.BestMove(ctx, pos, side, diff, lang.Some(think), 0, moveNumber, false)
		if out.Move == board.NoMove {
			fmt.Println("no legal move remains")
			return
		}
		if err := pos.Place(out.Move.X, out.Move.Y, side); err != nil {
			logw.Exitf(ctx, "illegal move %v: %v", out.Move, err)
		}
		fmt.Printf("engine plays %v (depth=%v nodes=%v score=%v)\n", out.Move, out.DepthReached, out.Nodes, out.Score)
		fmt.Println(pos)

		if w, ok := threat.Winner(pos); ok {
			fmt.Printf("%v wins\n", w)
			return
		}
		moveNumber++
	}
}
