package simulate

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// ErrUnknownStrategy is returned by StrategyByName for unregistered names
var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategy picks the direction for the n-th move of a game
type Strategy interface {
	Name() string
	Next(n int, rng *rand.Rand) engine.Direction
}

// Swirl cycles down, left, up, right regardless of the board
type Swirl struct{}

var swirlOrder = [...]engine.Direction{engine.Down, engine.Left, engine.Up, engine.Right}

func (Swirl) Name() string { return "swirl" }

func (Swirl) Next(n int, _ *rand.Rand) engine.Direction {
	return swirlOrder[n%len(swirlOrder)]
}

// Random picks a uniformly random direction each move
type Random struct{}

func (Random) Name() string { return "random" }

func (Random) Next(_ int, rng *rand.Rand) engine.Direction {
	return engine.Directions[rng.Intn(len(engine.Directions))]
}

// Strategies lists the available strategy names
func Strategies() []string {
	return []string{Swirl{}.Name(), Random{}.Name()}
}

// StrategyByName resolves a strategy name, ignoring case
func StrategyByName(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "swirl":
		return Swirl{}, nil
	case "random":
		return Random{}, nil
	}
	return nil, fmt.Errorf("%w %q, expected one of %v", ErrUnknownStrategy, name, Strategies())
}
