package rlenv

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

func newTestEnv(seed int64) *Environment {
	return New(4, rand.New(rand.NewSource(seed)))
}

func TestReset(t *testing.T) {
	env := newTestEnv(1)

	board := env.Reset()
	if board.Size() != 4 {
		t.Errorf("expected size 4, got %d", board.Size())
	}
	if board.TileCount() != 2 {
		t.Errorf("expected 2 tiles after reset, got %d", board.TileCount())
	}
	if env.Score() != 0 {
		t.Errorf("expected score 0, got %d", env.Score())
	}
	if env.Done() {
		t.Error("expected done to be false after reset")
	}
	if env.Moves() != 0 {
		t.Errorf("expected 0 moves, got %d", env.Moves())
	}
}

func TestReset_ClearsEpisode(t *testing.T) {
	env := newTestEnv(2)
	for i := 0; i < 10; i++ {
		_, _, _, _, _ = env.Step(engine.Directions[i%4])
	}

	env.Reset()
	if env.Score() != 0 || env.Moves() != 0 || env.Done() {
		t.Errorf("reset did not clear episode: score=%d moves=%d done=%v", env.Score(), env.Moves(), env.Done())
	}
}

func TestStep_Reward(t *testing.T) {
	env := newTestEnv(3)
	env.SetBoard(engine.Board{
		{0, 0, 2, 2},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	board, reward, done, info, err := env.Step(engine.Right)
	if err != nil {
		t.Fatalf("Step returned error: %v", err)
	}
	if reward != 4 {
		t.Errorf("expected reward 4, got %d", reward)
	}
	if done {
		t.Error("expected episode to continue")
	}
	if info != nil {
		t.Errorf("expected nil info, got %v", info)
	}
	if board[0][3] != 4 {
		t.Errorf("expected merged tile at (0,3), got\n%s", board)
	}
	if board.TileCount() != 2 {
		t.Errorf("expected merged tile plus one spawn, got %d tiles", board.TileCount())
	}
	if env.Score() != 4 {
		t.Errorf("expected cumulative score 4, got %d", env.Score())
	}
}

func TestStep_NoOp(t *testing.T) {
	env := newTestEnv(4)
	start := engine.Board{
		{2, 4, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	env.SetBoard(start)

	board, reward, done, _, err := env.Step(engine.Left)
	if err != nil {
		t.Fatalf("Step returned error: %v", err)
	}
	if reward != 0 {
		t.Errorf("expected reward 0, got %d", reward)
	}
	if done {
		t.Error("expected done to stay false")
	}
	if !board.Equal(start) {
		t.Errorf("no-op changed the board:\n%s", board)
	}
}

func TestStep_InvalidAction(t *testing.T) {
	env := newTestEnv(5)
	before := env.Board()

	_, _, _, _, err := env.Step(engine.Direction(12))
	if !errors.Is(err, engine.ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
	if !strings.Contains(err.Error(), "Options: up, right, down, left") {
		t.Errorf("error should list the options, got %q", err.Error())
	}
	if !env.Board().Equal(before) {
		t.Error("invalid action changed the board")
	}
}

func TestStep_ReturnsCopy(t *testing.T) {
	env := newTestEnv(6)
	board, _, _, _, _ := env.Step(engine.Up)
	board[0][0] = 4096

	if env.Board()[0][0] == 4096 {
		t.Error("mutating the observation changed the environment")
	}
}

func TestStep_EpisodeEnds(t *testing.T) {
	env := New(3, rand.New(rand.NewSource(7)))
	rng := rand.New(rand.NewSource(70))

	done := false
	total := 0
	for i := 0; i < 10000 && !done; i++ {
		var reward int
		var err error
		_, reward, done, _, err = env.Step(engine.Directions[rng.Intn(4)])
		if err != nil {
			t.Fatalf("Step returned error: %v", err)
		}
		total += reward
	}

	if !done {
		t.Fatal("expected a 3x3 episode to end")
	}
	if env.Score() != total {
		t.Errorf("expected score %d to equal summed rewards %d", env.Score(), total)
	}
	if !engine.IsTerminal(env.Board()) {
		t.Error("done must match the terminal check")
	}
}

func TestNextStates(t *testing.T) {
	env := newTestEnv(8)
	env.SetBoard(engine.Board{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 4},
	})
	before := env.Board()

	states, info, err := env.NextStates(engine.Left)
	if err != nil {
		t.Fatalf("NextStates returned error: %v", err)
	}
	if info.UselessAction {
		t.Error("expected useful action")
	}
	// merged board holds two tiles, leaving 14 empty cells
	if len(states) != 14 {
		t.Errorf("expected 14 states, got %d", len(states))
	}
	if !env.Board().Equal(before) {
		t.Error("NextStates mutated the environment")
	}
}

func TestNextStates_Useless(t *testing.T) {
	env := newTestEnv(9)
	start := engine.Board{
		{2, 0, 0, 0},
		{4, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	env.SetBoard(start)

	states, info, err := env.NextStates(engine.Left)
	if err != nil {
		t.Fatalf("NextStates returned error: %v", err)
	}
	if !info.UselessAction {
		t.Error("expected useless action")
	}
	if len(states) != 1 || !states[0].Equal(start) {
		t.Errorf("expected the unchanged board only, got %v", states)
	}
}

func TestActionReward(t *testing.T) {
	env := newTestEnv(10)
	env.SetBoard(engine.Board{
		{8, 8, 8, 8},
		{8, 16, 16, 32},
		{256, 0, 0, 0},
		{2, 2, 32, 32},
	})
	before := env.Board()

	reward, err := env.ActionReward(engine.Right)
	if err != nil {
		t.Fatalf("ActionReward returned error: %v", err)
	}
	if reward != 132 {
		t.Errorf("expected reward 132, got %d", reward)
	}
	if !env.Board().Equal(before) || env.Moves() != 0 || env.Score() != 0 {
		t.Error("ActionReward mutated the environment")
	}

	if _, err := env.ActionReward(engine.Direction(-3)); !errors.Is(err, engine.ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction, got %v", err)
	}
}

func TestVerboseLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	env := New(4, rand.New(rand.NewSource(11)), WithLogger(logger), WithVerbose(true))
	env.SetBoard(engine.Board{
		{0, 0, 2, 2},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	if _, _, _, _, err := env.Step(engine.Right); err != nil {
		t.Fatalf("Step returned error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{`"direction":"right"`, `"message":"pop up number"`, `"reward":4`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log to contain %s, got %s", want, out)
		}
	}
}

func TestNewFromConfig(t *testing.T) {
	config := engine.DefaultConfig()
	config.BoardSize = 5
	config.InitialTiles = 3

	env := NewFromConfig(config, rand.New(rand.NewSource(12)))
	if env.Size() != 5 {
		t.Errorf("expected size 5, got %d", env.Size())
	}
	if env.Board().TileCount() != 3 {
		t.Errorf("expected 3 tiles, got %d", env.Board().TileCount())
	}
}
