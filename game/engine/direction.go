package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Direction is one of the four moves. Values outside Up..Left are invalid.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

// Directions lists every valid direction in enumeration order
var Directions = []Direction{Up, Right, Down, Left}

// ErrInvalidAction is matched by every InvalidActionError
var ErrInvalidAction = errors.New("invalid action")

// InvalidActionError reports a direction outside the valid set
type InvalidActionError struct {
	Value any
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("illegal action %v selected. Options: %s, %s, %s, %s",
		e.Value, Up, Right, Down, Left)
}

func (e *InvalidActionError) Is(target error) bool {
	return target == ErrInvalidAction
}

// Valid reports whether d is one of the four directions
func (d Direction) Valid() bool {
	return d >= Up && d <= Left
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Check returns an InvalidActionError for directions outside the valid set
func (d Direction) Check() error {
	if !d.Valid() {
		return &InvalidActionError{Value: int(d)}
	}
	return nil
}

// ParseDirection converts a name ("up", "R", "left", ...) into a Direction
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return Up, nil
	case "right", "r":
		return Right, nil
	case "down", "d":
		return Down, nil
	case "left", "l":
		return Left, nil
	}
	return 0, &InvalidActionError{Value: fmt.Sprintf("%q", s)}
}
