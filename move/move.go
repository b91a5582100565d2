// Package move defines the turn submission an actor hands back to the
// referee: pass, exchange the whole hand, or place one or more tiles.
package move

import (
	"fmt"
	"strings"

	"github.com/tilerow/qgame/board"
	"github.com/tilerow/qgame/tiles"
)

// MoveType tags the three kinds of turn.
type MoveType uint8

const (
	MoveTypePass MoveType = iota
	MoveTypeExchange
	MoveTypePlace
)

func (t MoveType) String() string {
	switch t {
	case MoveTypePass:
		return "pass"
	case MoveTypeExchange:
		return "exchange"
	case MoveTypePlace:
		return "place"
	}
	return "unknown"
}

// A Placement is one tile going onto one position.
type Placement struct {
	Pos  board.Pos
	Tile tiles.Tile
}

// A Move is an actor's turn submission. Placements is non-empty exactly
// when Type is MoveTypePlace, and keeps the actor's order: later
// placements may only be legal because of earlier ones.
type Move struct {
	Type       MoveType
	Placements []Placement
}

// NewPassMove creates a pass.
func NewPassMove() *Move {
	return &Move{Type: MoveTypePass}
}

// NewExchangeMove creates a whole-hand exchange request.
func NewExchangeMove() *Move {
	return &Move{Type: MoveTypeExchange}
}

// NewPlacementMove creates a placement of the given tiles.
func NewPlacementMove(placements []Placement) *Move {
	return &Move{Type: MoveTypePlace, Placements: placements}
}

// Tiles returns the tiles this move places, in placement order.
func (m *Move) Tiles() []tiles.Tile {
	ts := make([]tiles.Tile, len(m.Placements))
	for i, pl := range m.Placements {
		ts[i] = pl.Tile
	}
	return ts
}

// Positions returns the positions this move occupies, in placement order.
func (m *Move) Positions() []board.Pos {
	ps := make([]board.Pos, len(m.Placements))
	for i, pl := range m.Placements {
		ps[i] = pl.Pos
	}
	return ps
}

// String provides a short description, useful for logging.
func (m *Move) String() string {
	switch m.Type {
	case MoveTypePass:
		return "(pass)"
	case MoveTypeExchange:
		return "(exchange)"
	case MoveTypePlace:
		parts := make([]string, len(m.Placements))
		for i, pl := range m.Placements {
			parts[i] = fmt.Sprintf("%v@%v", pl.Tile, pl.Pos)
		}
		return "place " + strings.Join(parts, ", ")
	}
	return "(unknown move)"
}
