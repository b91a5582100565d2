package game

import (
	"github.com/tilerow/qgame/tiles"
)

// A PlayerState is the referee's record for one participant: the name
// it signed up with, the tiles it holds, and its score. Hands are
// private; only the score is ever shown to other participants.
type PlayerState struct {
	Name  string
	Hand  []tiles.Tile
	Score int
}

// Copy returns a deep copy of the record.
func (p *PlayerState) Copy() *PlayerState {
	hand := make([]tiles.Tile, len(p.Hand))
	copy(hand, p.Hand)
	return &PlayerState{Name: p.Name, Hand: hand, Score: p.Score}
}

// HoldsAll reports whether the hand contains every tile in ts,
// respecting multiplicity. An actor claiming tiles it does not hold is
// cheating, whatever the board says.
func (p *PlayerState) HoldsAll(ts []tiles.Tile) bool {
	remaining := make([]tiles.Tile, len(p.Hand))
	copy(remaining, p.Hand)
	for _, t := range ts {
		idx := indexOfTile(remaining, t)
		if idx < 0 {
			return false
		}
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return true
}

// RemoveAll removes one copy of each tile in ts from the hand. The
// caller must have checked HoldsAll first.
func (p *PlayerState) RemoveAll(ts []tiles.Tile) {
	for _, t := range ts {
		idx := indexOfTile(p.Hand, t)
		if idx >= 0 {
			p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
		}
	}
}

func indexOfTile(hand []tiles.Tile, t tiles.Tile) int {
	for i, h := range hand {
		if h == t {
			return i
		}
	}
	return -1
}
