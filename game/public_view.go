package game

import (
	"github.com/tilerow/qgame/board"
)

// A PublicView is the slice of match state an actor may see on its
// turn: the board, the size of the draw pile, its own record including
// its hand, and the other live participants' scores in queue order.
// Other hands are never revealed.
type PublicView struct {
	Board       *board.Board
	BagCount    int
	Me          *PlayerState
	OtherScores []int
}

// PublicView snapshots the state visible to the named participant.
// Everything in the snapshot is a copy; an actor scribbling on its
// view cannot touch the authoritative state.
func (g *GameState) PublicView(name string) *PublicView {
	view := &PublicView{
		Board:    g.board.Copy(),
		BagCount: g.bag.TilesRemaining(),
	}
	for _, p := range g.queue {
		if p.Name == name {
			view.Me = p.Copy()
		} else {
			view.OtherScores = append(view.OtherScores, p.Score)
		}
	}
	return view
}
