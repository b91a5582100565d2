// Package strategy holds automated move choosers. The referee only
// depends on the Strategy interface; the concrete greedy strategies and
// the rule-breaking variants exist for well-behaved clients and for
// exercising the referee's defenses.
package strategy

import (
	"sort"

	"github.com/tilerow/qgame/board"
	"github.com/tilerow/qgame/game"
	"github.com/tilerow/qgame/move"
	"github.com/tilerow/qgame/rules"
	"github.com/tilerow/qgame/tiles"
)

// A Strategy proposes a move for the given public view and hand. It
// must be deterministic for a fixed input; the referee relies on that
// when replaying decisions in tests.
type Strategy interface {
	ChooseMove(view *game.PublicView, hand []tiles.Tile) *move.Move
}

// Dag is the "dumb and greedy" strategy: it repeatedly places its
// smallest tile that extends the board, breaking position ties by
// row-column order, and otherwise exchanges if the pile allows, else
// passes.
type Dag struct{}

func (Dag) ChooseMove(view *game.PublicView, hand []tiles.Tile) *move.Move {
	return greedyMove(view, hand, smallestPosition)
}

// Ldasg is the "less dumb and still greedy" strategy: like Dag, but it
// prefers the most constrained position, the one with the most
// occupied neighbors, before falling back to row-column order.
type Ldasg struct{}

func (Ldasg) ChooseMove(view *game.PublicView, hand []tiles.Tile) *move.Move {
	return greedyMove(view, hand, mostNeighborsPosition)
}

// positionChooser picks one position out of a non-empty candidate list.
type positionChooser func(b *board.Board, candidates []board.Pos) board.Pos

func greedyMove(view *game.PublicView, hand []tiles.Tile, choose positionChooser) *move.Move {
	scratch := view.Board.Copy()
	remaining := sortedHand(hand)
	var placements []move.Placement
	var placedSoFar []board.Pos

	for {
		placed := false
		for i, t := range remaining {
			legal := rules.LegalPositions(scratch, t, placedSoFar)
			if len(legal) == 0 {
				continue
			}
			pos := choose(scratch, legal)
			if err := scratch.AddTile(pos, t); err != nil {
				break
			}
			placements = append(placements, move.Placement{Pos: pos, Tile: t})
			placedSoFar = append(placedSoFar, pos)
			remaining = append(remaining[:i], remaining[i+1:]...)
			placed = true
			break
		}
		if !placed {
			break
		}
	}

	if len(placements) > 0 {
		return move.NewPlacementMove(placements)
	}
	if rules.ValidateExchange(view.BagCount, len(hand)) {
		return move.NewExchangeMove()
	}
	return move.NewPassMove()
}

// smallestPosition returns the row-column smallest candidate. The
// candidates from the rulebook are already sorted.
func smallestPosition(_ *board.Board, candidates []board.Pos) board.Pos {
	return candidates[0]
}

// mostNeighborsPosition returns the candidate with the most occupied
// neighbors, tie-broken by row-column order.
func mostNeighborsPosition(b *board.Board, candidates []board.Pos) board.Pos {
	best := candidates[0]
	bestN := b.OccupiedNeighbors(best)
	for _, pos := range candidates[1:] {
		if n := b.OccupiedNeighbors(pos); n > bestN {
			best, bestN = pos, n
		}
	}
	return best
}

func sortedHand(hand []tiles.Tile) []tiles.Tile {
	sorted := make([]tiles.Tile, len(hand))
	copy(sorted, hand)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })
	return sorted
}
