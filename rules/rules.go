// Package rules is the rulebook: pure, stateless functions that decide
// move legality and scoring. The referee trusts this package completely;
// nothing here mutates game state or performs I/O.
package rules

import (
	"github.com/samber/lo"

	"github.com/tilerow/qgame/board"
	"github.com/tilerow/qgame/move"
	"github.com/tilerow/qgame/tiles"
)

// LegalPositions computes every position where t may be placed on b,
// given the positions already placed earlier in the same turn. A
// position qualifies if it is an empty neighbor of a tile sharing a
// shape or color with t, every occupied neighbor on each axis is
// color-or-shape compatible with t, and the position together with
// placedThisTurn stays in a single row or a single column. Results are
// in row-column order.
func LegalPositions(b *board.Board, t tiles.Tile, placedThisTurn []board.Pos) []board.Pos {
	candidates := make(map[board.Pos]bool)
	for _, pos := range b.Positions() {
		placed, _ := b.TileAt(pos)
		if !placed.SameShape(t) && !placed.SameColor(t) {
			continue
		}
		for _, nb := range pos.Neighbors() {
			if b.HasTile(nb) || candidates[nb] {
				continue
			}
			if !fitsNeighbors(b, nb, t) {
				continue
			}
			if !collinear(append(append([]board.Pos{}, placedThisTurn...), nb)) {
				continue
			}
			candidates[nb] = true
		}
	}
	legal := lo.Keys(candidates)
	board.SortPositions(legal)
	return legal
}

// AllPositions is LegalPositions without the collinearity constraint.
// Strategies use it to rank candidate spots before committing to a line.
func AllPositions(b *board.Board, t tiles.Tile) []board.Pos {
	return LegalPositions(b, t, nil)
}

// LegalHand returns the tiles in hand that have at least one legal
// position on the current board.
func LegalHand(b *board.Board, hand []tiles.Tile, placedThisTurn []board.Pos) []tiles.Tile {
	return lo.Filter(hand, func(t tiles.Tile, _ int) bool {
		return len(LegalPositions(b, t, placedThisTurn)) > 0
	})
}

// ValidatePlacement checks a whole turn's placements against the rules.
// It applies them one at a time to a scratch copy of the board, since a
// later placement may only be legal because of an earlier one.
func ValidatePlacement(b *board.Board, placements []move.Placement) bool {
	if len(placements) == 0 {
		return false
	}
	allPositions := make([]board.Pos, len(placements))
	for i, pl := range placements {
		allPositions[i] = pl.Pos
	}
	scratch := b.Copy()
	for _, pl := range placements {
		legal := LegalPositions(scratch, pl.Tile, allPositions)
		if !lo.Contains(legal, pl.Pos) {
			return false
		}
		if err := scratch.AddTile(pl.Pos, pl.Tile); err != nil {
			return false
		}
	}
	return true
}

// ValidateExchange reports whether a whole-hand exchange is allowed:
// the pile must hold at least as many tiles as the hand gives up.
func ValidateExchange(bagSize, handSize int) bool {
	return handSize <= bagSize
}

// fitsNeighbors checks the per-axis compatibility rule at pos: on each
// of the vertical and horizontal axes, the occupied neighbors must all
// share a shape with t, or all share a color with t. An empty neighbor
// constrains nothing.
func fitsNeighbors(b *board.Board, pos board.Pos, t tiles.Tile) bool {
	vOK := axisCompatible(b, t, pos.Above(), pos.Below())
	hOK := axisCompatible(b, t, pos.Left(), pos.Right())
	return vOK && hOK
}

func axisCompatible(b *board.Board, t tiles.Tile, a, c board.Pos) bool {
	shapes := neighborMatches(b, t, a, tiles.Tile.SameShape) && neighborMatches(b, t, c, tiles.Tile.SameShape)
	colors := neighborMatches(b, t, a, tiles.Tile.SameColor) && neighborMatches(b, t, c, tiles.Tile.SameColor)
	return shapes || colors
}

func neighborMatches(b *board.Board, t tiles.Tile, pos board.Pos, same func(tiles.Tile, tiles.Tile) bool) bool {
	nb, ok := b.TileAt(pos)
	if !ok {
		return true
	}
	return same(t, nb)
}

// collinear reports whether all positions share a row or all share a
// column. Zero or one position is trivially collinear.
func collinear(ps []board.Pos) bool {
	if len(ps) <= 1 {
		return true
	}
	sameRow, sameCol := true, true
	for _, p := range ps[1:] {
		if p.Y != ps[0].Y {
			sameRow = false
		}
		if p.X != ps[0].X {
			sameCol = false
		}
	}
	return sameRow || sameCol
}
