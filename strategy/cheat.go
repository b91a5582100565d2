package strategy

import (
	"github.com/tilerow/qgame/board"
	"github.com/tilerow/qgame/game"
	"github.com/tilerow/qgame/move"
	"github.com/tilerow/qgame/rules"
	"github.com/tilerow/qgame/tiles"
)

// A CheatKind tags one way of breaking the rules. The set is closed;
// the referee never learns which variant produced a move, it just
// validates the move and evicts.
type CheatKind string

const (
	// CheatNonAdjacentCoordinate places a tile detached from the board.
	CheatNonAdjacentCoordinate CheatKind = "non-adjacent-coordinate"
	// CheatTileNotOwned places a tile the player does not hold.
	CheatTileNotOwned CheatKind = "tile-not-owned"
	// CheatNotALine places tiles that do not share a row or column.
	CheatNotALine CheatKind = "not-a-line"
	// CheatBadAskForTiles exchanges when the pile cannot cover the hand.
	CheatBadAskForTiles CheatKind = "bad-ask-for-tiles"
	// CheatNoFit places a tile that matches no adjacent color or shape.
	CheatNoFit CheatKind = "no-fit"
)

// ParseCheatKind validates a wire/config cheat name.
func ParseCheatKind(name string) (CheatKind, bool) {
	switch CheatKind(name) {
	case CheatNonAdjacentCoordinate, CheatTileNotOwned, CheatNotALine,
		CheatBadAskForTiles, CheatNoFit:
		return CheatKind(name), true
	}
	return "", false
}

// A Cheater attempts its configured cheat each turn and falls back to
// its base strategy when the cheat cannot be produced from the current
// view.
type Cheater struct {
	Kind CheatKind
	Base Strategy
}

// NewCheater builds a cheating strategy over a base strategy.
func NewCheater(kind CheatKind, base Strategy) *Cheater {
	if base == nil {
		base = Dag{}
	}
	return &Cheater{Kind: kind, Base: base}
}

func (c *Cheater) ChooseMove(view *game.PublicView, hand []tiles.Tile) *move.Move {
	var m *move.Move
	switch c.Kind {
	case CheatNonAdjacentCoordinate:
		m = cheatNonAdjacent(view, hand)
	case CheatTileNotOwned:
		m = cheatTileNotOwned(view, hand)
	case CheatNotALine:
		m = cheatNotALine(view, hand)
	case CheatBadAskForTiles:
		m = cheatBadAskForTiles(view, hand)
	case CheatNoFit:
		m = cheatNoFit(view, hand)
	}
	if m == nil {
		m = c.Base.ChooseMove(view, hand)
	}
	return m
}

// cheatNonAdjacent walks a legitimate placement rightward until it no
// longer touches the board.
func cheatNonAdjacent(view *game.PublicView, hand []tiles.Tile) *move.Move {
	if len(hand) == 0 {
		return nil
	}
	t := sortedHand(hand)[0]
	candidates := rules.AllPositions(view.Board, t)
	if len(candidates) == 0 {
		return nil
	}
	pos := candidates[0]
	for view.Board.OccupiedNeighbors(pos) > 0 {
		pos = pos.Right()
	}
	return move.NewPlacementMove([]move.Placement{{Pos: pos, Tile: t}})
}

// cheatTileNotOwned finds a tile kind absent from the hand that still
// has a legal position, and plays it anyway.
func cheatTileNotOwned(view *game.PublicView, hand []tiles.Tile) *move.Move {
	held := make(map[tiles.Tile]bool, len(hand))
	for _, t := range hand {
		held[t] = true
	}
	for _, kind := range tiles.AllKinds() {
		if held[kind] {
			continue
		}
		legal := rules.LegalPositions(view.Board, kind, nil)
		if len(legal) > 0 {
			return move.NewPlacementMove([]move.Placement{{Pos: legal[0], Tile: kind}})
		}
	}
	return nil
}

// cheatNotALine proposes three placements bent around a corner so they
// share neither a row nor a column.
func cheatNotALine(view *game.PublicView, hand []tiles.Tile) *move.Move {
	if len(hand) < 3 {
		return nil
	}
	sorted := sortedHand(hand)
	legal := rules.LegalPositions(view.Board, sorted[0], nil)
	if len(legal) == 0 {
		return nil
	}
	p1 := legal[0]
	p2 := p1.Right()
	p3 := p2.Above()
	return move.NewPlacementMove([]move.Placement{
		{Pos: p1, Tile: sorted[0]},
		{Pos: p2, Tile: sorted[1]},
		{Pos: p3, Tile: sorted[2]},
	})
}

// cheatBadAskForTiles exchanges exactly when the rulebook forbids it.
func cheatBadAskForTiles(view *game.PublicView, hand []tiles.Tile) *move.Move {
	if view.BagCount < len(hand) {
		return move.NewExchangeMove()
	}
	return nil
}

// cheatNoFit takes a legal position for one tile and drops a
// mismatched tile kind there instead.
func cheatNoFit(view *game.PublicView, hand []tiles.Tile) *move.Move {
	if len(hand) == 0 {
		return nil
	}
	t := sortedHand(hand)[0]
	legal := rules.LegalPositions(view.Board, t, nil)
	if len(legal) == 0 {
		return nil
	}
	pos := legal[0]
	for _, kind := range tiles.AllKinds() {
		if kind == t {
			continue
		}
		if fitsNowhere(view.Board, pos, kind) {
			return move.NewPlacementMove([]move.Placement{{Pos: pos, Tile: kind}})
		}
	}
	return nil
}

// fitsNowhere reports whether kind is illegal at pos on b.
func fitsNowhere(b *board.Board, pos board.Pos, kind tiles.Tile) bool {
	for _, legal := range rules.LegalPositions(b, kind, nil) {
		if legal == pos {
			return false
		}
	}
	return true
}
