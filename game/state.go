// Package game holds the authoritative state of one match: the board,
// the draw pile, and every participant's hand and score. Only the
// referee mutates it, and only through the operations here; every
// mutator assumes the caller already validated the move against the
// rulebook.
package game

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/tilerow/qgame/board"
	"github.com/tilerow/qgame/move"
	"github.com/tilerow/qgame/tiles"
)

const (
	// MaxPlayers bounds signup for a single match.
	MaxPlayers = 4
	// HandCapacity is how many tiles a hand holds outside of a turn.
	HandCapacity = 6
)

// ErrTooManyPlayers and friends are configuration errors: they are
// surfaced before any turn is played, and no partial match starts.
var (
	ErrTooManyPlayers = errors.New("a match holds at most four participants")
	ErrDuplicateName  = errors.New("participant names must be unique")
	ErrEmptyName      = errors.New("participant names must be non-empty")
)

// GameState is the single source of truth for a running match.
type GameState struct {
	board *board.Board
	bag   *tiles.Bag

	// queue holds the live participants in turn order; evicted records
	// are kept aside for final accounting but take no further turns.
	queue   []*PlayerState
	evicted []string

	// consecutiveNonPlacements counts passes and exchanges since the
	// last placement; a full live round of them ends the game.
	consecutiveNonPlacements int
}

// NewGameState builds a match state from a board, a draw pile, and the
// signed-up participants in turn order. It validates the configuration
// and returns an error rather than starting a broken match.
func NewGameState(b *board.Board, bag *tiles.Bag, players []*PlayerState) (*GameState, error) {
	if len(players) > MaxPlayers {
		return nil, ErrTooManyPlayers
	}
	names := make(map[string]bool)
	for _, p := range players {
		if p.Name == "" {
			return nil, ErrEmptyName
		}
		if names[p.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, p.Name)
		}
		names[p.Name] = true
	}
	return &GameState{board: b, bag: bag, queue: players}, nil
}

// SeedBoard places the first tile from the pile at the origin if the
// board is still empty. Every match starts with a referee tile down.
func (g *GameState) SeedBoard() {
	if g.board.NumTiles() > 0 {
		return
	}
	drawn := g.bag.DrawAtMost(1)
	if len(drawn) == 0 {
		return
	}
	// Cannot fail on an empty board.
	_ = g.board.AddTile(board.Pos{X: 0, Y: 0}, drawn[0])
}

// Board returns the live board. Callers other than the referee must
// copy before sharing.
func (g *GameState) Board() *board.Board {
	return g.board
}

// PlaceTiles writes every placement onto the board. A collision means
// the caller skipped validation; that is a bug, not a game rule, and
// the error is fatal to the match.
func (g *GameState) PlaceTiles(placements []move.Placement) error {
	for _, pl := range placements {
		if err := g.board.AddTile(pl.Pos, pl.Tile); err != nil {
			return fmt.Errorf("unvalidated placement applied: %w", err)
		}
	}
	return nil
}

// ReplaceHand surrenders the named participant's whole hand to the
// pile, then deals as many fresh tiles as the pile allows, up to hand
// capacity.
func (g *GameState) ReplaceHand(name string) ([]tiles.Tile, error) {
	p := g.playerByName(name)
	if p == nil {
		return nil, fmt.Errorf("no live participant named %q", name)
	}
	g.bag.PutBack(p.Hand)
	p.Hand = nil
	p.Hand = g.bag.DrawAtMost(HandCapacity)
	return p.Hand, nil
}

// DrawTiles removes and returns up to n tiles from the front of the
// pile. It returns fewer if the pile is short and never blocks.
func (g *GameState) DrawTiles(n int) []tiles.Tile {
	return g.bag.DrawAtMost(n)
}

// ReplenishHand deals tiles to the named participant until its hand is
// full or the pile runs out, returning what was dealt.
func (g *GameState) ReplenishHand(name string) ([]tiles.Tile, error) {
	p := g.playerByName(name)
	if p == nil {
		return nil, fmt.Errorf("no live participant named %q", name)
	}
	dealt := g.bag.DrawAtMost(HandCapacity - len(p.Hand))
	p.Hand = append(p.Hand, dealt...)
	return dealt, nil
}

// RecordTurnOutcome credits the score delta to the named participant
// and maintains the consecutive pass-or-exchange counter: placements
// reset it, everything else increments it.
func (g *GameState) RecordTurnOutcome(outcome move.MoveType, scoreDelta int, name string) {
	if p := g.playerByName(name); p != nil {
		p.Score += scoreDelta
	}
	if outcome == move.MoveTypePlace {
		g.consecutiveNonPlacements = 0
	} else {
		g.consecutiveNonPlacements++
	}
}

// Evict removes the named participant from the live queue, preserving
// the relative order of everyone else, and returns its hand to the
// pile. The record stays around for final accounting only.
func (g *GameState) Evict(name string) {
	for i, p := range g.queue {
		if p.Name != name {
			continue
		}
		g.queue = append(g.queue[:i], g.queue[i+1:]...)
		g.bag.PutBack(p.Hand)
		p.Hand = nil
		g.evicted = append(g.evicted, name)
		log.Debug().Str("player", name).Msg("participant evicted")
		return
	}
}

// CurrentPlayer returns the head of the live queue, or nil if the
// queue has emptied.
func (g *GameState) CurrentPlayer() *PlayerState {
	if len(g.queue) == 0 {
		return nil
	}
	return g.queue[0]
}

// RotatePlayer moves the head of the queue to the tail after a
// successful, non-evicting turn.
func (g *GameState) RotatePlayer() {
	if len(g.queue) < 2 {
		return
	}
	head := g.queue[0]
	g.queue = append(g.queue[1:], head)
}

// LiveNames returns the live queue's names in turn order.
func (g *GameState) LiveNames() []string {
	names := make([]string, len(g.queue))
	for i, p := range g.queue {
		names[i] = p.Name
	}
	return names
}

// EvictedNames returns participants evicted so far, in eviction order.
func (g *GameState) EvictedNames() []string {
	return append([]string{}, g.evicted...)
}

// HandExhausted reports whether any live participant has played out
// its entire hand, which ends the game after that turn commits.
func (g *GameState) HandExhausted() bool {
	for _, p := range g.queue {
		if len(p.Hand) == 0 {
			return true
		}
	}
	return false
}

// AllPassedOrExchangedFullRound reports whether every live participant
// has passed or exchanged for one full round with no placements.
func (g *GameState) AllPassedOrExchangedFullRound() bool {
	return len(g.queue) > 0 && g.consecutiveNonPlacements >= len(g.queue)
}

// ScoresByName returns every live participant's score.
func (g *GameState) ScoresByName() map[string]int {
	scores := make(map[string]int, len(g.queue))
	for _, p := range g.queue {
		scores[p.Name] = p.Score
	}
	return scores
}

// TilesRemaining returns the size of the draw pile.
func (g *GameState) TilesRemaining() int {
	return g.bag.TilesRemaining()
}

// PlayerRecord returns the live record for name, or nil. The referee
// uses it to check tile ownership before committing a move.
func (g *GameState) PlayerRecord(name string) *PlayerState {
	return g.playerByName(name)
}

func (g *GameState) playerByName(name string) *PlayerState {
	for _, p := range g.queue {
		if p.Name == name {
			return p
		}
	}
	return nil
}
