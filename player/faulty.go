package player

import (
	"context"
	"fmt"

	"github.com/tilerow/qgame/game"
	"github.com/tilerow/qgame/move"
	"github.com/tilerow/qgame/tiles"
)

// A FaultyPlayer behaves like its base player except that one named
// callback always returns an error, simulating a crashing actor.
type FaultyPlayer struct {
	Player
	failIn Callback
}

// NewFaultyPlayer wraps base so that the named callback fails.
func NewFaultyPlayer(base Player, failIn Callback) *FaultyPlayer {
	return &FaultyPlayer{Player: base, failIn: failIn}
}

func (p *FaultyPlayer) fail(cb Callback) error {
	if p.failIn == cb {
		return fmt.Errorf("player %s deliberately failed in %s", p.Name(), cb)
	}
	return nil
}

func (p *FaultyPlayer) Setup(ctx context.Context, view *game.PublicView, hand []tiles.Tile) error {
	if err := p.fail(CallbackSetup); err != nil {
		return err
	}
	return p.Player.Setup(ctx, view, hand)
}

func (p *FaultyPlayer) TakeTurn(ctx context.Context, view *game.PublicView) (*move.Move, error) {
	if err := p.fail(CallbackTakeTurn); err != nil {
		return nil, err
	}
	return p.Player.TakeTurn(ctx, view)
}

func (p *FaultyPlayer) NewTiles(ctx context.Context, newTiles []tiles.Tile) error {
	if err := p.fail(CallbackNewTiles); err != nil {
		return err
	}
	return p.Player.NewTiles(ctx, newTiles)
}

func (p *FaultyPlayer) Win(ctx context.Context, won bool) error {
	if err := p.fail(CallbackWin); err != nil {
		return err
	}
	return p.Player.Win(ctx, won)
}

// A StallPlayer behaves like its base player until the nth invocation
// of a named callback, where it blocks until the referee's deadline
// cancels it. It exercises the timeout path without leaking the worker:
// the context wakes it up.
type StallPlayer struct {
	Player
	stallIn Callback
	count   int
}

// NewStallPlayer wraps base so the count'th call of the named callback
// hangs. count is 1-based.
func NewStallPlayer(base Player, stallIn Callback, count int) *StallPlayer {
	if count < 1 {
		count = 1
	}
	return &StallPlayer{Player: base, stallIn: stallIn, count: count}
}

// stall returns true after blocking if this call should hang.
func (p *StallPlayer) stall(ctx context.Context, cb Callback) bool {
	if p.stallIn != cb {
		return false
	}
	p.count--
	if p.count > 0 {
		return false
	}
	<-ctx.Done()
	return true
}

func (p *StallPlayer) Setup(ctx context.Context, view *game.PublicView, hand []tiles.Tile) error {
	if p.stall(ctx, CallbackSetup) {
		return ctx.Err()
	}
	return p.Player.Setup(ctx, view, hand)
}

func (p *StallPlayer) TakeTurn(ctx context.Context, view *game.PublicView) (*move.Move, error) {
	if p.stall(ctx, CallbackTakeTurn) {
		return nil, ctx.Err()
	}
	return p.Player.TakeTurn(ctx, view)
}

func (p *StallPlayer) NewTiles(ctx context.Context, newTiles []tiles.Tile) error {
	if p.stall(ctx, CallbackNewTiles) {
		return ctx.Err()
	}
	return p.Player.NewTiles(ctx, newTiles)
}

func (p *StallPlayer) Win(ctx context.Context, won bool) error {
	if p.stall(ctx, CallbackWin) {
		return ctx.Err()
	}
	return p.Player.Win(ctx, won)
}
