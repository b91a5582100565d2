package player

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/tilerow/qgame/game"
	"github.com/tilerow/qgame/move"
	"github.com/tilerow/qgame/strategy"
	"github.com/tilerow/qgame/tiles"
)

// A LocalPlayer is a well-behaved in-process participant that follows
// a Strategy. It tracks its own copy of its hand from the setup and
// new-tiles callbacks, as a remote client would.
type LocalPlayer struct {
	name  string
	strat strategy.Strategy
	hand  []tiles.Tile
}

// NewLocalPlayer builds a local player around a strategy. A nil
// strategy defaults to Dag.
func NewLocalPlayer(name string, strat strategy.Strategy) *LocalPlayer {
	if strat == nil {
		strat = strategy.Dag{}
	}
	return &LocalPlayer{name: name, strat: strat}
}

func (p *LocalPlayer) Name() string {
	return p.name
}

func (p *LocalPlayer) Setup(ctx context.Context, view *game.PublicView, hand []tiles.Tile) error {
	p.hand = append([]tiles.Tile{}, hand...)
	return nil
}

func (p *LocalPlayer) TakeTurn(ctx context.Context, view *game.PublicView) (*move.Move, error) {
	m := p.strat.ChooseMove(view, append([]tiles.Tile{}, p.hand...))
	switch m.Type {
	case move.MoveTypePlace:
		removePlaced(&p.hand, m)
	case move.MoveTypeExchange:
		// The whole hand goes back to the pile; the replacement
		// arrives through the new-tiles callback.
		p.hand = nil
	}
	return m, nil
}

func (p *LocalPlayer) NewTiles(ctx context.Context, newTiles []tiles.Tile) error {
	p.hand = append(p.hand, newTiles...)
	return nil
}

func (p *LocalPlayer) Win(ctx context.Context, won bool) error {
	log.Debug().Str("player", p.name).Bool("won", won).Msg("informed of result")
	return nil
}

func removePlaced(hand *[]tiles.Tile, m *move.Move) {
	for _, placed := range m.Tiles() {
		for i, t := range *hand {
			if t == placed {
				*hand = append((*hand)[:i], (*hand)[i+1:]...)
				break
			}
		}
	}
}
