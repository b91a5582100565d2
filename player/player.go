// Package player defines the actor contract: the four callbacks the
// referee drives a participant through, and the behavioral variants
// used to exercise the referee (well-behaved, erroring, stalling). The
// referee never inspects which variant it is talking to; it only
// validates what comes back.
package player

import (
	"context"

	"github.com/tilerow/qgame/game"
	"github.com/tilerow/qgame/move"
	"github.com/tilerow/qgame/tiles"
)

// A Player is a participant's decision maker, local or remote. Every
// callback receives the referee's deadline through ctx; a player that
// outlives it is treated as failed and evicted. Implementations must
// not retain the view or tile slices they are handed.
type Player interface {
	// Name returns the display name the participant signed up with.
	Name() string
	// Setup hands the player the initial view and its starting tiles.
	Setup(ctx context.Context, view *game.PublicView, hand []tiles.Tile) error
	// TakeTurn asks the player for its move given the current view.
	TakeTurn(ctx context.Context, view *game.PublicView) (*move.Move, error)
	// NewTiles hands the player the tiles drawn after its placement.
	NewTiles(ctx context.Context, newTiles []tiles.Tile) error
	// Win tells the player whether it won the match.
	Win(ctx context.Context, won bool) error
}

// A Callback names one of the four player callbacks. The faulty
// variants are configured with the callback they misbehave in.
type Callback string

const (
	CallbackSetup    Callback = "setup"
	CallbackTakeTurn Callback = "take-turn"
	CallbackNewTiles Callback = "new-tiles"
	CallbackWin      Callback = "win"
)
