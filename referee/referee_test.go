package referee

import (
	"context"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilerow/qgame/board"
	"github.com/tilerow/qgame/game"
	"github.com/tilerow/qgame/move"
	"github.com/tilerow/qgame/player"
	"github.com/tilerow/qgame/rules"
	"github.com/tilerow/qgame/strategy"
	"github.com/tilerow/qgame/tiles"
)

func tile(s tiles.Shape, c tiles.Color) tiles.Tile {
	return tiles.Tile{Shape: s, Color: c}
}

// scripted is a test actor that plays a fixed sequence of moves and
// records which callbacks it saw.
type scripted struct {
	name    string
	moves   []*move.Move
	winErr  error
	won     *bool
	turns   int
	setup   bool
	newTile int
	// turnLog, when shared between players, records the match's turn
	// order.
	turnLog *[]string
}

func (s *scripted) Name() string { return s.name }

func (s *scripted) Setup(ctx context.Context, view *game.PublicView, hand []tiles.Tile) error {
	s.setup = true
	return nil
}

func (s *scripted) TakeTurn(ctx context.Context, view *game.PublicView) (*move.Move, error) {
	if s.turnLog != nil {
		*s.turnLog = append(*s.turnLog, s.name)
	}
	s.turns++
	if s.turns > len(s.moves) {
		return move.NewPassMove(), nil
	}
	return s.moves[s.turns-1], nil
}

func (s *scripted) NewTiles(ctx context.Context, newTiles []tiles.Tile) error {
	s.newTile += len(newTiles)
	return nil
}

func (s *scripted) Win(ctx context.Context, won bool) error {
	s.won = &won
	return s.winErr
}

// startState builds a deterministic match: the board is pre-seeded
// with a red star at the origin, the deck is fixed, and each player's
// hand is set explicitly.
func startState(t *testing.T, deck []tiles.Tile, hands map[string][]tiles.Tile, order ...string) *game.GameState {
	t.Helper()
	b := board.NewBoardWithTiles(map[board.Pos]tiles.Tile{
		{X: 0, Y: 0}: tile(tiles.Star, tiles.Red),
	})
	players := make([]*game.PlayerState, len(order))
	for i, name := range order {
		players[i] = &game.PlayerState{Name: name, Hand: hands[name]}
	}
	st, err := game.NewGameState(b, tiles.NewBag(deck), players)
	require.NoError(t, err)
	return st
}

func TestPlacingOutEndsTheMatch(t *testing.T) {
	is := is.New(t)

	// alice holds one matching tile and plays it out; bob never gets
	// a turn.
	alice := &scripted{name: "alice", moves: []*move.Move{
		move.NewPlacementMove([]move.Placement{
			{Pos: board.Pos{X: 1, Y: 0}, Tile: tile(tiles.Star, tiles.Green)},
		}),
	}}
	bob := &scripted{name: "bob"}
	st := startState(t, nil, map[string][]tiles.Tile{
		"alice": {tile(tiles.Star, tiles.Green)},
		"bob":   {tile(tiles.Clover, tiles.Purple)},
	}, "alice", "bob")

	ref := New(Config{PerTurn: time.Second})
	res, err := ref.RunWithState(context.Background(), []player.Player{alice, bob}, st)
	is.NoErr(err)

	// 1 tile + 2 row + 1 column + the end bonus.
	is.Equal(st.PlayerRecord("alice").Score, 4+4)
	is.Equal(res.Winners, []string{"alice"})
	is.Equal(len(res.Misbehaved), 0)
	is.Equal(bob.turns, 0)

	// Both were told the outcome.
	is.True(alice.won != nil && *alice.won)
	is.True(bob.won != nil && !*bob.won)

	// Going out ends the match with no replenishment.
	is.Equal(alice.newTile, 0)
	is.Equal(len(st.PlayerRecord("alice").Hand), 0)
}

func TestFullPassRoundEndsTheMatch(t *testing.T) {
	is := is.New(t)

	alice := &scripted{name: "alice"}
	bob := &scripted{name: "bob"}
	st := startState(t, nil, map[string][]tiles.Tile{
		"alice": {tile(tiles.Clover, tiles.Purple)},
		"bob":   {tile(tiles.Clover, tiles.Orange)},
	}, "alice", "bob")

	ref := New(Config{PerTurn: time.Second})
	res, err := ref.RunWithState(context.Background(), []player.Player{alice, bob}, st)
	is.NoErr(err)

	// Tied at zero: both win.
	is.Equal(res.Winners, []string{"alice", "bob"})
	is.Equal(alice.turns, 1)
	is.Equal(bob.turns, 1)
}

func TestRuleViolationEvicts(t *testing.T) {
	is := is.New(t)

	// bob plays a tile detached from the board.
	alice := &scripted{name: "alice"}
	bob := &scripted{name: "bob", moves: []*move.Move{
		move.NewPlacementMove([]move.Placement{
			{Pos: board.Pos{X: 10, Y: 10}, Tile: tile(tiles.Star, tiles.Green)},
		}),
	}}
	st := startState(t, nil, map[string][]tiles.Tile{
		"alice": {tile(tiles.Clover, tiles.Purple)},
		"bob":   {tile(tiles.Star, tiles.Green)},
	}, "alice", "bob")

	ref := New(Config{PerTurn: time.Second})
	res, err := ref.RunWithState(context.Background(), []player.Player{alice, bob}, st)
	is.NoErr(err)

	is.Equal(res.Misbehaved, []string{"bob"})
	is.Equal(res.Winners, []string{"alice"})
	// bob heard nothing after eviction.
	is.True(bob.won == nil)
}

func TestTileNotOwnedEvicts(t *testing.T) {
	is := is.New(t)

	alice := &scripted{name: "alice"}
	// The move itself is board-legal, but bob does not hold the tile.
	bob := &scripted{name: "bob", moves: []*move.Move{
		move.NewPlacementMove([]move.Placement{
			{Pos: board.Pos{X: 1, Y: 0}, Tile: tile(tiles.Star, tiles.Green)},
		}),
	}}
	st := startState(t, nil, map[string][]tiles.Tile{
		"alice": {tile(tiles.Clover, tiles.Purple)},
		"bob":   {tile(tiles.Clover, tiles.Orange)},
	}, "bob", "alice")

	ref := New(Config{PerTurn: time.Second})
	res, err := ref.RunWithState(context.Background(), []player.Player{bob, alice}, st)
	is.NoErr(err)
	is.Equal(res.Misbehaved, []string{"bob"})
}

func TestIllegalExchangeEvicts(t *testing.T) {
	is := is.New(t)

	alice := &scripted{name: "alice"}
	bob := &scripted{name: "bob", moves: []*move.Move{move.NewExchangeMove()}}
	// An empty deck cannot cover bob's one-tile hand.
	st := startState(t, nil, map[string][]tiles.Tile{
		"alice": {tile(tiles.Clover, tiles.Purple)},
		"bob":   {tile(tiles.Clover, tiles.Orange)},
	}, "bob", "alice")

	ref := New(Config{PerTurn: time.Second})
	res, err := ref.RunWithState(context.Background(), []player.Player{bob, alice}, st)
	is.NoErr(err)
	is.Equal(res.Misbehaved, []string{"bob"})
	is.Equal(res.Winners, []string{"alice"})
}

func TestExchangeDealsAFreshHand(t *testing.T) {
	is := is.New(t)

	deck := []tiles.Tile{tile(tiles.Square, tiles.Blue), tile(tiles.Square, tiles.Yellow)}
	alice := &scripted{name: "alice", moves: []*move.Move{move.NewExchangeMove()}}
	bob := &scripted{name: "bob"}
	st := startState(t, deck, map[string][]tiles.Tile{
		"alice": {tile(tiles.Clover, tiles.Purple)},
		"bob":   {tile(tiles.Clover, tiles.Orange)},
	}, "alice", "bob")

	ref := New(Config{PerTurn: time.Second})
	_, err := ref.RunWithState(context.Background(), []player.Player{alice, bob}, st)
	is.NoErr(err)

	// alice surrendered one tile and heard about her whole new hand.
	is.True(alice.newTile >= 1)
	is.Equal(len(st.PlayerRecord("alice").Hand), alice.newTile)
}

func TestTimeoutEvicts(t *testing.T) {
	is := is.New(t)

	slowBase := &scripted{name: "slow"}
	slow := player.NewStallPlayer(slowBase, player.CallbackTakeTurn, 1)
	quick := &scripted{name: "quick"}
	st := startState(t, nil, map[string][]tiles.Tile{
		"slow":  {tile(tiles.Clover, tiles.Purple)},
		"quick": {tile(tiles.Clover, tiles.Orange)},
	}, "slow", "quick")

	ref := New(Config{PerTurn: 30 * time.Millisecond})
	start := time.Now()
	res, err := ref.RunWithState(context.Background(), []player.Player{slow, quick}, st)
	is.NoErr(err)

	is.Equal(res.Misbehaved, []string{"slow"})
	is.Equal(res.Winners, []string{"quick"})
	// The staller's hand went back to the pile.
	is.Equal(st.TilesRemaining(), 1)
	// The match never waits past the per-call budget for a staller.
	assert.Less(t, time.Since(start), time.Second)
}

func TestEvictionDuringCommitKeepsFIFOOrder(t *testing.T) {
	is := is.New(t)

	// alice places legally but her new-tiles delivery fails, so she is
	// evicted while at the head of the queue. The next turn must still
	// be bob's, in signup order.
	var turnLog []string
	aliceBase := &scripted{name: "alice", turnLog: &turnLog, moves: []*move.Move{
		move.NewPlacementMove([]move.Placement{
			{Pos: board.Pos{X: 1, Y: 0}, Tile: tile(tiles.Star, tiles.Green)},
		}),
	}}
	alice := player.NewFaultyPlayer(aliceBase, player.CallbackNewTiles)
	bob := &scripted{name: "bob", turnLog: &turnLog}
	cara := &scripted{name: "cara", turnLog: &turnLog}

	// One tile in the deck so the placement triggers a delivery.
	deck := []tiles.Tile{tile(tiles.Square, tiles.Blue)}
	st := startState(t, deck, map[string][]tiles.Tile{
		"alice": {tile(tiles.Star, tiles.Green), tile(tiles.Star, tiles.Blue)},
		"bob":   {tile(tiles.Clover, tiles.Purple)},
		"cara":  {tile(tiles.Clover, tiles.Orange)},
	}, "alice", "bob", "cara")

	ref := New(Config{PerTurn: time.Second})
	res, err := ref.RunWithState(context.Background(), []player.Player{alice, bob, cara}, st)
	is.NoErr(err)

	is.Equal(res.Misbehaved, []string{"alice"})
	is.Equal(turnLog, []string{"alice", "bob", "cara"})
}

func TestConfigHonorsExplicitZeroBonuses(t *testing.T) {
	is := is.New(t)

	// Nil means defaults; a config that deliberately zeroes both
	// bonuses is kept as given.
	is.Equal(New(Config{}).score, rules.DefaultScoreConfig())
	is.Equal(New(Config{Score: &rules.ScoreConfig{}}).score, rules.ScoreConfig{})
	is.Equal(New(Config{Score: &rules.ScoreConfig{QBonus: 3}}).score, rules.ScoreConfig{QBonus: 3})
}

func TestSingleParticipantMatch(t *testing.T) {
	is := is.New(t)

	solo := &scripted{name: "solo"}
	st := startState(t, nil, map[string][]tiles.Tile{
		"solo": {tile(tiles.Clover, tiles.Purple)},
	}, "solo")

	ref := New(Config{PerTurn: time.Second})
	res, err := ref.RunWithState(context.Background(), []player.Player{solo}, st)
	is.NoErr(err)
	is.Equal(res.Winners, []string{"solo"})
	is.Equal(len(res.Misbehaved), 0)
}

func TestSetupFaultEvictsBeforeAnyTurn(t *testing.T) {
	is := is.New(t)

	badBase := &scripted{name: "bad"}
	bad := player.NewFaultyPlayer(badBase, player.CallbackSetup)
	good := &scripted{name: "good"}
	st := startState(t, nil, map[string][]tiles.Tile{
		"bad":  {tile(tiles.Clover, tiles.Purple)},
		"good": {tile(tiles.Clover, tiles.Orange)},
	}, "bad", "good")

	ref := New(Config{PerTurn: time.Second})
	res, err := ref.RunWithState(context.Background(), []player.Player{bad, good}, st)
	is.NoErr(err)

	is.Equal(res.Misbehaved, []string{"bad"})
	is.Equal(badBase.turns, 0)
}

func TestWinnersFixedBeforeNotification(t *testing.T) {
	is := is.New(t)

	// alice wins, then crashes in the win callback. She stays the
	// winner and additionally lands in the misbehaved list.
	alice := &scripted{
		name: "alice",
		moves: []*move.Move{
			move.NewPlacementMove([]move.Placement{
				{Pos: board.Pos{X: 1, Y: 0}, Tile: tile(tiles.Star, tiles.Green)},
			}),
		},
		winErr: context.Canceled,
	}
	bob := &scripted{name: "bob"}
	st := startState(t, nil, map[string][]tiles.Tile{
		"alice": {tile(tiles.Star, tiles.Green)},
		"bob":   {tile(tiles.Clover, tiles.Purple)},
	}, "alice", "bob")

	ref := New(Config{PerTurn: time.Second})
	res, err := ref.RunWithState(context.Background(), []player.Player{alice, bob}, st)
	is.NoErr(err)

	is.Equal(res.Winners, []string{"alice"})
	is.Equal(res.Misbehaved, []string{"alice"})
}

func TestPanickingActorIsAFaultNotACrash(t *testing.T) {
	is := is.New(t)

	boom := &panicker{name: "boom"}
	calm := &scripted{name: "calm"}
	st := startState(t, nil, map[string][]tiles.Tile{
		"boom": {tile(tiles.Clover, tiles.Purple)},
		"calm": {tile(tiles.Clover, tiles.Orange)},
	}, "boom", "calm")

	ref := New(Config{PerTurn: time.Second})
	res, err := ref.RunWithState(context.Background(), []player.Player{boom, calm}, st)
	is.NoErr(err)
	is.Equal(res.Misbehaved, []string{"boom"})
	is.Equal(res.Winners, []string{"calm"})
}

// panicker panics in take-turn; everything else behaves.
type panicker struct {
	scripted
	name string
}

func (p *panicker) Name() string { return p.name }

func (p *panicker) TakeTurn(ctx context.Context, view *game.PublicView) (*move.Move, error) {
	panic("lost my marbles")
}

func TestRunWithStateRejectsUnknownPlayers(t *testing.T) {
	stranger := &scripted{name: "stranger"}
	st := startState(t, nil, map[string][]tiles.Tile{
		"alice": {tile(tiles.Clover, tiles.Purple)},
	}, "alice")

	ref := New(Config{PerTurn: time.Second})
	_, err := ref.RunWithState(context.Background(), []player.Player{stranger}, st)
	if err == nil {
		t.Error("a player without a state record must be rejected before play")
	}
}

func TestFullMatchWithLocalPlayers(t *testing.T) {
	is := is.New(t)

	// A whole match between the two reference strategies ends, names a
	// winner, and evicts nobody.
	a := player.NewLocalPlayer("dag", nil)
	b := player.NewLocalPlayer("ldasg", strategy.Ldasg{})

	ref := New(Config{PerTurn: time.Second})
	res, err := ref.Run(context.Background(), []player.Player{a, b})
	is.NoErr(err)
	is.Equal(len(res.Misbehaved), 0)
	is.True(len(res.Winners) >= 1)
}
