package client

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/tilerow/qgame/board"
	"github.com/tilerow/qgame/game"
	"github.com/tilerow/qgame/player"
	"github.com/tilerow/qgame/tiles"
	"github.com/tilerow/qgame/wire"
)

func testPub(t *testing.T, forSetup bool) wire.JPub {
	t.Helper()
	view := &game.PublicView{
		Board: board.NewBoardWithTiles(map[board.Pos]tiles.Tile{
			{X: 0, Y: 0}: {Shape: tiles.Star, Color: tiles.Red},
		}),
		BagCount: 30,
		Me: &game.PlayerState{
			Name: "bob",
			Hand: []tiles.Tile{{Shape: tiles.Star, Color: tiles.Green}},
		},
	}
	pub, err := wire.PubFromView(view, forSetup)
	if err != nil {
		t.Fatal(err)
	}
	return pub
}

func mustMessage(t *testing.T, verb string, args ...interface{}) wire.Message {
	t.Helper()
	msg, err := wire.NewMessage(verb, args...)
	if err != nil {
		t.Fatal(err)
	}
	return msg
}

func TestDispatchSetupAndWinReplyVoid(t *testing.T) {
	is := is.New(t)

	c := New(player.NewLocalPlayer("bob", nil), "localhost:0", time.Second)

	hand := []wire.JTile{{Color: "green", Shape: "star"}}
	reply, err := c.dispatch(context.Background(), mustMessage(t, wire.VerbSetup, testPub(t, true), hand))
	is.NoErr(err)
	is.Equal(reply, wire.Void)

	reply, err = c.dispatch(context.Background(), mustMessage(t, wire.VerbWin, true))
	is.NoErr(err)
	is.Equal(reply, wire.Void)
}

func TestDispatchTakeTurnReturnsAnEncodedMove(t *testing.T) {
	is := is.New(t)

	c := New(player.NewLocalPlayer("bob", nil), "localhost:0", time.Second)

	// Seed the player's hand through setup first.
	hand := []wire.JTile{{Color: "green", Shape: "star"}}
	_, err := c.dispatch(context.Background(), mustMessage(t, wire.VerbSetup, testPub(t, true), hand))
	is.NoErr(err)

	reply, err := c.dispatch(context.Background(), mustMessage(t, wire.VerbTakeTurn, testPub(t, false)))
	is.NoErr(err)

	raw, ok := reply.(json.RawMessage)
	is.True(ok)
	m, err := wire.DecodeMove(raw)
	is.NoErr(err)
	// A green star beside a red star: the greedy player places it.
	is.Equal(len(m.Placements), 1)
}

func TestDispatchNewTiles(t *testing.T) {
	is := is.New(t)

	c := New(player.NewLocalPlayer("bob", nil), "localhost:0", time.Second)
	reply, err := c.dispatch(context.Background(), mustMessage(t, wire.VerbNewTiles, []wire.JTile{
		{Color: "blue", Shape: "square"},
	}))
	is.NoErr(err)
	is.Equal(reply, wire.Void)
}

func TestDispatchRejectsMalformedCalls(t *testing.T) {
	c := New(player.NewLocalPlayer("bob", nil), "localhost:0", time.Second)

	cases := []wire.Message{
		mustMessage(t, "fold"),                               // unknown verb
		mustMessage(t, wire.VerbSetup, testPub(t, true)),     // missing hand
		mustMessage(t, wire.VerbTakeTurn),                    // missing view
		mustMessage(t, wire.VerbWin, "yes"),                  // non-boolean
		mustMessage(t, wire.VerbNewTiles, "a bag of tiles?"), // non-list
	}
	for _, msg := range cases {
		if _, err := c.dispatch(context.Background(), msg); !errors.Is(err, wire.ErrProtocol) {
			t.Errorf("verb %q with %d args: expected a protocol error, got %v",
				msg.Verb, len(msg.Args), err)
		}
	}
}

func TestDialGivesUpAfterMaxWait(t *testing.T) {
	is := is.New(t)

	// Nobody listens on a reserved port; the dial budget must bound
	// the retries.
	c := New(player.NewLocalPlayer("bob", nil), "localhost:1", 300*time.Millisecond)
	start := time.Now()
	_, err := c.dial(context.Background())
	if err == nil {
		t.Fatal("dialing a dead address should fail")
	}
	is.True(time.Since(start) < 5*time.Second)
}
