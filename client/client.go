// Package client connects a local player to a remote referee: it
// dials, hands over its name, then serves the four-verb protocol until
// the match ends, routing each received call to the player and
// shipping the result back.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"

	"github.com/tilerow/qgame/player"
	"github.com/tilerow/qgame/wire"
)

// A Client owns one connection and one local player.
type Client struct {
	player  player.Player
	addr    string
	maxWait time.Duration
}

// New builds a client that will connect p to addr (host:port).
// maxWait bounds the dial retries.
func New(p player.Player, addr string, maxWait time.Duration) *Client {
	if maxWait <= 0 {
		maxWait = 3 * time.Second
	}
	return &Client{player: p, addr: addr, maxWait: maxWait}
}

// Run dials, performs the name handshake, and serves calls until the
// win verb arrives, the connection drops, or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(c.player.Name())); err != nil {
		return fmt.Errorf("sending name: %w", err)
	}
	log.Info().Str("player", c.player.Name()).Str("addr", c.addr).Msg("joined match")

	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)
	for {
		var msg wire.Message
		if err := dec.Decode(&msg); err != nil {
			return fmt.Errorf("reading call: %w", err)
		}
		reply, err := c.dispatch(ctx, msg)
		if err != nil {
			return err
		}
		if err := enc.Encode(reply); err != nil {
			return fmt.Errorf("replying to %s: %w", msg.Verb, err)
		}
		if msg.Verb == wire.VerbWin {
			return nil
		}
	}
}

// dial retries the connection until it lands or the wait budget runs
// out; the server may come up after the client.
func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	dctx, cancel := context.WithTimeout(ctx, c.maxWait)
	defer cancel()

	var conn net.Conn
	err := retry.Do(
		func() error {
			var err error
			conn, err = (&net.Dialer{}).DialContext(dctx, "tcp", c.addr)
			return err
		},
		retry.Context(dctx),
		retry.Attempts(0),
		retry.Delay(200*time.Millisecond),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", c.addr, err)
	}
	return conn, nil
}

// dispatch invokes the local player method for one call and returns
// the value to reply with.
func (c *Client) dispatch(ctx context.Context, msg wire.Message) (interface{}, error) {
	switch msg.Verb {
	case wire.VerbSetup:
		if len(msg.Args) != 2 {
			return nil, fmt.Errorf("%w: setup takes a view and a tile list", wire.ErrProtocol)
		}
		var pub wire.JPub
		if err := json.Unmarshal(msg.Args[0], &pub); err != nil {
			return nil, fmt.Errorf("%w: %v", wire.ErrProtocol, err)
		}
		var jts []wire.JTile
		if err := json.Unmarshal(msg.Args[1], &jts); err != nil {
			return nil, fmt.Errorf("%w: %v", wire.ErrProtocol, err)
		}
		view, err := wire.ViewFromPub(pub)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", wire.ErrProtocol, err)
		}
		hand, err := wire.TilesFromWire(jts)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", wire.ErrProtocol, err)
		}
		if err := c.player.Setup(ctx, view, hand); err != nil {
			return nil, err
		}
		return wire.Void, nil

	case wire.VerbTakeTurn:
		if len(msg.Args) != 1 {
			return nil, fmt.Errorf("%w: take-turn takes a view", wire.ErrProtocol)
		}
		var pub wire.JPub
		if err := json.Unmarshal(msg.Args[0], &pub); err != nil {
			return nil, fmt.Errorf("%w: %v", wire.ErrProtocol, err)
		}
		view, err := wire.ViewFromPub(pub)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", wire.ErrProtocol, err)
		}
		m, err := c.player.TakeTurn(ctx, view)
		if err != nil {
			return nil, err
		}
		choice, err := wire.EncodeMove(m)
		if err != nil {
			return nil, err
		}
		return choice, nil

	case wire.VerbNewTiles:
		if len(msg.Args) != 1 {
			return nil, fmt.Errorf("%w: new-tiles takes a tile list", wire.ErrProtocol)
		}
		var jts []wire.JTile
		if err := json.Unmarshal(msg.Args[0], &jts); err != nil {
			return nil, fmt.Errorf("%w: %v", wire.ErrProtocol, err)
		}
		ts, err := wire.TilesFromWire(jts)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", wire.ErrProtocol, err)
		}
		if err := c.player.NewTiles(ctx, ts); err != nil {
			return nil, err
		}
		return wire.Void, nil

	case wire.VerbWin:
		if len(msg.Args) != 1 {
			return nil, fmt.Errorf("%w: win takes a boolean", wire.ErrProtocol)
		}
		var won bool
		if err := json.Unmarshal(msg.Args[0], &won); err != nil {
			return nil, fmt.Errorf("%w: %v", wire.ErrProtocol, err)
		}
		if err := c.player.Win(ctx, won); err != nil {
			return nil, err
		}
		return wire.Void, nil
	}
	return nil, fmt.Errorf("%w: unknown verb %q", wire.ErrProtocol, msg.Verb)
}
