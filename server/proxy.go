package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"

	"github.com/tilerow/qgame/game"
	"github.com/tilerow/qgame/move"
	"github.com/tilerow/qgame/tiles"
	"github.com/tilerow/qgame/wire"
)

// A ProxyPlayer is the server-side stub for a remote actor: it
// satisfies the player contract by turning each callback into a wire
// message on its connection and blocking, up to the caller's deadline,
// for the reply. A timeout, disconnect, or malformed reply surfaces as
// an error, which the referee converts to eviction.
type ProxyPlayer struct {
	name string
	conn net.Conn
	enc  *json.Encoder
	dec  *json.Decoder
}

// NewProxyPlayer wraps an accepted connection whose handshake already
// yielded the display name.
func NewProxyPlayer(name string, conn net.Conn) *ProxyPlayer {
	return &ProxyPlayer{
		name: name,
		conn: conn,
		enc:  json.NewEncoder(conn),
		dec:  json.NewDecoder(conn),
	}
}

func (p *ProxyPlayer) Name() string {
	return p.name
}

// Close releases the connection. The server closes every proxy on
// match end; the referee's eviction path gets here via the connection
// erroring out.
func (p *ProxyPlayer) Close() error {
	return p.conn.Close()
}

func (p *ProxyPlayer) Setup(ctx context.Context, view *game.PublicView, hand []tiles.Tile) error {
	pub, err := wire.PubFromView(view, true)
	if err != nil {
		return err
	}
	reply, err := p.call(ctx, wire.VerbSetup, pub, wire.TilesToWire(hand))
	if err != nil {
		return err
	}
	return expectVoid(reply)
}

func (p *ProxyPlayer) TakeTurn(ctx context.Context, view *game.PublicView) (*move.Move, error) {
	pub, err := wire.PubFromView(view, false)
	if err != nil {
		return nil, err
	}
	reply, err := p.call(ctx, wire.VerbTakeTurn, pub)
	if err != nil {
		return nil, err
	}
	return wire.DecodeMove(reply)
}

func (p *ProxyPlayer) NewTiles(ctx context.Context, newTiles []tiles.Tile) error {
	reply, err := p.call(ctx, wire.VerbNewTiles, wire.TilesToWire(newTiles))
	if err != nil {
		return err
	}
	return expectVoid(reply)
}

func (p *ProxyPlayer) Win(ctx context.Context, won bool) error {
	reply, err := p.call(ctx, wire.VerbWin, won)
	if err != nil {
		return err
	}
	return expectVoid(reply)
}

// call sends one verb and waits for the single reply value. The
// context deadline is mirrored onto the socket so a silent peer cannot
// hold the referee past its budget.
func (p *ProxyPlayer) call(ctx context.Context, verb string, args ...interface{}) (json.RawMessage, error) {
	msg, err := wire.NewMessage(verb, args...)
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := p.conn.SetDeadline(deadline); err != nil {
			return nil, err
		}
	}
	if err := p.enc.Encode(msg); err != nil {
		return nil, fmt.Errorf("sending %s to %s: %w", verb, p.name, err)
	}
	var reply json.RawMessage
	if err := p.dec.Decode(&reply); err != nil {
		return nil, fmt.Errorf("awaiting %s reply from %s: %w", verb, p.name, err)
	}
	return reply, nil
}

func expectVoid(reply json.RawMessage) error {
	var s string
	if err := json.Unmarshal(reply, &s); err != nil || s != wire.Void {
		return fmt.Errorf("expected %q acknowledgement, got %s", wire.Void, string(reply))
	}
	return nil
}
