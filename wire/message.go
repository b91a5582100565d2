package wire

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/tilerow/qgame/move"
	"github.com/tilerow/qgame/referee"
)

// ErrProtocol tags a received message that matches no known verb or
// argument shape. It is local to the one call that produced it.
var ErrProtocol = errors.New("protocol error")

// The four verbs of the protocol. There is no fifth; an unknown verb
// is a protocol error charged to the sender.
const (
	VerbSetup    = "setup"
	VerbTakeTurn = "take-turn"
	VerbNewTiles = "new-tiles"
	VerbWin      = "win"
)

// Void is the fixed reply for commands with no meaningful return.
const Void = "void"

// A Message is one call on the wire: a two-element array of the verb
// name and its argument list.
type Message struct {
	Verb string
	Args []json.RawMessage
}

func (m Message) MarshalJSON() ([]byte, error) {
	args := m.Args
	if args == nil {
		args = []json.RawMessage{}
	}
	return json.Marshal([]interface{}{m.Verb, args})
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 2 {
		return fmt.Errorf("a call is a two-element [verb, args] array, got %d elements", len(parts))
	}
	if err := json.Unmarshal(parts[0], &m.Verb); err != nil {
		return fmt.Errorf("bad verb: %w", err)
	}
	if err := json.Unmarshal(parts[1], &m.Args); err != nil {
		return fmt.Errorf("bad argument list: %w", err)
	}
	return nil
}

// NewMessage builds a call message, marshalling each argument.
func NewMessage(verb string, args ...interface{}) (Message, error) {
	m := Message{Verb: verb}
	for _, arg := range args {
		raw, err := json.Marshal(arg)
		if err != nil {
			return Message{}, err
		}
		m.Args = append(m.Args, raw)
	}
	return m, nil
}

// EncodeMove converts a move to its wire choice: the strings "pass" or
// "replace", or a list of single-tile placements in placement order.
func EncodeMove(m *move.Move) (json.RawMessage, error) {
	switch m.Type {
	case move.MoveTypePass:
		return json.Marshal("pass")
	case move.MoveTypeExchange:
		return json.Marshal("replace")
	case move.MoveTypePlace:
		jps := make([]JPlacement, len(m.Placements))
		for i, pl := range m.Placements {
			jps[i] = JPlacement{Coordinate: PosToWire(pl.Pos), Tile: TileToWire(pl.Tile)}
		}
		return json.Marshal(jps)
	}
	return nil, fmt.Errorf("unknown move type %d", m.Type)
}

// DecodeMove parses a wire choice back into a move.
func DecodeMove(raw json.RawMessage) (*move.Move, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch s {
		case "pass":
			return move.NewPassMove(), nil
		case "replace":
			return move.NewExchangeMove(), nil
		}
		return nil, fmt.Errorf("unknown turn choice %q", s)
	}
	var jps []JPlacement
	if err := json.Unmarshal(raw, &jps); err != nil {
		return nil, fmt.Errorf("turn choice is neither a keyword nor a placement list: %w", err)
	}
	if len(jps) == 0 {
		return nil, fmt.Errorf("a placement choice needs at least one placement")
	}
	placements := make([]move.Placement, len(jps))
	for i, jp := range jps {
		t, err := TileFromWire(jp.Tile)
		if err != nil {
			return nil, err
		}
		placements[i] = move.Placement{Pos: PosFromWire(jp.Coordinate), Tile: t}
	}
	return move.NewPlacementMove(placements), nil
}

// EncodeResult converts a match result to the printed wire form:
// [[winner, ...], [misbehaved, ...]] with winners sorted by name.
func EncodeResult(res *referee.Result) ([]byte, error) {
	winners := append([]string{}, res.Winners...)
	sort.Strings(winners)
	misbehaved := res.Misbehaved
	if misbehaved == nil {
		misbehaved = []string{}
	}
	return json.Marshal([][]string{winners, misbehaved})
}
