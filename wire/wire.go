// Package wire defines the JSON shapes exchanged between referee and
// remote actors, and the converters between them and the in-memory
// types. Every value is self-delimiting, so a json.Decoder can pull
// messages off a continuous byte stream without any framing.
package wire

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/tilerow/qgame/board"
	"github.com/tilerow/qgame/game"
	"github.com/tilerow/qgame/tiles"
)

// JTile is a tile on the wire.
type JTile struct {
	Color string `json:"color"`
	Shape string `json:"shape"`
}

// JCoordinate is a board position on the wire. Note the row-major
// order: row is Y, column is X.
type JCoordinate struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// JPlacement is exactly one placed tile. A multi-tile turn is a list
// of these, never a single entry with several coordinates.
type JPlacement struct {
	Coordinate JCoordinate `json:"coordinate"`
	Tile       JTile       `json:"tile"`
}

// JPlayer is one participant's public record.
type JPlayer struct {
	Score int     `json:"score"`
	Name  string  `json:"name"`
	Tiles []JTile `json:"tile*"`
}

// TileToWire converts a tile to its wire form.
func TileToWire(t tiles.Tile) JTile {
	return JTile{Color: t.Color.String(), Shape: t.Shape.String()}
}

// TileFromWire parses a wire tile.
func TileFromWire(jt JTile) (tiles.Tile, error) {
	color, err := tiles.ParseColor(jt.Color)
	if err != nil {
		return tiles.Tile{}, err
	}
	shape, err := tiles.ParseShape(jt.Shape)
	if err != nil {
		return tiles.Tile{}, err
	}
	return tiles.Tile{Shape: shape, Color: color}, nil
}

// TilesToWire converts a tile slice.
func TilesToWire(ts []tiles.Tile) []JTile {
	jts := make([]JTile, len(ts))
	for i, t := range ts {
		jts[i] = TileToWire(t)
	}
	return jts
}

// TilesFromWire parses a wire tile slice.
func TilesFromWire(jts []JTile) ([]tiles.Tile, error) {
	ts := make([]tiles.Tile, len(jts))
	for i, jt := range jts {
		t, err := TileFromWire(jt)
		if err != nil {
			return nil, err
		}
		ts[i] = t
	}
	return ts, nil
}

// PosToWire converts a position.
func PosToWire(p board.Pos) JCoordinate {
	return JCoordinate{Row: p.Y, Column: p.X}
}

// PosFromWire parses a wire coordinate.
func PosFromWire(jc JCoordinate) board.Pos {
	return board.Pos{X: jc.Column, Y: jc.Row}
}

// JMap encodes a board as ordered row groups:
// [[rowIndex, [colIndex, JTile], ...], ...], rows ascending and columns
// ascending within each row.
type JMap [][]json.RawMessage

// BoardToWire encodes a board.
func BoardToWire(b *board.Board) (JMap, error) {
	byRow := make(map[int][]board.Pos)
	rows := []int{}
	for _, pos := range b.Positions() {
		if _, ok := byRow[pos.Y]; !ok {
			rows = append(rows, pos.Y)
		}
		byRow[pos.Y] = append(byRow[pos.Y], pos)
	}
	sort.Ints(rows)

	jm := make(JMap, 0, len(rows))
	for _, y := range rows {
		group := []json.RawMessage{mustMarshal(y)}
		// Positions() is already sorted row-column, so columns within
		// one row arrive ascending.
		for _, pos := range byRow[y] {
			t, _ := b.TileAt(pos)
			cell := []interface{}{pos.X, TileToWire(t)}
			raw, err := json.Marshal(cell)
			if err != nil {
				return nil, err
			}
			group = append(group, raw)
		}
		jm = append(jm, group)
	}
	return jm, nil
}

// BoardFromWire decodes a board. Malformed groups are protocol errors.
func BoardFromWire(jm JMap) (*board.Board, error) {
	b := board.NewBoard()
	for _, group := range jm {
		if len(group) < 2 {
			return nil, fmt.Errorf("map row group needs a row index and at least one cell")
		}
		var row int
		if err := json.Unmarshal(group[0], &row); err != nil {
			return nil, fmt.Errorf("bad row index: %w", err)
		}
		for _, rawCell := range group[1:] {
			var cell []json.RawMessage
			if err := json.Unmarshal(rawCell, &cell); err != nil || len(cell) != 2 {
				return nil, fmt.Errorf("bad map cell in row %d", row)
			}
			var col int
			if err := json.Unmarshal(cell[0], &col); err != nil {
				return nil, fmt.Errorf("bad column index in row %d: %w", row, err)
			}
			var jt JTile
			if err := json.Unmarshal(cell[1], &jt); err != nil {
				return nil, fmt.Errorf("bad tile at (%d,%d): %w", col, row, err)
			}
			t, err := TileFromWire(jt)
			if err != nil {
				return nil, err
			}
			if err := b.AddTile(board.Pos{X: col, Y: row}, t); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}

// PlayerToWire encodes a participant record with its hand.
func PlayerToWire(p *game.PlayerState) JPlayer {
	return JPlayer{Score: p.Score, Name: p.Name, Tiles: TilesToWire(p.Hand)}
}

// PlayerFromWire decodes a participant record.
func PlayerFromWire(jp JPlayer) (*game.PlayerState, error) {
	hand, err := TilesFromWire(jp.Tiles)
	if err != nil {
		return nil, err
	}
	return &game.PlayerState{Name: jp.Name, Hand: hand, Score: jp.Score}, nil
}

func mustMarshal(v interface{}) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}
