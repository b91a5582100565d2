// Package board implements the playing surface: an unbounded 2-D grid
// of positions, each holding at most one tile.
package board

import (
	"fmt"
	"sort"

	"github.com/tilerow/qgame/tiles"
)

// A Pos is a board coordinate. X is the column, Y the row. The board
// has no edges; any integer pair is addressable.
type Pos struct {
	X int
	Y int
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func (p Pos) Above() Pos { return Pos{p.X, p.Y - 1} }
func (p Pos) Below() Pos { return Pos{p.X, p.Y + 1} }
func (p Pos) Left() Pos  { return Pos{p.X - 1, p.Y} }
func (p Pos) Right() Pos { return Pos{p.X + 1, p.Y} }

// Neighbors returns the four orthogonally adjacent positions.
func (p Pos) Neighbors() [4]Pos {
	return [4]Pos{p.Above(), p.Below(), p.Left(), p.Right()}
}

// Less orders positions in row-column order: smaller row first, then
// smaller column. Strategies break placement ties with this order.
func (p Pos) Less(o Pos) bool {
	if p.Y != o.Y {
		return p.Y < o.Y
	}
	return p.X < o.X
}

// SortPositions sorts positions in row-column order, in place.
func SortPositions(ps []Pos) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].Less(ps[j]) })
}

// A Board maps occupied positions to the tiles sitting on them.
type Board struct {
	placed map[Pos]tiles.Tile
}

// NewBoard returns an empty board. The referee seeds the first tile at
// the origin before any turn is played.
func NewBoard() *Board {
	return &Board{placed: make(map[Pos]tiles.Tile)}
}

// NewBoardWithTiles returns a board with the given tiles already placed.
func NewBoardWithTiles(placed map[Pos]tiles.Tile) *Board {
	b := NewBoard()
	for pos, t := range placed {
		b.placed[pos] = t
	}
	return b
}

// Copy returns a deep copy of the board.
func (b *Board) Copy() *Board {
	return NewBoardWithTiles(b.placed)
}

// TileAt returns the tile at pos, if one is placed there.
func (b *Board) TileAt(pos Pos) (tiles.Tile, bool) {
	t, ok := b.placed[pos]
	return t, ok
}

// HasTile reports whether pos is occupied.
func (b *Board) HasTile(pos Pos) bool {
	_, ok := b.placed[pos]
	return ok
}

// AddTile places a tile. Placing onto an occupied position is a caller
// bug, not a game rule; validation happens before any mutation.
func (b *Board) AddTile(pos Pos, t tiles.Tile) error {
	if _, ok := b.placed[pos]; ok {
		return fmt.Errorf("position %v is already occupied", pos)
	}
	b.placed[pos] = t
	return nil
}

// NumTiles returns the number of placed tiles.
func (b *Board) NumTiles() int {
	return len(b.placed)
}

// Positions returns every occupied position in row-column order.
func (b *Board) Positions() []Pos {
	ps := make([]Pos, 0, len(b.placed))
	for pos := range b.placed {
		ps = append(ps, pos)
	}
	SortPositions(ps)
	return ps
}

// OccupiedNeighbors counts how many of the four neighbors of pos hold
// a tile.
func (b *Board) OccupiedNeighbors(pos Pos) int {
	n := 0
	for _, nb := range pos.Neighbors() {
		if b.HasTile(nb) {
			n++
		}
	}
	return n
}

// ContiguousRow returns the maximal run of occupied positions in the
// row through pos, sorted left to right. pos itself must be occupied.
func (b *Board) ContiguousRow(pos Pos) []Pos {
	return b.contiguous(pos, Pos.Left, Pos.Right)
}

// ContiguousCol returns the maximal run of occupied positions in the
// column through pos, sorted top to bottom.
func (b *Board) ContiguousCol(pos Pos) []Pos {
	return b.contiguous(pos, Pos.Above, Pos.Below)
}

func (b *Board) contiguous(pos Pos, back, fwd func(Pos) Pos) []Pos {
	if !b.HasTile(pos) {
		return nil
	}
	run := []Pos{pos}
	for p := back(pos); b.HasTile(p); p = back(p) {
		run = append(run, p)
	}
	for p := fwd(pos); b.HasTile(p); p = fwd(p) {
		run = append(run, p)
	}
	SortPositions(run)
	return run
}
