package board

import (
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/tilerow/qgame/tiles"
)

func TestAddTile(t *testing.T) {
	is := is.New(t)

	b := NewBoard()
	is.NoErr(b.AddTile(Pos{0, 0}, tiles.Tile{Shape: tiles.Star, Color: tiles.Red}))
	is.Equal(b.NumTiles(), 1)

	err := b.AddTile(Pos{0, 0}, tiles.Tile{Shape: tiles.Square, Color: tiles.Blue})
	if err == nil {
		t.Error("placing onto an occupied position should fail")
	}
	// The original tile survives a rejected placement.
	got, ok := b.TileAt(Pos{0, 0})
	is.True(ok)
	is.Equal(got, tiles.Tile{Shape: tiles.Star, Color: tiles.Red})
}

func TestPositionsAreRowColumnSorted(t *testing.T) {
	b := NewBoard()
	kind := tiles.Tile{Shape: tiles.Star, Color: tiles.Red}
	for _, pos := range []Pos{{2, 1}, {0, 0}, {-1, 1}, {0, -3}} {
		if err := b.AddTile(pos, kind); err != nil {
			t.Fatal(err)
		}
	}
	assert.Equal(t, []Pos{{0, -3}, {0, 0}, {-1, 1}, {2, 1}}, b.Positions())
}

func TestContiguousRuns(t *testing.T) {
	is := is.New(t)

	// A cross:       (0,-1)
	//         (-1,0) (0,0) (1,0) (2,0)
	//                (0,1)
	b := NewBoard()
	kind := tiles.Tile{Shape: tiles.Circle, Color: tiles.Green}
	for _, pos := range []Pos{{0, -1}, {-1, 0}, {0, 0}, {1, 0}, {2, 0}, {0, 1}} {
		is.NoErr(b.AddTile(pos, kind))
	}

	is.Equal(b.ContiguousRow(Pos{0, 0}), []Pos{{-1, 0}, {0, 0}, {1, 0}, {2, 0}})
	is.Equal(b.ContiguousCol(Pos{0, 0}), []Pos{{0, -1}, {0, 0}, {0, 1}})

	// A lone tile is a run of one on both axes.
	is.Equal(b.ContiguousRow(Pos{0, -1}), []Pos{{0, -1}})

	// An empty position has no run.
	is.Equal(len(b.ContiguousRow(Pos{5, 5})), 0)
}

func TestOccupiedNeighbors(t *testing.T) {
	is := is.New(t)

	b := NewBoard()
	kind := tiles.Tile{Shape: tiles.Clover, Color: tiles.Orange}
	is.NoErr(b.AddTile(Pos{0, 0}, kind))
	is.NoErr(b.AddTile(Pos{1, 0}, kind))
	is.NoErr(b.AddTile(Pos{0, 1}, kind))

	is.Equal(b.OccupiedNeighbors(Pos{1, 1}), 2)
	is.Equal(b.OccupiedNeighbors(Pos{0, 0}), 2)
	is.Equal(b.OccupiedNeighbors(Pos{5, 5}), 0)
}

func TestCopyIsIndependent(t *testing.T) {
	is := is.New(t)

	b := NewBoard()
	is.NoErr(b.AddTile(Pos{0, 0}, tiles.Tile{Shape: tiles.Star, Color: tiles.Red}))

	c := b.Copy()
	is.NoErr(c.AddTile(Pos{1, 0}, tiles.Tile{Shape: tiles.Star, Color: tiles.Blue}))

	is.Equal(b.NumTiles(), 1)
	is.Equal(c.NumTiles(), 2)
}
