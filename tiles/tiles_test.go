package tiles

import (
	"testing"

	"github.com/matryer/is"
)

func TestFullSet(t *testing.T) {
	is := is.New(t)

	set := FullSet()
	is.Equal(len(set), FullSetSize) // 6 shapes x 6 colors x 30 copies

	counts := make(map[Tile]int)
	for _, tile := range set {
		counts[tile]++
	}
	is.Equal(len(counts), NumShapes*NumColors)
	for kind, n := range counts {
		if n != CopiesOfEachKind {
			t.Errorf("kind %v has %d copies, expected %d", kind, n, CopiesOfEachKind)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	is := is.New(t)

	for _, kind := range AllKinds() {
		s, err := ParseShape(kind.Shape.String())
		is.NoErr(err)
		is.Equal(s, kind.Shape)
		c, err := ParseColor(kind.Color.String())
		is.NoErr(err)
		is.Equal(c, kind.Color)
	}

	_, err := ParseShape("pentagon")
	if err == nil {
		t.Error("parsing an unknown shape should fail")
	}
	_, err = ParseColor("mauve")
	if err == nil {
		t.Error("parsing an unknown color should fail")
	}
}

func TestTileOrder(t *testing.T) {
	is := is.New(t)

	// Shape rank dominates; color breaks ties.
	is.True(Tile{Star, Purple}.Less(Tile{EightStar, Red}))
	is.True(Tile{Square, Red}.Less(Tile{Square, Green}))
	is.True(!Tile{Diamond, Red}.Less(Tile{Star, Red}))
	is.True(!Tile{Circle, Blue}.Less(Tile{Circle, Blue}))
}
