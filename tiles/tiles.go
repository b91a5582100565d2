// Package tiles defines the game pieces: six shapes crossed with six
// colors, thirty of each kind, for a full set of 1080 tiles.
package tiles

import (
	"fmt"
)

// A Shape is one of the six tile shapes. The zero value is Star.
type Shape uint8

const (
	Star Shape = iota
	EightStar
	Square
	Circle
	Clover
	Diamond
)

// A Color is one of the six tile colors. The zero value is Red.
type Color uint8

const (
	Red Color = iota
	Green
	Blue
	Yellow
	Orange
	Purple
)

const (
	// NumShapes and NumColors define the universe of tile kinds.
	NumShapes = 6
	NumColors = 6
	// CopiesOfEachKind is how many of each (shape, color) pair exist.
	CopiesOfEachKind = 30
	// FullSetSize is the total number of tiles in a fresh set.
	FullSetSize = NumShapes * NumColors * CopiesOfEachKind
)

var shapeNames = [NumShapes]string{"star", "8star", "square", "circle", "clover", "diamond"}
var colorNames = [NumColors]string{"red", "green", "blue", "yellow", "orange", "purple"}

func (s Shape) String() string {
	if int(s) >= NumShapes {
		return fmt.Sprintf("shape(%d)", uint8(s))
	}
	return shapeNames[s]
}

func (c Color) String() string {
	if int(c) >= NumColors {
		return fmt.Sprintf("color(%d)", uint8(c))
	}
	return colorNames[c]
}

// ParseShape maps a wire name back to a Shape.
func ParseShape(name string) (Shape, error) {
	for i, n := range shapeNames {
		if n == name {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tile shape %q", name)
}

// ParseColor maps a wire name back to a Color.
func ParseColor(name string) (Color, error) {
	for i, n := range colorNames {
		if n == name {
			return Color(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tile color %q", name)
}

// A Tile is a single game piece. Tiles are plain values; two tiles are
// the same tile exactly when their shapes and colors match.
type Tile struct {
	Shape Shape
	Color Color
}

func (t Tile) String() string {
	return t.Color.String() + " " + t.Shape.String()
}

// SameShape reports whether both tiles share a shape.
func (t Tile) SameShape(o Tile) bool { return t.Shape == o.Shape }

// SameColor reports whether both tiles share a color.
func (t Tile) SameColor(o Tile) bool { return t.Color == o.Color }

// Less orders tiles by shape rank, then color rank. The reference
// strategies use this order to pick their "smallest" tile.
func (t Tile) Less(o Tile) bool {
	if t.Shape != o.Shape {
		return t.Shape < o.Shape
	}
	return t.Color < o.Color
}

// FullSet returns a fresh, unshuffled set of all 1080 tiles, grouped by
// color and then shape.
func FullSet() []Tile {
	set := make([]Tile, 0, FullSetSize)
	for c := Color(0); c < NumColors; c++ {
		for s := Shape(0); s < NumShapes; s++ {
			for i := 0; i < CopiesOfEachKind; i++ {
				set = append(set, Tile{Shape: s, Color: c})
			}
		}
	}
	return set
}

// AllKinds returns one tile of every (shape, color) combination, in
// shape-then-color order.
func AllKinds() []Tile {
	kinds := make([]Tile, 0, NumShapes*NumColors)
	for s := Shape(0); s < NumShapes; s++ {
		for c := Color(0); c < NumColors; c++ {
			kinds = append(kinds, Tile{Shape: s, Color: c})
		}
	}
	return kinds
}
