package tiles

import (
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"
)

// A Bag is the referee's draw pile. Tiles come off the front and go back
// on the end; only the referee ever touches it.
type Bag struct {
	tiles []Tile
}

// NewBag makes a bag holding the given tiles in the given order. Tests
// inject short, fixed decks this way.
func NewBag(tiles []Tile) *Bag {
	b := &Bag{tiles: make([]Tile, len(tiles))}
	copy(b.tiles, tiles)
	return b
}

// NewShuffledBag makes a bag with a full 1080-tile set in random order.
func NewShuffledBag() *Bag {
	b := NewBag(FullSet())
	b.Shuffle()
	return b
}

// Shuffle randomizes the order of the remaining tiles.
func (b *Bag) Shuffle() {
	frand.Shuffle(len(b.tiles), func(i, j int) {
		b.tiles[i], b.tiles[j] = b.tiles[j], b.tiles[i]
	})
}

// DrawAtMost draws up to n tiles from the front of the bag. It draws
// fewer if the bag is short, never more, and never fails.
func (b *Bag) DrawAtMost(n int) []Tile {
	if n > len(b.tiles) {
		n = len(b.tiles)
	}
	if n < 0 {
		n = 0
	}
	drawn := make([]Tile, n)
	copy(drawn, b.tiles[:n])
	b.tiles = b.tiles[n:]
	return drawn
}

// PutBack appends tiles to the end of the bag. Exchanged and forfeited
// hands return this way.
func (b *Bag) PutBack(tiles []Tile) {
	if len(tiles) == 0 {
		return
	}
	log.Debug().Int("count", len(tiles)).Msg("tiles returned to bag")
	b.tiles = append(b.tiles, tiles...)
}

// TilesRemaining returns how many tiles are left.
func (b *Bag) TilesRemaining() int {
	return len(b.tiles)
}
