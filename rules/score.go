package rules

import (
	"fmt"
	"strings"

	"github.com/tilerow/qgame/board"
	"github.com/tilerow/qgame/move"
	"github.com/tilerow/qgame/tiles"
)

const (
	// DefaultQBonus is awarded for completing a Q: a line of six tiles
	// all one color with six shapes, or all one shape with six colors.
	DefaultQBonus = 8
	// DefaultEndBonus is awarded for placing out at the end of the game.
	DefaultEndBonus = 4
)

// ScoreConfig holds the two adjustable bonus values.
type ScoreConfig struct {
	QBonus   int
	EndBonus int
}

// DefaultScoreConfig returns the standard bonus values.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{QBonus: DefaultQBonus, EndBonus: DefaultEndBonus}
}

// Score computes the point total for one turn's placements. The board
// must already contain the placements. The components are: one point
// per placed tile, one point per tile in every contiguous row or column
// line containing at least one newly placed tile (each distinct line
// counted once), a Q bonus per distinct completed line, and the end
// bonus when the player placed out as the game ends. Two different
// lines that happen to share tiles each score independently.
func Score(placements []move.Placement, b *board.Board, handEmpty, endgame bool, cfg ScoreConfig) int {
	points := len(placements)
	points += contiguousLinePoints(b, placements)
	points += completedQPoints(b, placements, cfg)
	if endgame && handEmpty {
		points += cfg.EndBonus
	}
	return points
}

// contiguousLinePoints awards one point per tile in each distinct line
// touched by a new placement. Lines are deduplicated by membership so a
// line holding several new tiles pays out once.
func contiguousLinePoints(b *board.Board, placements []move.Placement) int {
	points := 0
	seen := make(map[string]bool)
	for _, pl := range placements {
		for _, run := range [][]board.Pos{b.ContiguousRow(pl.Pos), b.ContiguousCol(pl.Pos)} {
			key := runKey(run)
			if seen[key] {
				continue
			}
			seen[key] = true
			points += len(run)
		}
	}
	return points
}

// completedQPoints awards the Q bonus for every distinct line that a
// placement touches and that forms a complete Q. A line can hold at
// most six tiles legally, so a Q is exactly a six-tile run of one color
// and six shapes, or one shape and six colors.
func completedQPoints(b *board.Board, placements []move.Placement, cfg ScoreConfig) int {
	points := 0
	seen := make(map[string]bool)
	for _, pl := range placements {
		for _, run := range [][]board.Pos{b.ContiguousRow(pl.Pos), b.ContiguousCol(pl.Pos)} {
			key := runKey(run)
			if seen[key] {
				continue
			}
			seen[key] = true
			if isQ(b, run) {
				points += cfg.QBonus
			}
		}
	}
	return points
}

func isQ(b *board.Board, run []board.Pos) bool {
	if len(run) != tiles.NumShapes {
		return false
	}
	shapes := make(map[tiles.Shape]bool)
	colors := make(map[tiles.Color]bool)
	for _, pos := range run {
		t, ok := b.TileAt(pos)
		if !ok {
			return false
		}
		shapes[t.Shape] = true
		colors[t.Color] = true
	}
	return (len(shapes) == tiles.NumShapes && len(colors) == 1) ||
		(len(colors) == tiles.NumColors && len(shapes) == 1)
}

// runKey canonicalizes a line by its sorted member positions.
func runKey(run []board.Pos) string {
	var sb strings.Builder
	for _, pos := range run {
		fmt.Fprintf(&sb, "%d:%d;", pos.X, pos.Y)
	}
	return sb.String()
}
