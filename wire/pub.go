package wire

import (
	"encoding/json"
	"fmt"

	"github.com/tilerow/qgame/game"
)

// JPub is the public view on the wire. The "tile*" field is
// overloaded by the protocol: on setup it carries the actor's own hand
// as a tile list, on take-turn it carries the remaining draw-pile
// count as an integer. "players" opens with the actor's own full
// record followed by the other participants' bare scores.
type JPub struct {
	Map JMap
	// HandInTiles selects which leg of the "tile*" union is encoded.
	HandInTiles bool
	Hand        []JTile
	BagCount    int
	Me          JPlayer
	OtherScores []int
}

func (p JPub) MarshalJSON() ([]byte, error) {
	var tileStar interface{}
	if p.HandInTiles {
		tileStar = p.Hand
		if p.Hand == nil {
			tileStar = []JTile{}
		}
	} else {
		tileStar = p.BagCount
	}
	players := []interface{}{p.Me}
	for _, s := range p.OtherScores {
		players = append(players, s)
	}
	return json.Marshal(map[string]interface{}{
		"map":     p.Map,
		"tile*":   tileStar,
		"players": players,
	})
}

func (p *JPub) UnmarshalJSON(data []byte) error {
	var raw struct {
		Map     JMap              `json:"map"`
		Tiles   json.RawMessage   `json:"tile*"`
		Players []json.RawMessage `json:"players"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Map = raw.Map

	// Sniff the tile* union: a list means a hand, a number means the
	// draw-pile count.
	if err := json.Unmarshal(raw.Tiles, &p.Hand); err == nil {
		p.HandInTiles = true
	} else if err := json.Unmarshal(raw.Tiles, &p.BagCount); err == nil {
		p.HandInTiles = false
	} else {
		return fmt.Errorf("tile* is neither a tile list nor a count")
	}

	if len(raw.Players) == 0 {
		return fmt.Errorf("players must open with the actor's own record")
	}
	if err := json.Unmarshal(raw.Players[0], &p.Me); err != nil {
		return fmt.Errorf("bad own record: %w", err)
	}
	p.OtherScores = nil
	for i, rawScore := range raw.Players[1:] {
		var score int
		if err := json.Unmarshal(rawScore, &score); err != nil {
			return fmt.Errorf("bad opponent score at %d: %w", i+1, err)
		}
		p.OtherScores = append(p.OtherScores, score)
	}
	return nil
}

// PubFromView encodes a public view. forSetup selects the hand leg of
// the tile* union; take-turn views carry the pile count instead.
func PubFromView(view *game.PublicView, forSetup bool) (JPub, error) {
	jm, err := BoardToWire(view.Board)
	if err != nil {
		return JPub{}, err
	}
	pub := JPub{
		Map:         jm,
		Me:          PlayerToWire(view.Me),
		OtherScores: view.OtherScores,
		HandInTiles: forSetup,
	}
	if forSetup {
		pub.Hand = TilesToWire(view.Me.Hand)
	} else {
		pub.BagCount = view.BagCount
	}
	return pub, nil
}

// ViewFromPub decodes a public view. The pile count is zero for setup
// views, which never reveal it.
func ViewFromPub(pub JPub) (*game.PublicView, error) {
	b, err := BoardFromWire(pub.Map)
	if err != nil {
		return nil, err
	}
	me, err := PlayerFromWire(pub.Me)
	if err != nil {
		return nil, err
	}
	return &game.PublicView{
		Board:       b,
		BagCount:    pub.BagCount,
		Me:          me,
		OtherScores: pub.OtherScores,
	}, nil
}
