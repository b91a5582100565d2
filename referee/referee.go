// Package referee implements the turn orchestrator: a state machine
// that pulls the next actor, invokes it under a deadline, validates
// whatever comes back against the rulebook, commits or evicts, and
// decides termination and winners. No single misbehaving actor can
// hang or crash a match; the worst it can do is get itself evicted.
package referee

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/tilerow/qgame/board"
	"github.com/tilerow/qgame/game"
	"github.com/tilerow/qgame/move"
	"github.com/tilerow/qgame/player"
	"github.com/tilerow/qgame/rules"
	"github.com/tilerow/qgame/tiles"
)

// DefaultPerTurn is the time budget for a single actor callback.
const DefaultPerTurn = 6 * time.Second

// Config adjusts a referee. The zero value is usable; missing fields
// fall back to the defaults.
type Config struct {
	// PerTurn bounds every actor callback (setup, take-turn,
	// new-tiles, win alike).
	PerTurn time.Duration
	// Score holds the configured bonus values. Nil means the rulebook
	// defaults; an explicit zero-valued config is honored as given.
	Score *rules.ScoreConfig
}

// A Result is the terminal outcome of a match: the names of the
// co-winners (sorted) and of everyone evicted along the way, in
// eviction order.
type Result struct {
	Winners    []string
	Misbehaved []string
}

// A Referee supervises exactly one match at a time.
type Referee struct {
	perTurn time.Duration
	score   rules.ScoreConfig
	matchID string
}

// New builds a referee from a config, filling in defaults.
func New(cfg Config) *Referee {
	perTurn := cfg.PerTurn
	if perTurn <= 0 {
		perTurn = DefaultPerTurn
	}
	score := rules.DefaultScoreConfig()
	if cfg.Score != nil {
		score = *cfg.Score
	}
	return &Referee{perTurn: perTurn, score: score, matchID: uuid.NewString()}
}

// Run plays a fresh match: it shuffles a full tile set, seeds the
// board with a referee tile, deals every participant a full hand, and
// runs the game to completion.
func (r *Referee) Run(ctx context.Context, players []player.Player) (*Result, error) {
	bag := tiles.NewShuffledBag()
	states := make([]*game.PlayerState, len(players))
	for i, p := range players {
		states[i] = &game.PlayerState{Name: p.Name()}
	}
	st, err := game.NewGameState(board.NewBoard(), bag, states)
	if err != nil {
		return nil, err
	}
	st.SeedBoard()
	for _, ps := range states {
		ps.Hand = st.DrawTiles(game.HandCapacity)
	}
	return r.RunWithState(ctx, players, st)
}

// RunWithState plays a match from an injected state. Every player must
// have a record in the state; a mismatch is a configuration error and
// no turn is played.
func (r *Referee) RunWithState(ctx context.Context, players []player.Player, st *game.GameState) (*Result, error) {
	byName := make(map[string]player.Player, len(players))
	for _, p := range players {
		if st.PlayerRecord(p.Name()) == nil {
			return nil, fmt.Errorf("player %q has no record in the starting state", p.Name())
		}
		byName[p.Name()] = p
	}
	if len(byName) != len(players) {
		return nil, game.ErrDuplicateName
	}
	st.SeedBoard()

	log.Info().Str("match", r.matchID).Strs("players", st.LiveNames()).Msg("match starting")

	r.setupPlayers(ctx, byName, st)
	r.playToCompletion(ctx, byName, st)
	result := r.endMatch(ctx, byName, st)

	log.Info().Str("match", r.matchID).
		Strs("winners", result.Winners).
		Strs("misbehaved", result.Misbehaved).
		Msg("match over")
	return result, nil
}

// setupPlayers invokes every actor's setup callback with its view and
// starting hand. Any failure evicts before the first turn.
func (r *Referee) setupPlayers(ctx context.Context, byName map[string]player.Player, st *game.GameState) {
	for _, name := range st.LiveNames() {
		p := byName[name]
		view := st.PublicView(name)
		hand := view.Me.Hand
		err := r.callWithDeadline(ctx, func(cctx context.Context) error {
			return p.Setup(cctx, view, hand)
		})
		if err != nil {
			r.evict(st, name, err)
		}
	}
}

// playToCompletion is the AwaitingMove / Validating / Committing loop.
func (r *Referee) playToCompletion(ctx context.Context, byName map[string]player.Player, st *game.GameState) {
	for !r.gameOver(st) {
		cur := st.CurrentPlayer()
		p := byName[cur.Name]
		view := st.PublicView(cur.Name)

		var m *move.Move
		err := r.callWithDeadline(ctx, func(cctx context.Context) (err error) {
			m, err = p.TakeTurn(cctx, view)
			return err
		})
		if err != nil {
			r.evict(st, cur.Name, err)
			continue
		}
		if err := r.validate(st, cur, m); err != nil {
			r.evict(st, cur.Name, err)
			continue
		}
		wentOut := r.commit(ctx, st, byName[cur.Name], cur, m)
		if wentOut {
			return
		}
		// commit may have evicted the head (a failed new-tiles
		// delivery); rotating then would skip the next player's turn.
		if st.PlayerRecord(cur.Name) != nil {
			st.RotatePlayer()
		}
	}
}

// validate runs the Validating state: the move must be well-formed,
// rule-legal, and drawn entirely from the actor's recorded hand.
func (r *Referee) validate(st *game.GameState, cur *game.PlayerState, m *move.Move) error {
	if m == nil {
		return fmt.Errorf("%w: no move returned", ErrActorFault)
	}
	switch m.Type {
	case move.MoveTypePass:
		return nil
	case move.MoveTypeExchange:
		if !rules.ValidateExchange(st.TilesRemaining(), len(cur.Hand)) {
			return fmt.Errorf("%w: exchange with %d tiles against a pile of %d",
				ErrRuleViolation, len(cur.Hand), st.TilesRemaining())
		}
		return nil
	case move.MoveTypePlace:
		if !cur.HoldsAll(m.Tiles()) {
			return fmt.Errorf("%w: placement uses tiles not in hand", ErrRuleViolation)
		}
		if !rules.ValidatePlacement(st.Board(), m.Placements) {
			return fmt.Errorf("%w: illegal placement %v", ErrRuleViolation, m)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown move type %d", ErrActorFault, m.Type)
}

// commit applies a validated move, scores it, replenishes the hand and
// delivers new tiles. It reports whether the actor went out, which
// ends the match immediately with no replenishment.
func (r *Referee) commit(ctx context.Context, st *game.GameState, p player.Player, cur *game.PlayerState, m *move.Move) bool {
	name := cur.Name
	switch m.Type {
	case move.MoveTypePass:
		st.RecordTurnOutcome(move.MoveTypePass, 0, name)
		log.Debug().Str("match", r.matchID).Str("player", name).Msg("passed")
		return false

	case move.MoveTypeExchange:
		newHand, err := st.ReplaceHand(name)
		if err != nil {
			r.evict(st, name, fmt.Errorf("%w: %v", ErrActorFault, err))
			return false
		}
		st.RecordTurnOutcome(move.MoveTypeExchange, 0, name)
		log.Debug().Str("match", r.matchID).Str("player", name).Msg("exchanged hand")
		r.deliverTiles(ctx, st, p, name, newHand)
		return false

	case move.MoveTypePlace:
		if err := st.PlaceTiles(m.Placements); err != nil {
			// The caller validated; this cannot happen in a correct
			// referee and poisons the match if it does.
			log.Error().Str("match", r.matchID).Err(err).Msg("placement collision after validation")
			r.evict(st, name, fmt.Errorf("%w: %v", ErrActorFault, err))
			return false
		}
		cur.RemoveAll(m.Tiles())
		wentOut := len(cur.Hand) == 0
		delta := rules.Score(m.Placements, st.Board(), wentOut, wentOut, r.score)
		st.RecordTurnOutcome(move.MoveTypePlace, delta, name)
		log.Debug().Str("match", r.matchID).Str("player", name).
			Int("points", delta).Int("tiles", len(m.Placements)).Msg("placed")
		if wentOut {
			return true
		}
		added, _ := st.ReplenishHand(name)
		r.deliverTiles(ctx, st, p, name, added)
		return false
	}
	return false
}

// deliverTiles invokes the new-tiles callback when anything was dealt,
// evicting on failure.
func (r *Referee) deliverTiles(ctx context.Context, st *game.GameState, p player.Player, name string, dealt []tiles.Tile) {
	if len(dealt) == 0 {
		return
	}
	err := r.callWithDeadline(ctx, func(cctx context.Context) error {
		return p.NewTiles(cctx, dealt)
	})
	if err != nil {
		r.evict(st, name, err)
	}
}

// gameOver checks the three termination conditions.
func (r *Referee) gameOver(st *game.GameState) bool {
	return st.CurrentPlayer() == nil ||
		st.HandExhausted() ||
		st.AllPassedOrExchangedFullRound()
}

// endMatch computes the result and fans out the win notifications.
// Winners are fixed before anyone is told; a crash during the
// announcement evicts the crasher but never changes who won.
func (r *Referee) endMatch(ctx context.Context, byName map[string]player.Player, st *game.GameState) *Result {
	winners := r.winners(st)
	winnerSet := make(map[string]bool, len(winners))
	for _, w := range winners {
		winnerSet[w] = true
	}

	var mu sync.Mutex
	var failed []string
	g := new(errgroup.Group)
	for _, name := range st.LiveNames() {
		p := byName[name]
		won := winnerSet[name]
		g.Go(func() error {
			err := r.callWithDeadline(ctx, func(cctx context.Context) error {
				return p.Win(cctx, won)
			})
			if err != nil {
				log.Debug().Str("match", r.matchID).Str("player", p.Name()).
					Err(err).Msg("win notification failed")
				mu.Lock()
				failed = append(failed, p.Name())
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	for _, name := range failed {
		r.evict(st, name, ErrActorFault)
	}

	return &Result{Winners: winners, Misbehaved: st.EvictedNames()}
}

// winners returns every never-evicted participant achieving the
// maximum score, sorted by name. An empty queue yields no winners.
func (r *Referee) winners(st *game.GameState) []string {
	scores := st.ScoresByName()
	top, found := 0, false
	for _, s := range scores {
		if !found || s > top {
			top, found = s, true
		}
	}
	if !found {
		return []string{}
	}
	winners := []string{}
	for name, s := range scores {
		if s == top {
			winners = append(winners, name)
		}
	}
	sort.Strings(winners)
	return winners
}

func (r *Referee) evict(st *game.GameState, name string, reason error) {
	log.Info().Str("match", r.matchID).Str("player", name).Err(reason).Msg("evicting")
	st.Evict(name)
}

// callWithDeadline races one actor callback against the per-call time
// budget. The callback's context is cancelled when the budget expires,
// so a cooperative actor stops work instead of leaking a goroutine; a
// hostile one is simply disowned, its eventual result discarded.
func (r *Referee) callWithDeadline(ctx context.Context, f func(context.Context) error) error {
	cctx, cancel := context.WithTimeout(ctx, r.perTurn)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- guard(cctx, f)
	}()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %v", ErrActorFault, err)
		}
		return nil
	case <-cctx.Done():
		return ErrActorTimeout
	}
}

// guard converts a panicking callback into an actor fault.
func guard(ctx context.Context, f func(context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("callback panicked: %v", p)
		}
	}()
	return f(ctx)
}
