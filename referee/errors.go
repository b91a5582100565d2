package referee

import "errors"

// The actor-facing failure taxonomy. All four are local to one actor
// and convert to eviction at the orchestrator boundary; none of them
// may terminate the match or corrupt the game state.
var (
	// ErrRuleViolation tags an illegal move or a move using tiles the
	// actor does not hold.
	ErrRuleViolation = errors.New("rule violation")
	// ErrActorTimeout tags a callback that did not return in time.
	ErrActorTimeout = errors.New("actor timed out")
	// ErrActorFault tags a callback that errored, panicked, or lost
	// its connection.
	ErrActorFault = errors.New("actor fault")
)
