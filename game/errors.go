package game

import "errors"

var (
	// ErrEmptyPlayers is returned when an operation needs at least one player.
	ErrEmptyPlayers = errors.New("game: no players joined")
	// ErrUsePopSmallOrBigDealInstead guards PopDeck against choice cells.
	ErrUsePopSmallOrBigDealInstead = errors.New("game: possibilities cell needs a small or big deal draw")

	ErrNotStarted      = errors.New("game: not started")
	ErrAlreadyStarted  = errors.New("game: already started")
	ErrTurnOpen        = errors.New("game: turn already in progress")
	ErrTurnClosed      = errors.New("game: no turn in progress")
	ErrDiceLocked      = errors.New("game: dice is rolling")
	ErrNotYourTurn     = errors.New("game: not your turn")
	ErrNoChoicePending = errors.New("game: no choice pending")
	ErrNoConflict      = errors.New("game: no conflict to resolve")
	ErrConflictPending = errors.New("game: conflict must be resolved first")
	ErrPlayerNotFound  = errors.New("game: player not found")
	ErrKickAdmin       = errors.New("game: admin cannot be removed")
	ErrAlreadyJoined   = errors.New("game: player already joined")
)
