package game

// TurnState tracks the open action window of the current player.
type TurnState struct {
	Open                 bool
	DealChoicePending    bool
	CharityChoicePending bool
	// ConflictPending is set when the current player must settle a conflict before rolling.
	ConflictPending bool
}

// Landing describes the outcome of a dice roll.
type Landing struct {
	Player Player
	Dice   int
	Cell   Cell
	// Card holds the drawn text for non-choice cells.
	Card string
}

// Skip reports a fired player passed over during an advance.
type Skip struct {
	Player    Player
	Remaining int
}

// Advance reports what happened while handing the turn over.
type Advance struct {
	BonusRoll bool
	BonusLeft int
	Skipped   []Skip
	Current   Player
	HasPlayer bool
	// Conflict means Current has to resolve a conflict before the regular roll.
	Conflict bool
}

// ConflictOutcome is the result of one conflict attempt.
type ConflictOutcome struct {
	Player    Player
	Dice      int
	Attempt   int
	Remaining int
	Resolved  bool
	Exhausted bool
}

// KickResult reports a removed player and the advance it caused.
type KickResult struct {
	Removed    Player
	WasCurrent bool
	Advance    Advance
}
