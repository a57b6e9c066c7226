package game

// Turn flow operations. Each one checks its guards and applies the whole
// transition under a single lock so concurrent taps cannot interleave.

// Join adds a player to a session that has not started yet.
func (g *Game) Join(id int64, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.started {
		return ErrAlreadyStarted
	}
	if g.findLocked(id) != nil {
		return ErrAlreadyJoined
	}
	g.appendLocked(id, name)
	return nil
}

// StartGame sets the admin, shuffles the order when more than one player
// joined, deals professions and marks the session started.
func (g *Game) StartGame(admin int64) ([]Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.started {
		return nil, ErrAlreadyStarted
	}
	if len(g.players) == 0 {
		return nil, ErrEmptyPlayers
	}
	g.adminID = admin
	if len(g.players) > 1 {
		if err := g.shuffleLocked(); err != nil {
			return nil, err
		}
	}
	g.shuffleProfessionsLocked()
	g.turn = TurnState{}
	g.started = true
	return g.snapshotLocked(), nil
}

// BeginRoll opens the turn and locks the dice for actor. A second call while
// the dice is locked fails with ErrDiceLocked and changes nothing.
func (g *Game) BeginRoll(actor int64) (Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.started {
		return Player{}, ErrNotStarted
	}
	if g.diceLocked {
		return Player{}, ErrDiceLocked
	}
	if g.turn.Open {
		return Player{}, ErrTurnOpen
	}
	if g.current == nil {
		return Player{}, ErrEmptyPlayers
	}
	if !g.mayActLocked(actor) {
		return *g.current, ErrNotYourTurn
	}
	g.turn = TurnState{Open: true}
	g.diceLocked = true
	return *g.current, nil
}

// AbortRoll reverts BeginRoll when the dice could not be thrown.
func (g *Game) AbortRoll() {
	g.mu.Lock()
	g.turn = TurnState{}
	g.diceLocked = false
	g.mu.Unlock()
}

// Land moves the current player by dice and opens the sub-phase of the landed cell.
func (g *Game) Land(dice int) (Landing, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	cell, err := g.moveLocked(dice)
	if err != nil {
		return Landing{}, err
	}
	landing := Landing{Dice: dice, Cell: cell}
	switch cell {
	case Possibilities:
		g.turn.DealChoicePending = true
	case CharityAcquaintance:
		g.turn.CharityChoicePending = true
	default:
		card, err := g.popDeckLocked(cell)
		if err != nil {
			return Landing{}, err
		}
		landing.Card = card
	}
	landing.Player = *g.current
	return landing, nil
}

// ReleaseDice unlocks the dice once the roll result has been shown.
func (g *Game) ReleaseDice() {
	g.mu.Lock()
	g.diceLocked = false
	g.mu.Unlock()
}

// ChooseDeal closes a pending deal choice and draws from the chosen deck.
func (g *Game) ChooseDeal(actor int64, big bool) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.choiceGuardLocked(actor, g.turn.DealChoicePending); err != nil {
		return "", err
	}
	g.turn.DealChoicePending = false
	if big {
		return g.decks[DeckBigDeal].Pop(), nil
	}
	return g.decks[DeckSmallDeal].Pop(), nil
}

// ChooseCharity closes a pending charity choice, applies the boost when
// accepted and draws a meeting card.
func (g *Game) ChooseCharity(actor int64, accept bool) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.choiceGuardLocked(actor, g.turn.CharityChoicePending); err != nil {
		return "", err
	}
	g.turn.CharityChoicePending = false
	if accept {
		g.current.IsCharityBoost = true
		g.current.CharityBoostCount = charityBonusRoll
	} else {
		g.current.IsCharityBoost = false
		g.current.CharityBoostCount = 0
	}
	return g.decks[DeckMeeting].Pop(), nil
}

func (g *Game) choiceGuardLocked(actor int64, pending bool) error {
	if !g.started {
		return ErrNotStarted
	}
	if !g.turn.Open || !pending || g.current == nil {
		return ErrNoChoicePending
	}
	if g.diceLocked {
		return ErrDiceLocked
	}
	if !g.mayActLocked(actor) {
		return ErrNotYourTurn
	}
	return nil
}

// EndTurn closes the open turn. A pending charity bonus keeps the same
// player; otherwise the turn passes on, skipping fired players.
func (g *Game) EndTurn(actor int64) (Advance, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.started {
		return Advance{}, ErrNotStarted
	}
	if !g.turn.Open {
		return Advance{}, ErrTurnClosed
	}
	if err := g.handOverGuardLocked(actor); err != nil {
		return Advance{}, err
	}

	var adv Advance
	g.turn = TurnState{}
	if ok, left := g.charityBoostLocked(); ok {
		adv.BonusRoll = true
		adv.BonusLeft = left
	} else {
		g.nextPlayerLocked()
	}
	g.settleLocked(&adv)
	return adv, nil
}

// PassTurn hands the turn over without requiring a completed roll. Bonus
// rolls left from charity are forfeited.
func (g *Game) PassTurn(actor int64) (Advance, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.started {
		return Advance{}, ErrNotStarted
	}
	if err := g.handOverGuardLocked(actor); err != nil {
		return Advance{}, err
	}

	var adv Advance
	g.turn = TurnState{}
	g.current.IsCharityBoost = false
	g.current.CharityBoostCount = 0
	g.nextPlayerLocked()
	g.settleLocked(&adv)
	return adv, nil
}

func (g *Game) handOverGuardLocked(actor int64) error {
	if g.current == nil {
		return ErrEmptyPlayers
	}
	if g.diceLocked {
		return ErrDiceLocked
	}
	if !g.mayActLocked(actor) {
		return ErrNotYourTurn
	}
	if g.turn.ConflictPending {
		return ErrConflictPending
	}
	return nil
}

// settleLocked skips fired players and flags a conflict the new current
// player has to resolve first.
func (g *Game) settleLocked(adv *Advance) {
	for g.current != nil && g.current.IsFired {
		p := g.current
		countDownFired(p)
		adv.Skipped = append(adv.Skipped, Skip{Player: *p, Remaining: p.FiredMissTurnCount})
		g.nextPlayerLocked()
	}
	if g.current == nil {
		return
	}
	if g.current.IsConflict {
		g.turn = TurnState{Open: true, ConflictPending: true}
		adv.Conflict = true
	}
	adv.Current = *g.current
	adv.HasPlayer = true
}

// BeginConflictRoll locks the dice for a conflict attempt and returns the attempt number.
func (g *Game) BeginConflictRoll(actor int64) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.started {
		return 0, ErrNotStarted
	}
	if !g.turn.ConflictPending || g.current == nil || !g.current.IsConflict {
		return 0, ErrNoConflict
	}
	if g.diceLocked {
		return 0, ErrDiceLocked
	}
	if !g.mayActLocked(actor) {
		return 0, ErrNotYourTurn
	}
	g.diceLocked = true
	return conflictOptions + 1 - g.current.ConflictOptionsCount, nil
}

// AbortConflictRoll unlocks the dice when the conflict roll could not be thrown.
func (g *Game) AbortConflictRoll() {
	g.ReleaseDice()
}

// ResolveConflictRoll applies one conflict attempt. Success or the last
// failed attempt closes the turn so the same player can roll normally.
func (g *Game) ResolveConflictRoll(dice int) ConflictOutcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.diceLocked = false
	p := g.current
	if p == nil || !p.IsConflict {
		return ConflictOutcome{Dice: dice}
	}
	out := ConflictOutcome{
		Dice:    dice,
		Attempt: conflictOptions + 1 - p.ConflictOptionsCount,
	}
	out.Resolved = g.resolveConflictLocked(dice)
	out.Remaining = p.ConflictOptionsCount
	if !out.Resolved && p.ConflictOptionsCount == 0 {
		p.clearConflict()
		out.Exhausted = true
	}
	if out.Resolved || out.Exhausted {
		g.turn = TurnState{}
	}
	out.Player = *p
	return out
}

// Kick removes a player by name. The admin cannot be removed. Kicking the
// current player closes the turn and hands it to the next player.
func (g *Game) Kick(name string) (KickResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.started {
		return KickResult{}, ErrNotStarted
	}
	p := g.findByNameLocked(name)
	if p == nil {
		return KickResult{}, ErrPlayerNotFound
	}
	if p.ID == g.adminID {
		return KickResult{}, ErrKickAdmin
	}
	if g.current == p && g.diceLocked {
		return KickResult{}, ErrDiceLocked
	}

	res := KickResult{Removed: *p, WasCurrent: g.current == p}
	g.deleteLocked(p)
	if res.WasCurrent {
		g.turn = TurnState{}
		g.diceLocked = false
		g.settleLocked(&res.Advance)
	}
	return res, nil
}

func (g *Game) mayActLocked(actor int64) bool {
	if g.adminID != 0 && actor == g.adminID {
		return true
	}
	return g.current != nil && g.current.ID == actor
}
