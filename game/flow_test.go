package game

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startedGame(t *testing.T, admin int64, ids ...int64) *Game {
	t.Helper()
	g := newTestGame(t, ids...)
	_, err := g.StartGame(admin)
	require.NoError(t, err)
	return g
}

// stepsTo returns the dice value that moves the current player onto target.
func stepsTo(t *testing.T, g *Game, target int) int {
	t.Helper()
	cur, ok := g.CurrentPlayer()
	require.True(t, ok)
	return g.Board().Wrap(target - cur.Position)
}

func TestStartGame(t *testing.T) {
	g := New()
	_, err := g.StartGame(1)
	require.ErrorIs(t, err, ErrEmptyPlayers)
	assert.False(t, g.IsStarted())

	g.AddPlayer(1, "alice")
	g.AddPlayer(2, "bob")
	players, err := g.StartGame(1)
	require.NoError(t, err)
	require.Len(t, players, 2)
	for _, p := range players {
		assert.NotEmpty(t, p.Profession)
	}
	assert.True(t, g.IsStarted())
	assert.True(t, g.IsAdmin(1))

	_, err = g.StartGame(1)
	require.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestJoin(t *testing.T) {
	g := New()
	require.NoError(t, g.Join(1, "alice"))
	require.ErrorIs(t, g.Join(1, "alice"), ErrAlreadyJoined)
	require.NoError(t, g.Join(2, "bob"))

	_, err := g.StartGame(1)
	require.NoError(t, err)
	require.ErrorIs(t, g.Join(3, "carol"), ErrAlreadyStarted)
	assert.Len(t, g.Players(), 2)
}

func TestRollGuards(t *testing.T) {
	g := newTestGame(t, 1, 2)
	_, err := g.BeginRoll(1)
	require.ErrorIs(t, err, ErrNotStarted)

	_, err = g.StartGame(99)
	require.NoError(t, err)
	cur, _ := g.CurrentPlayer()
	other := int64(1)
	if cur.ID == 1 {
		other = 2
	}

	_, err = g.BeginRoll(other)
	require.ErrorIs(t, err, ErrNotYourTurn)

	_, err = g.BeginRoll(cur.ID)
	require.NoError(t, err)
	assert.True(t, g.DiceLocked())
	assert.True(t, g.Turn().Open)

	_, err = g.BeginRoll(cur.ID)
	require.ErrorIs(t, err, ErrDiceLocked)

	g.ReleaseDice()
	_, err = g.BeginRoll(cur.ID)
	require.ErrorIs(t, err, ErrTurnOpen)
}

func TestConcurrentRollsOnlyOneWins(t *testing.T) {
	g := startedGame(t, 1, 1)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := g.BeginRoll(1); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestAdminActsForCurrentPlayer(t *testing.T) {
	g := startedGame(t, 99, 1)
	_, err := g.BeginRoll(99)
	require.NoError(t, err)
	_, err = g.Land(1)
	require.NoError(t, err)
	g.ReleaseDice()
	_, err = g.EndTurn(99)
	require.NoError(t, err)
}

func TestLandOnPossibilitiesOpensDealChoice(t *testing.T) {
	g := startedGame(t, 1, 1)
	_, err := g.BeginRoll(1)
	require.NoError(t, err)

	landing, err := g.Land(stepsTo(t, g, 11))
	require.NoError(t, err)
	assert.Equal(t, Possibilities, landing.Cell)
	assert.Empty(t, landing.Card)
	assert.True(t, g.Turn().DealChoicePending)

	_, err = g.ChooseDeal(1, true)
	require.ErrorIs(t, err, ErrDiceLocked)
	g.ReleaseDice()

	card, err := g.ChooseDeal(1, true)
	require.NoError(t, err)
	assert.Contains(t, DefaultCards()[DeckBigDeal], card)
	assert.False(t, g.Turn().DealChoicePending)

	_, err = g.ChooseDeal(1, false)
	require.ErrorIs(t, err, ErrNoChoicePending)
}

func TestScenarioCharityAtFourteen(t *testing.T) {
	g := newTestGame(t, 1, 2, 3)
	_, err := g.StartGame(1)
	require.NoError(t, err)

	cur, _ := g.CurrentPlayer()
	require.Equal(t, 9, cur.Position)
	_, err = g.BeginRoll(cur.ID)
	require.NoError(t, err)

	landing, err := g.Land(5)
	require.NoError(t, err)
	assert.Equal(t, 14, landing.Player.Position)
	assert.Equal(t, CharityAcquaintance, landing.Cell)
	assert.True(t, g.Turn().CharityChoicePending)
	assert.False(t, g.Turn().DealChoicePending)
}

func TestCharityAcceptGrantsBonusRolls(t *testing.T) {
	g := startedGame(t, 1, 1, 2)
	cur, _ := g.CurrentPlayer()
	_, err := g.BeginRoll(cur.ID)
	require.NoError(t, err)
	_, err = g.Land(stepsTo(t, g, 14))
	require.NoError(t, err)
	g.ReleaseDice()

	card, err := g.ChooseCharity(cur.ID, true)
	require.NoError(t, err)
	assert.Contains(t, DefaultCards()[DeckMeeting], card)

	adv, err := g.EndTurn(cur.ID)
	require.NoError(t, err)
	assert.True(t, adv.BonusRoll)
	assert.Equal(t, 2, adv.BonusLeft)
	assert.Equal(t, cur.ID, adv.Current.ID)
	assert.False(t, g.Turn().Open)
}

func TestPassForfeitsCharityBonus(t *testing.T) {
	g := startedGame(t, 1, 1, 2)
	cur, _ := g.CurrentPlayer()
	_, err := g.BeginRoll(cur.ID)
	require.NoError(t, err)
	_, err = g.Land(stepsTo(t, g, 14))
	require.NoError(t, err)
	g.ReleaseDice()
	_, err = g.ChooseCharity(cur.ID, true)
	require.NoError(t, err)

	adv, err := g.EndTurn(cur.ID)
	require.NoError(t, err)
	require.True(t, adv.BonusRoll)

	adv, err = g.PassTurn(cur.ID)
	require.NoError(t, err)
	assert.False(t, adv.BonusRoll)
	assert.NotEqual(t, cur.ID, adv.Current.ID)
	for _, p := range g.Players() {
		if p.ID == cur.ID {
			assert.False(t, p.IsCharityBoost)
			assert.Zero(t, p.CharityBoostCount)
		}
	}

	adv, err = g.PassTurn(adv.Current.ID)
	require.NoError(t, err)
	assert.Equal(t, cur.ID, adv.Current.ID)
	ok, _ := g.CharityBoostIfAvailable()
	assert.False(t, ok, "no bonus carries into the next own turn")
}

func TestCharityDecline(t *testing.T) {
	g := startedGame(t, 1, 1, 2)
	cur, _ := g.CurrentPlayer()
	_, err := g.BeginRoll(cur.ID)
	require.NoError(t, err)
	_, err = g.Land(stepsTo(t, g, 14))
	require.NoError(t, err)
	g.ReleaseDice()

	_, err = g.ChooseCharity(cur.ID, false)
	require.NoError(t, err)
	adv, err := g.EndTurn(cur.ID)
	require.NoError(t, err)
	assert.False(t, adv.BonusRoll)
	assert.NotEqual(t, cur.ID, adv.Current.ID)
}

func TestFiredPlayerSkipsTwoOwnTurns(t *testing.T) {
	g := newTestGame(t, 1, 2)
	g.Start()
	g.SetAdmin(1)

	// alice lands on dismissal
	_, err := g.BeginRoll(1)
	require.NoError(t, err)
	_, err = g.Land(stepsTo(t, g, 6))
	require.NoError(t, err)
	g.ReleaseDice()

	adv, err := g.EndTurn(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), adv.Current.ID)
	assert.Empty(t, adv.Skipped)

	// bob passes: alice skipped once, back to bob
	adv, err = g.PassTurn(2)
	require.NoError(t, err)
	require.Len(t, adv.Skipped, 1)
	assert.Equal(t, int64(1), adv.Skipped[0].Player.ID)
	assert.Equal(t, 1, adv.Skipped[0].Remaining)
	assert.Equal(t, int64(2), adv.Current.ID)

	// second skip
	adv, err = g.PassTurn(2)
	require.NoError(t, err)
	require.Len(t, adv.Skipped, 1)
	assert.Equal(t, 0, adv.Skipped[0].Remaining)
	assert.Equal(t, int64(2), adv.Current.ID)

	// alice plays again
	adv, err = g.PassTurn(2)
	require.NoError(t, err)
	assert.Empty(t, adv.Skipped)
	assert.Equal(t, int64(1), adv.Current.ID)
}

func TestSoloFiredPlayerTerminates(t *testing.T) {
	g := startedGame(t, 1, 1)
	_, err := g.BeginRoll(1)
	require.NoError(t, err)
	_, err = g.Land(stepsTo(t, g, 6))
	require.NoError(t, err)
	g.ReleaseDice()

	adv, err := g.EndTurn(1)
	require.NoError(t, err)
	assert.Len(t, adv.Skipped, 2)
	assert.False(t, adv.Current.IsFired)
}

func landConflict(t *testing.T, g *Game, actor int64) {
	t.Helper()
	_, err := g.BeginRoll(actor)
	require.NoError(t, err)
	landing, err := g.Land(stepsTo(t, g, 16))
	require.NoError(t, err)
	require.Equal(t, CheckConflict, landing.Cell)
	require.NotEmpty(t, landing.Card)
	g.ReleaseDice()
}

func TestConflictSubLoopResolves(t *testing.T) {
	g := startedGame(t, 1, 1)
	landConflict(t, g, 1)

	adv, err := g.EndTurn(1)
	require.NoError(t, err)
	require.True(t, adv.Conflict)
	assert.NotEmpty(t, adv.Current.ConflictReminder)
	assert.True(t, g.Turn().ConflictPending)

	_, err = g.BeginRoll(1)
	require.ErrorIs(t, err, ErrTurnOpen)
	_, err = g.PassTurn(1)
	require.ErrorIs(t, err, ErrConflictPending)

	attempt, err := g.BeginConflictRoll(1)
	require.NoError(t, err)
	assert.Equal(t, 1, attempt)
	_, err = g.BeginConflictRoll(1)
	require.ErrorIs(t, err, ErrDiceLocked)

	out := g.ResolveConflictRoll(2)
	assert.False(t, out.Resolved)
	assert.False(t, out.Exhausted)
	assert.Equal(t, 2, out.Remaining)

	attempt, err = g.BeginConflictRoll(1)
	require.NoError(t, err)
	assert.Equal(t, 2, attempt)
	out = g.ResolveConflictRoll(5)
	assert.True(t, out.Resolved)
	assert.False(t, g.Turn().Open)

	_, err = g.BeginRoll(1)
	require.NoError(t, err)
}

func TestConflictExhaustsAfterThreeAttempts(t *testing.T) {
	g := startedGame(t, 1, 1)
	landConflict(t, g, 1)
	_, err := g.EndTurn(1)
	require.NoError(t, err)

	var out ConflictOutcome
	for i := 0; i < 3; i++ {
		_, err := g.BeginConflictRoll(1)
		require.NoError(t, err)
		out = g.ResolveConflictRoll(1)
	}
	assert.True(t, out.Exhausted)
	assert.Equal(t, 3, out.Attempt)
	assert.Equal(t, 0, out.Remaining)
	assert.False(t, out.Player.IsConflict)

	_, err = g.BeginConflictRoll(1)
	require.ErrorIs(t, err, ErrNoConflict)
}

func TestEndTurnRequiresOpenTurn(t *testing.T) {
	g := startedGame(t, 1, 1, 2)
	_, err := g.EndTurn(1)
	require.ErrorIs(t, err, ErrTurnClosed)
}

func TestKick(t *testing.T) {
	g := newTestGame(t, 1, 2, 3)
	_, err := g.Kick("bob")
	require.ErrorIs(t, err, ErrNotStarted)

	g.Start()
	g.SetAdmin(1)

	_, err = g.Kick("@alice")
	require.ErrorIs(t, err, ErrKickAdmin)
	_, err = g.Kick("zed")
	require.ErrorIs(t, err, ErrPlayerNotFound)

	res, err := g.Kick("carol")
	require.NoError(t, err)
	assert.False(t, res.WasCurrent)
	assert.Equal(t, []int64{1, 2}, ids(g.Players()))

	g.NextPlayer()
	_, err = g.BeginRoll(2)
	require.NoError(t, err)
	_, err = g.Kick("bob")
	require.ErrorIs(t, err, ErrDiceLocked)
	g.ReleaseDice()

	res, err = g.Kick("bob")
	require.NoError(t, err)
	assert.True(t, res.WasCurrent)
	assert.True(t, res.Advance.HasPlayer)
	assert.Equal(t, int64(1), res.Advance.Current.ID)
	assert.False(t, g.Turn().Open)
}
