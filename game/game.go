package game

import (
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Game is one chat's session state. Every exported method is atomic; the
// mutex is held only for the duration of a state transition.
type Game struct {
	mu sync.Mutex

	id      uuid.UUID
	board   Board
	rng     *rand.Rand
	decks   map[DeckKind]*Deck
	players []*Player
	current *Player
	adminID int64

	turn       TurnState
	diceLocked bool
	started    bool
}

// Option customises a new Game.
type Option func(*options)

type options struct {
	rng   *rand.Rand
	board Board
	cards map[DeckKind][]string
}

// WithRand makes shuffles deterministic.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithBoard replaces the canonical board.
func WithBoard(b Board) Option {
	return func(o *options) { o.board = b }
}

// WithCards overrides card texts per deck; missing kinds keep the stock cards.
func WithCards(cards map[DeckKind][]string) Option {
	return func(o *options) { o.cards = cards }
}

// New creates an empty, not yet started session.
func New(opts ...Option) *Game {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if len(o.board) == 0 {
		o.board = DefaultBoard()
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	cards := DefaultCards()
	for kind, set := range o.cards {
		cards[kind] = set
	}
	decks := make(map[DeckKind]*Deck, len(DeckKinds))
	for _, kind := range DeckKinds {
		decks[kind] = NewDeck(cards[kind], o.rng)
	}

	return &Game{
		id:    uuid.New(),
		board: o.board,
		rng:   o.rng,
		decks: decks,
	}
}

// ID returns the correlation id of this session.
func (g *Game) ID() uuid.UUID {
	return g.id
}

// Board returns the board the session plays on.
func (g *Game) Board() Board {
	return g.board
}

// AddPlayer appends a player and reports whether it was added. The first
// player becomes the current one.
func (g *Game) AddPlayer(id int64, name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.findLocked(id) != nil {
		return false
	}
	g.appendLocked(id, name)
	return true
}

func (g *Game) appendLocked(id int64, name string) {
	p := newPlayer(id, name)
	g.players = append(g.players, p)
	if len(g.players) == 1 {
		g.current = p
	}
}

// Shuffle permutes the player order and resets the current player to the first one.
func (g *Game) Shuffle() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.shuffleLocked()
}

func (g *Game) shuffleLocked() error {
	if len(g.players) == 0 {
		return ErrEmptyPlayers
	}
	g.rng.Shuffle(len(g.players), func(i, j int) {
		g.players[i], g.players[j] = g.players[j], g.players[i]
	})
	g.current = g.players[0]
	return nil
}

// ShuffleProfessions deals professions round-robin from one shuffled cycle.
func (g *Game) ShuffleProfessions() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.shuffleProfessionsLocked()
}

func (g *Game) shuffleProfessionsLocked() {
	set := AllProfessions()
	g.rng.Shuffle(len(set), func(i, j int) { set[i], set[j] = set[j], set[i] })
	for i, p := range g.players {
		p.Profession = set[i%len(set)]
	}
}

// SetAdmin records the privileged user of the session.
func (g *Game) SetAdmin(id int64) {
	g.mu.Lock()
	g.adminID = id
	g.mu.Unlock()
}

// AdminID returns the admin user id, zero before start.
func (g *Game) AdminID() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.adminID
}

// IsAdmin reports whether id is the session admin.
func (g *Game) IsAdmin(id int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.adminID != 0 && g.adminID == id
}

// NextPlayer moves the current pointer to the following player, wrapping around.
func (g *Game) NextPlayer() {
	g.mu.Lock()
	g.nextPlayerLocked()
	g.mu.Unlock()
}

func (g *Game) nextPlayerLocked() {
	for i, p := range g.players {
		if p == g.current {
			g.current = g.players[(i+1)%len(g.players)]
			return
		}
	}
}

// MoveCurrentPlayer advances the current player and applies the landed cell's effect.
func (g *Game) MoveCurrentPlayer(steps int) (Cell, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.moveLocked(steps)
}

func (g *Game) moveLocked(steps int) (Cell, error) {
	p := g.current
	if p == nil {
		return 0, ErrEmptyPlayers
	}
	p.Position = g.board.Wrap(p.Position + steps)
	cell := g.board.At(p.Position)
	switch cell {
	case Dismissal:
		p.fire()
	case CheckConflict:
		p.enterConflict()
	}
	return cell, nil
}

// PopDeck returns the text for a non-choice cell. Possibilities must be
// drawn with PopSmallDealDeck or PopBigDealDeck.
func (g *Game) PopDeck(cell Cell) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.popDeckLocked(cell)
}

func (g *Game) popDeckLocked(cell Cell) (string, error) {
	switch cell {
	case Possibilities:
		return "", ErrUsePopSmallOrBigDealInstead
	case Market:
		return g.decks[DeckMarket].Pop(), nil
	case Luxury:
		return g.decks[DeckLuxury].Pop(), nil
	case CheckConflict:
		card := g.decks[DeckConflict].Pop()
		if g.current != nil {
			g.current.ConflictReminder = card
		}
		return card, nil
	case CharityAcquaintance:
		return "", nil
	default:
		return cell.Description(), nil
	}
}

// PopSmallDealDeck draws a small deal card.
func (g *Game) PopSmallDealDeck() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.decks[DeckSmallDeal].Pop()
}

// PopBigDealDeck draws a big deal card.
func (g *Game) PopBigDealDeck() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.decks[DeckBigDeal].Pop()
}

// PopMeetingDeck draws a charity meeting card.
func (g *Game) PopMeetingDeck() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.decks[DeckMeeting].Pop()
}

// IsResolveConflict spends one conflict option of the current player and
// reports whether the dice value settles the conflict.
func (g *Game) IsResolveConflict(dice int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resolveConflictLocked(dice)
}

func (g *Game) resolveConflictLocked(dice int) bool {
	p := g.current
	if p == nil {
		return false
	}
	if p.ConflictOptionsCount > 0 {
		p.ConflictOptionsCount--
	}
	if dice >= conflictDiceGoal {
		p.clearConflict()
		return true
	}
	return false
}

// CountDownFiredMissTurn spends one skipped turn of the current player.
func (g *Game) CountDownFiredMissTurn() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current != nil {
		countDownFired(g.current)
	}
}

func countDownFired(p *Player) {
	if p.FiredMissTurnCount > 0 {
		p.FiredMissTurnCount--
	}
	if p.FiredMissTurnCount == 0 {
		p.IsFired = false
	}
}

// TakeCharityBoost grants the current player the charity bonus rolls.
func (g *Game) TakeCharityBoost() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current != nil {
		g.current.IsCharityBoost = true
		g.current.CharityBoostCount = charityBonusRoll
	}
}

// DeclineCharityBoost leaves the current player without bonus rolls.
func (g *Game) DeclineCharityBoost() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current != nil {
		g.current.IsCharityBoost = false
		g.current.CharityBoostCount = 0
	}
}

// CharityBoostIfAvailable consumes one bonus roll of the current player.
// It returns whether a bonus roll was granted and how many remain after it.
func (g *Game) CharityBoostIfAvailable() (bool, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.charityBoostLocked()
}

func (g *Game) charityBoostLocked() (bool, int) {
	p := g.current
	if p == nil || !p.IsCharityBoost || p.CharityBoostCount <= 0 {
		return false, 0
	}
	p.CharityBoostCount--
	if p.CharityBoostCount == 0 {
		p.IsCharityBoost = false
	}
	return true, p.CharityBoostCount
}

// DeletePlayer removes a player. When the player is current the pointer
// moves to the next player before removal; removing the last player leaves
// no current player.
func (g *Game) DeletePlayer(id int64) (Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.findLocked(id)
	if p == nil {
		return Player{}, ErrPlayerNotFound
	}
	g.deleteLocked(p)
	return *p, nil
}

func (g *Game) deleteLocked(p *Player) {
	if g.current == p {
		g.nextPlayerLocked()
	}
	for i, candidate := range g.players {
		if candidate == p {
			g.players = append(g.players[:i], g.players[i+1:]...)
			break
		}
	}
	if g.current == p {
		g.current = nil
	}
}

// Start marks the session as in progress.
func (g *Game) Start() {
	g.mu.Lock()
	g.started = true
	g.mu.Unlock()
}

// IsStarted reports whether the game has begun.
func (g *Game) IsStarted() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.started
}

// Players returns a snapshot in turn order.
func (g *Game) Players() []Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Game) snapshotLocked() []Player {
	out := make([]Player, 0, len(g.players))
	for _, p := range g.players {
		out = append(out, *p)
	}
	return out
}

// CurrentPlayer returns a copy of the current player.
func (g *Game) CurrentPlayer() (Player, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return Player{}, false
	}
	return *g.current, true
}

// FindByName looks a player up by name, ignoring a leading @ and case.
func (g *Game) FindByName(name string) (Player, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p := g.findByNameLocked(name); p != nil {
		return *p, true
	}
	return Player{}, false
}

// Turn returns the current turn flags.
func (g *Game) Turn() TurnState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.turn
}

// DiceLocked reports whether a roll is in flight.
func (g *Game) DiceLocked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.diceLocked
}

func (g *Game) findLocked(id int64) *Player {
	for _, p := range g.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (g *Game) findByNameLocked(name string) *Player {
	name = strings.TrimPrefix(strings.TrimSpace(name), "@")
	if name == "" {
		return nil
	}
	for _, p := range g.players {
		if strings.EqualFold(strings.TrimPrefix(p.Name, "@"), name) {
			return p
		}
	}
	return nil
}
