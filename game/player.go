package game

const (
	firedMissTurns   = 2
	conflictOptions  = 3
	charityBonusRoll = 3
	conflictDiceGoal = 4
)

// Player is one participant of a session. Game hands out copies; the
// session keeps the only mutable instance.
type Player struct {
	ID         int64
	Name       string
	Profession Profession
	Position   int

	IsFired            bool
	FiredMissTurnCount int

	IsConflict           bool
	ConflictOptionsCount int
	ConflictReminder     string

	IsCharityBoost    bool
	CharityBoostCount int
}

func newPlayer(id int64, name string) *Player {
	return &Player{ID: id, Name: name, Position: StartPosition}
}

func (p *Player) fire() {
	p.IsFired = true
	p.FiredMissTurnCount = firedMissTurns
}

func (p *Player) enterConflict() {
	p.IsConflict = true
	p.ConflictOptionsCount = conflictOptions
}

func (p *Player) clearConflict() {
	p.IsConflict = false
	p.ConflictReminder = ""
}
