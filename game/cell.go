package game

// Cell is a typed square of the board.
type Cell int

const (
	Possibilities Cell = iota
	Market
	Luxury
	CheckConflict
	Dismissal
	CharityAcquaintance
	Child
)

var cellNames = map[Cell]string{
	Possibilities:       "possibilities",
	Market:              "market",
	Luxury:              "luxury",
	CheckConflict:       "check_conflict",
	Dismissal:           "dismissal",
	CharityAcquaintance: "charity_acquaintance",
	Child:               "child",
}

var cellTitles = map[Cell]string{
	Possibilities:       "Opportunities",
	Market:              "Market",
	Luxury:              "Luxury",
	CheckConflict:       "Paycheck / Conflict",
	Dismissal:           "Dismissal",
	CharityAcquaintance: "Charity",
	Child:               "Child",
}

var cellDescriptions = map[Cell]string{
	Possibilities: "Choose a small or a big deal.",
	Market:        "Market news. It may make you richer if you own the right assets.",
	Luxury:        "Something shiny you did not plan to buy.",
	CheckConflict: "Collect your paycheck. A conflict card comes with it and must be settled at the start of your next turn.",
	Dismissal: "You lost your job. Pay your total expenses once and skip your next two turns. " +
		"Passive income still arrives while you are out.",
	CharityAcquaintance: "You may donate 10% of your total income. " +
		"If you do, you may roll the dice three times in a row on your next turns.",
	Child: "A child is born. Receive a 10,000 capital gift and add the child expenses to your statement.",
}

// String returns the stable identifier used in logs and journal rows.
func (c Cell) String() string {
	if name, ok := cellNames[c]; ok {
		return name
	}
	return "unknown"
}

// Title returns the short display name.
func (c Cell) Title() string {
	if title, ok := cellTitles[c]; ok {
		return title
	}
	return "Unknown"
}

// Description returns the static display text of the cell.
func (c Cell) Description() string {
	return cellDescriptions[c]
}

// IsChoice reports whether landing on the cell asks the player to choose before drawing.
func (c Cell) IsChoice() bool {
	return c == Possibilities || c == CharityAcquaintance
}
