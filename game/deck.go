package game

import "math/rand/v2"

// Deck is a stack of card texts that refills itself from its default set.
// It is not safe for concurrent use; Game guards every deck it owns.
type Deck struct {
	defaults []string
	cards    []string
	rng      *rand.Rand
}

// NewDeck returns a shuffled deck built from defaults. A nil rng uses the global source.
func NewDeck(defaults []string, rng *rand.Rand) *Deck {
	d := &Deck{
		defaults: append([]string(nil), defaults...),
		rng:      rng,
	}
	d.refill()
	return d
}

// Pop removes and returns the top card, reshuffling the default set first when empty.
// It returns an empty string only for a deck without default cards.
func (d *Deck) Pop() string {
	if len(d.cards) == 0 {
		d.refill()
	}
	n := len(d.cards)
	if n == 0 {
		return ""
	}
	top := d.cards[n-1]
	d.cards = d.cards[:n-1]
	return top
}

// Len returns the number of cards left before the next reshuffle.
func (d *Deck) Len() int {
	return len(d.cards)
}

func (d *Deck) refill() {
	d.cards = append(d.cards[:0], d.defaults...)
	swap := func(i, j int) { d.cards[i], d.cards[j] = d.cards[j], d.cards[i] }
	if d.rng != nil {
		d.rng.Shuffle(len(d.cards), swap)
		return
	}
	rand.Shuffle(len(d.cards), swap)
}
