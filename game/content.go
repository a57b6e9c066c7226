package game

// DeckKind names one card category.
type DeckKind string

const (
	DeckMarket    DeckKind = "market"
	DeckLuxury    DeckKind = "luxury"
	DeckSmallDeal DeckKind = "small_deal"
	DeckBigDeal   DeckKind = "big_deal"
	DeckConflict  DeckKind = "conflict"
	DeckMeeting   DeckKind = "meeting"
)

// DeckKinds lists every deck a session owns.
var DeckKinds = []DeckKind{DeckMarket, DeckLuxury, DeckSmallDeal, DeckBigDeal, DeckConflict, DeckMeeting}

// DefaultCards returns the stock card texts for every deck.
func DefaultCards() map[DeckKind][]string {
	out := make(map[DeckKind][]string, len(defaultCards))
	for kind, cards := range defaultCards {
		out[kind] = append([]string(nil), cards...)
	}
	return out
}

var defaultCards = map[DeckKind][]string{
	DeckMarket: {
		"A buyer offers 45,000 for any 2-bedroom house. Every player who owns one may sell.",
		"Interest rates drop. Anyone holding a mortgage may refinance and lower the payment by 100.",
		"Tech shares rally: GRO4US trades at 40. Every player may sell.",
		"A developer buys land at 3x the purchase price. Every landowner may sell.",
		"Small business boom. Owners of a car wash receive an offer of 80,000.",
		"Gold jumps to 1,200 per coin. Every player may sell their coins.",
		"Tenants leave. Every owner of rental property pays 1,000 for repairs.",
		"An investor looks for apartment buildings: 35,000 per unit. Every owner may sell.",
	},
	DeckLuxury: {
		"A new phone came out. Pay 1,000.",
		"Weekend in a spa resort. Pay 2,000.",
		"You bought a boat. Pay 1,000 down and add a 340 monthly payment.",
		"Designer furniture for the living room. Pay 3,000.",
		"Concert tickets for the whole family. Pay 500.",
		"A new car. Pay 2,000 down and add a 220 monthly loan payment.",
		"Birthday party in a restaurant. Pay 1,500.",
		"Golf club membership. Pay 2,500 and add 100 to monthly expenses.",
	},
	DeckSmallDeal: {
		"Stock MYT4U trades at 5. Buy any amount. Range 5 to 30.",
		"Condo 2/1 for sale: cost 50,000, down payment 5,000, cash flow +220.",
		"Rare coin 1,000 priced at 500. Buy as many as you like.",
		"House 3/2 from a bank auction: cost 35,000, down payment 2,000, cash flow +100.",
		"Friend's startup needs 5,000 for 10% of the shares. No cash flow yet.",
		"Stock OK4U trades at 10. Buy any amount. Range 5 to 30.",
		"Land 10 acres for 5,000, all cash. No cash flow.",
		"Mutual fund units at 20. Range 10 to 30.",
	},
	DeckBigDeal: {
		"8-plex apartment: cost 220,000, down payment 40,000, cash flow +1,700.",
		"Car wash business: cost 125,000, down payment 25,000, cash flow +1,500.",
		"Duplex near the university: cost 90,000, down payment 9,000, cash flow +500.",
		"Pizza franchise: cost 300,000, down payment 50,000, cash flow +3,000.",
		"Mini storage: cost 200,000, down payment 30,000, cash flow +1,600.",
		"4-plex on the lake: cost 120,000, down payment 16,000, cash flow +900.",
		"Automated laundromat: cost 150,000, down payment 30,000, cash flow +1,800.",
	},
	DeckConflict: {
		"Your business partner wants to take a bigger share of the profit.",
		"A tenant refuses to pay rent and threatens to sue.",
		"Your spouse disagrees with the last investment you made.",
		"A contractor missed the deadline and asks for more money.",
		"Your boss wants you to work weekends without extra pay.",
		"Neighbours complain about noise from your rental property.",
	},
	DeckMeeting: {
		"At a charity dinner you meet a banker who offers a lower rate on your next loan.",
		"A volunteer you helped introduces you to a real estate agent with off-market deals.",
		"You meet a mentor who teaches you to read financial statements.",
		"At a fundraiser an entrepreneur invites you into a promising project.",
		"A grateful family recommends you to their friends. Your reputation grows.",
		"You meet an accountant who finds a tax deduction you missed.",
	},
}
