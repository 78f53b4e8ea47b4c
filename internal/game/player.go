package game

import "math/rand"

// Player represents one seat's entire state. Zones hold card ids; the same id
// may appear many times.
type Player struct {
	ID        string
	Name      string
	Connected bool

	Hand     []string
	Deck     []string // top of deck is last element (pop from end)
	Discard  []string
	PlayArea []string

	Actions int
	Buys    int
	Coins   int
}

// DeckCount returns the number of cards remaining in the deck.
func (p *Player) DeckCount() int {
	return len(p.Deck)
}

// HandCount returns the number of cards in hand.
func (p *Player) HandCount() int {
	return len(p.Hand)
}

// ShuffleDeck randomizes the deck order in place.
func (p *Player) ShuffleDeck(rng *rand.Rand) {
	rng.Shuffle(len(p.Deck), func(i, j int) {
		p.Deck[i], p.Deck[j] = p.Deck[j], p.Deck[i]
	})
}

// ShuffleDiscardIntoDeck moves the discard pile into the deck and randomizes
// its order. Callers must only invoke this when the deck is empty.
func (p *Player) ShuffleDiscardIntoDeck(rng *rand.Rand) {
	p.Deck = append(p.Deck, p.Discard...)
	p.Discard = nil
	rng.Shuffle(len(p.Deck), func(i, j int) {
		p.Deck[i], p.Deck[j] = p.Deck[j], p.Deck[i]
	})
}

// DrawCards moves up to n cards from the deck top to the hand, reshuffling the
// discard pile into the deck when the deck runs out. Drawing fewer than n
// because both piles emptied is not an error.
func (p *Player) DrawCards(rng *rand.Rand, n int) []string {
	var drawn []string
	for i := 0; i < n; i++ {
		if len(p.Deck) == 0 {
			if len(p.Discard) == 0 {
				break
			}
			p.ShuffleDiscardIntoDeck(rng)
		}
		if len(p.Deck) == 0 {
			break
		}
		top := p.Deck[len(p.Deck)-1]
		p.Deck = p.Deck[:len(p.Deck)-1]
		drawn = append(drawn, top)
	}
	p.Hand = append(p.Hand, drawn...)
	return drawn
}

// AllCards returns every card id the player owns across all zones.
func (p *Player) AllCards() []string {
	all := make([]string, 0, len(p.Deck)+len(p.Hand)+len(p.Discard)+len(p.PlayArea))
	all = append(all, p.Deck...)
	all = append(all, p.Hand...)
	all = append(all, p.Discard...)
	all = append(all, p.PlayArea...)
	return all
}

// VictoryPoints sums the victory points over every card the player owns.
func (p *Player) VictoryPoints(c *Catalog) int {
	total := 0
	for _, id := range p.AllCards() {
		if card, ok := c.Get(id); ok {
			total += card.VictoryPoints
		}
	}
	return total
}

// removeOne removes the first occurrence of id from the slice, reporting
// whether it was present.
func removeOne(zone []string, id string) ([]string, bool) {
	for i, v := range zone {
		if v == id {
			return append(zone[:i], zone[i+1:]...), true
		}
	}
	return zone, false
}

// removeAll removes one occurrence per given id, treating ids as a multiset.
// It returns the remaining slice and false if any id was missing; the input
// slice is not modified on failure.
func removeAll(zone []string, ids []string) ([]string, bool) {
	remaining := make([]string, len(zone))
	copy(remaining, zone)
	for _, id := range ids {
		var ok bool
		remaining, ok = removeOne(remaining, id)
		if !ok {
			return zone, false
		}
	}
	return remaining, true
}

// containsAll reports whether the zone contains every id, as a multiset.
func containsAll(zone []string, ids []string) bool {
	_, ok := removeAll(zone, ids)
	return ok
}
