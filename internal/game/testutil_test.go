package game

import (
	"fmt"
	"testing"

	"github.com/peterkuimelis/sovereign/internal/log"
)

// testCatalog builds the card set the engine tests run against. It covers
// every effect tag plus one card with a tag the interpreter does not know.
func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	cards := []*Card{
		{ID: "copper", Name: "Copper", Type: CardTypeTreasure, Cost: 0, CoinValue: 1},
		{ID: "silver", Name: "Silver", Type: CardTypeTreasure, Cost: 3, CoinValue: 2},
		{ID: "gold", Name: "Gold", Type: CardTypeTreasure, Cost: 6, CoinValue: 3},
		{ID: "estate", Name: "Estate", Type: CardTypeVictory, Cost: 2, VictoryPoints: 1},
		{ID: "duchy", Name: "Duchy", Type: CardTypeVictory, Cost: 5, VictoryPoints: 3},
		{ID: "province", Name: "Province", Type: CardTypeVictory, Cost: 8, VictoryPoints: 6},

		{ID: "village", Name: "Village", Type: CardTypeAction, SubType: SubTypeAction, Cost: 3,
			Effects: []Effect{{Type: "draw", Amount: 1}, {Type: "action", Amount: 2}}},
		{ID: "smithy", Name: "Smithy", Type: CardTypeAction, SubType: SubTypeAction, Cost: 4,
			Effects: []Effect{{Type: "draw", Amount: 3}}},
		{ID: "market", Name: "Market", Type: CardTypeAction, SubType: SubTypeAction, Cost: 5,
			Effects: []Effect{{Type: "draw", Amount: 1}, {Type: "action", Amount: 1}, {Type: "buy", Amount: 1}, {Type: "coin", Amount: 1}}},
		{ID: "council_room", Name: "Council Room", Type: CardTypeAction, SubType: SubTypeAction, Cost: 5,
			Effects: []Effect{{Type: "draw", Amount: 4}, {Type: "buy", Amount: 1}, {Type: "opponents_draw", Amount: 1}}},
		{ID: "militia", Name: "Militia", Type: CardTypeAction, SubType: SubTypeAttack, Cost: 4,
			Effects: []Effect{{Type: "coin", Amount: 2}, {Type: "attack_discard_to", Amount: 3}}},
		{ID: "moat", Name: "Moat", Type: CardTypeAction, SubType: SubTypeReaction, Cost: 2, Reaction: ReactionBlockAttack,
			Effects: []Effect{{Type: "draw", Amount: 2}}},
		{ID: "cellar", Name: "Cellar", Type: CardTypeAction, SubType: SubTypeAction, Cost: 2,
			Effects: []Effect{{Type: "action", Amount: 1}, {Type: "discard_draw"}}},
		{ID: "chapel", Name: "Chapel", Type: CardTypeAction, SubType: SubTypeAction, Cost: 2,
			Effects: []Effect{{Type: "trash", Amount: 4}}},
		{ID: "workshop", Name: "Workshop", Type: CardTypeAction, SubType: SubTypeAction, Cost: 3,
			Effects: []Effect{{Type: "gain_card_up_to", Amount: 4}}},
		{ID: "charity", Name: "Charity", Type: CardTypeAction, SubType: SubTypeAction, Cost: 3,
			Effects: []Effect{{Type: "gain_card_up_to", Amount: 4, Optional: true}}},
		{ID: "remodel", Name: "Remodel", Type: CardTypeAction, SubType: SubTypeAction, Cost: 4,
			Effects: []Effect{{Type: "trash_and_gain", Amount: 2}}},
		{ID: "mine", Name: "Mine", Type: CardTypeAction, SubType: SubTypeAction, Cost: 5,
			Effects: []Effect{{Type: "trash_treasure_gain_treasure", Amount: 3}}},
		{ID: "artisan", Name: "Artisan", Type: CardTypeAction, SubType: SubTypeAction, Cost: 6,
			Effects: []Effect{{Type: "gain_card_to_hand", Amount: 5}}},
		{ID: "harbinger", Name: "Harbinger", Type: CardTypeAction, SubType: SubTypeAction, Cost: 3,
			Effects: []Effect{{Type: "draw", Amount: 1}, {Type: "action", Amount: 1}, {Type: "topdeck_from_discard"}}},
		{ID: "vassal", Name: "Vassal", Type: CardTypeAction, SubType: SubTypeAction, Cost: 3,
			Effects: []Effect{{Type: "coin", Amount: 2}, {Type: "discard_top_play_action"}}},
		{ID: "moneylender", Name: "Moneylender", Type: CardTypeAction, SubType: SubTypeAction, Cost: 4,
			Effects: []Effect{{Type: "trash_copper_for_coin", Amount: 3}}},
		{ID: "bureaucrat", Name: "Bureaucrat", Type: CardTypeAction, SubType: SubTypeAttack, Cost: 4,
			Effects: []Effect{{Type: "gain_treasure_topdeck_attack_victory", Amount: 3}}},
		{ID: "sentry", Name: "Sentry", Type: CardTypeAction, SubType: SubTypeAction, Cost: 5,
			Effects: []Effect{{Type: "draw", Amount: 1}, {Type: "action", Amount: 1}, {Type: "reveal_trash_discard_topdeck", Amount: 2}}},
		{ID: "relic", Name: "Relic", Type: CardTypeAction, SubType: SubTypeAction, Cost: 3,
			Effects: []Effect{{Type: "warp_reality", Amount: 2}, {Type: "coin", Amount: 1}}},
	}

	c, err := NewCatalog(cards, SupplySetup{
		Always:       []string{"copper", "silver", "gold", "estate", "duchy", "province"},
		KingdomCount: 10,
		PileSizes: map[string]int{
			"copper": 46, "silver": 40, "gold": 30,
			"estate": 12, "duchy": 12, "province": 12,
			defaultPileKey: 10,
		},
	}, map[string]int{"copper": 7, "estate": 3}, EndConditions{TopVictoryEmpty: true, EmptyPiles: 3})
	if err != nil {
		t.Fatalf("build test catalog: %v", err)
	}
	return c
}

// newTestGame seats n players and starts a deterministic game. Player ids
// are p1..pn in seat order. With NoShuffle set, each starting hand is
// [estate estate estate copper copper] over a deck of five coppers.
func newTestGame(t *testing.T, players int, kingdom ...string) *Game {
	t.Helper()
	g := NewGame("g1", Config{
		Catalog:   testCatalog(t),
		Kingdom:   kingdom,
		Seed:      1,
		NoShuffle: true,
	})
	for i := 1; i <= players; i++ {
		if _, err := g.AddPlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("Player %d", i)); err != nil {
			t.Fatalf("add player %d: %v", i, err)
		}
	}
	if err := g.Start(); err != nil {
		t.Fatalf("start game: %v", err)
	}
	return g
}

func player(t *testing.T, g *Game, id string) *Player {
	t.Helper()
	p := g.playerByID(id)
	if p == nil {
		t.Fatalf("no player %q", id)
	}
	return p
}

// Zone setters overwrite a player zone and refresh the conservation totals
// so verify keeps passing against the doctored state.

func setHand(g *Game, p *Player, ids ...string) {
	p.Hand = append([]string(nil), ids...)
	g.totals = g.countAll()
}

// setDeck lists cards top-first.
func setDeck(g *Game, p *Player, ids ...string) {
	deck := make([]string, len(ids))
	for i, id := range ids {
		deck[len(ids)-1-i] = id
	}
	p.Deck = deck
	g.totals = g.countAll()
}

func setDiscard(g *Game, p *Player, ids ...string) {
	p.Discard = append([]string(nil), ids...)
	g.totals = g.countAll()
}

func setSupply(g *Game, id string, n int) {
	g.supply[id] = n
	g.totals = g.countAll()
}

func memLog(t *testing.T, g *Game) *log.MemoryLogger {
	t.Helper()
	ml, ok := g.logger.(*log.MemoryLogger)
	if !ok {
		t.Fatalf("game logger is %T, want *log.MemoryLogger", g.logger)
	}
	return ml
}

func wantRuleError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected a rule error, got nil")
	}
	if !IsRuleError(err) {
		t.Fatalf("expected a rule error, got %v", err)
	}
}

func wantNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func wantPending(t *testing.T, g *Game, kind PendingKind) PendingAction {
	t.Helper()
	pa := g.Pending()
	if pa == nil {
		t.Fatalf("expected pending %v, got none", kind)
	}
	if pa.Kind() != kind {
		t.Fatalf("pending is %v, want %v", pa.Kind(), kind)
	}
	return pa
}

func wantNoPending(t *testing.T, g *Game) {
	t.Helper()
	if pa := g.Pending(); pa != nil {
		t.Fatalf("expected no pending action, got %v", pa.Kind())
	}
}

func countIn(zone []string, id string) int {
	n := 0
	for _, v := range zone {
		if v == id {
			n++
		}
	}
	return n
}
