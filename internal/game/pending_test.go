package game

import (
	"testing"
)

// snapshot captures the zones a rejected response must leave untouched.
type snapshot struct {
	hand, discard, deck, trash []string
	pending                    PendingAction
}

func snap(g *Game, p *Player) snapshot {
	return snapshot{
		hand:    append([]string(nil), p.Hand...),
		discard: append([]string(nil), p.Discard...),
		deck:    append([]string(nil), p.Deck...),
		trash:   append([]string(nil), g.Trash()...),
		pending: g.Pending(),
	}
}

func (s snapshot) check(t *testing.T, g *Game, p *Player) {
	t.Helper()
	if !equalSlices(s.hand, p.Hand) || !equalSlices(s.discard, p.Discard) ||
		!equalSlices(s.deck, p.Deck) || !equalSlices(s.trash, g.Trash()) {
		t.Errorf("rejected response mutated zones: hand=%v discard=%v deck=%v trash=%v",
			p.Hand, p.Discard, p.Deck, g.Trash())
	}
	if g.Pending() != s.pending {
		t.Error("rejected response replaced the pending action")
	}
}

func equalSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAttackDiscardRejections(t *testing.T) {
	g := newTestGame(t, 2)
	p1 := player(t, g, "p1")
	p2 := player(t, g, "p2")
	setHand(g, p1, "militia")
	setHand(g, p2, "copper", "copper", "estate", "estate", "estate")

	wantNoError(t, g.PlayAction("p1", "militia"))
	before := snap(g, p2)

	// Wrong responder: the attacker owes nothing.
	wantRuleError(t, g.DiscardSelection("p1", []string{"copper"}))
	// Wrong selection size: must discard exactly down to the floor.
	wantRuleError(t, g.DiscardSelection("p2", []string{"copper"}))
	wantRuleError(t, g.DiscardSelection("p2", []string{"copper", "copper", "estate"}))
	// Card not in the hand.
	wantRuleError(t, g.DiscardSelection("p2", []string{"gold", "copper"}))
	// Wrong response type for this pending kind.
	wantRuleError(t, g.TrashSelection("p2", []string{"copper"}))
	wantRuleError(t, g.GainSelection("p2", "copper"))

	before.check(t, g, p2)

	// A valid batch still resolves after any number of rejections.
	wantNoError(t, g.DiscardSelection("p2", []string{"copper", "copper"}))
	wantNoPending(t, g)
}

func TestAttackDiscardMultipleTargets(t *testing.T) {
	g := newTestGame(t, 3)
	p1 := player(t, g, "p1")
	setHand(g, p1, "militia")

	wantNoError(t, g.PlayAction("p1", "militia"))
	pa := wantPending(t, g, PendingAttackDiscard).(*AttackDiscard)
	if len(pa.Targets) != 2 {
		t.Fatalf("targets = %v, want p2 and p3", pa.Targets)
	}

	p3 := player(t, g, "p3")
	wantNoError(t, g.DiscardSelection("p3", []string{p3.Hand[0], p3.Hand[1]}))
	// One target remains; the action is still pending.
	pa = wantPending(t, g, PendingAttackDiscard).(*AttackDiscard)
	if len(pa.Targets) != 1 || pa.Targets[0] != "p2" {
		t.Fatalf("remaining targets = %v, want [p2]", pa.Targets)
	}
	// p3 already answered; a second response is a caller error.
	wantRuleError(t, g.DiscardSelection("p3", []string{"copper"}))

	p2 := player(t, g, "p2")
	wantNoError(t, g.DiscardSelection("p2", []string{p2.Hand[0], p2.Hand[1]}))
	wantNoPending(t, g)
}

func TestTurnActionsBlockedWhilePending(t *testing.T) {
	g := newTestGame(t, 2)
	p1 := player(t, g, "p1")
	setHand(g, p1, "cellar", "smithy")

	wantNoError(t, g.PlayAction("p1", "cellar"))
	wantRuleError(t, g.PlayAction("p1", "smithy"))
	wantRuleError(t, g.EndTurn("p1"))
	wantRuleError(t, g.SkipAction("p1"))
}

func TestResponsesWithoutPending(t *testing.T) {
	g := newTestGame(t, 2)
	wantRuleError(t, g.DiscardSelection("p1", nil))
	wantRuleError(t, g.TrashSelection("p1", nil))
	wantRuleError(t, g.GainSelection("p1", "copper"))
	wantRuleError(t, g.TopdeckSelection("p1", ""))
	wantRuleError(t, g.VassalDecision("p1", true))
	wantRuleError(t, g.SentryDecision("p1", nil))
}

func TestWorkshopGain(t *testing.T) {
	g := newTestGame(t, 2)
	p1 := player(t, g, "p1")
	setHand(g, p1, "workshop")

	wantNoError(t, g.PlayAction("p1", "workshop"))
	req := wantPending(t, g, PendingGain).(*GainRequest)
	if req.MaxCost != 4 || req.Optional {
		t.Errorf("gain request = %+v", req)
	}

	// Over the cost ceiling.
	wantRuleError(t, g.GainSelection("p1", "duchy"))
	// Empty pile.
	setSupply(g, "silver", 0)
	wantRuleError(t, g.GainSelection("p1", "silver"))
	// Declining a required gain.
	wantRuleError(t, g.GainSelection("p1", ""))

	wantNoError(t, g.GainSelection("p1", "estate"))
	if countIn(p1.Discard, "estate") != 1 {
		t.Errorf("discard = %v, want the gained estate", p1.Discard)
	}
	wantNoPending(t, g)
}

func TestOptionalGainDeclines(t *testing.T) {
	g := newTestGame(t, 2)
	p1 := player(t, g, "p1")
	setHand(g, p1, "charity")

	wantNoError(t, g.PlayAction("p1", "charity"))
	req := wantPending(t, g, PendingGain).(*GainRequest)
	if !req.Optional {
		t.Fatalf("charity's gain should be optional: %+v", req)
	}

	wantNoError(t, g.GainSelection("p1", ""))
	wantNoPending(t, g)
	if len(p1.Discard) != 0 {
		t.Errorf("discard = %v, want nothing gained", p1.Discard)
	}
}

func TestChapelTrashBound(t *testing.T) {
	g := newTestGame(t, 2)
	p1 := player(t, g, "p1")
	setHand(g, p1, "chapel", "copper", "copper", "estate", "estate", "estate")

	wantNoError(t, g.PlayAction("p1", "chapel"))
	req := wantPending(t, g, PendingTrash).(*TrashRequest)
	if req.MaxCards != 4 {
		t.Errorf("max cards = %d, want 4", req.MaxCards)
	}

	// Five selections exceed the bound.
	wantRuleError(t, g.TrashSelection("p1", []string{"copper", "copper", "estate", "estate", "estate"}))

	wantNoError(t, g.TrashSelection("p1", []string{"copper", "estate", "estate"}))
	if len(g.Trash()) != 3 {
		t.Errorf("trash = %v, want 3 cards", g.Trash())
	}
	if len(p1.Hand) != 2 {
		t.Errorf("hand = %v, want 2 left", p1.Hand)
	}
	wantNoPending(t, g)
}

func TestChapelZeroTrashIsLegal(t *testing.T) {
	g := newTestGame(t, 2)
	p1 := player(t, g, "p1")
	setHand(g, p1, "chapel", "copper")

	wantNoError(t, g.PlayAction("p1", "chapel"))
	wantNoError(t, g.TrashSelection("p1", nil))
	wantNoPending(t, g)
	if len(g.Trash()) != 0 {
		t.Errorf("trash = %v", g.Trash())
	}
}

func TestRemodelChainsIntoGain(t *testing.T) {
	g := newTestGame(t, 2)
	p1 := player(t, g, "p1")
	setHand(g, p1, "remodel", "estate", "copper")

	wantNoError(t, g.PlayAction("p1", "remodel"))
	wantPending(t, g, PendingTrashAndGain)

	// Exactly one card.
	wantRuleError(t, g.TrashSelection("p1", nil))
	wantRuleError(t, g.TrashSelection("p1", []string{"estate", "copper"}))

	wantNoError(t, g.TrashSelection("p1", []string{"estate"}))
	if countIn(g.Trash(), "estate") != 1 {
		t.Errorf("trash = %v", g.Trash())
	}

	// Chained gain bounded by trashed cost (2) + bonus (2).
	req := wantPending(t, g, PendingGain).(*GainRequest)
	if req.MaxCost != 4 {
		t.Errorf("max cost = %d, want 4", req.MaxCost)
	}
	wantRuleError(t, g.GainSelection("p1", "duchy"))
	wantNoError(t, g.GainSelection("p1", "silver"))
	if countIn(p1.Discard, "silver") != 1 {
		t.Errorf("discard = %v, want the gained silver", p1.Discard)
	}
	wantNoPending(t, g)
}

func TestMineChainsTreasureToHand(t *testing.T) {
	g := newTestGame(t, 2)
	p1 := player(t, g, "p1")
	setHand(g, p1, "mine", "copper", "estate")

	wantNoError(t, g.PlayAction("p1", "mine"))
	wantPending(t, g, PendingTrashTreasureGainTreasure)

	// Non-treasure trash is rejected.
	wantRuleError(t, g.TrashSelection("p1", []string{"estate"}))

	wantNoError(t, g.TrashSelection("p1", []string{"copper"}))
	req := wantPending(t, g, PendingGain).(*GainRequest)
	if req.MaxCost != 3 || !req.TreasureOnly || !req.ToHand {
		t.Errorf("gain request = %+v, want a treasure-to-hand gain up to 3", req)
	}

	// Victory cards are not treasures.
	wantRuleError(t, g.GainSelection("p1", "estate"))

	wantNoError(t, g.GainSelection("p1", "silver"))
	if countIn(p1.Hand, "silver") != 1 {
		t.Errorf("hand = %v, want the silver gained to hand", p1.Hand)
	}
	wantNoPending(t, g)
}

func TestArtisanGainsToHandThenTopdecks(t *testing.T) {
	g := newTestGame(t, 2)
	p1 := player(t, g, "p1")
	setHand(g, p1, "artisan", "copper")

	wantNoError(t, g.PlayAction("p1", "artisan"))
	req := wantPending(t, g, PendingGain).(*GainRequest)
	if req.MaxCost != 5 || !req.ToHand || !req.ThenTopdeck {
		t.Errorf("gain request = %+v", req)
	}

	wantNoError(t, g.GainSelection("p1", "duchy"))
	if countIn(p1.Hand, "duchy") != 1 {
		t.Errorf("hand = %v, want the gained duchy", p1.Hand)
	}

	// The chained topdeck reads from the hand.
	pa := wantPending(t, g, PendingTopdeck).(*TopdeckRequest)
	if pa.Source != ZoneHand {
		t.Errorf("source = %v, want hand", pa.Source)
	}
	wantRuleError(t, g.TopdeckSelection("p1", "gold"))
	wantNoError(t, g.TopdeckSelection("p1", "copper"))
	if p1.Deck[len(p1.Deck)-1] != "copper" {
		t.Errorf("deck top = %v, want copper", p1.Deck)
	}
	wantNoPending(t, g)
}

func TestTopdeckSkip(t *testing.T) {
	g := newTestGame(t, 2)
	p1 := player(t, g, "p1")
	setHand(g, p1, "harbinger")
	setDiscard(g, p1, "gold")

	wantNoError(t, g.PlayAction("p1", "harbinger"))
	wantPending(t, g, PendingTopdeck)

	// Null selection skips without moving anything.
	wantNoError(t, g.TopdeckSelection("p1", ""))
	wantNoPending(t, g)
	if countIn(p1.Discard, "gold") != 1 {
		t.Errorf("discard = %v, want the gold untouched", p1.Discard)
	}
}

// Scenario: two revealed cards, decisions [trash, topdeck] in one batch.
func TestSentryDecision(t *testing.T) {
	g := newTestGame(t, 2)
	p1 := player(t, g, "p1")
	setHand(g, p1, "sentry")
	setDeck(g, p1, "gold", "estate", "copper", "silver")

	wantNoError(t, g.PlayAction("p1", "sentry"))
	// Sentry draws 1 (gold) then reveals the next 2 (estate, copper).
	pa := wantPending(t, g, PendingRevealTrashDiscardTopdeck).(*RevealTrashDiscardTopdeck)
	if !equalSlices(pa.Revealed, []string{"estate", "copper"}) {
		t.Fatalf("revealed = %v, want [estate copper]", pa.Revealed)
	}

	trashBefore := len(g.Trash())
	wantNoError(t, g.SentryDecision("p1", []RevealChoice{
		{CardID: "estate", Action: RevealActionTrash},
		{CardID: "copper", Action: RevealActionTopdeck},
	}))

	if len(g.Trash()) != trashBefore+1 {
		t.Errorf("trash = %v, want one more card", g.Trash())
	}
	// The topdecked copper is the next draw.
	if p1.Deck[len(p1.Deck)-1] != "copper" {
		t.Errorf("deck top = %v, want copper", p1.Deck)
	}
	wantNoPending(t, g)
}

func TestSentryBatchIsAllOrNothing(t *testing.T) {
	g := newTestGame(t, 2)
	p1 := player(t, g, "p1")
	setHand(g, p1, "sentry")
	setDeck(g, p1, "gold", "estate", "copper")

	wantNoError(t, g.PlayAction("p1", "sentry"))
	before := snap(g, p1)

	// Partial coverage.
	wantRuleError(t, g.SentryDecision("p1", []RevealChoice{
		{CardID: "estate", Action: RevealActionTrash},
	}))
	// Wrong card.
	wantRuleError(t, g.SentryDecision("p1", []RevealChoice{
		{CardID: "estate", Action: RevealActionTrash},
		{CardID: "gold", Action: RevealActionDiscard},
	}))
	// Unknown choice verb.
	wantRuleError(t, g.SentryDecision("p1", []RevealChoice{
		{CardID: "estate", Action: "burn"},
		{CardID: "copper", Action: RevealActionDiscard},
	}))

	before.check(t, g, p1)

	wantNoError(t, g.SentryDecision("p1", []RevealChoice{
		{CardID: "estate", Action: RevealActionDiscard},
		{CardID: "copper", Action: RevealActionDiscard},
	}))
	if countIn(p1.Discard, "estate") != 1 || countIn(p1.Discard, "copper") != 1 {
		t.Errorf("discard = %v", p1.Discard)
	}
	wantNoPending(t, g)
}

func TestSentryTopdeckOrder(t *testing.T) {
	g := newTestGame(t, 2)
	p1 := player(t, g, "p1")
	setHand(g, p1, "sentry")
	setDeck(g, p1, "gold", "estate", "copper")

	wantNoError(t, g.PlayAction("p1", "sentry"))
	wantNoError(t, g.SentryDecision("p1", []RevealChoice{
		{CardID: "estate", Action: RevealActionTopdeck},
		{CardID: "copper", Action: RevealActionTopdeck},
	}))

	// The last listed card ends up nearest the top.
	n := len(p1.Deck)
	if p1.Deck[n-1] != "copper" || p1.Deck[n-2] != "estate" {
		t.Errorf("deck = %v, want copper on top of estate", p1.Deck)
	}
}
