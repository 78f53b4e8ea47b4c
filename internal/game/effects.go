package game

import "github.com/peterkuimelis/sovereign/internal/log"

// effectFunc applies a single declared effect for the acting player. Handlers
// either mutate state immediately or install the game's pending action; they
// never do both for the same effect.
type effectFunc func(g *Game, p *Player, e Effect)

// effectRegistry maps effect type tags to their transition functions. The
// interpreter skips tags absent from this map, so a catalog may carry effects
// this engine does not know yet.
var effectRegistry = map[string]effectFunc{
	"draw":                                 effectDraw,
	"action":                               effectActions,
	"buy":                                  effectBuys,
	"coin":                                 effectCoins,
	"attack_discard_to":                    effectAttackDiscardTo,
	"discard_draw":                         effectDiscardDraw,
	"gain_card_up_to":                      effectGainCardUpTo,
	"gain_card_to_hand":                    effectGainCardToHand,
	"trash":                                effectTrash,
	"trash_and_gain":                       effectTrashAndGain,
	"trash_treasure_gain_treasure":         effectTrashTreasureGainTreasure,
	"trash_copper_for_coin":                effectTrashCopperForCoin,
	"opponents_draw":                       effectOpponentsDraw,
	"topdeck_from_discard":                 effectTopdeckFromDiscard,
	"discard_top_play_action":              effectDiscardTopPlayAction,
	"gain_treasure_topdeck_attack_victory": effectGainTreasureTopdeckAttackVictory,
	"reveal_trash_discard_topdeck":         effectRevealTrashDiscardTopdeck,
}

// pendingSpawning lists the tags that suspend play behind a pending action.
// Catalog validation admits at most one such tag per card, which is what
// keeps "at most one pending action per room" safe against data.
var pendingSpawning = map[string]bool{
	"attack_discard_to":            true,
	"discard_draw":                 true,
	"gain_card_up_to":              true,
	"gain_card_to_hand":            true,
	"trash":                        true,
	"trash_and_gain":               true,
	"trash_treasure_gain_treasure": true,
	"topdeck_from_discard":         true,
	"discard_top_play_action":      true,
	"reveal_trash_discard_topdeck": true,
}

// resolveEffects runs a card's declared effects in order.
func (g *Game) resolveEffects(p *Player, card *Card) {
	for _, e := range card.Effects {
		fn, ok := effectRegistry[e.Type]
		if !ok {
			continue
		}
		fn(g, p, e)
	}
}

func effectDraw(g *Game, p *Player, e Effect) {
	drawn := p.DrawCards(g.rng, e.Amount)
	g.logEvent(log.NewDrawEvent(g.turn, g.phase.String(), p.ID, p.Name, len(drawn)))
}

func effectActions(g *Game, p *Player, e Effect) {
	p.Actions += e.Amount
	g.logEvent(log.NewGainActionsEvent(g.turn, g.phase.String(), p.ID, p.Name, e.Amount))
}

func effectBuys(g *Game, p *Player, e Effect) {
	p.Buys += e.Amount
	g.logEvent(log.NewGainBuysEvent(g.turn, g.phase.String(), p.ID, p.Name, e.Amount))
}

func effectCoins(g *Game, p *Player, e Effect) {
	p.Coins += e.Amount
	g.logEvent(log.NewGainCoinsEvent(g.turn, g.phase.String(), p.ID, p.Name, e.Amount))
}

// hasBlockReaction reports whether the player holds an attack-blocking
// reaction card.
func (g *Game) hasBlockReaction(p *Player) bool {
	for _, id := range p.Hand {
		if card, ok := g.catalog.Get(id); ok && card.Reaction == ReactionBlockAttack {
			return true
		}
	}
	return false
}

// attackTargets collects the players an attack reaches, in seat order. The
// attacker is excluded; blockers are excluded and logged; players failing the
// keep filter are excluded silently. The connected flag is ignored — targets
// owe their response whenever they return.
func (g *Game) attackTargets(attacker *Player, keep func(*Player) bool) []string {
	var targets []string
	for _, p := range g.players {
		if p.ID == attacker.ID {
			continue
		}
		if g.hasBlockReaction(p) {
			g.logEvent(log.NewAttackBlockedEvent(g.turn, g.phase.String(), p.ID, p.Name))
			continue
		}
		if keep != nil && !keep(p) {
			continue
		}
		targets = append(targets, p.ID)
	}
	return targets
}

func effectAttackDiscardTo(g *Game, p *Player, e Effect) {
	targets := g.attackTargets(p, func(t *Player) bool {
		return len(t.Hand) > e.Amount
	})
	if len(targets) == 0 {
		return
	}
	g.pending = &AttackDiscard{AttackerID: p.ID, DiscardTo: e.Amount, Targets: targets}
}

func effectDiscardDraw(g *Game, p *Player, e Effect) {
	g.pending = &DiscardDraw{PlayerID: p.ID}
}

func effectGainCardUpTo(g *Game, p *Player, e Effect) {
	g.pending = &GainRequest{PlayerID: p.ID, MaxCost: e.Amount, Optional: e.Optional}
}

func effectGainCardToHand(g *Game, p *Player, e Effect) {
	g.pending = &GainRequest{
		PlayerID:    p.ID,
		MaxCost:     e.Amount,
		ToHand:      true,
		ThenTopdeck: true,
		Optional:    e.Optional,
	}
}

func effectTrash(g *Game, p *Player, e Effect) {
	g.pending = &TrashRequest{PlayerID: p.ID, MaxCards: e.Amount}
}

func effectTrashAndGain(g *Game, p *Player, e Effect) {
	g.pending = &TrashAndGain{PlayerID: p.ID, CostBonus: e.Amount}
}

func effectTrashTreasureGainTreasure(g *Game, p *Player, e Effect) {
	g.pending = &TrashTreasureGainTreasure{PlayerID: p.ID, CostBonus: e.Amount}
}

// effectTrashCopperForCoin trashes the catalog's cheapest treasure from the
// player's hand for +N coins. Holding none, the effect does nothing.
func effectTrashCopperForCoin(g *Game, p *Player, e Effect) {
	cheapest := g.catalog.CheapestTreasureID()
	if cheapest == "" {
		return
	}
	var ok bool
	p.Hand, ok = removeOne(p.Hand, cheapest)
	if !ok {
		return
	}
	g.trash = append(g.trash, cheapest)
	p.Coins += e.Amount
	g.logEvent(log.NewTrashEvent(g.turn, g.phase.String(), p.ID, p.Name, g.catalog.Name(cheapest)))
	g.logEvent(log.NewGainCoinsEvent(g.turn, g.phase.String(), p.ID, p.Name, e.Amount))
}

func effectOpponentsDraw(g *Game, p *Player, e Effect) {
	for _, other := range g.players {
		if other.ID == p.ID {
			continue
		}
		drawn := other.DrawCards(g.rng, e.Amount)
		g.logEvent(log.NewDrawEvent(g.turn, g.phase.String(), other.ID, other.Name, len(drawn)))
	}
}

// effectTopdeckFromDiscard prompts only when there is something to move.
func effectTopdeckFromDiscard(g *Game, p *Player, e Effect) {
	if len(p.Discard) == 0 {
		return
	}
	g.pending = &TopdeckRequest{PlayerID: p.ID, Source: ZoneDiscard}
}

// effectDiscardTopPlayAction reveals the deck top into the discard pile and,
// if it is an action card, offers to play it at no action cost.
func effectDiscardTopPlayAction(g *Game, p *Player, e Effect) {
	if len(p.Deck) == 0 {
		p.ShuffleDiscardIntoDeck(g.rng)
	}
	if len(p.Deck) == 0 {
		return
	}
	top := p.Deck[len(p.Deck)-1]
	p.Deck = p.Deck[:len(p.Deck)-1]
	p.Discard = append(p.Discard, top)
	g.logEvent(log.NewRevealEvent(g.turn, g.phase.String(), p.ID, p.Name, []string{g.catalog.Name(top)}))

	if card, ok := g.catalog.Get(top); ok && card.Type == CardTypeAction {
		g.pending = &PlayRevealedAction{PlayerID: p.ID, CardID: top}
	}
}

// effectGainTreasureTopdeckAttackVictory gains a treasure of exactly the given
// cost onto the player's deck top, then forces each non-blocking opponent to
// topdeck their cheapest victory card.
func effectGainTreasureTopdeckAttackVictory(g *Game, p *Player, e Effect) {
	if tid := g.catalog.TreasureIDByCost(e.Amount); tid != "" && g.supply[tid] > 0 {
		g.supply[tid]--
		p.Deck = append(p.Deck, tid)
		g.logEvent(log.NewGainTopdeckEvent(g.turn, g.phase.String(), p.ID, p.Name, g.catalog.Name(tid)))
	}

	for _, targetID := range g.attackTargets(p, nil) {
		target := g.playerByID(targetID)
		chosen := ""
		chosenCost := 0
		for _, id := range target.Hand {
			card, ok := g.catalog.Get(id)
			if !ok || card.Type != CardTypeVictory {
				continue
			}
			if chosen == "" || card.Cost < chosenCost {
				chosen, chosenCost = id, card.Cost
			}
		}
		if chosen == "" {
			g.logEvent(log.NewRevealHandEvent(g.turn, g.phase.String(), target.ID, target.Name))
			continue
		}
		target.Hand, _ = removeOne(target.Hand, chosen)
		target.Deck = append(target.Deck, chosen)
		g.logEvent(log.NewTopdeckEvent(g.turn, g.phase.String(), target.ID, target.Name, g.catalog.Name(chosen)))
	}
}

// effectRevealTrashDiscardTopdeck lifts the top N cards off the deck into the
// pending action itself; they re-enter zones when the response applies.
func effectRevealTrashDiscardTopdeck(g *Game, p *Player, e Effect) {
	var revealed []string
	for i := 0; i < e.Amount; i++ {
		if len(p.Deck) == 0 {
			p.ShuffleDiscardIntoDeck(g.rng)
		}
		if len(p.Deck) == 0 {
			break
		}
		revealed = append(revealed, p.Deck[len(p.Deck)-1])
		p.Deck = p.Deck[:len(p.Deck)-1]
	}
	if len(revealed) == 0 {
		return
	}

	names := make([]string, len(revealed))
	for i, id := range revealed {
		names[i] = g.catalog.Name(id)
	}
	g.logEvent(log.NewRevealEvent(g.turn, g.phase.String(), p.ID, p.Name, names))
	g.pending = &RevealTrashDiscardTopdeck{PlayerID: p.ID, Revealed: revealed}
}
