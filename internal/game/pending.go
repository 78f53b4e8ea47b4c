package game

// PendingKind discriminates the pending-action variants.
type PendingKind int

const (
	PendingAttackDiscard PendingKind = iota
	PendingDiscardDraw
	PendingGain
	PendingTrash
	PendingTrashAndGain
	PendingTrashTreasureGainTreasure
	PendingTopdeck
	PendingPlayRevealedAction
	PendingRevealTrashDiscardTopdeck
)

func (k PendingKind) String() string {
	switch k {
	case PendingAttackDiscard:
		return "attack_discard"
	case PendingDiscardDraw:
		return "discard_draw"
	case PendingGain:
		return "gain"
	case PendingTrash:
		return "trash"
	case PendingTrashAndGain:
		return "trash_and_gain"
	case PendingTrashTreasureGainTreasure:
		return "trash_treasure_gain_treasure"
	case PendingTopdeck:
		return "topdeck"
	case PendingPlayRevealedAction:
		return "play_revealed_action"
	case PendingRevealTrashDiscardTopdeck:
		return "reveal_trash_discard_topdeck"
	default:
		return "unknown"
	}
}

// PendingAction is the engine's record of the one decision it is waiting on.
// The set of implementations in this file is closed: every variant carries
// exactly the fields its kind needs, and response handlers dispatch on the
// concrete type. A room holds at most one PendingAction at a time.
type PendingAction interface {
	Kind() PendingKind
	// CanRespond reports whether the player is an expected responder.
	CanRespond(playerID string) bool
}

// AttackDiscard waits for every remaining target to discard down to a hand
// floor. Targets respond independently, each with one all-or-nothing batch;
// the action clears when the last target has responded.
type AttackDiscard struct {
	AttackerID string
	DiscardTo  int      // hand size floor each target must reach
	Targets    []string // remaining responders, in seat order
}

func (a *AttackDiscard) Kind() PendingKind { return PendingAttackDiscard }

func (a *AttackDiscard) CanRespond(playerID string) bool {
	for _, t := range a.Targets {
		if t == playerID {
			return true
		}
	}
	return false
}

// DiscardDraw waits for the acting player to discard any number of cards,
// then draws the same count.
type DiscardDraw struct {
	PlayerID string
}

func (d *DiscardDraw) Kind() PendingKind { return PendingDiscardDraw }
func (d *DiscardDraw) CanRespond(playerID string) bool { return playerID == d.PlayerID }

// GainRequest waits for the acting player to pick one supply pile costing at
// most MaxCost. ToHand gains into the hand instead of the discard pile,
// TreasureOnly restricts the pick, ThenTopdeck chains a topdeck-from-hand
// request after the gain, and Optional permits declining the gain outright.
type GainRequest struct {
	PlayerID     string
	MaxCost      int
	ToHand       bool
	TreasureOnly bool
	ThenTopdeck  bool
	Optional     bool
}

func (g *GainRequest) Kind() PendingKind { return PendingGain }
func (g *GainRequest) CanRespond(playerID string) bool { return playerID == g.PlayerID }

// TrashRequest waits for the acting player to trash up to MaxCards hand cards.
type TrashRequest struct {
	PlayerID string
	MaxCards int
}

func (t *TrashRequest) Kind() PendingKind { return PendingTrash }
func (t *TrashRequest) CanRespond(playerID string) bool { return playerID == t.PlayerID }

// TrashAndGain waits for exactly one hand card to trash, then chains into a
// gain bounded by the trashed card's cost plus CostBonus.
type TrashAndGain struct {
	PlayerID  string
	CostBonus int
}

func (t *TrashAndGain) Kind() PendingKind { return PendingTrashAndGain }
func (t *TrashAndGain) CanRespond(playerID string) bool { return playerID == t.PlayerID }

// TrashTreasureGainTreasure waits for one treasure to trash, then chains into
// a treasure-only gain to hand bounded by the trashed cost plus CostBonus.
type TrashTreasureGainTreasure struct {
	PlayerID  string
	CostBonus int
}

func (t *TrashTreasureGainTreasure) Kind() PendingKind { return PendingTrashTreasureGainTreasure }
func (t *TrashTreasureGainTreasure) CanRespond(playerID string) bool {
	return playerID == t.PlayerID
}

// TopdeckRequest waits for the acting player to move zero or one card from
// the source zone to the top of their deck. An empty selection skips.
type TopdeckRequest struct {
	PlayerID string
	Source   Zone // ZoneHand or ZoneDiscard
}

func (t *TopdeckRequest) Kind() PendingKind { return PendingTopdeck }
func (t *TopdeckRequest) CanRespond(playerID string) bool { return playerID == t.PlayerID }

// PlayRevealedAction waits for a yes/no decision on playing an action card
// revealed off the deck top. The revealed card sits in the discard pile while
// the decision is outstanding.
type PlayRevealedAction struct {
	PlayerID string
	CardID   string
}

func (p *PlayRevealedAction) Kind() PendingKind { return PendingPlayRevealedAction }
func (p *PlayRevealedAction) CanRespond(playerID string) bool { return playerID == p.PlayerID }

// Reveal choice actions accepted by RevealTrashDiscardTopdeck responses.
const (
	RevealActionTrash   = "trash"
	RevealActionDiscard = "discard"
	RevealActionTopdeck = "topdeck"
)

// RevealChoice is one per-card decision in a reveal response.
type RevealChoice struct {
	CardID string
	Action string
}

// RevealTrashDiscardTopdeck waits for one choice per revealed card, submitted
// together. The revealed cards live here, outside any player zone, until the
// response applies them.
type RevealTrashDiscardTopdeck struct {
	PlayerID string
	Revealed []string // in reveal order
}

func (r *RevealTrashDiscardTopdeck) Kind() PendingKind { return PendingRevealTrashDiscardTopdeck }
func (r *RevealTrashDiscardTopdeck) CanRespond(playerID string) bool {
	return playerID == r.PlayerID
}
