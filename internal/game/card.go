package game

// CardType categorizes a catalog card.
type CardType int

const (
	CardTypeTreasure CardType = iota
	CardTypeVictory
	CardTypeAction
)

func (t CardType) String() string {
	switch t {
	case CardTypeTreasure:
		return "treasure"
	case CardTypeVictory:
		return "victory"
	case CardTypeAction:
		return "action"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the type as its name, for catalog API responses.
func (t CardType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// SubType refines action cards.
type SubType int

const (
	SubTypeNone SubType = iota
	SubTypeAction
	SubTypeAttack
	SubTypeReaction
)

func (s SubType) String() string {
	switch s {
	case SubTypeAction:
		return "action"
	case SubTypeAttack:
		return "attack"
	case SubTypeReaction:
		return "reaction"
	default:
		return ""
	}
}

func (s SubType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Phase is the turn/phase state machine's state.
type Phase int

const (
	PhaseWaiting Phase = iota // before the game starts
	PhaseAction
	PhaseBuy
	PhaseCleanup // transient, never visible between actions
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseAction:
		return "action"
	case PhaseBuy:
		return "buy"
	case PhaseCleanup:
		return "cleanup"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Zone names a card location. Cards only ever move between two zones per mutation.
type Zone int

const (
	ZoneHand Zone = iota
	ZoneDeck
	ZoneDiscard
	ZonePlayArea
	ZoneSupply
	ZoneTrash
)

func (z Zone) String() string {
	switch z {
	case ZoneHand:
		return "hand"
	case ZoneDeck:
		return "deck"
	case ZoneDiscard:
		return "discard"
	case ZonePlayArea:
		return "play_area"
	case ZoneSupply:
		return "supply"
	case ZoneTrash:
		return "trash"
	default:
		return "unknown"
	}
}

// ReactionBlockAttack marks a card that cancels attacks against its holder
// while it sits in their hand.
const ReactionBlockAttack = "block_attack"

// Effect is one entry in a card's declared effect list. Semantics are keyed
// entirely by the type tag; Amount is the tag-specific magnitude. Optional
// marks gain-style effects whose selection may be declined.
type Effect struct {
	Type     string `json:"type"`
	Amount   int    `json:"amount,omitempty"`
	Optional bool   `json:"optional,omitempty"`
}

// Card is an immutable catalog definition. Game state references cards by ID
// only; all per-card behavior flows through the effect list.
type Card struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Type          CardType `json:"type"`
	SubType       SubType  `json:"subtype,omitempty"`
	Cost          int      `json:"cost"`
	CoinValue     int      `json:"coin_value,omitempty"`
	VictoryPoints int      `json:"victory_points,omitempty"`
	Effects       []Effect `json:"effects,omitempty"`
	Reaction      string   `json:"reaction,omitempty"`
}
