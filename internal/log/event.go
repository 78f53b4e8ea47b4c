package log

// EventType enumerates all observable game events.
type EventType int

const (
	EventJoin EventType = iota
	EventStart
	EventTurnStart
	EventPlay
	EventPlayTreasure
	EventDraw
	EventGainActions
	EventGainBuys
	EventGainCoins
	EventBuy
	EventGain
	EventDiscard
	EventTrash
	EventTopdeck
	EventReveal
	EventAttackBlocked
	EventPlayDeclined
	EventSkip
	EventGameOver
	EventScore
	EventWin
)

func (e EventType) String() string {
	switch e {
	case EventJoin:
		return "Join"
	case EventStart:
		return "Start"
	case EventTurnStart:
		return "TurnStart"
	case EventPlay:
		return "Play"
	case EventPlayTreasure:
		return "PlayTreasure"
	case EventDraw:
		return "Draw"
	case EventGainActions:
		return "GainActions"
	case EventGainBuys:
		return "GainBuys"
	case EventGainCoins:
		return "GainCoins"
	case EventBuy:
		return "Buy"
	case EventGain:
		return "Gain"
	case EventDiscard:
		return "Discard"
	case EventTrash:
		return "Trash"
	case EventTopdeck:
		return "Topdeck"
	case EventReveal:
		return "Reveal"
	case EventAttackBlocked:
		return "AttackBlocked"
	case EventPlayDeclined:
		return "PlayDeclined"
	case EventSkip:
		return "Skip"
	case EventGameOver:
		return "GameOver"
	case EventScore:
		return "Score"
	case EventWin:
		return "Win"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a game session.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Turn    int       // which turn (1-based; 0 before the game starts)
	Phase   string    // current phase name (e.g. "action")
	Player  string    // acting player id (empty for room-level events)
	Type    EventType // event type
	Card    string    // card name (if applicable)
	Details string    // human-readable detail string
}
