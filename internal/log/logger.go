package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging game events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for snapshots and test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// Tail returns the formatted lines of the most recent n events.
func (l *MemoryLogger) Tail(n int) []string {
	events := l.events
	if len(events) > n {
		events = events[len(events)-n:]
	}
	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, FormatEvent(e))
	}
	return lines
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	if e.Turn == 0 {
		return e.Details
	}
	return fmt.Sprintf("T%-2d %s", e.Turn, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewJoinEvent(player, name string) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventJoin,
		Details: fmt.Sprintf("%s joined the game", name),
	}
}

func NewStartEvent() GameEvent {
	return GameEvent{
		Type:    EventStart,
		Details: "Game started",
	}
}

func NewTurnStartEvent(turn int, player, name string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "action",
		Player:  player,
		Type:    EventTurnStart,
		Details: fmt.Sprintf("=== Turn %d: %s ===", turn, name),
	}
}

func NewPlayEvent(turn int, phase, player, name, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventPlay,
		Card:    cardName,
		Details: fmt.Sprintf("%s plays %s", name, cardName),
	}
}

func NewPlayTreasureEvent(turn int, phase, player, name, cardName string, coins int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventPlayTreasure,
		Card:    cardName,
		Details: fmt.Sprintf("%s plays %s (+%d coins)", name, cardName, coins),
	}
}

func NewDrawEvent(turn int, phase, player, name string, n int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDraw,
		Details: fmt.Sprintf("%s draws %d", name, n),
	}
}

func NewGainActionsEvent(turn int, phase, player, name string, n int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventGainActions,
		Details: fmt.Sprintf("%s gets +%d actions", name, n),
	}
}

func NewGainBuysEvent(turn int, phase, player, name string, n int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventGainBuys,
		Details: fmt.Sprintf("%s gets +%d buys", name, n),
	}
}

func NewGainCoinsEvent(turn int, phase, player, name string, n int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventGainCoins,
		Details: fmt.Sprintf("%s gets +%d coins", name, n),
	}
}

func NewBuyEvent(turn int, phase, player, name, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventBuy,
		Card:    cardName,
		Details: fmt.Sprintf("%s buys %s", name, cardName),
	}
}

func NewGainEvent(turn int, phase, player, name, cardName string, toHand bool) GameEvent {
	dest := ""
	if toHand {
		dest = " to hand"
	}
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventGain,
		Card:    cardName,
		Details: fmt.Sprintf("%s gains %s%s", name, cardName, dest),
	}
}

func NewGainTopdeckEvent(turn int, phase, player, name, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventGain,
		Card:    cardName,
		Details: fmt.Sprintf("%s gains %s onto their deck", name, cardName),
	}
}

func NewDiscardEvent(turn int, phase, player, name string, n int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDiscard,
		Details: fmt.Sprintf("%s discards %d", name, n),
	}
}

func NewDiscardCardEvent(turn int, phase, player, name, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDiscard,
		Card:    cardName,
		Details: fmt.Sprintf("%s discards %s", name, cardName),
	}
}

func NewDiscardDrawEvent(turn int, phase, player, name string, n int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDiscard,
		Details: fmt.Sprintf("%s discards %d and draws %d", name, n, n),
	}
}

func NewTrashEvent(turn int, phase, player, name, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventTrash,
		Card:    cardName,
		Details: fmt.Sprintf("%s trashes %s", name, cardName),
	}
}

func NewTrashCountEvent(turn int, phase, player, name string, n int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventTrash,
		Details: fmt.Sprintf("%s trashes %d", name, n),
	}
}

func NewTopdeckEvent(turn int, phase, player, name, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventTopdeck,
		Card:    cardName,
		Details: fmt.Sprintf("%s puts %s on top of their deck", name, cardName),
	}
}

func NewRevealEvent(turn int, phase, player, name string, cardNames []string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventReveal,
		Details: fmt.Sprintf("%s reveals %s", name, strings.Join(cardNames, ", ")),
	}
}

func NewRevealHandEvent(turn int, phase, player, name string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventReveal,
		Details: fmt.Sprintf("%s reveals a hand with no victory card", name),
	}
}

func NewAttackBlockedEvent(turn int, phase, player, name string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventAttackBlocked,
		Details: fmt.Sprintf("%s blocks the attack with a reaction", name),
	}
}

func NewPlayDeclinedEvent(turn int, phase, player, name, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventPlayDeclined,
		Card:    cardName,
		Details: fmt.Sprintf("%s does not play %s", name, cardName),
	}
}

func NewSkipEvent(turn int, phase, player, name string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventSkip,
		Details: fmt.Sprintf("%s skips", name),
	}
}

func NewGameOverEvent(turn int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "game_over",
		Type:    EventGameOver,
		Details: "Game over!",
	}
}

func NewScoreEvent(turn int, player, name string, vp int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "game_over",
		Player:  player,
		Type:    EventScore,
		Details: fmt.Sprintf("%s: %d VP", name, vp),
	}
}

func NewWinEvent(turn int, names []string, vp int) GameEvent {
	details := fmt.Sprintf("%s wins with %d VP!", names[0], vp)
	if len(names) > 1 {
		details = fmt.Sprintf("%s tie with %d VP!", strings.Join(names, " and "), vp)
	}
	return GameEvent{
		Turn:    turn,
		Phase:   "game_over",
		Type:    EventWin,
		Details: details,
	}
}
