package game

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/peterkuimelis/sovereign/internal/log"
)

const (
	MinPlayers = 2
	MaxPlayers = 4
	HandSize   = 5
)

// Config holds everything needed to create a game.
type Config struct {
	Catalog   *Catalog
	Kingdom   []string // pinned kingdom card ids; unknown entries are dropped
	Seed      int64    // RNG seed (0 for time-based)
	NoShuffle bool     // skip the starting-deck shuffle (deterministic tests)
	Logger    log.EventLogger
}

// Game owns the complete state of one session. It is not safe for concurrent
// use; the room actor serializes all access to it.
type Game struct {
	ID string

	catalog *Catalog
	players []*Player
	supply  map[string]int
	trash   []string
	current int
	phase   Phase
	started bool
	turn    int
	pending PendingAction
	kingdom []string
	scores  []Score

	rng       *rand.Rand
	noShuffle bool
	logger    log.EventLogger
	totals    map[string]int // per-id conservation totals, fixed at start
}

// Score is one player's final result.
type Score struct {
	PlayerID string
	Name     string
	VP       int
}

// NewGame creates an empty game in the waiting phase.
func NewGame(id string, cfg Config) *Game {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Game{
		ID:        id,
		catalog:   cfg.Catalog,
		supply:    make(map[string]int),
		phase:     PhaseWaiting,
		kingdom:   cfg.Kingdom,
		rng:       rand.New(rand.NewSource(seed)),
		noShuffle: cfg.NoShuffle,
		logger:    logger,
	}
}

func (g *Game) Players() []*Player { return g.players }
func (g *Game) Phase() Phase { return g.phase }
func (g *Game) Started() bool { return g.started }
func (g *Game) Turn() int { return g.turn }
func (g *Game) Pending() PendingAction { return g.pending }
func (g *Game) Supply() map[string]int { return g.supply }
func (g *Game) Trash() []string { return g.trash }
func (g *Game) Scores() []Score { return g.scores }
func (g *Game) Catalog() *Catalog { return g.catalog }

// CurrentPlayer returns the player whose turn it is, or nil before anyone
// has joined.
func (g *Game) CurrentPlayer() *Player {
	if len(g.players) == 0 {
		return nil
	}
	return g.players[g.current]
}

// HasPlayer reports whether the id belongs to a seat in this game.
func (g *Game) HasPlayer(playerID string) bool {
	return g.playerByID(playerID) != nil
}

func (g *Game) playerByID(playerID string) *Player {
	for _, p := range g.players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

func (g *Game) logEvent(e log.GameEvent) {
	g.logger.Log(e)
}

// Events returns the full game event log.
func (g *Game) Events() []log.GameEvent {
	return g.logger.Events()
}

// LogLines returns the last n log lines, formatted for display.
func (g *Game) LogLines(n int) []string {
	events := g.logger.Events()
	if len(events) > n {
		events = events[len(events)-n:]
	}
	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, log.FormatEvent(e))
	}
	return lines
}

// --- Joining and starting ---

// AddPlayer seats a new player. Joining a started game or a full room is
// rejected; re-adding a known id returns the existing seat unchanged.
func (g *Game) AddPlayer(playerID, name string) (*Player, error) {
	if g.started {
		return nil, ruleErrorf("the game has already started")
	}
	if p := g.playerByID(playerID); p != nil {
		return p, nil
	}
	if len(g.players) >= MaxPlayers {
		return nil, ruleErrorf("the room is full")
	}
	p := &Player{ID: playerID, Name: name, Connected: true, Actions: 1, Buys: 1}
	g.players = append(g.players, p)
	g.logEvent(log.NewJoinEvent(playerID, name))
	return p, nil
}

// Reconnect rebinds a known player id, updating the display name.
func (g *Game) Reconnect(playerID, name string) (*Player, error) {
	p := g.playerByID(playerID)
	if p == nil {
		return nil, ruleErrorf("unknown player")
	}
	p.Connected = true
	if name != "" {
		p.Name = name
	}
	return p, nil
}

// SetConnected flips a player's connected flag. The player keeps their seat,
// hand and any pending obligation.
func (g *Game) SetConnected(playerID string, connected bool) {
	if p := g.playerByID(playerID); p != nil {
		p.Connected = connected
	}
}

// Start seeds the supply, deals starting decks and opens the first turn.
func (g *Game) Start() error {
	if g.started {
		return ruleErrorf("the game has already started")
	}
	if len(g.players) < MinPlayers {
		return ruleErrorf("at least %d players are needed", MinPlayers)
	}

	g.setupSupply()

	ids := make([]string, 0, len(g.catalog.StartingDeck))
	for id := range g.catalog.StartingDeck {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, p := range g.players {
		for _, id := range ids {
			for i := 0; i < g.catalog.StartingDeck[id]; i++ {
				p.Deck = append(p.Deck, id)
			}
		}
		if !g.noShuffle {
			p.ShuffleDeck(g.rng)
		}
		p.DrawCards(g.rng, HandSize)
	}

	g.totals = g.countAll()
	g.started = true
	g.current = 0
	g.turn = 1
	g.phase = PhaseAction
	g.logEvent(log.NewStartEvent())
	g.logEvent(log.NewTurnStartEvent(g.turn, g.CurrentPlayer().ID, g.CurrentPlayer().Name))
	return nil
}

// setupSupply seeds the always piles plus a random kingdom subset. Pinned
// kingdom ids are honored first, then filled up to the configured count.
func (g *Game) setupSupply() {
	setup := g.catalog.SupplySetup

	for _, id := range setup.Always {
		g.supply[id] = g.catalog.pileSize(id)
	}

	// Two-player games use smaller victory piles.
	if len(g.players) == 2 {
		for _, vid := range g.catalog.VictoryIDs() {
			if _, ok := g.supply[vid]; ok {
				g.supply[vid] = 8
			}
		}
	}

	available := g.catalog.ActionIDs()
	chosen := make([]string, 0, setup.KingdomCount)
	seen := make(map[string]bool)
	for _, id := range g.kingdom {
		if seen[id] {
			continue
		}
		for _, a := range available {
			if a == id {
				chosen = append(chosen, id)
				seen[id] = true
				break
			}
		}
	}

	var remaining []string
	for _, id := range available {
		if !seen[id] {
			remaining = append(remaining, id)
		}
	}
	if needed := setup.KingdomCount - len(chosen); needed > 0 && len(remaining) > 0 {
		g.rng.Shuffle(len(remaining), func(i, j int) {
			remaining[i], remaining[j] = remaining[j], remaining[i]
		})
		if needed > len(remaining) {
			needed = len(remaining)
		}
		chosen = append(chosen, remaining[:needed]...)
	}

	for _, id := range chosen {
		g.supply[id] = g.catalog.pileSize(id)
	}
}

// --- Turn actions ---

// requireTurn validates the shared preconditions for a normal turn action:
// the game is running, the caller is the current player, and no decision is
// outstanding.
func (g *Game) requireTurn(playerID string) (*Player, error) {
	if g.phase == PhaseGameOver {
		return nil, ruleErrorf("the game is over")
	}
	if !g.started {
		return nil, ruleErrorf("the game has not started")
	}
	p := g.playerByID(playerID)
	if p == nil || p != g.CurrentPlayer() {
		return nil, ruleErrorf("it is not your turn")
	}
	if g.pending != nil {
		return nil, ruleErrorf("a decision is pending")
	}
	return p, nil
}

// PlayAction plays one action card from the current player's hand.
func (g *Game) PlayAction(playerID, cardID string) error {
	p, err := g.requireTurn(playerID)
	if err != nil {
		return err
	}
	if g.phase != PhaseAction {
		return ruleErrorf("not the action phase")
	}
	card, ok := g.catalog.Get(cardID)
	if !ok {
		return ruleErrorf("unknown card %q", cardID)
	}
	if !containsAll(p.Hand, []string{cardID}) {
		return ruleErrorf("%s is not in your hand", card.Name)
	}
	if card.Type != CardTypeAction {
		return ruleErrorf("%s is not an action card", card.Name)
	}
	if p.Actions <= 0 {
		return ruleErrorf("no actions left")
	}

	p.Hand, _ = removeOne(p.Hand, cardID)
	p.PlayArea = append(p.PlayArea, cardID)
	p.Actions--
	g.logEvent(log.NewPlayEvent(g.turn, g.phase.String(), p.ID, p.Name, card.Name))
	g.resolveEffects(p, card)
	return g.verify()
}

// PlayTreasure plays one treasure for its coin value. During the action phase
// it first advances the phase to buy.
func (g *Game) PlayTreasure(playerID, cardID string) error {
	p, err := g.requireTurn(playerID)
	if err != nil {
		return err
	}
	if g.phase != PhaseAction && g.phase != PhaseBuy {
		return ruleErrorf("treasures cannot be played now")
	}
	card, ok := g.catalog.Get(cardID)
	if !ok {
		return ruleErrorf("unknown card %q", cardID)
	}
	if !containsAll(p.Hand, []string{cardID}) {
		return ruleErrorf("%s is not in your hand", card.Name)
	}
	if card.Type != CardTypeTreasure {
		return ruleErrorf("%s is not a treasure card", card.Name)
	}

	if g.phase == PhaseAction {
		g.phase = PhaseBuy
	}
	p.Hand, _ = removeOne(p.Hand, cardID)
	p.PlayArea = append(p.PlayArea, cardID)
	p.Coins += card.CoinValue
	g.logEvent(log.NewPlayTreasureEvent(g.turn, g.phase.String(), p.ID, p.Name, card.Name, card.CoinValue))
	return g.verify()
}

// PlayAllTreasures plays every treasure in the current player's hand.
func (g *Game) PlayAllTreasures(playerID string) error {
	p, err := g.requireTurn(playerID)
	if err != nil {
		return err
	}
	if g.phase != PhaseAction && g.phase != PhaseBuy {
		return ruleErrorf("treasures cannot be played now")
	}
	if g.phase == PhaseAction {
		g.phase = PhaseBuy
	}

	var treasures []string
	for _, id := range p.Hand {
		if card, ok := g.catalog.Get(id); ok && card.Type == CardTypeTreasure {
			treasures = append(treasures, id)
		}
	}
	for _, id := range treasures {
		card, _ := g.catalog.Get(id)
		p.Hand, _ = removeOne(p.Hand, id)
		p.PlayArea = append(p.PlayArea, id)
		p.Coins += card.CoinValue
		g.logEvent(log.NewPlayTreasureEvent(g.turn, g.phase.String(), p.ID, p.Name, card.Name, card.CoinValue))
	}
	return g.verify()
}

// SkipAction moves from the action phase straight to buy.
func (g *Game) SkipAction(playerID string) error {
	if _, err := g.requireTurn(playerID); err != nil {
		return err
	}
	if g.phase != PhaseAction {
		return ruleErrorf("not the action phase")
	}
	g.phase = PhaseBuy
	return nil
}

// Buy acquires one card from the supply into the buyer's discard pile.
func (g *Game) Buy(playerID, cardID string) error {
	p, err := g.requireTurn(playerID)
	if err != nil {
		return err
	}
	if g.phase != PhaseBuy {
		return ruleErrorf("not the buy phase")
	}
	if p.Buys <= 0 {
		return ruleErrorf("no buys left")
	}
	card, ok := g.catalog.Get(cardID)
	if !ok {
		return ruleErrorf("unknown card %q", cardID)
	}
	if card.Cost > p.Coins {
		return ruleErrorf("not enough coins (need %d, have %d)", card.Cost, p.Coins)
	}
	if g.supply[cardID] <= 0 {
		return ruleErrorf("the %s pile is empty", card.Name)
	}

	p.Coins -= card.Cost
	p.Buys--
	g.supply[cardID]--
	p.Discard = append(p.Discard, cardID)
	g.logEvent(log.NewBuyEvent(g.turn, g.phase.String(), p.ID, p.Name, card.Name))
	return g.verify()
}

// EndTurn runs cleanup and advances the rotation.
func (g *Game) EndTurn(playerID string) error {
	p, err := g.requireTurn(playerID)
	if err != nil {
		return err
	}
	if g.phase != PhaseAction && g.phase != PhaseBuy {
		return ruleErrorf("the turn cannot end now")
	}
	g.cleanup(p)
	return g.verify()
}

// cleanup discards the hand and play area, redraws, resets the counters,
// checks the end conditions and advances to the next seat. Disconnected
// players are not skipped.
func (g *Game) cleanup(p *Player) {
	g.phase = PhaseCleanup

	p.Discard = append(p.Discard, p.Hand...)
	p.Discard = append(p.Discard, p.PlayArea...)
	p.Hand = nil
	p.PlayArea = nil
	p.DrawCards(g.rng, HandSize)

	p.Actions = 1
	p.Buys = 1
	p.Coins = 0

	if g.endConditionMet() {
		g.finish()
		return
	}

	g.current = (g.current + 1) % len(g.players)
	g.turn++
	g.phase = PhaseAction
	g.logEvent(log.NewTurnStartEvent(g.turn, g.CurrentPlayer().ID, g.CurrentPlayer().Name))
}

func (g *Game) endConditionMet() bool {
	if g.catalog.EndConditions.TopVictoryEmpty {
		if top := g.catalog.TopVictoryID(); top != "" {
			if n, ok := g.supply[top]; ok && n <= 0 {
				return true
			}
		}
	}
	empty := 0
	for _, n := range g.supply {
		if n <= 0 {
			empty++
		}
	}
	return empty >= g.catalog.EndConditions.EmptyPiles
}

// finish computes scores and enters the terminal phase.
func (g *Game) finish() {
	g.phase = PhaseGameOver
	g.logEvent(log.NewGameOverEvent(g.turn))

	g.scores = make([]Score, 0, len(g.players))
	for _, p := range g.players {
		g.scores = append(g.scores, Score{PlayerID: p.ID, Name: p.Name, VP: p.VictoryPoints(g.catalog)})
	}
	sort.SliceStable(g.scores, func(i, j int) bool { return g.scores[i].VP > g.scores[j].VP })
	for _, s := range g.scores {
		g.logEvent(log.NewScoreEvent(g.turn, s.PlayerID, s.Name, s.VP))
	}

	top := g.scores[0].VP
	var winners []string
	for _, s := range g.scores {
		if s.VP == top {
			winners = append(winners, s.Name)
		}
	}
	g.logEvent(log.NewWinEvent(g.turn, winners, top))
}

// --- Pending-action responses ---

// pendingFor fetches the pending action if the player may respond to it.
func (g *Game) pendingFor(playerID string) (PendingAction, error) {
	if g.phase == PhaseGameOver {
		return nil, ruleErrorf("the game is over")
	}
	if g.pending == nil {
		return nil, ruleErrorf("no decision is pending")
	}
	if !g.pending.CanRespond(playerID) {
		return nil, ruleErrorf("it is not your decision")
	}
	return g.pending, nil
}

// DiscardSelection answers an attack_discard or discard_draw request.
func (g *Game) DiscardSelection(playerID string, cardIDs []string) error {
	pa, err := g.pendingFor(playerID)
	if err != nil {
		return err
	}
	switch pa := pa.(type) {
	case *AttackDiscard:
		return g.applyAttackDiscard(pa, playerID, cardIDs)
	case *DiscardDraw:
		return g.applyDiscardDraw(pa, playerID, cardIDs)
	default:
		return ruleErrorf("no discard decision is pending")
	}
}

func (g *Game) applyAttackDiscard(pa *AttackDiscard, playerID string, cardIDs []string) error {
	p := g.playerByID(playerID)
	needed := len(p.Hand) - pa.DiscardTo
	if len(cardIDs) != needed {
		return ruleErrorf("discard exactly %d cards", needed)
	}
	remaining, ok := removeAll(p.Hand, cardIDs)
	if !ok {
		return ruleErrorf("selected cards must all be in your hand")
	}
	p.Hand = remaining
	p.Discard = append(p.Discard, cardIDs...)
	g.logEvent(log.NewDiscardEvent(g.turn, g.phase.String(), p.ID, p.Name, len(cardIDs)))

	targets := make([]string, 0, len(pa.Targets))
	for _, t := range pa.Targets {
		if t != playerID {
			targets = append(targets, t)
		}
	}
	pa.Targets = targets
	if len(pa.Targets) == 0 {
		g.pending = nil
	}
	return g.verify()
}

func (g *Game) applyDiscardDraw(pa *DiscardDraw, playerID string, cardIDs []string) error {
	p := g.playerByID(playerID)
	remaining, ok := removeAll(p.Hand, cardIDs)
	if !ok {
		return ruleErrorf("selected cards must all be in your hand")
	}
	p.Hand = remaining
	p.Discard = append(p.Discard, cardIDs...)
	p.DrawCards(g.rng, len(cardIDs))
	g.logEvent(log.NewDiscardDrawEvent(g.turn, g.phase.String(), p.ID, p.Name, len(cardIDs)))
	g.pending = nil
	return g.verify()
}

// TrashSelection answers a trash, trash_and_gain or
// trash_treasure_gain_treasure request.
func (g *Game) TrashSelection(playerID string, cardIDs []string) error {
	pa, err := g.pendingFor(playerID)
	if err != nil {
		return err
	}
	switch pa := pa.(type) {
	case *TrashRequest:
		return g.applyTrash(pa, playerID, cardIDs)
	case *TrashAndGain:
		return g.applyTrashAndGain(pa, playerID, cardIDs)
	case *TrashTreasureGainTreasure:
		return g.applyTrashTreasure(pa, playerID, cardIDs)
	default:
		return ruleErrorf("no trash decision is pending")
	}
}

func (g *Game) applyTrash(pa *TrashRequest, playerID string, cardIDs []string) error {
	p := g.playerByID(playerID)
	if len(cardIDs) > pa.MaxCards {
		return ruleErrorf("trash at most %d cards", pa.MaxCards)
	}
	remaining, ok := removeAll(p.Hand, cardIDs)
	if !ok {
		return ruleErrorf("selected cards must all be in your hand")
	}
	p.Hand = remaining
	g.trash = append(g.trash, cardIDs...)
	if len(cardIDs) > 0 {
		g.logEvent(log.NewTrashCountEvent(g.turn, g.phase.String(), p.ID, p.Name, len(cardIDs)))
	}
	g.pending = nil
	return g.verify()
}

func (g *Game) applyTrashAndGain(pa *TrashAndGain, playerID string, cardIDs []string) error {
	p := g.playerByID(playerID)
	if len(cardIDs) != 1 {
		return ruleErrorf("choose exactly one card to trash")
	}
	id := cardIDs[0]
	card, ok := g.catalog.Get(id)
	if !ok {
		return ruleErrorf("unknown card %q", id)
	}
	var removed bool
	p.Hand, removed = removeOne(p.Hand, id)
	if !removed {
		return ruleErrorf("%s is not in your hand", card.Name)
	}
	g.trash = append(g.trash, id)
	g.logEvent(log.NewTrashEvent(g.turn, g.phase.String(), p.ID, p.Name, card.Name))
	g.pending = &GainRequest{PlayerID: p.ID, MaxCost: card.Cost + pa.CostBonus}
	return g.verify()
}

func (g *Game) applyTrashTreasure(pa *TrashTreasureGainTreasure, playerID string, cardIDs []string) error {
	p := g.playerByID(playerID)
	if len(cardIDs) != 1 {
		return ruleErrorf("choose exactly one card to trash")
	}
	id := cardIDs[0]
	card, ok := g.catalog.Get(id)
	if !ok {
		return ruleErrorf("unknown card %q", id)
	}
	if card.Type != CardTypeTreasure {
		return ruleErrorf("%s is not a treasure card", card.Name)
	}
	var removed bool
	p.Hand, removed = removeOne(p.Hand, id)
	if !removed {
		return ruleErrorf("%s is not in your hand", card.Name)
	}
	g.trash = append(g.trash, id)
	g.logEvent(log.NewTrashEvent(g.turn, g.phase.String(), p.ID, p.Name, card.Name))
	g.pending = &GainRequest{
		PlayerID:     p.ID,
		MaxCost:      card.Cost + pa.CostBonus,
		ToHand:       true,
		TreasureOnly: true,
	}
	return g.verify()
}

// GainSelection answers a gain request with a supply pile choice. An empty
// cardID declines, which only optional gains allow; declining also drops any
// chained follow-up.
func (g *Game) GainSelection(playerID, cardID string) error {
	pa, err := g.pendingFor(playerID)
	if err != nil {
		return err
	}
	req, ok := pa.(*GainRequest)
	if !ok {
		return ruleErrorf("no gain decision is pending")
	}
	p := g.playerByID(playerID)

	if cardID == "" {
		if !req.Optional {
			return ruleErrorf("a card must be chosen")
		}
		g.logEvent(log.NewSkipEvent(g.turn, g.phase.String(), p.ID, p.Name))
		g.pending = nil
		return nil
	}

	card, ok := g.catalog.Get(cardID)
	if !ok {
		return ruleErrorf("unknown card %q", cardID)
	}
	if card.Cost > req.MaxCost {
		return ruleErrorf("choose a card costing at most %d", req.MaxCost)
	}
	if req.TreasureOnly && card.Type != CardTypeTreasure {
		return ruleErrorf("choose a treasure card")
	}
	if g.supply[cardID] <= 0 {
		return ruleErrorf("the %s pile is empty", card.Name)
	}

	g.supply[cardID]--
	if req.ToHand {
		p.Hand = append(p.Hand, cardID)
	} else {
		p.Discard = append(p.Discard, cardID)
	}
	g.logEvent(log.NewGainEvent(g.turn, g.phase.String(), p.ID, p.Name, card.Name, req.ToHand))

	if req.ThenTopdeck {
		g.pending = &TopdeckRequest{PlayerID: p.ID, Source: ZoneHand}
	} else {
		g.pending = nil
	}
	return g.verify()
}

// TopdeckSelection answers a topdeck request. An empty cardID skips.
func (g *Game) TopdeckSelection(playerID, cardID string) error {
	pa, err := g.pendingFor(playerID)
	if err != nil {
		return err
	}
	req, ok := pa.(*TopdeckRequest)
	if !ok {
		return ruleErrorf("no topdeck decision is pending")
	}
	p := g.playerByID(playerID)

	if cardID == "" {
		g.logEvent(log.NewSkipEvent(g.turn, g.phase.String(), p.ID, p.Name))
		g.pending = nil
		return nil
	}

	var removed bool
	switch req.Source {
	case ZoneHand:
		p.Hand, removed = removeOne(p.Hand, cardID)
		if !removed {
			return ruleErrorf("%s is not in your hand", g.catalog.Name(cardID))
		}
	case ZoneDiscard:
		p.Discard, removed = removeOne(p.Discard, cardID)
		if !removed {
			return ruleErrorf("%s is not in your discard pile", g.catalog.Name(cardID))
		}
	default:
		return fmt.Errorf("topdeck request has invalid source zone %v", req.Source)
	}

	p.Deck = append(p.Deck, cardID)
	g.logEvent(log.NewTopdeckEvent(g.turn, g.phase.String(), p.ID, p.Name, g.catalog.Name(cardID)))
	g.pending = nil
	return g.verify()
}

// VassalDecision answers a play_revealed_action request. Playing moves the
// revealed card from the discard pile to the play area and runs its effects
// at no action cost.
func (g *Game) VassalDecision(playerID string, play bool) error {
	pa, err := g.pendingFor(playerID)
	if err != nil {
		return err
	}
	req, ok := pa.(*PlayRevealedAction)
	if !ok {
		return ruleErrorf("no play decision is pending")
	}
	p := g.playerByID(playerID)
	card, ok := g.catalog.Get(req.CardID)
	if !ok {
		return fmt.Errorf("revealed card %q missing from catalog", req.CardID)
	}

	if !play {
		g.logEvent(log.NewPlayDeclinedEvent(g.turn, g.phase.String(), p.ID, p.Name, card.Name))
		g.pending = nil
		return nil
	}

	var removed bool
	p.Discard, removed = removeOne(p.Discard, req.CardID)
	if !removed {
		return fmt.Errorf("revealed card %q missing from discard pile", req.CardID)
	}
	p.PlayArea = append(p.PlayArea, req.CardID)
	g.pending = nil
	g.logEvent(log.NewPlayEvent(g.turn, g.phase.String(), p.ID, p.Name, card.Name))
	g.resolveEffects(p, card)
	return g.verify()
}

// SentryDecision answers a reveal_trash_discard_topdeck request. The batch
// must cover every revealed card and applies atomically; topdecked cards go
// back in the order given, the last listed ending up nearest the top.
func (g *Game) SentryDecision(playerID string, decisions []RevealChoice) error {
	pa, err := g.pendingFor(playerID)
	if err != nil {
		return err
	}
	req, ok := pa.(*RevealTrashDiscardTopdeck)
	if !ok {
		return ruleErrorf("no reveal decision is pending")
	}
	p := g.playerByID(playerID)

	ids := make([]string, 0, len(decisions))
	for _, d := range decisions {
		switch d.Action {
		case RevealActionTrash, RevealActionDiscard, RevealActionTopdeck:
		default:
			return ruleErrorf("unknown choice %q for %s", d.Action, g.catalog.Name(d.CardID))
		}
		ids = append(ids, d.CardID)
	}
	if !sameMultiset(ids, req.Revealed) {
		return ruleErrorf("decisions must cover exactly the revealed cards")
	}

	var topdeck []string
	for _, d := range decisions {
		name := g.catalog.Name(d.CardID)
		switch d.Action {
		case RevealActionTrash:
			g.trash = append(g.trash, d.CardID)
			g.logEvent(log.NewTrashEvent(g.turn, g.phase.String(), p.ID, p.Name, name))
		case RevealActionDiscard:
			p.Discard = append(p.Discard, d.CardID)
			g.logEvent(log.NewDiscardCardEvent(g.turn, g.phase.String(), p.ID, p.Name, name))
		case RevealActionTopdeck:
			topdeck = append(topdeck, d.CardID)
		}
	}
	for _, id := range topdeck {
		p.Deck = append(p.Deck, id)
		g.logEvent(log.NewTopdeckEvent(g.turn, g.phase.String(), p.ID, p.Name, g.catalog.Name(id)))
	}

	g.pending = nil
	return g.verify()
}

// sameMultiset reports whether a and b contain the same ids with the same
// multiplicities.
func sameMultiset(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, id := range a {
		counts[id]++
	}
	for _, id := range b {
		counts[id]--
		if counts[id] < 0 {
			return false
		}
	}
	return true
}

// --- Conservation ---

// countAll tallies every card id across the supply, trash, all player zones
// and any cards lifted into the pending action's reveal buffer.
func (g *Game) countAll() map[string]int {
	counts := make(map[string]int)
	for id, n := range g.supply {
		counts[id] += n
	}
	for _, id := range g.trash {
		counts[id]++
	}
	for _, p := range g.players {
		for _, id := range p.AllCards() {
			counts[id]++
		}
	}
	if r, ok := g.pending.(*RevealTrashDiscardTopdeck); ok {
		for _, id := range r.Revealed {
			counts[id]++
		}
	}
	return counts
}

// verify enforces zone conservation after a mutation. A failure means the
// engine corrupted its own state and the room must be torn down.
func (g *Game) verify() error {
	if !g.started {
		return nil
	}
	counts := g.countAll()
	for id, want := range g.totals {
		if counts[id] != want {
			return fmt.Errorf("conservation violated for %q: have %d, want %d", id, counts[id], want)
		}
	}
	for id := range counts {
		if _, ok := g.totals[id]; !ok {
			return fmt.Errorf("conservation violated: unexpected card %q", id)
		}
	}
	return nil
}
