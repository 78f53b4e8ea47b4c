package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SupplySetup configures the shared pool seeded at game start.
type SupplySetup struct {
	Always       []string       // pile ids present in every game
	KingdomCount int            // size of the random kingdom subset
	PileSizes    map[string]int // per-id sizes plus the "default_action" fallback
}

// EndConditions configures when a game ends.
type EndConditions struct {
	TopVictoryEmpty bool // end when the highest-cost victory pile runs out
	EmptyPiles      int  // end when this many piles are empty (default 3)
}

// Catalog is the immutable card set a process serves. It is loaded once at
// startup and shared by every room; nothing mutates it after validation.
type Catalog struct {
	cards map[string]*Card
	order []string // load order, kept for deterministic catalog scans

	SupplySetup   SupplySetup
	StartingDeck  map[string]int
	EndConditions EndConditions
}

// catalogFile is the top-level YAML structure.
type catalogFile struct {
	Cards             []cardEntry    `yaml:"cards"`
	SupplySetup       supplyEntry    `yaml:"supply_setup"`
	StartingDeck      map[string]int `yaml:"starting_deck"`
	GameEndConditions endEntry       `yaml:"game_end_conditions"`
}

type cardEntry struct {
	ID            string        `yaml:"id"`
	Name          string        `yaml:"name"`
	Type          string        `yaml:"type"`
	SubType       string        `yaml:"subtype"`
	Cost          int           `yaml:"cost"`
	CoinValue     int           `yaml:"coin_value"`
	VictoryPoints int           `yaml:"victory_points"`
	Reaction      string        `yaml:"reaction"`
	Effects       []effectEntry `yaml:"effects"`
}

type effectEntry struct {
	Type     string `yaml:"type"`
	Amount   int    `yaml:"amount"`
	Optional bool   `yaml:"optional"`
}

type supplyEntry struct {
	Always       []string       `yaml:"always"`
	KingdomCount int            `yaml:"kingdom_count"`
	PileSizes    map[string]int `yaml:"pile_sizes"`
}

type endEntry struct {
	ProvinceEmpty bool `yaml:"province_empty"`
	EmptyPiles    int  `yaml:"empty_piles"`
}

// defaultPileKey sizes any pile without an explicit entry.
const defaultPileKey = "default_action"

// LoadCatalog reads and validates a YAML catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data)
}

// ParseCatalog parses and validates YAML catalog bytes.
func ParseCatalog(data []byte) (*Catalog, error) {
	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}

	cards := make([]*Card, 0, len(cf.Cards))
	for _, e := range cf.Cards {
		ct, err := parseCardType(e.Type)
		if err != nil {
			return nil, fmt.Errorf("card %q: %w", e.ID, err)
		}
		st, err := parseSubType(e.SubType)
		if err != nil {
			return nil, fmt.Errorf("card %q: %w", e.ID, err)
		}
		card := &Card{
			ID:            e.ID,
			Name:          e.Name,
			Type:          ct,
			SubType:       st,
			Cost:          e.Cost,
			CoinValue:     e.CoinValue,
			VictoryPoints: e.VictoryPoints,
			Reaction:      e.Reaction,
		}
		for _, ef := range e.Effects {
			card.Effects = append(card.Effects, Effect{Type: ef.Type, Amount: ef.Amount, Optional: ef.Optional})
		}
		cards = append(cards, card)
	}

	return NewCatalog(cards, SupplySetup{
		Always:       cf.SupplySetup.Always,
		KingdomCount: cf.SupplySetup.KingdomCount,
		PileSizes:    cf.SupplySetup.PileSizes,
	}, cf.StartingDeck, EndConditions{
		TopVictoryEmpty: cf.GameEndConditions.ProvinceEmpty,
		EmptyPiles:      cf.GameEndConditions.EmptyPiles,
	})
}

// NewCatalog validates card definitions and setup and builds a Catalog.
func NewCatalog(cards []*Card, supply SupplySetup, starting map[string]int, end EndConditions) (*Catalog, error) {
	c := &Catalog{
		cards:         make(map[string]*Card, len(cards)),
		SupplySetup:   supply,
		StartingDeck:  starting,
		EndConditions: end,
	}
	if c.SupplySetup.PileSizes == nil {
		c.SupplySetup.PileSizes = map[string]int{}
	}
	if c.EndConditions.EmptyPiles <= 0 {
		c.EndConditions.EmptyPiles = 3
	}

	for _, card := range cards {
		if card.ID == "" {
			return nil, fmt.Errorf("card %q has no id", card.Name)
		}
		if _, dup := c.cards[card.ID]; dup {
			return nil, fmt.Errorf("duplicate card id %q", card.ID)
		}
		spawning := 0
		for _, e := range card.Effects {
			if pendingSpawning[e.Type] {
				spawning++
			}
		}
		if spawning > 1 {
			return nil, fmt.Errorf("card %q declares %d decision effects, at most one allowed", card.ID, spawning)
		}
		c.cards[card.ID] = card
		c.order = append(c.order, card.ID)
	}

	for _, id := range c.SupplySetup.Always {
		if _, ok := c.cards[id]; !ok {
			return nil, fmt.Errorf("supply_setup.always references unknown card %q", id)
		}
	}
	for key := range c.SupplySetup.PileSizes {
		if key == defaultPileKey {
			continue
		}
		if _, ok := c.cards[key]; !ok {
			return nil, fmt.Errorf("supply_setup.pile_sizes references unknown card %q", key)
		}
	}
	for id := range c.StartingDeck {
		if _, ok := c.cards[id]; !ok {
			return nil, fmt.Errorf("starting_deck references unknown card %q", id)
		}
	}

	return c, nil
}

func parseCardType(s string) (CardType, error) {
	switch s {
	case "treasure":
		return CardTypeTreasure, nil
	case "victory":
		return CardTypeVictory, nil
	case "action":
		return CardTypeAction, nil
	default:
		return 0, fmt.Errorf("unknown card type %q (want treasure, victory or action)", s)
	}
}

func parseSubType(s string) (SubType, error) {
	switch s {
	case "":
		return SubTypeNone, nil
	case "action":
		return SubTypeAction, nil
	case "attack":
		return SubTypeAttack, nil
	case "reaction":
		return SubTypeReaction, nil
	default:
		return 0, fmt.Errorf("unknown subtype %q (want action, attack or reaction)", s)
	}
}

// Get returns the card definition for an id.
func (c *Catalog) Get(id string) (*Card, bool) {
	card, ok := c.cards[id]
	return card, ok
}

// Name returns the display name for an id, falling back to the id itself.
func (c *Catalog) Name(id string) string {
	if card, ok := c.cards[id]; ok {
		return card.Name
	}
	return id
}

// Cards returns all definitions in load order.
func (c *Catalog) Cards() []*Card {
	result := make([]*Card, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, c.cards[id])
	}
	return result
}

// VictoryIDs returns every victory-type card id in load order.
func (c *Catalog) VictoryIDs() []string {
	var ids []string
	for _, id := range c.order {
		if c.cards[id].Type == CardTypeVictory {
			ids = append(ids, id)
		}
	}
	return ids
}

// ActionIDs returns every action-type card id in load order.
func (c *Catalog) ActionIDs() []string {
	var ids []string
	for _, id := range c.order {
		if c.cards[id].Type == CardTypeAction {
			ids = append(ids, id)
		}
	}
	return ids
}

// TopVictoryID returns the highest-cost victory card id, or "" if none.
// This pile's depletion is an end-game trigger.
func (c *Catalog) TopVictoryID() string {
	best := ""
	bestCost := -1
	for _, id := range c.VictoryIDs() {
		if cost := c.cards[id].Cost; cost > bestCost {
			best, bestCost = id, cost
		}
	}
	return best
}

// CheapestTreasureID returns the lowest-cost treasure card id, or "" if none.
func (c *Catalog) CheapestTreasureID() string {
	best := ""
	bestCost := 0
	for _, id := range c.order {
		card := c.cards[id]
		if card.Type != CardTypeTreasure {
			continue
		}
		if best == "" || card.Cost < bestCost {
			best, bestCost = id, card.Cost
		}
	}
	return best
}

// TreasureIDByCost returns the first treasure card id with exactly the given
// cost, or "" if none.
func (c *Catalog) TreasureIDByCost(cost int) string {
	for _, id := range c.order {
		card := c.cards[id]
		if card.Type == CardTypeTreasure && card.Cost == cost {
			return id
		}
	}
	return ""
}

// pileSize returns the configured seed size for a pile.
func (c *Catalog) pileSize(id string) int {
	if n, ok := c.SupplySetup.PileSizes[id]; ok {
		return n
	}
	if n, ok := c.SupplySetup.PileSizes[defaultPileKey]; ok {
		return n
	}
	return 10
}
