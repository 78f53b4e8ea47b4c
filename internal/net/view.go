package net

import (
	"github.com/peterkuimelis/sovereign/internal/game"
)

// snapshotLogLines caps the log tail carried in each state snapshot.
const snapshotLogLines = 30

// StateView is the full room state from one player's perspective.
type StateView struct {
	GameID            string         `json:"game_id"`
	Started           bool           `json:"started"`
	Phase             string         `json:"phase"`
	CurrentPlayer     string         `json:"current_player,omitempty"`
	CurrentPlayerName string         `json:"current_player_name,omitempty"`
	Supply            map[string]int `json:"supply,omitempty"`
	Trash             []string       `json:"trash,omitempty"`
	Log               []string       `json:"log,omitempty"`
	Players           []PlayerView   `json:"players"`
	PendingAction     *PendingView   `json:"pending_action,omitempty"`
	Scores            []ScoreView    `json:"scores,omitempty"`
}

// PlayerView shows one seat. Hand contents appear only for the viewing
// player; everyone else is counts plus the public play area. DiscardPile is
// exposed to the owner only while they owe a topdeck-from-discard decision.
type PlayerView struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	HandCount    int      `json:"hand_count"`
	DeckCount    int      `json:"deck_count"`
	DiscardCount int      `json:"discard_count"`
	Hand         []string `json:"hand,omitempty"`
	DiscardPile  []string `json:"discard_pile,omitempty"`
	PlayArea     []string `json:"play_area,omitempty"`
	Actions      int      `json:"actions"`
	Buys         int      `json:"buys"`
	Coins        int      `json:"coins"`
	Connected    bool     `json:"connected"`
}

// PendingView describes the outstanding decision. Type selects which of the
// optional fields are present, mirroring the engine's pending variants.
type PendingView struct {
	Type          string   `json:"type"`
	PlayerID      string   `json:"player_id,omitempty"`
	Responders    []string `json:"responders,omitempty"`
	AttackerID    string   `json:"attacker_id,omitempty"`
	DiscardTo     int      `json:"discard_to,omitempty"`
	MaxCost       int      `json:"max_cost,omitempty"`
	MaxCards      int      `json:"max_cards,omitempty"`
	CostBonus     int      `json:"cost_bonus,omitempty"`
	RevealedCard  string   `json:"revealed_card,omitempty"`
	RevealedCards []string `json:"revealed_cards,omitempty"`
	Source        string   `json:"source,omitempty"`
	Optional      bool     `json:"optional,omitempty"`
}

// ScoreView is one line of the final standings.
type ScoreView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	VP   int    `json:"vp"`
}

// BuildStateView renders the game from the perspective of viewerID. An empty
// viewerID produces a spectator view with no hidden information.
func BuildStateView(g *game.Game, viewerID string) *StateView {
	sv := &StateView{
		GameID:  g.ID,
		Started: g.Started(),
		Phase:   g.Phase().String(),
		Supply:  g.Supply(),
		Trash:   g.Trash(),
		Log:     g.LogLines(snapshotLogLines),
	}
	if cp := g.CurrentPlayer(); cp != nil && g.Started() {
		sv.CurrentPlayer = cp.ID
		sv.CurrentPlayerName = cp.Name
	}

	pending := g.Pending()
	if pending != nil {
		sv.PendingAction = buildPendingView(pending)
	}

	for _, p := range g.Players() {
		pv := PlayerView{
			ID:           p.ID,
			Name:         p.Name,
			HandCount:    len(p.Hand),
			DeckCount:    len(p.Deck),
			DiscardCount: len(p.Discard),
			PlayArea:     p.PlayArea,
			Actions:      p.Actions,
			Buys:         p.Buys,
			Coins:        p.Coins,
			Connected:    p.Connected,
		}
		if p.ID == viewerID {
			pv.Hand = p.Hand
			if td, ok := pending.(*game.TopdeckRequest); ok && td.Source == game.ZoneDiscard && td.PlayerID == viewerID {
				pv.DiscardPile = p.Discard
			}
		}
		sv.Players = append(sv.Players, pv)
	}

	for _, s := range g.Scores() {
		sv.Scores = append(sv.Scores, ScoreView{ID: s.PlayerID, Name: s.Name, VP: s.VP})
	}
	return sv
}

// buildPendingView maps each pending variant to its wire fields.
func buildPendingView(pa game.PendingAction) *PendingView {
	pv := &PendingView{Type: pa.Kind().String()}
	switch pa := pa.(type) {
	case *game.AttackDiscard:
		pv.AttackerID = pa.AttackerID
		pv.DiscardTo = pa.DiscardTo
		pv.Responders = pa.Targets
	case *game.DiscardDraw:
		pv.PlayerID = pa.PlayerID
	case *game.GainRequest:
		pv.PlayerID = pa.PlayerID
		pv.MaxCost = pa.MaxCost
		pv.Optional = pa.Optional
		if pa.TreasureOnly && pa.ToHand {
			pv.Type = "gain_treasure_to_hand"
		} else if pa.ToHand {
			pv.Type = "gain_to_hand"
		}
	case *game.TrashRequest:
		pv.PlayerID = pa.PlayerID
		pv.MaxCards = pa.MaxCards
	case *game.TrashAndGain:
		pv.PlayerID = pa.PlayerID
		pv.CostBonus = pa.CostBonus
	case *game.TrashTreasureGainTreasure:
		pv.PlayerID = pa.PlayerID
		pv.CostBonus = pa.CostBonus
	case *game.TopdeckRequest:
		pv.PlayerID = pa.PlayerID
		pv.Source = pa.Source.String()
		if pa.Source == game.ZoneHand {
			pv.Type = "topdeck_from_hand"
		} else {
			pv.Type = "topdeck_from_discard"
		}
	case *game.PlayRevealedAction:
		pv.PlayerID = pa.PlayerID
		pv.RevealedCard = pa.CardID
	case *game.RevealTrashDiscardTopdeck:
		pv.PlayerID = pa.PlayerID
		pv.RevealedCards = pa.Revealed
	}
	return pv
}
