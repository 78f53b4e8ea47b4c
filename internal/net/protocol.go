package net

// Message types for the JSON protocol between clients and a room.

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages. Action
// selects the operation; the remaining fields are read per action.
type ClientMessage struct {
	Action string `json:"action"`

	// For "join"
	Name     string `json:"name,omitempty"`
	PlayerID string `json:"player_id,omitempty"`

	// For "play_action", "play_treasure", "buy", "gain_selection",
	// "topdeck_selection" (null or absent means skip)
	CardID string `json:"card_id,omitempty"`

	// For "discard_selection", "trash_selection"
	CardIDs []string `json:"card_ids,omitempty"`

	// For "vassal_decision"
	Play bool `json:"play,omitempty"`

	// For "sentry_decision"
	Decisions []SentryChoice `json:"decisions,omitempty"`
}

// SentryChoice is one per-card decision in a sentry_decision batch.
type SentryChoice struct {
	CardID string `json:"card_id"`
	Action string `json:"action"` // "trash", "discard" or "topdeck"
}

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"` // "joined", "state" or "error"

	// For "joined"
	PlayerID string `json:"player_id,omitempty"`
	GameID   string `json:"game_id,omitempty"`

	// For "error" (sent only to the originating connection)
	Message string `json:"message,omitempty"`

	// For "state"
	State *StateView `json:"state,omitempty"`
}
