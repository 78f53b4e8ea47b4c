package room

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/peterkuimelis/sovereign/internal/game"
	"github.com/peterkuimelis/sovereign/internal/net"
)

// sendBuffer bounds each client's outbound queue. A client that falls this
// far behind starts losing snapshots; the next accepted action resends the
// full state anyway.
const sendBuffer = 32

// Client is one connection's attachment to a room. The transport layer reads
// outbound messages from Send and feeds inbound payloads to Room.Submit.
type Client struct {
	playerID string // bound by the room goroutine on join
	send     chan []byte
}

// NewClient creates an unattached client.
func NewClient() *Client {
	return &Client{send: make(chan []byte, sendBuffer)}
}

// Send returns the outbound message channel. It is closed when the room
// shuts down or the client detaches.
func (c *Client) Send() <-chan []byte {
	return c.send
}

type command struct {
	client *Client
	data   []byte
}

// Room owns one game and serializes every mutation against it: a single
// goroutine consumes attaches, detaches and submitted actions in order.
// Rooms never share state, so they run fully in parallel.
type Room struct {
	ID string

	game    *game.Game
	clients map[*Client]bool

	attach  chan *Client
	detach  chan *Client
	submit  chan command
	closed  chan struct{}
	closing sync.Once

	onClose func(id string)
	logger  *slog.Logger
}

func newRoom(id string, g *game.Game, logger *slog.Logger, onClose func(string)) *Room {
	r := &Room{
		ID:      id,
		game:    g,
		clients: make(map[*Client]bool),
		attach:  make(chan *Client),
		detach:  make(chan *Client),
		submit:  make(chan command, 16),
		closed:  make(chan struct{}),
		onClose: onClose,
		logger:  logger,
	}
	go r.run()
	return r
}

// Attach registers a connection with the room.
func (r *Room) Attach(c *Client) {
	select {
	case r.attach <- c:
	case <-r.closed:
	}
}

// Detach removes a connection. If it was the last one bound to a player, the
// player is marked disconnected but keeps their seat, hand and any pending
// obligation.
func (r *Room) Detach(c *Client) {
	select {
	case r.detach <- c:
	case <-r.closed:
	}
}

// Submit queues one inbound action payload for processing.
func (r *Room) Submit(c *Client, data []byte) {
	select {
	case r.submit <- command{client: c, data: data}:
	case <-r.closed:
	}
}

// Close tears the room down. Safe to call from any goroutine, repeatedly.
func (r *Room) Close() {
	r.closing.Do(func() { close(r.closed) })
}

func (r *Room) run() {
	for {
		select {
		case <-r.closed:
			r.shutdown()
			return
		default:
		}
		select {
		case c := <-r.attach:
			r.clients[c] = true
		case c := <-r.detach:
			r.handleDetach(c)
		case cmd := <-r.submit:
			r.handle(cmd.client, cmd.data)
		case <-r.closed:
			r.shutdown()
			return
		}
	}
}

func (r *Room) shutdown() {
	for c := range r.clients {
		close(c.send)
	}
	r.clients = nil
	if r.onClose != nil {
		r.onClose(r.ID)
	}
}

func (r *Room) handleDetach(c *Client) {
	if !r.clients[c] {
		return
	}
	delete(r.clients, c)
	close(c.send)

	if c.playerID != "" && !r.playerAttached(c.playerID) {
		r.game.SetConnected(c.playerID, false)
		r.broadcast()
	}
	if len(r.clients) == 0 && r.game.Phase() == game.PhaseGameOver {
		r.Close()
	}
}

func (r *Room) playerAttached(playerID string) bool {
	for c := range r.clients {
		if c.playerID == playerID {
			return true
		}
	}
	return false
}

// handle decodes and applies one inbound action. Rule violations go back to
// the originating client only; any other engine error is an internal defect
// and tears the room down.
func (r *Room) handle(c *Client, data []byte) {
	var msg net.ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		r.sendError(c, "malformed message")
		return
	}

	if msg.Action == "join" {
		r.handleJoin(c, msg)
		return
	}
	if c.playerID == "" {
		r.sendError(c, "join the game first")
		return
	}

	var err error
	switch msg.Action {
	case "start":
		err = r.game.Start()
	case "play_action":
		err = r.game.PlayAction(c.playerID, msg.CardID)
	case "play_treasure":
		err = r.game.PlayTreasure(c.playerID, msg.CardID)
	case "skip_action":
		err = r.game.SkipAction(c.playerID)
	case "play_all_treasures":
		err = r.game.PlayAllTreasures(c.playerID)
	case "buy":
		err = r.game.Buy(c.playerID, msg.CardID)
	case "end_turn":
		err = r.game.EndTurn(c.playerID)
	case "discard_selection":
		err = r.game.DiscardSelection(c.playerID, msg.CardIDs)
	case "trash_selection":
		err = r.game.TrashSelection(c.playerID, msg.CardIDs)
	case "gain_selection":
		err = r.game.GainSelection(c.playerID, msg.CardID)
	case "topdeck_selection":
		err = r.game.TopdeckSelection(c.playerID, msg.CardID)
	case "vassal_decision":
		err = r.game.VassalDecision(c.playerID, msg.Play)
	case "sentry_decision":
		decisions := make([]game.RevealChoice, 0, len(msg.Decisions))
		for _, d := range msg.Decisions {
			decisions = append(decisions, game.RevealChoice{CardID: d.CardID, Action: d.Action})
		}
		err = r.game.SentryDecision(c.playerID, decisions)
	default:
		r.sendError(c, fmt.Sprintf("unknown action %q", msg.Action))
		return
	}

	if err != nil {
		if game.IsRuleError(err) {
			r.sendError(c, err.Error())
			return
		}
		r.logger.Error("room torn down on internal error", "room", r.ID, "error", err)
		r.Close()
		return
	}
	r.broadcast()
}

func (r *Room) handleJoin(c *Client, msg net.ClientMessage) {
	if msg.PlayerID != "" && r.game.HasPlayer(msg.PlayerID) {
		if _, err := r.game.Reconnect(msg.PlayerID, msg.Name); err != nil {
			r.sendError(c, err.Error())
			return
		}
		c.playerID = msg.PlayerID
	} else {
		if msg.Name == "" {
			r.sendError(c, "a name is required")
			return
		}
		id := newID()
		if _, err := r.game.AddPlayer(id, msg.Name); err != nil {
			if game.IsRuleError(err) {
				r.sendError(c, err.Error())
				return
			}
			r.logger.Error("room torn down on internal error", "room", r.ID, "error", err)
			r.Close()
			return
		}
		c.playerID = id
	}

	r.sendTo(c, net.ServerMessage{Type: "joined", PlayerID: c.playerID, GameID: r.ID})
	r.broadcast()
}

// broadcast sends every attached client a snapshot from its own perspective.
func (r *Room) broadcast() {
	for c := range r.clients {
		r.sendTo(c, net.ServerMessage{Type: "state", State: net.BuildStateView(r.game, c.playerID)})
	}
}

func (r *Room) sendError(c *Client, message string) {
	r.sendTo(c, net.ServerMessage{Type: "error", Message: message})
}

// sendTo queues a message without blocking: a stalled connection drops
// messages rather than stalling the room.
func (r *Room) sendTo(c *Client, msg net.ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		r.logger.Error("marshal server message", "room", r.ID, "error", err)
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
