package room

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/peterkuimelis/sovereign/internal/game"
)

// newID returns a short identifier for rooms and players.
func newID() string {
	return uuid.NewString()[:8]
}

// Manager is the process-wide registry of live rooms. Rooms remove
// themselves when they close.
type Manager struct {
	mu      sync.RWMutex
	rooms   map[string]*Room
	catalog *game.Catalog
	logger  *slog.Logger
}

// NewManager creates an empty registry over a loaded catalog.
func NewManager(catalog *game.Catalog, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		rooms:   make(map[string]*Room),
		catalog: catalog,
		logger:  logger,
	}
}

// Create makes a new room with its own game and starts its actor goroutine.
// Kingdom ids, if given, pin part of the room's kingdom selection.
func (m *Manager) Create(kingdom []string) *Room {
	id := newID()
	g := game.NewGame(id, game.Config{Catalog: m.catalog, Kingdom: kingdom})
	r := newRoom(id, g, m.logger, m.remove)

	m.mu.Lock()
	m.rooms[id] = r
	m.mu.Unlock()

	m.logger.Info("room created", "room", id)
	return r
}

// Get returns the room with the given id, if it exists.
func (m *Manager) Get(id string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	return r, ok
}

// Count returns the number of live rooms.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// Close tears down every room, for process shutdown.
func (m *Manager) Close() {
	m.mu.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.RUnlock()

	for _, r := range rooms {
		r.Close()
	}
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	delete(m.rooms, id)
	m.mu.Unlock()
	m.logger.Info("room closed", "room", id)
}
