// internal/store/memory.go
//
// In-memory store for live hangman sessions.
// Live games are ephemeral on purpose: the server persists result history
// to SQLite, but the candidate set and pattern of an in-flight game exist
// only here and are lost on restart.
//
// Characteristics:
//   - Stores *Game objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Errors are returned for missing game IDs on Get().

package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/evil-hangman/go-server/internal/game"
)

// Game wraps a live engine session with the server-side bookkeeping the
// engine deliberately does not carry: identity, ownership, timing, and a
// mutex serializing guesses arriving on concurrent requests.
type Game struct {
	ID        string
	OwnerID   string // user id, or anonymous cookie id for guests
	StartedAt time.Time
	Session   *game.Session

	mu sync.Mutex
}

// NewGame wraps sess with a fresh random ID for owner.
func NewGame(owner string, sess *game.Session) *Game {
	return &Game{
		ID:        randomID(),
		OwnerID:   owner,
		StartedAt: time.Now().UTC(),
		Session:   sess,
	}
}

// Lock and Unlock serialize Session mutation for one game. The engine has
// no concurrency contract of its own, so every Record goes through these.
func (g *Game) Lock()   { g.mu.Lock() }
func (g *Game) Unlock() { g.mu.Unlock() }

// Store defines the persistence interface for live game sessions.
// Implementations may be backed by memory (this package), Redis, etc.
type Store interface {
	// Save persists or updates a game.
	Save(ctx context.Context, g *Game) error

	// Get retrieves a game by ID.
	// Returns an error if the game is not found.
	Get(ctx context.Context, id string) (*Game, error)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex     // guards games map
	games map[string]*Game // keyed by Game.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*Game)}
}

// Save adds or updates the game in the map.
func (m *memory) Save(ctx context.Context, g *Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = g
	return nil
}

// Get looks up a game by ID.
func (m *memory) Get(ctx context.Context, id string) (*Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return g, nil
	}
	return nil, errors.New("not found")
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
