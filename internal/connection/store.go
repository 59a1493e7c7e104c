package connection

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/LFroesch/sitescout/internal/logger"
)

// ErrNotFound is returned when no connection has the requested id.
var ErrNotFound = errors.New("connection not found")

// Store keeps connections in a JSON file.
type Store struct {
	mu          sync.RWMutex
	path        string
	connections []Connection
	log         logger.Func
}

// DefaultPath returns ~/.config/sitescout/connections.json.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "sitescout", "connections.json"), nil
}

// Open reads the store at path. A missing file yields an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, log: logger.Log}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read connections file: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.connections); err != nil {
		return nil, fmt.Errorf("cannot parse connections file %s: %w", path, err)
	}
	return s, nil
}

// SetLogger replaces the log sink.
func (s *Store) SetLogger(fn logger.Func) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = fn
}

// List returns all connections ordered by id.
func (s *Store) List() []Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Connection, len(s.connections))
	copy(out, s.connections)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Find returns the connection with the given id.
func (s *Store) Find(id int) (Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.connections {
		if c.ID == id {
			return c, nil
		}
	}
	return Connection{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
}

// GetByID never fails: a lookup error is logged and the sentinel returned.
func (s *Store) GetByID(id int) Connection {
	c, err := s.Find(id)
	if err != nil {
		s.mu.RLock()
		log := s.log
		s.mu.RUnlock()
		log(logger.LevelError, "Failed to load connection: %v", err)
		return Sentinel()
	}
	return c
}

// Default returns the connection flagged default, or the sentinel.
func (s *Store) Default() Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.connections {
		if c.Default {
			return c
		}
	}
	return Sentinel()
}

// Add assigns an id and timestamps, then persists.
func (s *Store) Add(c Connection) (Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	maxID := 0
	for _, existing := range s.connections {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	now := time.Now().UTC()
	c.ID = maxID + 1
	c.CreatedAt = now
	c.UpdatedAt = now
	s.connections = append(s.connections, c)
	return c, s.saveLocked()
}

// Update replaces the stored connection with the same id.
func (s *Store) Update(c Connection) error {
	if c.IsSentinel() {
		return errors.New("cannot update the empty connection")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.connections {
		if s.connections[i].ID == c.ID {
			c.CreatedAt = s.connections[i].CreatedAt
			c.UpdatedAt = time.Now().UTC()
			s.connections[i] = c
			return s.saveLocked()
		}
	}
	return fmt.Errorf("id %d: %w", c.ID, ErrNotFound)
}

// SetDefault flags exactly one connection as default.
func (s *Store) SetDefault(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.connections {
		s.connections[i].Default = s.connections[i].ID == id
		if s.connections[i].ID == id {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	return s.saveLocked()
}

// Touch records a connection attempt.
func (s *Store) Touch(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.connections {
		if s.connections[i].ID == id {
			s.connections[i].LastConnectedAt = time.Now().UTC()
			return s.saveLocked()
		}
	}
	return fmt.Errorf("id %d: %w", id, ErrNotFound)
}

// Delete removes a connection.
func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.connections {
		if s.connections[i].ID == id {
			s.connections = append(s.connections[:i], s.connections[i+1:]...)
			return s.saveLocked()
		}
	}
	return fmt.Errorf("id %d: %w", id, ErrNotFound)
}

func (s *Store) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("cannot create connections directory: %w", err)
	}

	data, err := json.MarshalIndent(s.connections, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal connections: %w", err)
	}

	// Credentials live in this file.
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("cannot write connections file: %w", err)
	}
	return nil
}
