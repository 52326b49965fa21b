package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StateVersion is the current version of the state file format.
const StateVersion = 1

// ControllerState contains the persisted state of a railseq controller.
type ControllerState struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at"`

	// Rails contains the last-known state of each registered rail.
	Rails []RailState `json:"rails,omitempty"`
}

// RailState is the last-known state of one rail.
type RailState struct {
	// Name identifies the rail.
	Name string `json:"name"`

	// Enabled is the rail's last-known logical power state.
	Enabled bool `json:"enabled"`

	// ChangedAt is when the rail last changed state.
	ChangedAt time.Time `json:"changed_at,omitempty"`
}

// Rail returns the persisted state for the named rail, if present.
func (s *ControllerState) Rail(name string) (RailState, bool) {
	if s == nil {
		return RailState{}, false
	}
	for _, r := range s.Rails {
		if r.Name == name {
			return r, true
		}
	}
	return RailState{}, false
}

// SetRail records the state for the named rail, replacing any previous entry.
func (s *ControllerState) SetRail(name string, enabled bool) {
	now := time.Now()
	for i, r := range s.Rails {
		if r.Name == name {
			s.Rails[i].Enabled = enabled
			s.Rails[i].ChangedAt = now
			return
		}
	}
	s.Rails = append(s.Rails, RailState{Name: name, Enabled: enabled, ChangedAt: now})
}

// StateStore manages persistence of controller state to a JSON file.
type StateStore struct {
	mu   sync.Mutex
	path string
}

// NewStateStore creates a new controller state store.
func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// Save persists the controller state to disk.
func (s *StateStore) Save(state *ControllerState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	state.Version = StateVersion
	if state.SavedAt.IsZero() {
		state.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// Load reads the controller state from disk.
// Returns nil, nil if the file doesn't exist (empty state).
func (s *StateStore) Load() (*ControllerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := &ControllerState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}

	return state, nil
}

// Clear removes the state file.
func (s *StateStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
