package experiment

import (
	"encoding/json"
	"os"
	"sync"
)

// Status of an experiment as tracked between invocations.
type Status string

const (
	StatusNew     Status = "new"     // discovered but not ingested yet
	StatusRunning Status = "running" // logs changing, ingestion pending
	StatusDone    Status = "done"    // ingested successfully
)

// stateData is the on-disk JSON structure.
type stateData struct {
	Experiments map[string]Status `json:"experiments"`
}

// State persists experiment statuses so serve mode can tell fresh
// directories from ones already ingested across restarts.
type State struct {
	mu   sync.RWMutex
	path string
	data stateData
}

// NewState creates or loads a state file at the given path.
func NewState(path string) (*State, error) {
	s := &State{
		path: path,
		data: stateData{Experiments: make(map[string]Status)},
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		_ = json.Unmarshal(raw, &s.data)
	}
	if s.data.Experiments == nil {
		s.data.Experiments = make(map[string]Status)
	}

	return s, nil
}

// Get returns the recorded status for an experiment directory.
func (s *State) Get(dir string) (Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data.Experiments[dir]
	return v, ok
}

// Set records the status for an experiment directory.
func (s *State) Set(dir string, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Experiments[dir] = status
}

// Save writes the state to disk atomically.
func (s *State) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}

	// Temp file plus rename keeps a crash from truncating the state.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
