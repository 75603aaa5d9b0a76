package server

import (
	"sort"
	"sync"

	"github.com/ACCESS-NRI/access-profiling/internal/model"
)

// Store holds the latest normalized table per component. Tables are
// replaced wholesale on refresh; readers always see a complete table.
type Store struct {
	mu     sync.RWMutex
	tables map[string]*model.ProfilingTable
}

func NewStore() *Store {
	return &Store{tables: make(map[string]*model.ProfilingTable)}
}

// Set replaces the table for a component.
func (s *Store) Set(component string, table *model.ProfilingTable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[component] = table
}

// Get returns the table for a component.
func (s *Store) Get(component string) (*model.ProfilingTable, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[component]
	return t, ok
}

// Components returns the stored component names, sorted.
func (s *Store) Components() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of stored components.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables)
}
