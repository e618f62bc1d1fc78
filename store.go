package main

import (
	"errors"
	"sync"

	"github.com/Seednode/doubleagent/game"
)

// GameStore is the authoritative keyed record store. Operations are atomic
// at single-record granularity only; nothing links a store write to the
// broadcast that preceded it.
type GameStore interface {
	Insert(record game.State) error
	Get(id string) (game.State, bool)
	Update(record game.State) error
}

var (
	errRecordExists  = errors.New("game record already exists")
	errRecordMissing = errors.New("no such game record")
)

// MemoryStore keeps game records in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]game.State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]game.State),
	}
}

// Insert stores a new record, failing if the id is taken.
func (s *MemoryStore) Insert(record game.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[record.ID]; ok {
		return errRecordExists
	}
	s.records[record.ID] = record.Clone()

	return nil
}

// Get returns a copy of the record, safe for the caller to mutate.
func (s *MemoryStore) Get(id string) (game.State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return game.State{}, false
	}

	return record.Clone(), true
}

// Update overwrites an existing record.
func (s *MemoryStore) Update(record game.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[record.ID]; !ok {
		return errRecordMissing
	}
	s.records[record.ID] = record.Clone()

	return nil
}
