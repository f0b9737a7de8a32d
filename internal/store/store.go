// Package store keeps game snapshots between requests. The rules never see
// it; the service loads a snapshot, transitions it and saves the result.
package store

import (
	"errors"
	"sync"

	"github.com/benbeisheim/takeme-chess-backend/internal/model"
)

var ErrNotFound = errors.New("game not found")

type Store interface {
	// Load returns ErrNotFound when no game has the id.
	Load(id string) (model.GameState, error)
	// Save stores state under state.ID, replacing any previous value.
	Save(state model.GameState) error
	// Delete returns ErrNotFound when no game has the id.
	Delete(id string) error
}

type Memory struct {
	games map[string]model.GameState
	mu    sync.RWMutex
}

func NewMemory() *Memory {
	return &Memory{
		games: make(map[string]model.GameState),
	}
}

func (m *Memory) Load(id string) (model.GameState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, exists := m.games[id]
	if !exists {
		return model.GameState{}, ErrNotFound
	}
	return state, nil
}

func (m *Memory) Save(state model.GameState) error {
	if state.ID == "" {
		return errors.New("game id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.games[state.ID] = state
	return nil
}

func (m *Memory) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.games[id]; !exists {
		return ErrNotFound
	}
	delete(m.games, id)
	return nil
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}
