// Package memstore keeps game snapshots in memory for transport tests.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

// Store mirrors the Redis repository: values round-trip through JSON, so a
// test sees exactly what a stored snapshot would decode to.
type Store struct {
	mu    sync.Mutex
	games map[string][]byte
}

func New() *Store {
	return &Store{games: make(map[string][]byte)}
}

func (that *Store) CreateOrUpdate(_ context.Context, id string, snapshot *entity.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("could not marshal snapshot: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.games[id] = data

	return nil
}

func (that *Store) GetByID(_ context.Context, id string) (*entity.Snapshot, error) {
	that.mu.Lock()
	data, ok := that.games[id]
	that.mu.Unlock()

	if !ok {
		return nil, apperror.ErrGameNotFound
	}

	var snapshot entity.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}

func (that *Store) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[id]; !ok {
		return apperror.ErrGameNotFound
	}

	delete(that.games, id)

	return nil
}
