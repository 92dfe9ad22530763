// Package store implements the core/store contracts on top of memory,
// SQLite, PostgreSQL and Redis.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/kilianp07/energycore/core/model"
	corestore "github.com/kilianp07/energycore/core/store"
)

// MemoryStore keeps stations and energy logs in process memory. It is used in
// tests and for single-instance deployments without durability needs.
type MemoryStore struct {
	mu       sync.RWMutex
	stations []model.Station
	logs     []model.EnergyLogRecord
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// AddStation appends s, assigning an id when missing.
func (s *MemoryStore) AddStation(_ context.Context, st model.Station) (model.Station, error) {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.stations = append(s.stations, st)
	s.mu.Unlock()
	return st, nil
}

// ListStations returns a copy of the stored stations in insertion order.
func (s *MemoryStore) ListStations(_ context.Context, filter *model.StationType) ([]model.Station, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.Station, 0, len(s.stations))
	for _, st := range s.stations {
		if filter != nil && st.Type != *filter {
			continue
		}
		res = append(res, st)
	}
	return res, nil
}

// AddEnergyLog appends r, assigning an id when missing.
func (s *MemoryStore) AddEnergyLog(_ context.Context, r model.EnergyLogRecord) (model.EnergyLogRecord, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.logs = append(s.logs, r)
	s.mu.Unlock()
	return r, nil
}

// QueryEnergyLogs returns the records matching q ordered by timestamp.
func (s *MemoryStore) QueryEnergyLogs(_ context.Context, q corestore.EnergyLogQuery) ([]model.EnergyLogRecord, error) {
	s.mu.RLock()
	res := make([]model.EnergyLogRecord, 0)
	for _, r := range s.logs {
		if q.Matches(r) {
			res = append(res, r)
		}
	}
	s.mu.RUnlock()
	sort.SliceStable(res, func(i, j int) bool { return res[i].Timestamp.Before(res[j].Timestamp) })
	return res, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
