// Package store declares the persistence contracts the API and ingestion
// layers use to feed the computation packages.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/kilianp07/energycore/core/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// StationStore persists stations.
type StationStore interface {
	AddStation(ctx context.Context, s model.Station) (model.Station, error)
	// ListStations returns stations in storage (insertion) order, optionally
	// restricted to one type.
	ListStations(ctx context.Context, filter *model.StationType) ([]model.Station, error)
	Close() error
}

// EnergyLogQuery selects energy logs by owner, vehicle and time.
type EnergyLogQuery struct {
	UserID    string
	VehicleID string // empty matches every vehicle
	Since     time.Time
}

// Matches reports whether r satisfies q.
func (q EnergyLogQuery) Matches(r model.EnergyLogRecord) bool {
	if q.UserID != "" && r.UserID != q.UserID {
		return false
	}
	if q.VehicleID != "" && r.VehicleID != q.VehicleID {
		return false
	}
	if !q.Since.IsZero() && r.Timestamp.Before(q.Since) {
		return false
	}
	return true
}

// EnergyLogStore persists energy log records.
type EnergyLogStore interface {
	AddEnergyLog(ctx context.Context, r model.EnergyLogRecord) (model.EnergyLogRecord, error)
	// QueryEnergyLogs returns matching records ordered by timestamp.
	QueryEnergyLogs(ctx context.Context, q EnergyLogQuery) ([]model.EnergyLogRecord, error)
	Close() error
}
