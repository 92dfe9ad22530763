package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/kilianp07/energycore/core/model"
	corestore "github.com/kilianp07/energycore/core/store"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS stations (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    latitude REAL NOT NULL,
    longitude REAL NOT NULL,
    station_type TEXT NOT NULL,
    price_per_unit REAL,
    address TEXT,
    phone TEXT,
    rating REAL NOT NULL DEFAULT 0,
    open_24_7 INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS energy_logs (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    vehicle_id TEXT NOT NULL,
    energy_consumed REAL NOT NULL,
    distance_traveled REAL NOT NULL,
    cost REAL NOT NULL,
    co2_emissions REAL NOT NULL,
    efficiency REAL NOT NULL,
    ts INTEGER NOT NULL,
    notes TEXT
);
CREATE INDEX IF NOT EXISTS energy_logs_owner_ts ON energy_logs (user_id, vehicle_id, ts);`

// SQLiteStore persists stations and energy logs in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database and ensures the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// a single connection keeps ":memory:" databases shared between calls
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// AddStation inserts st.
func (s *SQLiteStore) AddStation(ctx context.Context, st model.Station) (model.Station, error) {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO stations
        (id, name, latitude, longitude, station_type, price_per_unit, address, phone, rating, open_24_7)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.ID, st.Name, st.Location.Latitude, st.Location.Longitude, string(st.Type),
		nullFloat(st.PricePerUnit), st.Address, st.Phone, st.Rating, st.Open24x7)
	if err != nil {
		return model.Station{}, fmt.Errorf("insert station: %w", err)
	}
	return st, nil
}

// ListStations returns stations in insertion order.
func (s *SQLiteStore) ListStations(ctx context.Context, filter *model.StationType) ([]model.Station, error) {
	query := `SELECT id, name, latitude, longitude, station_type, price_per_unit, address, phone, rating, open_24_7
        FROM stations`
	var args []any
	if filter != nil {
		query += ` WHERE station_type = ?`
		args = append(args, string(*filter))
	}
	query += ` ORDER BY seq`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	res := make([]model.Station, 0)
	for rows.Next() {
		var st model.Station
		var typ string
		var price sql.NullFloat64
		var addr, phone sql.NullString
		if err := rows.Scan(&st.ID, &st.Name, &st.Location.Latitude, &st.Location.Longitude, &typ,
			&price, &addr, &phone, &st.Rating, &st.Open24x7); err != nil {
			return nil, err
		}
		st.Type = model.StationType(typ)
		if price.Valid {
			st.PricePerUnit = model.Float(price.Float64)
		}
		st.Address = addr.String
		st.Phone = phone.String
		res = append(res, st)
	}
	return res, rows.Err()
}

// AddEnergyLog inserts r.
func (s *SQLiteStore) AddEnergyLog(ctx context.Context, r model.EnergyLogRecord) (model.EnergyLogRecord, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO energy_logs
        (id, user_id, vehicle_id, energy_consumed, distance_traveled, cost, co2_emissions, efficiency, ts, notes)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.VehicleID, r.EnergyConsumed, r.DistanceTraveled, r.Cost, r.CO2Emissions,
		r.Efficiency, r.Timestamp.UnixNano(), r.Notes)
	if err != nil {
		return model.EnergyLogRecord{}, fmt.Errorf("insert energy log: %w", err)
	}
	return r, nil
}

// QueryEnergyLogs returns the records matching q ordered by timestamp.
func (s *SQLiteStore) QueryEnergyLogs(ctx context.Context, q corestore.EnergyLogQuery) ([]model.EnergyLogRecord, error) {
	query := `SELECT id, user_id, vehicle_id, energy_consumed, distance_traveled, cost, co2_emissions, efficiency, ts, notes
        FROM energy_logs WHERE 1=1`
	var args []any
	if q.UserID != "" {
		query += ` AND user_id = ?`
		args = append(args, q.UserID)
	}
	if q.VehicleID != "" {
		query += ` AND vehicle_id = ?`
		args = append(args, q.VehicleID)
	}
	if !q.Since.IsZero() {
		query += ` AND ts >= ?`
		args = append(args, q.Since.UnixNano())
	}
	query += ` ORDER BY ts`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	res := make([]model.EnergyLogRecord, 0)
	for rows.Next() {
		var r model.EnergyLogRecord
		var ts int64
		var notes sql.NullString
		if err := rows.Scan(&r.ID, &r.UserID, &r.VehicleID, &r.EnergyConsumed, &r.DistanceTraveled,
			&r.Cost, &r.CO2Emissions, &r.Efficiency, &ts, &notes); err != nil {
			return nil, err
		}
		r.Timestamp = time.Unix(0, ts).UTC()
		r.Notes = notes.String
		res = append(res, r)
	}
	return res, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
