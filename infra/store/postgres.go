package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kilianp07/energycore/core/model"
	corestore "github.com/kilianp07/energycore/core/store"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS stations (
    seq BIGSERIAL PRIMARY KEY,
    id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    latitude DOUBLE PRECISION NOT NULL,
    longitude DOUBLE PRECISION NOT NULL,
    station_type TEXT NOT NULL,
    price_per_unit DOUBLE PRECISION,
    address TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    rating DOUBLE PRECISION NOT NULL DEFAULT 0,
    open_24_7 BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE TABLE IF NOT EXISTS energy_logs (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    vehicle_id TEXT NOT NULL,
    energy_consumed DOUBLE PRECISION NOT NULL,
    distance_traveled DOUBLE PRECISION NOT NULL,
    cost DOUBLE PRECISION NOT NULL,
    co2_emissions DOUBLE PRECISION NOT NULL,
    efficiency DOUBLE PRECISION NOT NULL,
    ts TIMESTAMPTZ NOT NULL,
    notes TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS energy_logs_owner_ts ON energy_logs (user_id, vehicle_id, ts);`

// PostgresStore persists stations and energy logs in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to dsn, checks the connection and ensures the schema.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create db pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// AddStation inserts st.
func (s *PostgresStore) AddStation(ctx context.Context, st model.Station) (model.Station, error) {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx, `INSERT INTO stations
        (id, name, latitude, longitude, station_type, price_per_unit, address, phone, rating, open_24_7)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		st.ID, st.Name, st.Location.Latitude, st.Location.Longitude, string(st.Type),
		st.PricePerUnit, st.Address, st.Phone, st.Rating, st.Open24x7)
	if err != nil {
		return model.Station{}, fmt.Errorf("insert station: %w", err)
	}
	return st, nil
}

// ListStations returns stations in insertion order.
func (s *PostgresStore) ListStations(ctx context.Context, filter *model.StationType) ([]model.Station, error) {
	query := `SELECT id, name, latitude, longitude, station_type, price_per_unit, address, phone, rating, open_24_7
        FROM stations`
	var args []any
	if filter != nil {
		query += ` WHERE station_type = $1`
		args = append(args, string(*filter))
	}
	query += ` ORDER BY seq`
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	res, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Station, error) {
		var st model.Station
		var typ string
		err := row.Scan(&st.ID, &st.Name, &st.Location.Latitude, &st.Location.Longitude, &typ,
			&st.PricePerUnit, &st.Address, &st.Phone, &st.Rating, &st.Open24x7)
		st.Type = model.StationType(typ)
		return st, err
	})
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = []model.Station{}
	}
	return res, nil
}

// AddEnergyLog inserts r.
func (s *PostgresStore) AddEnergyLog(ctx context.Context, r model.EnergyLogRecord) (model.EnergyLogRecord, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx, `INSERT INTO energy_logs
        (id, user_id, vehicle_id, energy_consumed, distance_traveled, cost, co2_emissions, efficiency, ts, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		r.ID, r.UserID, r.VehicleID, r.EnergyConsumed, r.DistanceTraveled, r.Cost, r.CO2Emissions,
		r.Efficiency, r.Timestamp, r.Notes)
	if err != nil {
		return model.EnergyLogRecord{}, fmt.Errorf("insert energy log: %w", err)
	}
	return r, nil
}

// QueryEnergyLogs returns the records matching q ordered by timestamp.
func (s *PostgresStore) QueryEnergyLogs(ctx context.Context, q corestore.EnergyLogQuery) ([]model.EnergyLogRecord, error) {
	args := pgx.NamedArgs{}
	query := `SELECT id, user_id, vehicle_id, energy_consumed, distance_traveled, cost, co2_emissions, efficiency, ts, notes
        FROM energy_logs WHERE TRUE`
	if q.UserID != "" {
		query += ` AND user_id = @user_id`
		args["user_id"] = q.UserID
	}
	if q.VehicleID != "" {
		query += ` AND vehicle_id = @vehicle_id`
		args["vehicle_id"] = q.VehicleID
	}
	if !q.Since.IsZero() {
		query += ` AND ts >= @since`
		args["since"] = q.Since
	}
	query += ` ORDER BY ts`
	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	res, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.EnergyLogRecord, error) {
		var r model.EnergyLogRecord
		err := row.Scan(&r.ID, &r.UserID, &r.VehicleID, &r.EnergyConsumed, &r.DistanceTraveled,
			&r.Cost, &r.CO2Emissions, &r.Efficiency, &r.Timestamp, &r.Notes)
		r.Timestamp = r.Timestamp.UTC()
		return r, err
	})
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = []model.EnergyLogRecord{}
	}
	return res, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
