package energy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/kilianp07/energycore/api/respond"
	"github.com/kilianp07/energycore/auth"
	coreenergy "github.com/kilianp07/energycore/core/energy"
	"github.com/kilianp07/energycore/core/engine"
	"github.com/kilianp07/energycore/core/model"
)

// Service is the subset of the engine used by the energy endpoints.
type Service interface {
	AddEnergyLog(ctx context.Context, r model.EnergyLogRecord) (model.EnergyLogRecord, error)
	EnergyLogs(ctx context.Context, userID, vehicleID string, w coreenergy.Window) ([]model.EnergyLogRecord, error)
	EnergySummary(ctx context.Context, userID, vehicleID string, w coreenergy.Window) (engine.SummaryReport, error)
}

// CreateRequest is the body of POST /api/energy-logs.
type CreateRequest struct {
	VehicleID        string     `json:"vehicle_id"`
	EnergyConsumed   *float64   `json:"energy_consumed"`
	DistanceTraveled *float64   `json:"distance_traveled"`
	Cost             *float64   `json:"cost"`
	CO2Emissions     float64    `json:"co2_emissions"`
	Date             *time.Time `json:"date"`
	Notes            string     `json:"notes"`
}

// NewCreateHandler serves POST /api/energy-logs for the authenticated user.
func NewCreateHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserID(r.Context())
		if !ok {
			respond.Err(w, auth.ErrUnauthorized)
			return
		}
		var req CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Err(w, fmt.Errorf("%w: invalid JSON body", respond.ErrBadRequest))
			return
		}
		if req.VehicleID == "" || req.EnergyConsumed == nil || req.DistanceTraveled == nil || req.Cost == nil {
			respond.Err(w, fmt.Errorf("%w: vehicle_id, energy_consumed, distance_traveled and cost are required", respond.ErrBadRequest))
			return
		}
		rec := model.EnergyLogRecord{
			UserID:           userID,
			VehicleID:        req.VehicleID,
			EnergyConsumed:   *req.EnergyConsumed,
			DistanceTraveled: *req.DistanceTraveled,
			Cost:             *req.Cost,
			CO2Emissions:     req.CO2Emissions,
			Notes:            req.Notes,
		}
		if req.Date != nil {
			rec.Timestamp = req.Date.UTC()
		}
		saved, err := svc.AddEnergyLog(r.Context(), rec)
		if err != nil {
			respond.Err(w, err)
			return
		}
		respond.JSON(w, http.StatusCreated, saved)
	})
}

// NewListHandler serves GET /api/energy-logs?vehicle_id=&days=.
func NewListHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, vehicleID, win, err := scope(r)
		if err != nil {
			respond.Err(w, err)
			return
		}
		logs, err := svc.EnergyLogs(r.Context(), userID, vehicleID, win)
		if err != nil {
			respond.Err(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, logs)
	})
}

// NewSummaryHandler serves GET /api/energy-summary?vehicle_id=&days=.
func NewSummaryHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, vehicleID, win, err := scope(r)
		if err != nil {
			respond.Err(w, err)
			return
		}
		rep, err := svc.EnergySummary(r.Context(), userID, vehicleID, win)
		if err != nil {
			respond.Err(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, rep)
	})
}

func scope(r *http.Request) (userID, vehicleID string, win coreenergy.Window, err error) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		return "", "", win, auth.ErrUnauthorized
	}
	q := r.URL.Query()
	days := coreenergy.DefaultWindowDays
	if s := q.Get("days"); s != "" {
		days, err = strconv.Atoi(s)
		if err != nil || days <= 0 {
			return "", "", win, fmt.Errorf("%w: days must be a positive integer", respond.ErrBadRequest)
		}
	}
	return userID, q.Get("vehicle_id"), coreenergy.NewWindow(days), nil
}
