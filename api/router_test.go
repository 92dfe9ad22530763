package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/energycore/api"
	"github.com/kilianp07/energycore/auth"
	"github.com/kilianp07/energycore/core/engine"
	"github.com/kilianp07/energycore/core/model"
	"github.com/kilianp07/energycore/core/ranking"
	"github.com/kilianp07/energycore/core/rangeest"
	"github.com/kilianp07/energycore/infra/logger"
	"github.com/kilianp07/energycore/infra/store"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newServer(t *testing.T, v *auth.Verifier) http.Handler {
	t.Helper()
	st := store.NewMemoryStore()
	e := engine.New(st, st, nil, logger.NopLogger{}, engine.WithClock(func() time.Time { return now }))
	_, err := e.SeedStations(context.Background(), engine.SampleStations())
	require.NoError(t, err)
	return api.NewRouter(api.Deps{Engine: e, Verifier: v, Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics\n"))
	})})
}

func do(h http.Handler, method, target string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestStationsRanked(t *testing.T) {
	h := newServer(t, nil)
	rr := do(h, "GET", "/api/stations?latitude=28.61&longitude=77.20", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var out []ranking.RankedStation
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Len(t, out, 3)
	assert.Equal(t, "Hybrid Station", out[0].Name)
	require.NotNil(t, out[0].DistanceKm)
	assert.Less(t, *out[0].DistanceKm, *out[1].DistanceKm)
}

func TestStationsUnrankedAndFiltered(t *testing.T) {
	h := newServer(t, nil)

	// a single coordinate does not trigger ranking
	rr := do(h, "GET", "/api/stations?latitude=28.61", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var out []ranking.RankedStation
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Len(t, out, 3)
	assert.Equal(t, "Shell Petrol Station", out[0].Name)
	assert.Nil(t, out[0].DistanceKm)

	rr = do(h, "GET", "/api/stations?station_type=EV_Charging", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	out = nil
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "EV Charging Hub", out[0].Name)
}

func TestStationsBadInput(t *testing.T) {
	h := newServer(t, nil)
	for _, target := range []string{
		"/api/stations?latitude=abc&longitude=1",
		"/api/stations?latitude=91&longitude=1",
		"/api/stations?station_type=diesel",
	} {
		rr := do(h, "GET", target, nil, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
	}
}

func TestCreateStation(t *testing.T) {
	h := newServer(t, nil)
	rr := do(h, "POST", "/api/stations", map[string]any{
		"name": "Green CNG", "latitude": 28.5, "longitude": 77.0, "station_type": "CNG", "open_24_7": true,
	}, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var st map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	assert.NotEmpty(t, st["id"])
	assert.Equal(t, "CNG", st["station_type"])

	rr = do(h, "POST", "/api/stations", map[string]any{"name": "x", "latitude": 1, "longitude": 1, "station_type": "diesel"}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = do(h, "POST", "/api/stations", map[string]any{"name": "x", "station_type": "Petrol"}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = do(h, "POST", "/api/stations", map[string]any{"latitude": 1, "longitude": 1, "station_type": "Petrol"}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = do(h, "POST", "/api/stations", "{", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRemainingRange(t *testing.T) {
	h := newServer(t, nil)
	cases := []struct {
		body map[string]any
		want rangeest.RangeResult
	}{
		{map[string]any{"vehicle_type": "ev", "battery_capacity": 60, "current_battery": 45, "efficiency": 6},
			rangeest.RangeResult{RangeKm: 270, Unit: "kWh", Details: "45.0 kWh available"}},
		{map[string]any{"vehicle_type": "petrol"},
			rangeest.RangeResult{RangeKm: 562, Unit: "L", Details: "37.5 L available"}},
		{map[string]any{"vehicle_type": "HYBRID"},
			rangeest.RangeResult{RangeKm: 435, Unit: "hybrid", Details: "15.0 kWh + 30.0 L"}},
		{map[string]any{"vehicle_type": "hydrogen"},
			rangeest.RangeResult{RangeKm: 0, Unit: "units", Details: "--"}},
	}
	for _, c := range cases {
		rr := do(h, "POST", "/api/vehicle/remaining-range", c.body, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var got rangeest.RangeResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, c.want, got)
	}

	rr := do(h, "POST", "/api/vehicle/remaining-range", map[string]any{"vehicle_type": "ev", "current_battery": -5}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestVehicleUnit(t *testing.T) {
	h := newServer(t, nil)
	for q, want := range map[string]string{"": "kWh", "?vehicle_type=petrol": "liters", "?vehicle_type=cnc": "kg", "?vehicle_type=boat": "units"} {
		rr := do(h, "GET", "/api/vehicle/unit"+q, nil, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var got map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, want, got["unit"], q)
	}
}

func TestEnergyLogsAndSummary(t *testing.T) {
	h := newServer(t, nil)
	user := map[string]string{auth.UserHeader: "u1"}

	rr := do(h, "POST", "/api/energy-logs", map[string]any{
		"vehicle_id": "v1", "energy_consumed": 20, "distance_traveled": 120, "cost": 10, "co2_emissions": 2,
		"date": now.Add(-24 * time.Hour),
	}, user)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var rec map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	assert.InDelta(t, 6.0, rec["efficiency"], 1e-9)

	rr = do(h, "POST", "/api/energy-logs", map[string]any{
		"vehicle_id": "v1", "energy_consumed": 10, "distance_traveled": 50, "cost": 5, "co2_emissions": 1,
	}, user)
	require.Equal(t, http.StatusCreated, rr.Code)

	// another user's log stays private
	rr = do(h, "POST", "/api/energy-logs", map[string]any{
		"vehicle_id": "v1", "energy_consumed": 99, "distance_traveled": 1, "cost": 1,
	}, map[string]string{auth.UserHeader: "u2"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(h, "GET", "/api/energy-logs?vehicle_id=v1", nil, user)
	require.Equal(t, http.StatusOK, rr.Code)
	var logs []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &logs))
	assert.Len(t, logs, 2)

	rr = do(h, "GET", "/api/energy-summary", nil, user)
	require.Equal(t, http.StatusOK, rr.Code)
	var sum map[string]float64
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sum))
	assert.InDelta(t, 30.0, sum["total_energy"], 1e-9)
	assert.InDelta(t, 170.0, sum["total_distance"], 1e-9)
	assert.InDelta(t, 15.0, sum["total_cost"], 1e-9)
	assert.InDelta(t, 3.0, sum["total_co2"], 1e-9)
	assert.InDelta(t, 170.0/30.0, sum["average_efficiency"], 1e-9)
	assert.InDelta(t, 30.0, sum["days"], 1e-9)
	assert.InDelta(t, 2.0, sum["log_count"], 1e-9)

	rr = do(h, "GET", "/api/energy-summary?days=7&vehicle_id=none", nil, user)
	require.Equal(t, http.StatusOK, rr.Code)
	sum = nil
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sum))
	assert.Zero(t, sum["log_count"])
	assert.Zero(t, sum["average_efficiency"])
	assert.InDelta(t, 7.0, sum["days"], 1e-9)
}

func TestEnergyValidation(t *testing.T) {
	h := newServer(t, nil)
	user := map[string]string{auth.UserHeader: "u1"}

	rr := do(h, "GET", "/api/energy-summary", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(h, "GET", "/api/energy-summary?days=-3", nil, user)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(h, "POST", "/api/energy-logs", map[string]any{"vehicle_id": "v1", "energy_consumed": 0, "distance_traveled": 1, "cost": 1}, user)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(h, "POST", "/api/energy-logs", map[string]any{"vehicle_id": "v1"}, user)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEnergyRequiresBearerToken(t *testing.T) {
	v := auth.NewVerifier("0123456789abcdef0123", "")
	h := newServer(t, v)

	rr := do(h, "GET", "/api/energy-logs", nil, map[string]string{auth.UserHeader: "u1"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	tok, err := v.Issue("u1", "", time.Hour)
	require.NoError(t, err)
	rr = do(h, "GET", "/api/energy-logs", nil, map[string]string{"Authorization": "Bearer " + tok})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())

	// public endpoints stay open
	rr = do(h, "GET", "/api/stations", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouting(t *testing.T) {
	h := newServer(t, nil)
	assert.Equal(t, http.StatusOK, do(h, "GET", "/health", nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(h, "GET", "/nope", nil, nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(h, "DELETE", "/api/stations", nil, nil).Code)
	assert.Equal(t, http.StatusOK, do(h, "GET", "/metrics", nil, nil).Code)
}

// brokenStations fails every listing.
type brokenStations struct{ *store.MemoryStore }

func (brokenStations) ListStations(context.Context, *model.StationType) ([]model.Station, error) {
	return nil, errors.New("disk on fire")
}

func TestInternalErrorIsLogged(t *testing.T) {
	var logs bytes.Buffer
	mem := store.NewMemoryStore()
	e := engine.New(brokenStations{mem}, mem, nil, logger.NopLogger{})
	h := api.NewRouter(api.Deps{Engine: e, Log: logger.NewZerologLoggerTo(&logs, "http")})

	rr := do(h, "GET", "/api/stations", nil, nil)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rr.Body.String())
	assert.NotContains(t, rr.Body.String(), "disk on fire")
	assert.Contains(t, logs.String(), "disk on fire")
	assert.Contains(t, logs.String(), `"level":"error"`)
}
