package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/energycore/config"
	"github.com/kilianp07/energycore/core/factory"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.HTTP.Addr = "127.0.0.1:0"
	cfg.Storage.SeedSampleStations = true
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestNewServesSeededStations(t *testing.T) {
	svc, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer svc.Close()

	rr := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/api/stations", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "EV Charging Hub")
}

func TestSharedSQLiteStore(t *testing.T) {
	cfg := testConfig(t)
	conf := map[string]any{"path": filepath.Join(t.TempDir(), "energy.db")}
	cfg.Storage.Stations = factory.ModuleConfig{Type: "sqlite", Conf: conf}
	cfg.Storage.EnergyLogs = factory.ModuleConfig{Type: "sqlite", Conf: conf}

	svc, err := New(context.Background(), cfg)
	require.NoError(t, err)
	_, ok := svc.logs.(sharedStore)
	assert.True(t, ok)
	require.NoError(t, svc.Close())
}

func TestNewUnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Stations.Type = "cassandra"
	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestRunStopsOnCancel(t *testing.T) {
	svc, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("service did not stop")
	}
}
