package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/kilianp07/energycore/api"
	"github.com/kilianp07/energycore/auth"
	"github.com/kilianp07/energycore/config"
	"github.com/kilianp07/energycore/core/engine"
	coremetrics "github.com/kilianp07/energycore/core/metrics"
	corestore "github.com/kilianp07/energycore/core/store"
	"github.com/kilianp07/energycore/infra/logger"
	"github.com/kilianp07/energycore/infra/metrics"
	"github.com/kilianp07/energycore/infra/mqtt"
	_ "github.com/kilianp07/energycore/infra/store"
)

// Service wires the stores, metrics, HTTP API and MQTT ingestion together.
type Service struct {
	Engine *engine.Engine

	cfg      *config.Config
	stations corestore.StationStore
	logs     corestore.EnergyLogStore
	sink     coremetrics.Sink
	handler  http.Handler
	log      logger.Logger
}

// New creates a Service from the configuration.
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	logger.SetLevel(cfg.Logging.Level)
	logg := logger.New("service")

	stations, err := corestore.NewStationStore(cfg.Storage.Stations)
	if err != nil {
		return nil, fmt.Errorf("station store: %w", err)
	}
	logs, err := openLogStore(cfg, stations)
	if err != nil {
		_ = stations.Close()
		return nil, fmt.Errorf("energy log store: %w", err)
	}
	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		_ = stations.Close()
		_ = logs.Close()
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	e := engine.New(stations, logs, sink, logger.New("engine"))
	if cfg.Storage.SeedSampleStations {
		n, err := e.SeedStations(ctx, engine.SampleStations())
		if err != nil {
			logg.Warnf("seed stations: %v", err)
		} else if n > 0 {
			logg.Infof("seeded %d sample stations", n)
		}
	}

	svc := &Service{
		Engine:   e,
		cfg:      cfg,
		stations: stations,
		logs:     logs,
		sink:     sink,
		log:      logg,
	}
	svc.handler = api.NewRouter(api.Deps{
		Engine:   e,
		Verifier: auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		Metrics:  metrics.Handler(),
		Log:      logger.New("http"),
	})
	return svc, nil
}

// openLogStore reuses the station store when both blocks name the same
// backend and settings so a single connection serves both.
func openLogStore(cfg *config.Config, stations corestore.StationStore) (corestore.EnergyLogStore, error) {
	if ls, ok := stations.(corestore.EnergyLogStore); ok && sameModule(cfg.Storage.Stations.Type, cfg.Storage.Stations.Conf, cfg.Storage.EnergyLogs.Type, cfg.Storage.EnergyLogs.Conf) {
		return sharedStore{ls}, nil
	}
	return corestore.NewEnergyLogStore(cfg.Storage.EnergyLogs)
}

func sameModule(t1 string, c1 map[string]any, t2 string, c2 map[string]any) bool {
	if t1 != t2 || len(c1) != len(c2) {
		return false
	}
	for k, v := range c1 {
		if fmt.Sprint(c2[k]) != fmt.Sprint(v) {
			return false
		}
	}
	return true
}

// sharedStore leaves closing to the station store.
type sharedStore struct{ corestore.EnergyLogStore }

func (sharedStore) Close() error { return nil }

// Handler returns the HTTP handler of the service.
func (s *Service) Handler() http.Handler { return s.handler }

// Run serves HTTP and, when enabled, MQTT ingestion until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.MQTT.Enabled {
		ing, err := mqtt.NewIngestor(s.cfg.MQTT, s.logs, s.sink)
		if err != nil {
			return fmt.Errorf("mqtt ingestor: %w", err)
		}
		defer ing.Disconnect()
	}
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              s.cfg.HTTP.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(s.cfg.HTTP.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.HTTP.WriteTimeoutSeconds) * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", s.cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	return errors.Join(s.logs.Close(), s.stations.Close())
}
