package store

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/energycore/core/factory"
	corestore "github.com/kilianp07/energycore/core/store"
)

const connectTimeout = 10 * time.Second

type pathConf struct {
	Path string `json:"path"`
}

type dsnConf struct {
	DSN string `json:"dsn"`
}

// init registers the built-in backends.
func init() {
	_ = corestore.RegisterStationStore("memory", func(map[string]any) (corestore.StationStore, error) {
		return NewMemoryStore(), nil
	})
	_ = corestore.RegisterEnergyLogStore("memory", func(map[string]any) (corestore.EnergyLogStore, error) {
		return NewMemoryStore(), nil
	})

	_ = corestore.RegisterStationStore("sqlite", func(conf map[string]any) (corestore.StationStore, error) {
		return openSQLite(conf)
	})
	_ = corestore.RegisterEnergyLogStore("sqlite", func(conf map[string]any) (corestore.EnergyLogStore, error) {
		return openSQLite(conf)
	})

	_ = corestore.RegisterStationStore("postgres", func(conf map[string]any) (corestore.StationStore, error) {
		return openPostgres(conf)
	})
	_ = corestore.RegisterEnergyLogStore("postgres", func(conf map[string]any) (corestore.EnergyLogStore, error) {
		return openPostgres(conf)
	})

	_ = corestore.RegisterStationStore("redis", func(conf map[string]any) (corestore.StationStore, error) {
		var c RedisConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Addr == "" {
			c.Addr = "localhost:6379"
		}
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		return NewRedisStationStore(ctx, c)
	})
}

func openSQLite(conf map[string]any) (*SQLiteStore, error) {
	var c pathConf
	if err := factory.Decode(conf, &c); err != nil {
		return nil, err
	}
	if c.Path == "" {
		c.Path = "energycore.db"
	}
	return NewSQLiteStore(c.Path)
}

func openPostgres(conf map[string]any) (*PostgresStore, error) {
	var c dsnConf
	if err := factory.Decode(conf, &c); err != nil {
		return nil, err
	}
	if c.DSN == "" {
		return nil, fmt.Errorf("postgres store requires dsn")
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return NewPostgresStore(ctx, c.DSN)
}
