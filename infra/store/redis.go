package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kilianp07/energycore/core/model"
)

const (
	redisStationKeyFmt = "%sstation:%s"
	redisStationOrder  = "%sstations"
	redisStationGeo    = "%sstations:geo"
)

// RedisStationStore keeps stations in Redis: one JSON value per station, a
// list preserving insertion order and a GEO set for external consumers.
type RedisStationStore struct {
	client *redis.Client
	prefix string
}

// RedisConfig configures the Redis connection.
type RedisConfig struct {
	Addr      string `json:"addr"`
	Password  string `json:"password"`
	DB        int    `json:"db"`
	KeyPrefix string `json:"key_prefix"`
}

// NewRedisStationStore connects and pings the server.
func NewRedisStationStore(ctx context.Context, cfg RedisConfig) (*RedisStationStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     20,
		MinIdleConns: 2,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisStationStore{client: client, prefix: cfg.KeyPrefix}, nil
}

// AddStation stores st and appends it to the ordering list.
func (r *RedisStationStore) AddStation(ctx context.Context, st model.Station) (model.Station, error) {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	payload, err := json.Marshal(st)
	if err != nil {
		return model.Station{}, fmt.Errorf("failed to marshal station: %w", err)
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, fmt.Sprintf(redisStationKeyFmt, r.prefix, st.ID), payload, 0)
	pipe.RPush(ctx, fmt.Sprintf(redisStationOrder, r.prefix), st.ID)
	pipe.GeoAdd(ctx, fmt.Sprintf(redisStationGeo, r.prefix), &redis.GeoLocation{
		Name:      st.ID,
		Longitude: st.Location.Longitude,
		Latitude:  st.Location.Latitude,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return model.Station{}, fmt.Errorf("redis pipeline failed: %w", err)
	}
	return st, nil
}

// ListStations returns stations in insertion order.
func (r *RedisStationStore) ListStations(ctx context.Context, filter *model.StationType) ([]model.Station, error) {
	ids, err := r.client.LRange(ctx, fmt.Sprintf(redisStationOrder, r.prefix), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list stations: %w", err)
	}
	res := make([]model.Station, 0, len(ids))
	if len(ids) == 0 {
		return res, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = fmt.Sprintf(redisStationKeyFmt, r.prefix, id)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get stations: %w", err)
	}
	for _, v := range vals {
		raw, ok := v.(string)
		if !ok {
			// entry removed behind our back
			continue
		}
		var st model.Station
		if err := json.Unmarshal([]byte(raw), &st); err != nil {
			return nil, fmt.Errorf("decode station: %w", err)
		}
		if filter != nil && st.Type != *filter {
			continue
		}
		res = append(res, st)
	}
	return res, nil
}

// Close closes the client.
func (r *RedisStationStore) Close() error { return r.client.Close() }
