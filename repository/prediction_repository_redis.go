package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"loan-approval/domain"
)

// PredictionRepositoryRedis stores history as a capped JSON list plus a counter hash.
type PredictionRepositoryRedis struct {
	client   *redis.Client
	listKey  string
	statsKey string
	capacity int
}

func NewPredictionRepositoryRedis(client *redis.Client, prefix string, capacity int) *PredictionRepositoryRedis {
	return &PredictionRepositoryRedis{
		client:   client,
		listKey:  prefix + ":history",
		statsKey: prefix + ":stats",
		capacity: capacity,
	}
}

func (r *PredictionRepositoryRedis) Save(ctx context.Context, record domain.PredictionRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal prediction: %w", err)
	}

	field := "rejected"
	if record.Decision == domain.Approved {
		field = "approved"
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, r.listKey, payload)
	if r.capacity > 0 {
		pipe.LTrim(ctx, r.listKey, 0, int64(r.capacity-1))
	}
	pipe.HIncrBy(ctx, r.statsKey, "total", 1)
	pipe.HIncrBy(ctx, r.statsKey, field, 1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save prediction: %w", err)
	}
	return nil
}

func (r *PredictionRepositoryRedis) List(ctx context.Context, limit int) ([]domain.PredictionRecord, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	items, err := r.client.LRange(ctx, r.listKey, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}

	out := make([]domain.PredictionRecord, 0, len(items))
	for _, item := range items {
		var rec domain.PredictionRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("decode prediction: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *PredictionRepositoryRedis) Stats(ctx context.Context) (domain.PredictionStats, error) {
	values, err := r.client.HGetAll(ctx, r.statsKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return domain.PredictionStats{}, fmt.Errorf("read prediction stats: %w", err)
	}

	var stats domain.PredictionStats
	for field, dst := range map[string]*int64{
		"total":    &stats.Total,
		"approved": &stats.Approved,
		"rejected": &stats.Rejected,
	} {
		if raw, ok := values[field]; ok {
			if *dst, err = strconv.ParseInt(raw, 10, 64); err != nil {
				return domain.PredictionStats{}, fmt.Errorf("parse %s counter: %w", field, err)
			}
		}
	}
	return stats, nil
}
