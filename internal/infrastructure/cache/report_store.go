package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"crm_backend/internal/application/report"
	"crm_backend/internal/config"
)

const lastRunKey = "crm:report:last_run"

// ReportStore keeps the status of the most recent report run in Redis so
// operators can check job health without tailing log files.
type ReportStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewReportStore(cfg config.RedisConfig) *ReportStore {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	return &ReportStore{client: client, ttl: 7 * 24 * time.Hour}
}

func (s *ReportStore) RecordReportRun(ctx context.Context, status report.RunStatus) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("encode run status: %w", err)
	}
	if err := s.client.Set(ctx, lastRunKey, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store run status: %w", err)
	}
	return nil
}

// LastReportRun returns the most recent run status, or nil when none is
// recorded.
func (s *ReportStore) LastReportRun(ctx context.Context) (*report.RunStatus, error) {
	payload, err := s.client.Get(ctx, lastRunKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load run status: %w", err)
	}

	var status report.RunStatus
	if err := json.Unmarshal(payload, &status); err != nil {
		return nil, fmt.Errorf("decode run status: %w", err)
	}
	return &status, nil
}

func (s *ReportStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *ReportStore) Close() error {
	return s.client.Close()
}
