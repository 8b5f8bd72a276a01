package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"catalog/harvester/internal/domain"

	"github.com/redis/go-redis/v9"
)

var ErrNoRun = errors.New("no run recorded")

// StateManager remembers the last successful run of each pipeline.
type StateManager interface {
	RecordRun(ctx context.Context, summary domain.RunSummary) error
	LastRun(ctx context.Context, pipeline domain.PipelineName) (*domain.RunSummary, error)
}

type redisStateManager struct {
	redisClient *redis.Client
	keyPrefix   string
}

func NewRedisStateManager(redisClient *redis.Client, keyPrefix string) StateManager {
	return &redisStateManager{
		redisClient: redisClient,
		keyPrefix:   keyPrefix,
	}
}

func (s *redisStateManager) RecordRun(ctx context.Context, summary domain.RunSummary) error {
	value, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode run summary: %w", err)
	}

	key := s.keyPrefix + summary.Pipeline.String()
	if err := s.redisClient.Set(ctx, key, value, 0).Err(); err != nil { // No expiration
		return fmt.Errorf("failed to record run for %s: %w", summary.Pipeline, err)
	}
	return nil
}

func (s *redisStateManager) LastRun(ctx context.Context, pipeline domain.PipelineName) (*domain.RunSummary, error) {
	key := s.keyPrefix + pipeline.String()
	val, err := s.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoRun
		}
		return nil, fmt.Errorf("failed to get last run for %s: %w", pipeline, err)
	}

	var summary domain.RunSummary
	if err := json.Unmarshal(val, &summary); err != nil {
		return nil, fmt.Errorf("failed to decode run summary for %s: %w", pipeline, err)
	}
	return &summary, nil
}

// memoryStateManager is used when Redis is disabled. It only remembers runs
// made by the current process.
type memoryStateManager struct {
	mutex sync.RWMutex
	runs  map[domain.PipelineName]domain.RunSummary
}

func NewMemoryStateManager() StateManager {
	return &memoryStateManager{runs: make(map[domain.PipelineName]domain.RunSummary)}
}

func (s *memoryStateManager) RecordRun(ctx context.Context, summary domain.RunSummary) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.runs[summary.Pipeline] = summary
	return nil
}

func (s *memoryStateManager) LastRun(ctx context.Context, pipeline domain.PipelineName) (*domain.RunSummary, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	summary, ok := s.runs[pipeline]
	if !ok {
		return nil, ErrNoRun
	}
	return &summary, nil
}
