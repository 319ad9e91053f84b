// Package stats keeps aggregate guess counters in Redis. It doubles as a
// guess sink, so wiring it in is just another entry in the fan-out list.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/omerhaim/origindaily/internal/domain"
	"github.com/omerhaim/origindaily/internal/util"
	apperrors "github.com/omerhaim/origindaily/pkg/errors"
)

const (
	keyTotal   = "origindaily:guesses:total"
	keyCorrect = "origindaily:guesses:correct"
	keyPerItem = "origindaily:guesses:image:%s:%s" // image ID, "total"|"correct"
)

// Summary is the aggregate view served by the stats endpoint.
type Summary struct {
	TotalGuesses   int64 `json:"totalGuesses"`
	CorrectGuesses int64 `json:"correctGuesses"`
	SuccessRate    int   `json:"successRate"`
}

type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type Service struct {
	client *redis.Client
	logger *zap.Logger
}

func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Service, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, apperrors.NewServiceError("redis is unreachable", "stats", "init", err)
	}

	logger.Info("Redis stats counters ready", zap.String("host", cfg.Host))
	return &Service{client: client, logger: logger}, nil
}

// Record bumps the global and per-image counters for one guess.
func (s *Service) Record(ctx context.Context, guess domain.Guess) error {
	pipe := s.client.Pipeline()
	pipe.Incr(ctx, keyTotal)
	pipe.Incr(ctx, fmt.Sprintf(keyPerItem, guess.ImageID, "total"))
	if guess.Correct {
		pipe.Incr(ctx, keyCorrect)
		pipe.Incr(ctx, fmt.Sprintf(keyPerItem, guess.ImageID, "correct"))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.NewServiceError("failed to update guess counters", "stats", "record", err)
	}
	return nil
}

// Summary reads the global counters. Missing keys count as zero.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	total, err := s.client.Get(ctx, keyTotal).Int64()
	if err != nil && err != redis.Nil {
		return Summary{}, apperrors.NewServiceError("failed to read guess counters", "stats", "summary", err)
	}
	correct, err := s.client.Get(ctx, keyCorrect).Int64()
	if err != nil && err != redis.Nil {
		return Summary{}, apperrors.NewServiceError("failed to read guess counters", "stats", "summary", err)
	}

	return Summary{
		TotalGuesses:   total,
		CorrectGuesses: correct,
		SuccessRate:    util.SuccessRate(int(correct), int(total)),
	}, nil
}

func (s *Service) Close() error {
	return s.client.Close()
}
