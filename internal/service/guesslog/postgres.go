package guesslog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/omerhaim/origindaily/internal/domain"
	apperrors "github.com/omerhaim/origindaily/pkg/errors"
)

const createGuessesTable = `
CREATE TABLE IF NOT EXISTS guesses (
	id         BIGSERIAL PRIMARY KEY,
	image_id   TEXT        NOT NULL,
	guess      TEXT        NOT NULL,
	correct    BOOLEAN     NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresSink persists guesses in a relational table for later analysis.
type PostgresSink struct {
	db     *sql.DB
	logger *zap.Logger
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

func NewPostgresSink(ctx context.Context, cfg PostgresConfig, logger *zap.Logger) (*PostgresSink, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open postgres connection", "init", cfg.Host, err)
	}
	db.SetMaxOpenConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, apperrors.NewStorageError("postgres is unreachable", "init", cfg.Host, err)
	}

	if _, err := db.ExecContext(ctx, createGuessesTable); err != nil {
		db.Close()
		return nil, apperrors.NewStorageError("failed to ensure guesses table", "init", cfg.Host, err)
	}

	logger.Info("Postgres guess sink ready", zap.String("host", cfg.Host), zap.String("database", cfg.Database))
	return &PostgresSink{db: db, logger: logger}, nil
}

func (p *PostgresSink) Record(ctx context.Context, guess domain.Guess) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO guesses (image_id, guess, correct, created_at) VALUES ($1, $2, $3, $4)`,
		guess.ImageID, guess.Guess.String(), guess.Correct, guess.Timestamp,
	)
	if err != nil {
		return apperrors.NewStorageError("failed to insert guess", "record", "guesses", err)
	}
	return nil
}

func (p *PostgresSink) Close() error {
	return p.db.Close()
}
