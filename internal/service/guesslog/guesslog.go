// Package guesslog records player guesses. Sinks are best-effort: a guess is
// accepted as long as validation passes, even when every backend write fails.
package guesslog

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/omerhaim/origindaily/internal/domain"
	apperrors "github.com/omerhaim/origindaily/pkg/errors"
)

// Sink receives validated guesses.
type Sink interface {
	Record(ctx context.Context, guess domain.Guess) error
}

// Service validates guesses and fans them out to every configured sink.
type Service struct {
	sinks  []Sink
	logger *zap.Logger
}

func NewService(logger *zap.Logger, sinks ...Sink) *Service {
	return &Service{sinks: sinks, logger: logger}
}

// Log validates the guess and writes it to all sinks. Sink failures are
// logged and swallowed; only validation errors reach the caller.
func (s *Service) Log(ctx context.Context, guess domain.Guess) error {
	if err := guess.Validate(); err != nil {
		return err
	}

	for _, sink := range s.sinks {
		if err := sink.Record(ctx, guess); err != nil {
			s.logger.Warn("Guess sink write failed",
				zap.String("image_id", guess.ImageID),
				zap.Error(err),
			)
		}
	}
	return nil
}

// FileSink appends guesses as CSV lines to a log file.
type FileSink struct {
	path string
}

func NewFileSink(path string) (*FileSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperrors.NewStorageError("failed to create guess log directory", "init", dir, err)
		}
	}
	return &FileSink{path: path}, nil
}

func (f *FileSink) Record(_ context.Context, guess domain.Guess) error {
	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return apperrors.NewStorageError("failed to open guess log", "record", f.path, err)
	}
	defer file.Close()

	if _, err := file.WriteString(guess.CSV()); err != nil {
		return apperrors.NewStorageError("failed to append guess", "record", f.path, err)
	}
	return nil
}
