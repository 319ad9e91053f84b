// Package app wires configuration into the concrete service graph.
package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/omerhaim/origindaily/internal/config"
	"github.com/omerhaim/origindaily/internal/rules"
	"github.com/omerhaim/origindaily/internal/server"
	"github.com/omerhaim/origindaily/internal/service/classifier"
	"github.com/omerhaim/origindaily/internal/service/curator"
	"github.com/omerhaim/origindaily/internal/service/guesslog"
	"github.com/omerhaim/origindaily/internal/service/history"
	"github.com/omerhaim/origindaily/internal/service/imagefilter"
	"github.com/omerhaim/origindaily/internal/service/stats"
	"github.com/omerhaim/origindaily/internal/service/wikipedia"
)

// Container holds every built service. Optional backends (Redis, Postgres)
// are nil when not configured or unreachable; the rest of the app treats
// them as absent.
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	Wikipedia *wikipedia.Client
	History   *history.Store
	Curator   *curator.Service
	Guesses   *guesslog.Service
	Stats     *stats.Service
	Server    *server.Server

	postgres *guesslog.PostgresSink
}

// Build constructs the service graph. Failures of optional backends degrade
// to a warning; only hard dependencies abort startup.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	wikiCfg := wikipedia.DefaultConfig()
	wikiCfg.BaseURL = cfg.Wikipedia.APIURL
	wikiCfg.UserAgent = cfg.Wikipedia.UserAgent
	c.Wikipedia = wikipedia.NewClient(wikiCfg, logger)

	c.History = history.NewStore(cfg.History.FilePath, cfg.History.MaxSize, logger)
	if err := c.History.Load(); err != nil {
		return nil, err
	}

	ruleset := rules.Default()
	cls := classifier.New(ruleset, logger)
	filter := imagefilter.New(ruleset, imagefilter.DefaultConfig(), logger)

	curCfg := curator.DefaultConfig()
	curCfg.ImagesPerCategory = cfg.Game.ImagesPerCategory
	curCfg.MinBirthYear = cfg.Game.MinBirthYear
	curCfg.FilterByBirthYear = cfg.Game.FilterByBirthYear
	curCfg.ThumbnailSize = cfg.Wikipedia.ThumbnailSize
	curCfg.DailyFilePath = cfg.Daily.FilePath
	c.Curator = curator.New(c.Wikipedia, c.History, cls, filter, ruleset, curCfg, logger)

	sinks := []guesslog.Sink{}
	fileSink, err := guesslog.NewFileSink(cfg.GuessLog.FilePath)
	if err != nil {
		return nil, err
	}
	sinks = append(sinks, fileSink)

	if cfg.Postgres.Enabled() {
		pg, err := guesslog.NewPostgresSink(ctx, guesslog.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
		}, logger)
		if err != nil {
			logger.Warn("Postgres unavailable, guesses will not be mirrored there", zap.Error(err))
		} else {
			c.postgres = pg
			sinks = append(sinks, pg)
		}
	}

	if cfg.Redis.Enabled() {
		st, err := stats.New(ctx, stats.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if err != nil {
			logger.Warn("Redis unavailable, guess counters disabled", zap.Error(err))
		} else {
			c.Stats = st
			sinks = append(sinks, st)
		}
	}

	c.Guesses = guesslog.NewService(logger, sinks...)

	var statsProvider server.StatsProvider
	if c.Stats != nil {
		statsProvider = c.Stats
	}
	c.Server = server.New(cfg.Server.Port, cfg.Server.PublicDir, c.Curator, c.Guesses, statsProvider, logger)

	return c, nil
}

// Close releases external connections in reverse dependency order.
func (c *Container) Close() {
	if c.Stats != nil {
		if err := c.Stats.Close(); err != nil {
			c.Logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
	if c.postgres != nil {
		if err := c.postgres.Close(); err != nil {
			c.Logger.Warn("Failed to close postgres connection", zap.Error(err))
		}
	}
	if c.Wikipedia != nil {
		c.Wikipedia.Close()
	}
}
