package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"organizer/internal/config"
	"organizer/internal/ffprobe"
	"organizer/internal/logging"
	"organizer/internal/media"
	"organizer/internal/ollama"
	"organizer/internal/pipeline"
	"organizer/internal/services"
	"organizer/internal/tmdb"
)

// commandContext lazily loads configuration and the external-collaborator
// clients shared across subcommands.
type commandContext struct {
	configFlag *string
	quietFlag  *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string, quietFlag *bool) *commandContext {
	return &commandContext{configFlag: configFlag, quietFlag: quietFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "cli", "load_config", "", err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "cli", "ensure_directories", "", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// log returns the process-wide logger, built from configuration once it
// has successfully loaded. The first build also prunes log files past
// the configured retention window.
func (c *commandContext) log() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = slog.Default()
			return
		}
		lg, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = slog.Default()
			return
		}
		logging.CleanupOldLogs(lg, cfg.Logging.RetentionDays, cfg.Paths.LogDir, "*.log")
		if c.quietFlag != nil && *c.quietFlag {
			lg = logging.WithLevelOverride(lg, slog.LevelWarn)
		}
		c.logger = lg
	})
	return c.logger
}

// tmdbClient constructs the movie-database adapter. A missing API
// key/bearer token is a preflight failure (exit 2): nothing downstream can
// run without it.
func (c *commandContext) tmdbClient(cfg *config.Config) (*tmdb.Client, error) {
	client, err := tmdb.New(cfg.TMDB)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "cli", "tmdb_client", "", err)
	}
	return client, nil
}

// ollamaClient constructs the best-effort AI collaborator. Unlike TMDB,
// its absence is never fatal: a construction error just means AI
// augmentation is skipped for this run.
func (c *commandContext) ollamaClient(cfg *config.Config) pipeline.AIClient {
	client, err := ollama.New(cfg.Ollama)
	if err != nil {
		return nil
	}
	return client
}

// prober adapts the package-level ffprobe.Probe function, closed over
// configuration, to the pipeline.Prober interface.
type prober struct {
	cfg config.FFprobe
}

func (p prober) Probe(ctx context.Context, path string) (media.ProbeMetadata, error) {
	return ffprobe.Probe(ctx, p.cfg, path)
}

func (c *commandContext) prober(cfg *config.Config) pipeline.Prober {
	return prober{cfg: cfg.FFprobe}
}

// libraryRoot resolves the movies/tv library root under the configured
// target root.
func libraryRoot(cfg *config.Config, kind media.Kind) string {
	if kind == media.KindMovie {
		return filepath.Join(cfg.Paths.TargetRoot, cfg.Library.MoviesDir)
	}
	return filepath.Join(cfg.Paths.TargetRoot, cfg.Library.TVDir)
}
