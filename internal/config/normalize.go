package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeTMDB(); err != nil {
		return err
	}
	c.normalizeOllama()
	c.normalizeFFprobe()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ConfigDir) == "" {
		c.Paths.ConfigDir = defaultConfigDir
	}
	if c.Paths.ConfigDir, err = expandPath(c.Paths.ConfigDir); err != nil {
		return fmt.Errorf("paths.config_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.SourceRoot) != "" {
		if c.Paths.SourceRoot, err = expandPath(c.Paths.SourceRoot); err != nil {
			return fmt.Errorf("paths.source_root: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.TargetRoot) != "" {
		if c.Paths.TargetRoot, err = expandPath(c.Paths.TargetRoot); err != nil {
			return fmt.Errorf("paths.target_root: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeTMDB() error {
	if value, ok := os.LookupEnv("TMDB_API_KEY"); ok && strings.TrimSpace(value) != "" {
		c.TMDB.APIKey = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("TMDB_BEARER_TOKEN"); ok && strings.TrimSpace(value) != "" {
		c.TMDB.BearerToken = strings.TrimSpace(value)
	}
	c.TMDB.BaseURL = strings.TrimSpace(c.TMDB.BaseURL)
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	if c.TMDB.Language == "" {
		c.TMDB.Language = defaultTMDBLanguage
	}
	if c.TMDB.RateLimitMS <= 0 {
		c.TMDB.RateLimitMS = defaultTMDBRateLimitMS
	}
	if c.TMDB.RetryBaseMS <= 0 {
		c.TMDB.RetryBaseMS = defaultTMDBRetryBaseMS
	}
	return nil
}

func (c *Config) normalizeOllama() {
	c.Ollama.BaseURL = strings.TrimSpace(c.Ollama.BaseURL)
	if value, ok := os.LookupEnv("OLLAMA_BASE_URL"); ok && strings.TrimSpace(value) != "" {
		c.Ollama.BaseURL = strings.TrimSpace(value)
	}
	if c.Ollama.BaseURL == "" {
		c.Ollama.BaseURL = defaultOllamaBaseURL
	}
	c.Ollama.Model = strings.TrimSpace(c.Ollama.Model)
	if value, ok := os.LookupEnv("OLLAMA_MODEL"); ok && strings.TrimSpace(value) != "" {
		c.Ollama.Model = strings.TrimSpace(value)
	}
	if c.Ollama.Model == "" {
		c.Ollama.Model = defaultOllamaModel
	}
	if c.Ollama.TimeoutSeconds <= 0 {
		c.Ollama.TimeoutSeconds = defaultOllamaTimeoutSeconds
	}
}

func (c *Config) normalizeFFprobe() {
	c.FFprobe.Binary = strings.TrimSpace(c.FFprobe.Binary)
	if c.FFprobe.Binary == "" {
		c.FFprobe.Binary = defaultFFprobeBinary
	}
	if c.FFprobe.TimeoutSeconds <= 0 {
		c.FFprobe.TimeoutSeconds = defaultFFprobeTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
