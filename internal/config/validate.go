package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateLibrary(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateExecutor(); err != nil {
		return err
	}
	if err := c.validateOllama(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if c.TMDB.APIKey == "" && c.TMDB.BearerToken == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/organizer/config.toml"
		}
		return fmt.Errorf("tmdb.api_key or tmdb.bearer_token is required. Set TMDB_API_KEY/TMDB_BEARER_TOKEN or edit %s", defaultPath)
	}
	if err := ensurePositiveMap(map[string]int{
		"tmdb.rate_limit_ms": c.TMDB.RateLimitMS,
		"tmdb.retry_base_ms": c.TMDB.RetryBaseMS,
	}); err != nil {
		return err
	}
	if c.TMDB.RetryMax < 0 {
		return errors.New("tmdb.retry_max must be >= 0")
	}
	return nil
}

func (c *Config) validateLibrary() error {
	if c.Library.MoviesDir == "" {
		return errors.New("library.movies_dir must be set")
	}
	if c.Library.TVDir == "" {
		return errors.New("library.tv_dir must be set")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.MediumConfidenceThreshold < 0 || c.Matching.MediumConfidenceThreshold > 1 {
		return errors.New("matching.medium_confidence_threshold must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateExecutor() error {
	if err := ensurePositiveMap(map[string]int{
		"executor.max_workers": c.Executor.MaxWorkers,
	}); err != nil {
		return err
	}
	if c.Executor.ChecksumRetries < 0 {
		return errors.New("executor.checksum_retries must be >= 0")
	}
	if c.Executor.DownloadRetryMax < 0 {
		return errors.New("executor.download_retry_max must be >= 0")
	}
	return nil
}

func (c *Config) validateOllama() error {
	if c.Ollama.TimeoutSeconds <= 0 {
		return errors.New("ollama.timeout_seconds must be positive")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
