package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration for library roots, logs, and
// the central index's platform-scoped config directory.
type Paths struct {
	ConfigDir  string `toml:"config_dir"`
	LogDir     string `toml:"log_dir"`
	SourceRoot string `toml:"source_root"`
	TargetRoot string `toml:"target_root"`
}

// TMDB contains configuration for The Movie Database lookup adapter.
type TMDB struct {
	APIKey       string `toml:"api_key"`
	BearerToken  string `toml:"bearer_token"`
	BaseURL      string `toml:"base_url"`
	Language     string `toml:"language"`
	RateLimitMS  int    `toml:"rate_limit_ms"`
	RetryMax     int    `toml:"retry_max"`
	RetryBaseMS  int    `toml:"retry_base_ms"`
}

// Ollama contains configuration for the AI inference server used to
// recover titles that filename/directory heuristics cannot parse.
type Ollama struct {
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// FFprobe contains configuration for the media-probe subprocess.
type FFprobe struct {
	Binary         string `toml:"binary"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Library contains the output directory structure under TargetRoot.
type Library struct {
	MoviesDir string `toml:"movies_dir"`
	TVDir     string `toml:"tv_dir"`
}

// Matching contains the Match Validator's scoring and policy knobs.
type Matching struct {
	MediumConfidenceThreshold float64 `toml:"medium_confidence_threshold"`
	AllowMediumConfidence     bool    `toml:"allow_medium_confidence"`
}

// Executor contains the Executor's concurrency and integrity knobs.
type Executor struct {
	MaxWorkers        int `toml:"max_workers"`
	ChecksumRetries   int `toml:"checksum_retries"`
	DownloadRetryMax  int `toml:"download_retry_max"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format         string            `toml:"format"`
	Level          string            `toml:"level"`
	RetentionDays  int               `toml:"retention_days"`
	StageOverrides map[string]string `toml:"stage_overrides"`
}

// Config encapsulates all configuration values for the organizer.
//
// Configuration sections by subsystem:
//   - Paths: source/target library roots and the platform config directory
//   - TMDB: movie-database lookups
//   - Ollama: AI-assisted title recovery
//   - FFprobe: technical media probing
//   - Library: movies/tv subdirectory names under the target root
//   - Matching: Match Validator thresholds and opt-ins
//   - Executor: move/copy concurrency and integrity knobs
//   - Logging: log format, level, and retention
type Config struct {
	Paths    Paths    `toml:"paths"`
	TMDB     TMDB     `toml:"tmdb"`
	Ollama   Ollama   `toml:"ollama"`
	FFprobe  FFprobe  `toml:"ffprobe"`
	Library  Library  `toml:"library"`
	Matching Matching `toml:"matching"`
	Executor Executor `toml:"executor"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/organizer/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/organizer/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("organizer.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for operation. TargetRoot
// is created on a best-effort basis so planning can still run read-only
// against a source tree when the target volume is temporarily unavailable.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ConfigDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.TargetRoot) != "" {
		_ = os.MkdirAll(c.Paths.TargetRoot, 0o755)
	}
	return nil
}

// SessionsDir returns the directory holding per-run plan/rollback session pairs.
func (c *Config) SessionsDir() string {
	return filepath.Join(c.Paths.ConfigDir, "sessions")
}

// DiskIndexesDir returns the directory holding per-disk index JSON files.
func (c *Config) DiskIndexesDir() string {
	return filepath.Join(c.Paths.ConfigDir, "disk_indexes")
}

// CentralIndexPath returns the path to the merged central index JSON file.
func (c *Config) CentralIndexPath() string {
	return filepath.Join(c.Paths.ConfigDir, "central_index.json")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
