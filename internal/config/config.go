package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	DataDir         string        `yaml:"data_dir"`
	Database        string        `yaml:"database"`
	LogFile         string        `yaml:"log_file"`
	PageSize        int           `yaml:"page_size"`
	Retention       time.Duration `yaml:"retention"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	NodeTypes       []string      `yaml:"node_types"`
	Docker          DockerConfig  `yaml:"docker"`
	Tracing         TracingConfig `yaml:"tracing"`
}

// DockerConfig locates the process engine containers
type DockerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Host        string        `yaml:"host"`
	TLSVerify   bool          `yaml:"tls_verify"`
	CertPath    string        `yaml:"cert_path"`
	Timeout     time.Duration `yaml:"timeout"`
	ServerLabel string        `yaml:"server_label"`
}

// TracingConfig selects where spans go
type TracingConfig struct {
	Exporter string `yaml:"exporter"`
	Endpoint string `yaml:"endpoint"`
	Insecure bool   `yaml:"insecure"`
}

// Default returns the built-in configuration rooted at dataDir
func Default(dataDir string) Config {
	return Config{
		DataDir:         dataDir,
		Database:        filepath.Join(dataDir, "audit.db"),
		LogFile:         filepath.Join(dataDir, "bpmmon.log"),
		PageSize:        10,
		Retention:       30 * 24 * time.Hour,
		RefreshInterval: 2 * time.Second,
		Docker: DockerConfig{
			Enabled:     true,
			Host:        "unix:///var/run/docker.sock",
			Timeout:     30 * time.Second,
			ServerLabel: "bpmmon.server-template",
		},
		Tracing: TracingConfig{
			Exporter: "none",
			Insecure: true,
		},
	}
}

// DefaultDataDir returns ~/.bpmmon
func DefaultDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".bpmmon"), nil
}

// Load reads the YAML file at path over the defaults and applies BPMMON_*
// environment overrides. An empty path means <data dir>/config.yaml, which
// may be absent.
func Load(path string) (Config, error) {
	dataDir := getenv("BPMMON_DATA_DIR", "")
	if dataDir == "" {
		d, err := DefaultDataDir()
		if err != nil {
			return Config{}, err
		}
		dataDir = d
	}
	cfg := Default(dataDir)

	optional := path == ""
	if optional {
		path = filepath.Join(dataDir, "config.yaml")
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case optional && errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	applyEnv(&cfg)

	if cfg.Database == "" {
		cfg.Database = filepath.Join(cfg.DataDir, "audit.db")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the application cannot run with
func (c Config) Validate() error {
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval must be positive, got %s", c.RefreshInterval)
	}
	if c.Docker.Enabled && c.Docker.ServerLabel == "" {
		return errors.New("docker.server_label must be set when docker is enabled")
	}
	return nil
}

func applyEnv(c *Config) {
	c.Database = getenv("BPMMON_DATABASE", c.Database)
	c.LogFile = getenv("BPMMON_LOG_FILE", c.LogFile)
	c.PageSize = getenvInt("BPMMON_PAGE_SIZE", c.PageSize)
	c.Retention = getenvDuration("BPMMON_RETENTION", c.Retention)
	c.Docker.Enabled = getenvBool("BPMMON_DOCKER_ENABLED", c.Docker.Enabled)
	c.Docker.Host = getenv("DOCKER_HOST", c.Docker.Host)
	c.Docker.ServerLabel = getenv("BPMMON_SERVER_LABEL", c.Docker.ServerLabel)
	c.Tracing.Exporter = getenv("BPMMON_OTEL_EXPORTER", c.Tracing.Exporter)
	c.Tracing.Endpoint = getenv("BPMMON_OTEL_ENDPOINT", c.Tracing.Endpoint)
	c.Tracing.Insecure = getenvBool("BPMMON_OTEL_INSECURE", c.Tracing.Insecure)
}

func getenv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func getenvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return fallback
	}
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
