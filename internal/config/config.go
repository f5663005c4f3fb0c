// internal/config/config.go
//
// This package handles configuration and the .curator directory structure.
// Every project that uses curator gets a .curator/ folder created in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// CuratorDir is the name of the directory we create in each project
	CuratorDir = ".curator"

	defaultServerURL   = "http://localhost:8000"
	defaultPersona     = "default"
	defaultPlaceholder = "/static/img/placeholder.png"
	defaultTimeoutSecs = 120
)

const defaultProjectConfigYAML = `# curator project configuration
version: 1

# Curation backend serving /api/curation/*.
server:
  base_url: http://localhost:8000
  # Per-request timeout. Scoring runs a vision model per image, so keep this generous.
  timeout_seconds: 120

# Persona scope: which training dataset's images this project reviews.
persona: default

# Shown in place of images the backend returned no renderable URL for.
placeholder_image: /static/img/placeholder.png
`

// ServerConfig points at the curation backend.
type ServerConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

// ProjectConfig models .curator/config.yaml.
type ProjectConfig struct {
	Version          int          `yaml:"version"`
	Server           ServerConfig `yaml:"server"`
	Persona          string       `yaml:"persona"`
	PlaceholderImage string       `yaml:"placeholder_image,omitempty"`
}

// Config holds the runtime configuration for curator.
type Config struct {
	// ProjectDir is the directory where the user ran `curator` from
	ProjectDir string

	// CuratorProjectDir is ProjectDir/.curator
	CuratorProjectDir string

	Project ProjectConfig
}

// InitCuratorDir creates the .curator directory structure in the given
// project directory and seeds a commented config.yaml on first run.
//
// Structure created:
// .curator/
// ├── logs/     <- curation action log (the TUI log panel tails this)
// └── config.yaml
func InitCuratorDir(projectDir string) error {
	curatorDir := filepath.Join(projectDir, CuratorDir)
	if err := os.MkdirAll(filepath.Join(curatorDir, "logs"), 0755); err != nil {
		return err
	}
	return ensureProjectConfig(filepath.Join(curatorDir, "config.yaml"))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0644)
}

// NewConfig creates a Config populated from config.yaml and the environment.
// Environment variables win over the file so the tool can be pointed at a
// different backend or persona without editing the project.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:        projectDir,
		CuratorProjectDir: filepath.Join(projectDir, CuratorDir),
		Project:           defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()
	if err := cfg.Project.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.CuratorProjectDir, "logs")
}

// LogPath returns the curation action log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.LogsDir(), "curation.log")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.CuratorProjectDir, "config.yaml")
}

// ServerURL returns the curation backend base URL without a trailing slash.
func (c *Config) ServerURL() string {
	return strings.TrimRight(c.Project.Server.BaseURL, "/")
}

// Persona returns the persona scope every backend call is issued under.
func (c *Config) Persona() string {
	return c.Project.Persona
}

// PlaceholderImage returns the fallback resource for images without a URL.
func (c *Config) PlaceholderImage() string {
	return c.Project.PlaceholderImage
}

// TimeoutSeconds returns the per-request timeout for backend calls.
func (c *Config) TimeoutSeconds() int {
	return c.Project.Server.TimeoutSeconds
}

// SetPersona overrides the persona scope for this process only.
func (c *Config) SetPersona(persona string) error {
	persona = strings.TrimSpace(persona)
	if persona == "" {
		return fmt.Errorf("config: persona is required")
	}
	c.Project.Persona = persona
	return nil
}

// SetServerURL overrides the backend base URL for this process only.
func (c *Config) SetServerURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("config: server url is required")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return fmt.Errorf("config: server url: %w", err)
	}
	c.Project.Server.BaseURL = raw
	return nil
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	c.Project = parsed
	return nil
}

func (c *Config) applyEnvOverrides() {
	c.Project.Server.BaseURL = getEnv("CURATOR_SERVER", c.Project.Server.BaseURL)
	c.Project.Persona = getEnv("CURATOR_PERSONA", c.Project.Persona)
	c.Project.PlaceholderImage = getEnv("CURATOR_PLACEHOLDER", c.Project.PlaceholderImage)
	c.Project.Server.TimeoutSeconds = getEnvAsInt("CURATOR_TIMEOUT", c.Project.Server.TimeoutSeconds)
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Server: ServerConfig{
			BaseURL:        defaultServerURL,
			TimeoutSeconds: defaultTimeoutSecs,
		},
		Persona:          defaultPersona,
		PlaceholderImage: defaultPlaceholder,
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.Server.BaseURL) == "" {
		pc.Server.BaseURL = defaultServerURL
	}
	if pc.Server.TimeoutSeconds <= 0 {
		pc.Server.TimeoutSeconds = defaultTimeoutSecs
	}
	if strings.TrimSpace(pc.Persona) == "" {
		pc.Persona = defaultPersona
	}
	if strings.TrimSpace(pc.PlaceholderImage) == "" {
		pc.PlaceholderImage = defaultPlaceholder
	}
}

func (pc *ProjectConfig) validate() error {
	if _, err := url.ParseRequestURI(pc.Server.BaseURL); err != nil {
		return fmt.Errorf("server base_url %q: %w", pc.Server.BaseURL, err)
	}
	if strings.TrimSpace(pc.Persona) == "" {
		return fmt.Errorf("persona is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
