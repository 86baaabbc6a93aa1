// Package config loads api-manager configuration from defaults, an optional
// TOML or YAML file, and environment variables, in that order of precedence.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"apimanager/internal/constants"
	"apimanager/internal/errors"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable holding the config file path
const EnvConfigPath = "APIMANAGER_CONFIG"

// Config is the complete process configuration
type Config struct {
	Server ServerConfig `toml:"server" yaml:"server"`
	Repos  ReposConfig  `toml:"repos" yaml:"repos"`
	Docker DockerConfig `toml:"docker" yaml:"docker"`
	Git    GitConfig    `toml:"git" yaml:"git"`
	Log    LogConfig    `toml:"log" yaml:"log"`
}

type ServerConfig struct {
	Host            string   `toml:"host" yaml:"host"`
	Port            int      `toml:"port" yaml:"port"`
	ReadTimeout     Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
	// OperationTimeout bounds each delegated runtime or git call; zero disables it.
	OperationTimeout Duration `toml:"operation_timeout" yaml:"operation_timeout"`
	AllowOrigins     []string `toml:"allow_origins" yaml:"allow_origins"`
	BodyLimit        string   `toml:"body_limit" yaml:"body_limit"`
	MetricsEnabled   bool     `toml:"metrics_enabled" yaml:"metrics_enabled"`
}

type ReposConfig struct {
	BasePath string `toml:"base_path" yaml:"base_path"`
}

type DockerConfig struct {
	Host string `toml:"host" yaml:"host"`
}

// GitConfig holds credentials used for clone and pull. Secrets are normally
// supplied through the environment rather than the file.
type GitConfig struct {
	SSHKeyPath string `toml:"ssh_key_path" yaml:"ssh_key_path"`
	Username   string `toml:"username" yaml:"username"`
	Password   string `toml:"-" yaml:"-"`
	Token      string `toml:"-" yaml:"-"`
}

type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            constants.DefaultServerHost,
			Port:            constants.DefaultServerPort,
			ReadTimeout:     Duration(constants.DefaultServerReadTimeout),
			WriteTimeout:    Duration(constants.DefaultServerWriteTimeout),
			ShutdownTimeout: Duration(constants.DefaultServerShutdownTimeout),
			AllowOrigins:    []string{"*"},
			BodyLimit:       constants.DefaultBodyLimit,
		},
		Repos: ReposConfig{
			BasePath: constants.DefaultRepoBasePath,
		},
		Docker: DockerConfig{
			Host: constants.DefaultDockerHost,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from the process environment. path may be
// empty, in which case APIMANAGER_CONFIG is consulted.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an injectable environment lookup
func LoadWithEnv(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if path == "" {
		path, _ = lookup(EnvConfigPath)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	cfg.Repos.BasePath = filepath.Clean(cfg.Repos.BasePath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse YAML config %s: %w", path, err)
		}
	case ".toml", "":
		if err := toml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse TOML config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config file extension: %s", filepath.Ext(path))
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("HOST", &c.Server.Host)
	str("REPO_BASE_PATH", &c.Repos.BasePath)
	str("DOCKER_HOST", &c.Docker.Host)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("SSH_KEY_PATH", &c.Git.SSHKeyPath)
	str("GIT_USERNAME", &c.Git.Username)
	str("GIT_PASSWORD", &c.Git.Password)
	str("GITHUB_TOKEN", &c.Git.Token)

	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.ConfigInvalid("PORT", fmt.Sprintf("not a number: %q", v))
		}
		c.Server.Port = port
	}

	if v, ok := lookup("OPERATION_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.ConfigInvalid("OPERATION_TIMEOUT", err.Error())
		}
		c.Server.OperationTimeout = Duration(d)
	}

	if v, ok := lookup("METRICS_ENABLED"); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return errors.ConfigInvalid("METRICS_ENABLED", err.Error())
		}
		c.Server.MetricsEnabled = enabled
	}

	if v, ok := lookup("CORS_ORIGINS"); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.AllowOrigins = origins
	}

	return nil
}

// Validate checks the configuration for values the server cannot run with
func (c *Config) Validate() error {
	if c.Server.Port < constants.MinPortNumber || c.Server.Port > constants.MaxPortNumber {
		return errors.ConfigInvalid("server.port", fmt.Sprintf("must be between %d and %d, got %d",
			constants.MinPortNumber, constants.MaxPortNumber, c.Server.Port))
	}
	if c.Repos.BasePath == "" || !filepath.IsAbs(c.Repos.BasePath) {
		return errors.ConfigInvalid("repos.base_path", fmt.Sprintf("must be an absolute path, got %q", c.Repos.BasePath))
	}
	if c.Server.OperationTimeout < 0 {
		return errors.ConfigInvalid("server.operation_timeout", "cannot be negative")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.ConfigInvalid("log.level", fmt.Sprintf("unknown level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.ConfigInvalid("log.format", fmt.Sprintf("unknown format %q", c.Log.Format))
	}
	return nil
}

// Address returns the host:port the server listens on
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Write encodes the configuration as "toml" or "yaml". Credentials are never written.
func (c *Config) Write(w io.Writer, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "yaml", "yml":
		data, err = yaml.Marshal(c)
	case "toml", "":
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(c)
		data = buf.Bytes()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	_, err = w.Write(data)
	return err
}
