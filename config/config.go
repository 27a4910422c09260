package config

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v2"

	"github.com/infiotinc/lmsgql/client/transport"
)

var cfgFilenames = []string{".lmsgql.yml", "lmsgql.yml", "lmsgql.yaml"}

const (
	DefaultTimeout          = 30 * time.Second
	DefaultRetryTimeout     = 5 * time.Minute
	DefaultMetricsNamespace = "lmsgql"
)

type Config struct {
	Endpoint     string            `yaml:"endpoint"`
	Websocket    string            `yaml:"websocket,omitempty"`
	Headers      map[string]string `yaml:"headers,omitempty"`
	// Timeout bounds HTTP requests and websocket writes, zero disables it
	Timeout      time.Duration     `yaml:"timeout,omitempty"`
	RetryTimeout time.Duration     `yaml:"retry_timeout,omitempty"`
	Log          LogConfig         `yaml:"log,omitempty"`
	Metrics      MetricsConfig     `yaml:"metrics,omitempty"`
	Tracing      TracingConfig     `yaml:"tracing,omitempty"`
}

type LogConfig struct {
	Level       string `yaml:"level,omitempty"`
	Development bool   `yaml:"development,omitempty"`
}

type MetricsConfig struct {
	Namespace string `yaml:"namespace,omitempty"`
}

type TracingConfig struct {
	Enabled bool `yaml:"enabled,omitempty"`
}

// DefaultConfig creates a copy of the default config
func DefaultConfig() *Config {
	return &Config{
		Timeout:      DefaultTimeout,
		RetryTimeout: DefaultRetryTimeout,
		Log: LogConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Namespace: DefaultMetricsNamespace,
		},
	}
}

// LoadConfigFromDefaultLocations looks for a config file in the current directory, and all parent directories
// walking up the tree. The closest config file will be returned.
func LoadConfigFromDefaultLocations() (*Config, error) {
	cfgFile, err := findCfg()
	if err != nil {
		return nil, err
	}

	return LoadConfig(cfgFile)
}

// LoadConfig reads the config file at filename, expanding environment variables
func LoadConfig(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}

	cfg, err := ParseConfig(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	return cfg, nil
}

// ParseConfig decodes a YAML config, unknown keys are an error
func ParseConfig(b []byte) (*Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(b)))))
	dec.SetStrict(true)

	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}

	if err := cfg.Check(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Check validates the config
func (c *Config) Check() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}

	if c.RetryTimeout < 0 {
		return fmt.Errorf("retry_timeout must not be negative")
	}

	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}

	return nil
}

// Header returns the configured headers, sent with every operation
func (c *Config) Header() http.Header {
	h := http.Header{}
	for k, v := range c.Headers {
		h.Set(k, v)
	}

	return h
}

// Transport builds the transport described by the config.
// Subscriptions go through a websocket transport when Websocket is set, the caller must Start it.
func (c *Config) Transport() (transport.Transport, *transport.Ws) {
	httptr := &transport.Http{
		URL:    c.Endpoint,
		Client: &http.Client{Timeout: c.Timeout},
	}

	if c.Websocket == "" {
		return httptr, nil
	}

	wstr := &transport.Ws{
		URL:                   c.Websocket,
		RetryTimeout:          c.RetryTimeout,
		WebsocketConnProvider: transport.DefaultWebsocketConnProvider(c.Timeout),
	}

	return transport.SplitSubscription(wstr, httptr), wstr
}

// findCfg searches for the config file in this directory and all parents up the tree
// looking for the closest match
func findCfg() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("unable to get working dir to findCfg: %w", err)
	}

	cfg := findCfgInDir(dir)

	for cfg == "" && dir != filepath.Dir(dir) {
		dir = filepath.Dir(dir)
		cfg = findCfgInDir(dir)
	}

	if cfg == "" {
		return "", os.ErrNotExist
	}

	return cfg, nil
}

func findCfgInDir(dir string) string {
	for _, cfgName := range cfgFilenames {
		path := filepath.Join(dir, cfgName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
