package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BootstrapConfig holds the process settings loaded from the optional YAML file.
// The transform itself always comes from the command line.
type BootstrapConfig struct {
	Logging LoggingConfig   `yaml:"logging"`
	Server  ServerConfig    `yaml:"server"`
	ZeroMQ  ZeroMQBootstrap `yaml:"zeromq"`
}

// LoggingConfig holds logging settings from bootstrap
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogPath string `yaml:"log_path,omitempty"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Enabled  bool `yaml:"enabled"`
	HTTPPort int  `yaml:"http_port"`
}

// ZeroMQBootstrap holds ZeroMQ settings from bootstrap
type ZeroMQBootstrap struct {
	Enabled            bool   `yaml:"enabled"`
	PublishBindAddress string `yaml:"publish_bind_address"`
	RequestBindAddress string `yaml:"request_bind_address"`
	TransformTopic     string `yaml:"transform_topic"`
	UpdatesTopic       string `yaml:"updates_topic"`
	SocketTimeoutMs    int    `yaml:"socket_timeout_ms"`
	PollIntervalMs     int    `yaml:"poll_interval_ms"`
}

// DefaultBootstrapConfig returns the settings used when no file is given.
func DefaultBootstrapConfig() *BootstrapConfig {
	return &BootstrapConfig{
		Logging: LoggingConfig{Level: "info"},
		Server: ServerConfig{
			Enabled:  true,
			HTTPPort: 8080,
		},
		ZeroMQ: ZeroMQBootstrap{
			Enabled:            true,
			PublishBindAddress: "tcp://*:5556",
			RequestBindAddress: "tcp://*:5555",
			TransformTopic:     "tf_static",
			UpdatesTopic:       "parameter_updates",
			SocketTimeoutMs:    1000,
			PollIntervalMs:     500,
		},
	}
}

// LoadBootstrapConfig loads the bootstrap configuration from path. Fields
// missing from the file keep their defaults. An empty path returns the defaults.
func LoadBootstrapConfig(path string) (*BootstrapConfig, error) {
	cfg := DefaultBootstrapConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading bootstrap config file '%s': %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing bootstrap config file '%s': %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bootstrap config file '%s': %w", path, err)
	}
	return cfg, nil
}

// Validate checks required fields of the enabled transports.
func (c *BootstrapConfig) Validate() error {
	if c.Server.Enabled && (c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535) {
		return fmt.Errorf("server.http_port out of range: %d", c.Server.HTTPPort)
	}
	if c.ZeroMQ.Enabled {
		if c.ZeroMQ.PublishBindAddress == "" {
			return fmt.Errorf("missing required field in bootstrap config: zeromq.publish_bind_address")
		}
		if c.ZeroMQ.RequestBindAddress == "" {
			return fmt.Errorf("missing required field in bootstrap config: zeromq.request_bind_address")
		}
		if c.ZeroMQ.TransformTopic == "" {
			return fmt.Errorf("missing required field in bootstrap config: zeromq.transform_topic")
		}
		if c.ZeroMQ.UpdatesTopic == "" {
			return fmt.Errorf("missing required field in bootstrap config: zeromq.updates_topic")
		}
	}
	return nil
}
