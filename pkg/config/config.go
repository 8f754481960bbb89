// Package config loads rxiosmoe settings from YAML and turns them into
// component configurations.
//
// Example file:
//
//	main_queue:
//	  name: main
//	  queue_size: 0
//	delay_executor:
//	  name: timers
//	log:
//	  level: debug
//	  format: console
//	metrics:
//	  enabled: true
//	  namespace: myapp
//	  addr: ":9090"
//
// Missing keys keep their Default values. Unknown keys are an error.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	yaml "go.yaml.in/yaml/v3"

	"github.com/lucamtudor/rxiosmoe/pkg/common/errors"
	"github.com/lucamtudor/rxiosmoe/pkg/common/validation"
	"github.com/lucamtudor/rxiosmoe/pkg/metrics"
	"github.com/lucamtudor/rxiosmoe/pkg/scheduling/delay"
	"github.com/lucamtudor/rxiosmoe/pkg/scheduling/opqueue"
)

// Config is the root of the YAML document.
type Config struct {
	MainQueue     QueueConfig    `yaml:"main_queue"`
	DelayExecutor ExecutorConfig `yaml:"delay_executor"`
	Log           LogConfig      `yaml:"log"`
	Metrics       MetricsConfig  `yaml:"metrics"`
}

// QueueConfig configures an operation queue.
type QueueConfig struct {
	Name          string `yaml:"name"`
	MaxConcurrent int    `yaml:"max_concurrent"`
	QueueSize     int    `yaml:"queue_size"`
}

// ExecutorConfig configures a delay executor.
type ExecutorConfig struct {
	Name string `yaml:"name"`
}

// LogConfig configures the zerolog logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// MetricsConfig configures Prometheus instrumentation.
type MetricsConfig struct {
	Enabled   bool              `yaml:"enabled"`
	Namespace string            `yaml:"namespace"`
	Labels    map[string]string `yaml:"labels"`
	Addr      string            `yaml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		MainQueue:     QueueConfig{Name: "main", MaxConcurrent: 1},
		DelayExecutor: ExecutorConfig{Name: "delay"},
		Log:           LogConfig{Level: "info", Format: "console"},
		Metrics:       MetricsConfig{Enabled: true, Namespace: metrics.DefaultNamespace, Addr: ":9090"},
	}
}

// Load reads and validates the YAML file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.NewOperationError("config", "Load", err).WithContext(path)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML document on top of Default.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.NewOperationError("config", "Parse", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := validation.ValidateNotEmpty("config", "main_queue.name", c.MainQueue.Name); err != nil {
		return err
	}
	if err := validation.ValidatePositive("config", "main_queue.max_concurrent", c.MainQueue.MaxConcurrent); err != nil {
		return err
	}
	if c.MainQueue.MaxConcurrent != 1 {
		return errors.NewValidationError("config", "main_queue.max_concurrent", c.MainQueue.MaxConcurrent,
			"main queue must be serial").WithHint("use 1")
	}
	if err := validation.ValidateNonNegative("config", "main_queue.queue_size", c.MainQueue.QueueSize); err != nil {
		return err
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return errors.NewValidationError("config", "log.format", c.Log.Format, "unknown format").
			WithHint("use console or json")
	}
	return nil
}

func parseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.NoLevel, errors.NewValidationError("config", "log.level", s, err.Error()).
			WithHint("use trace, debug, info, warn, error or disabled")
	}
	return lvl, nil
}

// Logger builds a zerolog logger writing to w.
func (c LogConfig) Logger(w io.Writer) (zerolog.Logger, error) {
	lvl, err := parseLevel(c.Level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if c.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000"}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// Registry builds a metrics registry on reg, or returns nil when metrics
// are disabled.
func (c MetricsConfig) Registry(reg prometheus.Registerer) *metrics.Registry {
	return metrics.Config{
		Enabled:   c.Enabled,
		Registry:  reg,
		Namespace: c.Namespace,
		Labels:    prometheus.Labels(c.Labels),
	}.Build()
}

// Options converts the section into an opqueue configuration.
func (c QueueConfig) Options(logger zerolog.Logger, m *metrics.Registry) opqueue.Config {
	return opqueue.Config{
		Name:          c.Name,
		MaxConcurrent: c.MaxConcurrent,
		QueueSize:     c.QueueSize,
		Logger:        logger,
		Metrics:       m,
	}
}

// Options converts the section into a delay executor configuration.
func (c ExecutorConfig) Options(logger zerolog.Logger, m *metrics.Registry) delay.Config {
	return delay.Config{
		Name:    c.Name,
		Logger:  logger,
		Metrics: m,
	}
}

func (c Config) String() string {
	return fmt.Sprintf("main_queue=%s delay_executor=%s log=%s/%s metrics=%t",
		c.MainQueue.Name, c.DelayExecutor.Name, c.Log.Level, c.Log.Format, c.Metrics.Enabled)
}
