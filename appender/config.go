package appender

import (
	"fmt"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/relex/slog-loki/base"
	"github.com/relex/slog-loki/defs"
)

// Config defines the batching and processing settings of Appender
type Config struct {
	Name              string              `yaml:"name"`
	BatchSize         int                 `yaml:"batchSize"`
	BatchTimeout      time.Duration       `yaml:"batchTimeout"`
	ProcessingWorkers int                 `yaml:"processingWorkers"`
	Verbose           bool                `yaml:"verbose"`
	MetricsEnabled    bool                `yaml:"metricsEnabled"`
	OutputStrategy    base.OutputStrategy `yaml:"outputStrategy"`
	ReuseBufferSize   datasize.ByteSize   `yaml:"reuseBufferSize"`
}

// MappingConfig defines how events are turned into records
type MappingConfig struct {
	Labels  LabelsConfig  `yaml:"labels"`
	Message MessageConfig `yaml:"message"`
}

// LabelsConfig defines the label template of streams
//
// The template is rendered per event into a key like "app=foo,level=INFO" and parsed into label pairs.
type LabelsConfig struct {
	Template          string         `yaml:"template"`
	Mode              base.LabelMode `yaml:"mode"` // inferred from template if empty
	PairSeparator     string         `yaml:"pairSeparator"`
	KeyValueSeparator string         `yaml:"keyValueSeparator"`
}

// MessageConfig defines the template of log lines
type MessageConfig struct {
	Template string `yaml:"template"`
}

// DefaultConfig returns Config with default values, to be overridden by YAML
func DefaultConfig() Config {
	return Config{
		Name:              "loki",
		BatchSize:         defs.AppenderDefaultBatchSize,
		BatchTimeout:      defs.AppenderDefaultBatchTimeout,
		ProcessingWorkers: defs.AppenderDefaultProcessingWorkers,
		Verbose:           false,
		MetricsEnabled:    true,
		OutputStrategy:    base.OutputAllocate,
		ReuseBufferSize:   4 * datasize.MB,
	}
}

// DefaultMappingConfig returns MappingConfig with default values, to be overridden by YAML
func DefaultMappingConfig() MappingConfig {
	return MappingConfig{
		Labels: LabelsConfig{
			Template:          "app=slog-loki,level=$level",
			PairSeparator:     ",",
			KeyValueSeparator: "=",
		},
		Message: MessageConfig{
			Template: "$message",
		},
	}
}

// VerifyConfig checks settings
func (cfg *Config) VerifyConfig() error {
	if cfg.Name == "" {
		return fmt.Errorf(".name is empty")
	}
	if cfg.BatchSize <= 0 {
		return fmt.Errorf(".batchSize must be positive: %d", cfg.BatchSize)
	}
	if cfg.BatchTimeout <= defs.DrainTimeoutCompensation {
		return fmt.Errorf(".batchTimeout must be longer than %s: %s", defs.DrainTimeoutCompensation, cfg.BatchTimeout)
	}
	if cfg.ProcessingWorkers <= 0 {
		return fmt.Errorf(".processingWorkers must be positive: %d", cfg.ProcessingWorkers)
	}
	if err := cfg.OutputStrategy.Verify(); err != nil {
		return fmt.Errorf(".outputStrategy: %w", err)
	}
	if cfg.OutputStrategy == base.OutputReuse {
		if cfg.ReuseBufferSize.Bytes() == 0 || cfg.ReuseBufferSize.Bytes() > 1<<30 {
			return fmt.Errorf(".reuseBufferSize must be between 1B and 1GB: %s", cfg.ReuseBufferSize.HR())
		}
	}
	return nil
}

// VerifyConfig checks settings
func (cfg *MappingConfig) VerifyConfig() error {
	if cfg.Labels.Template == "" {
		return fmt.Errorf(".labels.template is empty")
	}
	if cfg.Labels.Mode != "" {
		if err := cfg.Labels.Mode.Verify(); err != nil {
			return fmt.Errorf(".labels.mode: %w", err)
		}
	}
	if cfg.Labels.PairSeparator == "" || cfg.Labels.KeyValueSeparator == "" {
		return fmt.Errorf(".labels separators cannot be empty")
	}
	if cfg.Labels.PairSeparator == cfg.Labels.KeyValueSeparator {
		return fmt.Errorf(".labels separators cannot be the same: '%s'", cfg.Labels.PairSeparator)
	}
	if cfg.Message.Template == "" {
		return fmt.Errorf(".message.template is empty")
	}
	return nil
}
