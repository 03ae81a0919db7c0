package linelistener

import (
	"fmt"

	"github.com/c2h5oh/datasize"
	"github.com/relex/slog-loki/defs"
	"github.com/relex/slog-loki/util"
)

// Config defines a TCP listener for line-based logs
type Config struct {
	Address      string            `yaml:"address"`
	Source       string            `yaml:"source"`       // value of source field; client IP if empty
	RecordHead   globPattern       `yaml:"recordHead"`   // lines matching any pattern start new records; empty for single-line records
	DefaultLevel string            `yaml:"defaultLevel"` // level when no rule matches
	Levels       []LevelRule       `yaml:"levels"`
	MaxLineSize  datasize.ByteSize `yaml:"maxLineSize"` // longer records are split; zero to use the default
}

// VerifyConfig checks settings
func (cfg *Config) VerifyConfig() error {
	if cfg.Address == "" {
		return fmt.Errorf(".address is empty")
	}
	if cfg.DefaultLevel == "" {
		return fmt.Errorf(".defaultLevel is empty")
	}
	for i, rule := range cfg.Levels {
		if rule.Level == "" {
			return fmt.Errorf(".levels[%d].level is empty", i)
		}
		if rule.Patterns.match == nil {
			return fmt.Errorf(".levels[%d].patterns is empty", i)
		}
	}
	if cfg.MaxLineSize > datasize.GB {
		return fmt.Errorf(".maxLineSize must not exceed 1GB: %s", cfg.MaxLineSize.HR())
	}
	return nil
}

func (cfg *Config) lineBufferSize() int {
	if cfg.MaxLineSize > 0 {
		return int(cfg.MaxLineSize.Bytes())
	}
	return util.MaxInt(defs.ListenerLineBufferSize, defs.InputLogMaxMessageBytes)
}
