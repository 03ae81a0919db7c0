package run

import (
	"fmt"
	"strings"

	"github.com/relex/gotils/logger"
	"github.com/relex/slog-loki/appender"
	"github.com/relex/slog-loki/base"
	"github.com/relex/slog-loki/base/bconfig"
	"github.com/relex/slog-loki/defs"
	"github.com/relex/slog-loki/input/linelistener"
	"github.com/relex/slog-loki/output"
	"github.com/relex/slog-loki/output/lokihttp"
	"github.com/relex/slog-loki/util"
	"gopkg.in/yaml.v3"
)

// Config defines the root of slog-loki config file
type Config struct {
	Anchors  AnchorsConfig               `yaml:"anchors"`
	Schema   SchemaConfig                `yaml:"schema"`
	Inputs   []linelistener.Config       `yaml:"inputs"`
	Appender appender.Config             `yaml:"appender"`
	Mapping  appender.MappingConfig      `yaml:",inline"` // labels and message
	Encoder  bconfig.EncoderConfigHolder `yaml:"encoder"`
	Sender   lokihttp.Config             `yaml:"sender"`
}

// AnchorsConfig defines the anchors section in config file
// The section is meant to provide anchors for other sections and doesn't need to be unmarshalled itself
type AnchorsConfig struct {
}

// SchemaConfig defines the schema section in config file
type SchemaConfig struct {
	Fields []string `yaml:"fields"`
}

func init() {
	output.Register()
}

// NewDefaultConfig creates Config with default values, which are overridden by config file
func NewDefaultConfig() *Config {
	return &Config{
		Schema: SchemaConfig{
			Fields: []string{"source", "level", "message"},
		},
		Appender: appender.DefaultConfig(),
		Mapping:  appender.DefaultMappingConfig(),
		Sender: lokihttp.Config{
			URL: defs.DefaultLokiURL,
		},
	}
}

// LoadConfigFile loads config from the path, creates the schema and verify all configurations
func LoadConfigFile(filepath string) (*Config, base.LogSchema, error) {
	cref := NewDefaultConfig()
	if err := util.UnmarshalYamlFile(filepath, cref); err != nil {
		return nil, base.LogSchema{}, err
	}
	schema, err := cref.Verify()
	if err != nil {
		return nil, schema, err
	}
	return cref, schema, nil
}

// Verify checks all sections and creates the schema
func (cref *Config) Verify() (base.LogSchema, error) {
	logger.Infof("create schema with fields: [%s]", strings.Join(cref.Schema.Fields, ", "))
	schema, schemaErr := base.NewLogSchema(cref.Schema.Fields)
	if schemaErr != nil {
		return schema, fmt.Errorf("schema: %w", schemaErr)
	}
	if len(cref.Inputs) == 0 {
		return schema, fmt.Errorf("inputs is empty")
	}
	for i, input := range cref.Inputs {
		if err := input.VerifyConfig(); err != nil {
			return schema, fmt.Errorf("inputs[%d]%w", i, err)
		}
	}
	if err := cref.Appender.VerifyConfig(); err != nil {
		return schema, fmt.Errorf("appender%w", err)
	}
	if err := cref.Mapping.VerifyConfig(); err != nil {
		return schema, err
	}
	if cref.Encoder.Value == nil {
		return schema, fmt.Errorf("encoder is undefined")
	}
	if err := cref.Encoder.Value.VerifyConfig(); err != nil {
		return schema, fmt.Errorf("encoder%w", err)
	}
	if err := cref.Sender.VerifyConfig(); err != nil {
		return schema, fmt.Errorf("sender%w", err)
	}
	return schema, nil
}

// MarshalYAML provides custom marshalling to export readable document. The result is not reversible.
func (holder AnchorsConfig) MarshalYAML() (interface{}, error) {
	return []string(nil), nil
}

// UnmarshalYAML provides custom unmarshalling for the implementations of Config
func (holder *AnchorsConfig) UnmarshalYAML(value *yaml.Node) error {
	return nil
}
