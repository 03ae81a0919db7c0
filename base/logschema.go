package base

import (
	"fmt"
	"strings"
	"time"

	"github.com/relex/gotils/logger"
	"github.com/relex/slog-loki/util/stringtemplate"
	"golang.org/x/exp/slices"
)

// LogSchema defines the field names of LogEvent
type LogSchema struct {
	fieldNames []string
}

// MustNewLogSchema creates a new LogSchema or panic
func MustNewLogSchema(fieldNames []string) LogSchema {
	schema, err := NewLogSchema(fieldNames)
	if err != nil {
		logger.Panic("failed to create schema: ", err)
	}
	return schema
}

// NewLogSchema creates a new LogSchema with field names
func NewLogSchema(fieldNames []string) (LogSchema, error) {
	if len(fieldNames) == 0 {
		return LogSchema{}, fmt.Errorf("no field defined")
	}
	m := make(map[string]bool, len(fieldNames)*2)
	for i, name := range fieldNames {
		if len(name) == 0 {
			return LogSchema{}, fmt.Errorf("invalid %dth field '%s'", i, name)
		}
		if m[name] {
			return LogSchema{}, fmt.Errorf("duplicated %dth field '%s'", i, name)
		}
		m[name] = true
	}
	return LogSchema{fieldNames: fieldNames}, nil
}

// NewEvent creates a new event with fields of the schema length
func (s *LogSchema) NewEvent(tm time.Time) *LogEvent {
	return &LogEvent{
		Timestamp: tm,
		Fields:    make(LogFields, len(s.fieldNames)),
	}
}

// NewTestEvent creates a new event with initial timestamp and field values for testing
func (s *LogSchema) NewTestEvent(tm time.Time, fields LogFields) *LogEvent {
	if len(fields) != len(s.fieldNames) {
		logger.Panicf("wrong numbers of test log fields: %s, should be %d", fields, len(s.fieldNames))
	}
	return &LogEvent{
		Timestamp: tm,
		Fields:    fields,
	}
}

// CreateFieldLocator creates a LogFieldLocator by field name
func (s *LogSchema) CreateFieldLocator(name string) (LogFieldLocator, error) {
	index := slices.Index(s.fieldNames, name)
	if index == -1 {
		return MissingFieldLocator, fmt.Errorf("field '%s' is not defined in schema", name)
	}
	return LogFieldLocator(index), nil
}

// CreateTemplateVariableResolver creates a variable resolver by field name, to be used with stringtemplate.Expander
func (s *LogSchema) CreateTemplateVariableResolver(name string) (stringtemplate.PartProvider, error) {
	locator, err := s.CreateFieldLocator(name)
	if err != nil {
		return nil, err
	}
	return locator.provideTemplatePart, nil
}

// GetFieldNames returns all the field names in the same order
func (s *LogSchema) GetFieldNames() []string {
	return s.fieldNames
}

// MustCreateFieldLocator creates LogFieldLocator by field name or panic (if field doesn't exist in schema)
func (s *LogSchema) MustCreateFieldLocator(name string) LogFieldLocator {
	loc, err := s.CreateFieldLocator(name)
	if err != nil {
		logger.Panicf("failed to create locator for field [%s]: %s", name, err.Error())
	}
	return loc
}

func (s LogSchema) String() string {
	return "[" + strings.Join(s.fieldNames, ", ") + "]"
}
