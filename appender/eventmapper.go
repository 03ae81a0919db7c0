package appender

import (
	"fmt"

	"github.com/relex/slog-loki/base"
	"github.com/relex/slog-loki/defs"
	"github.com/relex/slog-loki/util/stringtemplate"
)

// EventMapper renders LogEvent into LogRecord by the label and message templates
//
// EventMapper is stateless besides the stream registry and may be used concurrently
type EventMapper struct {
	labelTemplate   stringtemplate.Expander
	messageTemplate stringtemplate.Expander
	labelMode       base.LabelMode
	streams         *base.StreamRegistry
	fixedStream     *base.LogStream // set if the label template has no variable
}

// NewEventMapper creates an EventMapper for events of the given schema
func NewEventMapper(schema base.LogSchema, config MappingConfig) (*EventMapper, error) {
	if err := config.VerifyConfig(); err != nil {
		return nil, err
	}

	labelTemplate, lerr := stringtemplate.NewExpander(config.Labels.Template, schema.CreateTemplateVariableResolver)
	if lerr != nil {
		return nil, fmt.Errorf(".labels.template: %w", lerr)
	}
	messageTemplate, merr := stringtemplate.NewExpander(config.Message.Template, schema.CreateTemplateVariableResolver)
	if merr != nil {
		return nil, fmt.Errorf(".message.template: %w", merr)
	}

	mapper := &EventMapper{
		labelTemplate:   labelTemplate,
		messageTemplate: messageTemplate,
		labelMode:       config.Labels.Mode,
		streams:         base.NewStreamRegistry(config.Labels.PairSeparator, config.Labels.KeyValueSeparator, defs.StreamRegistryMaxSize),
	}
	if mapper.labelMode == "" {
		if labelTemplate.IsConstant() {
			mapper.labelMode = base.LabelModeStatic
		} else {
			mapper.labelMode = base.LabelModeDynamic
		}
	}
	if labelTemplate.IsConstant() {
		stream, err := mapper.streams.Get(config.Labels.Template)
		if err != nil {
			return nil, fmt.Errorf(".labels.template: %w", err)
		}
		mapper.fixedStream = stream
	}
	return mapper, nil
}

// LabelMode returns the configured or inferred label mode
func (mapper *EventMapper) LabelMode() base.LabelMode {
	return mapper.labelMode
}

// Map fills the record from the event
func (mapper *EventMapper) Map(event *base.LogEvent, record *base.LogRecord) error {
	record.Timestamp = event.Timestamp.UnixNano()
	record.Line = mapper.messageTemplate.Run(event.Fields)
	if mapper.fixedStream != nil {
		record.Stream = mapper.fixedStream
		return nil
	}
	stream, err := mapper.streams.Get(mapper.labelTemplate.Run(event.Fields))
	if err != nil {
		return err
	}
	record.Stream = stream
	return nil
}
