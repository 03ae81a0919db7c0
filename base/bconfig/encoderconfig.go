// Package bconfig provides the polymorphic config of batch encoders, selected by the "type" property
package bconfig

import (
	"github.com/relex/slog-loki/base"
)

// BaseConfig is implemented by all the types of config selectable by ConfigHolder
type BaseConfig interface {
	// GetType returns the type name as in the "type" property
	GetType() string
}

// Header is the "type" property to be inlined in each config implementation
type Header struct {
	Type string `yaml:"type"`
}

func (header *Header) GetType() string {
	return header.Type
}

// EncoderConfig provides an interface for the configuration of BatchEncoder(s)
//
// All the implementations should support YAML unmarshalling
type EncoderConfig interface {
	BaseConfig

	// NewEncoder creates a BatchEncoder for given label mode
	NewEncoder(labelMode base.LabelMode) base.BatchEncoder

	// VerifyConfig checks the configuration
	VerifyConfig() error
}

// EncoderConfigHolder holds EncoderConfig
type EncoderConfigHolder = ConfigHolder[EncoderConfig]

// EncoderConfigCreatorTable defines the table of constructors for EncoderConfig implementations
type EncoderConfigCreatorTable = ConfigCreatorTable[EncoderConfig]
