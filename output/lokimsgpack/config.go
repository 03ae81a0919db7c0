// Package lokimsgpack encodes batches in a compact msgpack layout of streams
package lokimsgpack

import (
	"github.com/relex/slog-loki/base"
	"github.com/relex/slog-loki/base/bconfig"
	"github.com/relex/slog-loki/defs"
	"github.com/relex/slog-loki/output/shared"
)

// Config defines the msgpack encoder
type Config struct {
	bconfig.Header `yaml:",inline"`
	SortByStream   bool `yaml:"sortByStream"`
}

// NewEncoder creates a BatchEncoder for msgpack
func (cfg *Config) NewEncoder(labelMode base.LabelMode) base.BatchEncoder {
	headers := shared.NewHeaderCache(defs.EncoderHeaderCacheMaxSize, encodeStreamHeader)
	return shared.NewStreamEncoder(defs.ContentTypeMsgpack, labelMode, cfg.SortByStream, func(out *shared.OutputBuffer) shared.StreamWriter {
		return &streamWriter{
			out:     out,
			headers: headers,
		}
	})
}

// VerifyConfig checks the configuration
func (cfg *Config) VerifyConfig() error {
	return nil
}
