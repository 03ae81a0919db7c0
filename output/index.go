// Package output registers the list of all encoder implementations
package output

import (
	"github.com/relex/slog-loki/base/bconfig"
	"github.com/relex/slog-loki/output/lokijson"
	"github.com/relex/slog-loki/output/lokimsgpack"
)

func init() {
	bconfig.RegisterConfigConstructors(bconfig.EncoderConfigCreatorTable{
		"json":    func() bconfig.EncoderConfig { return &lokijson.Config{} },
		"msgpack": func() bconfig.EncoderConfig { return &lokimsgpack.Config{} },
	})
}

// Register registers all encoder config types
func Register() {
	// trigger init()
}
