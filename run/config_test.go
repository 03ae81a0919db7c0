package run

import (
	"testing"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/relex/slog-loki/base"
	"github.com/relex/slog-loki/output/lokijson"
	"github.com/relex/slog-loki/testdata"
	"github.com/relex/slog-loki/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleConfig(t *testing.T) {
	config, schema, err := LoadConfigFile(testdata.GetConfigPath())
	require.NoError(t, err)
	assert.Equal(t, []string{"source", "level", "message", "host"}, schema.GetFieldNames())

	require.Len(t, config.Inputs, 2)
	assert.Equal(t, "localhost:5140", config.Inputs[0].Address)
	assert.Len(t, config.Inputs[0].Levels, 2)
	assert.Equal(t, "legacy-app", config.Inputs[1].Source)
	assert.Equal(t, 256*datasize.KB, config.Inputs[1].MaxLineSize)

	assert.Equal(t, 1000, config.Appender.BatchSize)
	assert.Equal(t, 5*time.Second, config.Appender.BatchTimeout)
	assert.Equal(t, base.OutputReuse, config.Appender.OutputStrategy)
	assert.Equal(t, 4*datasize.MB, config.Appender.ReuseBufferSize)
	assert.Equal(t, "app=$source,level=$level", config.Mapping.Labels.Template)
	assert.Equal(t, "$message", config.Mapping.Message.Template)

	encoderConfig, ok := config.Encoder.Value.(*lokijson.Config)
	require.True(t, ok)
	assert.True(t, encoderConfig.SortByStream)
	assert.True(t, config.Sender.Gzip)

	dump, err := util.MarshalYaml(config)
	require.NoError(t, err)
	assert.Contains(t, dump, "batchTimeout: 5s")
	assert.Contains(t, dump, "app=$source,level=$level")
}

func TestDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()
	assert.Equal(t, "http://localhost:3100/loki/api/v1/push", config.Sender.URL)
	assert.Equal(t, base.OutputAllocate, config.Appender.OutputStrategy)

	_, err := config.Verify()
	assert.EqualError(t, err, "inputs is empty")
}
