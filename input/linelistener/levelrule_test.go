package linelistener

import (
	"testing"

	"github.com/relex/slog-loki/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelRuleYaml(t *testing.T) {
	config := Config{}
	require.NoError(t, util.UnmarshalYamlString(`
address: localhost:0
recordHead: ["20*", "[*"]
defaultLevel: INFO
levels:
  - level: ERROR
    patterns: ["*ERROR*", "*Exception*"]
  - level: WARN
    patterns: ["*WARN*"]
`, &config))
	require.NoError(t, config.VerifyConfig())

	cls := levelClassifier{rules: config.Levels, defaultLevel: config.DefaultLevel}
	assert.Equal(t, "ERROR", cls.Classify("2022-08-01 ERROR disk full"))
	assert.Equal(t, "ERROR", cls.Classify("java.lang.NullPointerException: WARN"))
	assert.Equal(t, "WARN", cls.Classify("WARN low memory"))
	assert.Equal(t, "INFO", cls.Classify("started"))

	assert.True(t, config.RecordHead.Match("2022-08-01 started"))
	assert.True(t, config.RecordHead.Match("[main] started"))
	assert.False(t, config.RecordHead.Match("  at com.example.Main"))

	exported, err := util.MarshalYaml(config.Levels[0])
	assert.NoError(t, err)
	assert.Contains(t, exported, "level: ERROR\n")
	assert.Contains(t, exported, "'*Exception*'")
}

func TestLevelRuleErrors(t *testing.T) {
	config := Config{}
	err := util.UnmarshalYamlString(`
address: localhost:0
defaultLevel: INFO
levels:
  - level: ERROR
    patterns: ["[ERROR"]
`, &config)
	assert.ErrorContains(t, err, "invalid glob patterns [[ERROR]")

	config = Config{Address: "localhost:0", DefaultLevel: "INFO", Levels: []LevelRule{{Level: "ERROR"}}}
	assert.EqualError(t, config.VerifyConfig(), ".levels[0].patterns is empty")

	config = Config{Address: "localhost:0"}
	assert.EqualError(t, config.VerifyConfig(), ".defaultLevel is empty")
}
