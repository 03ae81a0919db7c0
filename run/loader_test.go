package run

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/relex/gotils/logger"
	"github.com/relex/slog-loki/defs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConf = `
anchors:
  - &errorPatterns ["*ERROR*", "*Exception*"]
schema:
  fields: [source, level, message, host]
inputs:
  - address: localhost:0
    source: app1
    recordHead: ["20*"]
    defaultLevel: INFO
    levels:
      - level: ERROR
        patterns: *errorPatterns
appender:
  name: test
  batchSize: 2
  batchTimeout: 200ms
  processingWorkers: 2
  verbose: true
  outputStrategy: reuse
  reuseBufferSize: 64KB
labels:
  template: app=$source,level=$level
message:
  template: "[$level] $message"
encoder:
  type: json
  sortByStream: true
sender:
  url: %s
  tenantId: tenant1
`

type pushedStream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string        `json:"values"`
}

type lokiCollector struct {
	lock    sync.Mutex
	tenants []string
	streams []pushedStream
}

func (c *lokiCollector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	request := struct {
		Streams []pushedStream `json:"streams"`
	}{}
	if err := json.Unmarshal(body, &request); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	c.lock.Lock()
	c.tenants = append(c.tenants, r.Header.Get("X-Scope-OrgID"))
	c.streams = append(c.streams, request.Streams...)
	c.lock.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (c *lokiCollector) lines() map[string][]string {
	c.lock.Lock()
	defer c.lock.Unlock()
	result := make(map[string][]string)
	for _, stream := range c.streams {
		key := stream.Stream["app"] + "/" + stream.Stream["level"]
		for _, value := range stream.Values {
			result[key] = append(result[key], value[1])
		}
	}
	return result
}

func TestLoader(t *testing.T) {
	collector := &lokiCollector{}
	srv := httptest.NewServer(collector)
	defer srv.Close()

	confFile := writeTestConfig(t, fmt.Sprintf(sampleConf, srv.URL+"/loki/api/v1/push"))
	ld, err := NewLoaderFromConfigFile(confFile, "TestLoader_")
	require.NoError(t, err)
	assert.Equal(t, []string{"source", "level", "message", "host"}, ld.Schema.GetFieldNames())

	app, err := ld.LaunchAppender(logger.WithField("test", t.Name()))
	require.NoError(t, err)
	inputAddrs, shutdownInputs, err := ld.LaunchInputs(app)
	require.NoError(t, err)
	require.Len(t, inputAddrs, 1)

	conn, err := net.Dial("tcp", inputAddrs[0])
	require.NoError(t, err)
	_, err = conn.Write([]byte("2022-08-01 started\n2022-08-01 ERROR failed\n  at Main\n2022-08-01 end\n"))
	assert.NoError(t, err)
	assert.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		lines := collector.lines()
		return len(lines["app1/INFO"]) == 2 && len(lines["app1/ERROR"]) == 1
	}, defs.TestReadTimeout, 20*time.Millisecond)

	shutdownInputs()
	app.Stop()

	lines := collector.lines()
	assert.ElementsMatch(t, []string{"[INFO] 2022-08-01 started", "[INFO] 2022-08-01 end"}, lines["app1/INFO"])
	assert.Equal(t, []string{"[ERROR] 2022-08-01 ERROR failed\n  at Main"}, lines["app1/ERROR"])
	assert.Contains(t, collector.tenants, "tenant1")

	dump, err := ld.MetricFactory.DumpMetrics(false)
	assert.NoError(t, err)
	assert.Contains(t, dump, `TestLoader_appender_appended_records_total{appender="test"} 3`)
	assert.Contains(t, dump, `TestLoader_appender_encoded_records_total{appender="test"} 3`)
	assert.NotContains(t, dump, `result="failed"`)
}

func TestLoaderInvalidConfig(t *testing.T) {
	confFile := writeTestConfig(t, `
inputs:
  - address: localhost:0
    defaultLevel: INFO
appender:
  batchSize: 0
encoder:
  type: json
`)
	_, err := NewLoaderFromConfigFile(confFile, "TestLoaderInvalidConfig_")
	assert.EqualError(t, err, "appender.batchSize must be positive: 0")

	confFile = writeTestConfig(t, `
inputs:
  - address: localhost:0
    defaultLevel: INFO
encoder:
  type: protobuf
`)
	_, err = NewLoaderFromConfigFile(confFile, "TestLoaderInvalidConfig_")
	assert.ErrorContains(t, err, "unsupported 'protobuf'")

	confFile = writeTestConfig(t, `
inputs: []
encoder:
  type: msgpack
`)
	_, err = NewLoaderFromConfigFile(confFile, "TestLoaderInvalidConfig_")
	assert.EqualError(t, err, "inputs is empty")
}

func writeTestConfig(t *testing.T, contents string) string {
	confFile, err := os.CreateTemp(t.TempDir(), "slog-loki-conf-*.yml")
	require.NoError(t, err)
	_, err = confFile.WriteString(contents)
	require.NoError(t, err)
	require.NoError(t, confFile.Close())
	return confFile.Name()
}
