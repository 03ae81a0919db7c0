package lokijson

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/relex/slog-loki/base"
	"github.com/relex/slog-loki/output/shared"
	"github.com/stretchr/testify/assert"
)

type pushRequest struct {
	Streams []struct {
		Stream map[string]string `json:"stream"`
		Values [][2]string        `json:"values"`
	} `json:"streams"`
}

func TestEncodeDynamic(t *testing.T) {
	enc := (&Config{}).NewEncoder(base.LabelModeDynamic)
	assert.Equal(t, "application/json", enc.ContentType())

	batch := shared.NewTestBatch([]string{"l1", "l2", "l3", "l\"4\n"},
		[]*base.LogStream{shared.TestStreamA, shared.TestStreamA, shared.TestStreamB, shared.TestStreamA})
	assert.Equal(t, `{"streams":[`+
		`{"stream":{"app":"foo","level":"INFO"},"values":[["1659349840123456789","l1"],["1659349840124456789","l2"]]},`+
		`{"stream":{"app":"bar","level":"WARN"},"values":[["1659349840125456789","l3"]]},`+
		`{"stream":{"app":"foo","level":"INFO"},"values":[["1659349840126456789","l\"4\n"]]}]}`,
		string(enc.Encode(batch)))
}

func TestEncodeStatic(t *testing.T) {
	enc := (&Config{}).NewEncoder(base.LabelModeStatic)
	batch := shared.NewTestBatch([]string{"l1", "l2"}, []*base.LogStream{shared.TestStreamB, shared.TestStreamA})

	request := pushRequest{}
	assert.NoError(t, json.Unmarshal(enc.Encode(batch), &request))
	if assert.Len(t, request.Streams, 1) {
		assert.Equal(t, map[string]string{"app": "bar", "level": "WARN"}, request.Streams[0].Stream)
		assert.Equal(t, [][2]string{{"1659349840123456789", "l1"}, {"1659349840124456789", "l2"}}, request.Streams[0].Values)
	}
}

func TestEncodeEmpty(t *testing.T) {
	enc := (&Config{}).NewEncoder(base.LabelModeDynamic)
	assert.Equal(t, `{"streams":[]}`, string(enc.Encode(nil)))
}

func TestEncodeIntoIdentical(t *testing.T) {
	enc := (&Config{SortByStream: true}).NewEncoder(base.LabelModeDynamic)
	lines := make([]string, 500)
	streams := make([]*base.LogStream, len(lines))
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d: 日本語 \t \x01", i)
		streams[i] = []*base.LogStream{shared.TestStreamA, shared.TestStreamB}[i%3/2]
	}
	batch := shared.NewTestBatch(lines, streams)
	allocated := enc.Encode(batch)

	buffer := make([]byte, 2*len(allocated))
	n, err := enc.EncodeInto(batch, buffer, 0)
	assert.NoError(t, err)
	assert.Equal(t, allocated, buffer[:n])

	request := pushRequest{}
	assert.NoError(t, json.Unmarshal(allocated, &request))
	if assert.Len(t, request.Streams, 2) {
		assert.Equal(t, "bar", request.Streams[0].Stream["app"])
		assert.Len(t, request.Streams[0].Values, 166)
		assert.Len(t, request.Streams[1].Values, 334)
	}

	_, err = enc.EncodeInto(batch, buffer[:len(allocated)-1], 0)
	assert.ErrorIs(t, err, base.ErrBufferOverflow)
}
