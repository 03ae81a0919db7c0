package base

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLabels(t *testing.T) {
	labels, err := ParseLabels("app=foo, level = INFO,,expr=a=b", ",", "=")
	assert.Nil(t, err)
	assert.Equal(t, []LabelPair{{"app", "foo"}, {"level", "INFO"}, {"expr", "a=b"}}, labels)

	_, err = ParseLabels("app=foo,bar", ",", "=")
	assert.ErrorContains(t, err, "label[1] 'bar': missing '='")

	_, err = ParseLabels("=foo", ",", "=")
	assert.ErrorContains(t, err, "empty name")

	_, err = ParseLabels(" , ", ",", "=")
	assert.ErrorContains(t, err, "no label")
}

func TestStreamRegistry(t *testing.T) {
	reg := NewStreamRegistry(",", "=", 2)
	a1, err := reg.Get("app=a")
	assert.Nil(t, err)
	a2, _ := reg.Get("app=a")
	assert.Same(t, a1, a2)
	assert.Equal(t, []LabelPair{{"app", "a"}}, a1.Labels)

	b, _ := reg.Get("app=b")
	assert.NotSame(t, a1, b)

	_, err = reg.Get("app")
	assert.Error(t, err)

	// over the limit: reset and start again
	reg.Get("app=c")
	a3, _ := reg.Get("app=a")
	assert.NotSame(t, a1, a3)
	assert.Equal(t, a1.Key, a3.Key)
	a4, _ := reg.Get("app=a")
	assert.Same(t, a3, a4)
}
