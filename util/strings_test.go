package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringFromBytes(t *testing.T) {
	buf := []byte("hello")
	str := StringFromBytes(buf)
	buf[0] = 'H'
	assert.Equal(t, "Hello", str)
	assert.Equal(t, "", StringFromBytes(nil))
}

func TestCloneStrings(t *testing.T) {
	buf := []byte("source1ERRORfailed")
	fields := []string{StringFromBytes(buf[0:7]), StringFromBytes(buf[7:12]), "", StringFromBytes(buf[12:])}
	cloned := CloneStrings(fields)

	copy(buf, "xxxxxxxxxxxxxxxxxx")
	assert.Equal(t, []string{"xxxxxxx", "xxxxx", "", "xxxxxx"}, fields)
	assert.Equal(t, []string{"source1", "ERROR", "", "failed"}, cloned)
	assert.Empty(t, CloneStrings(nil))
}
