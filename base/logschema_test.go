package base

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewLogSchema(t *testing.T) {
	_, err1 := NewLogSchema(nil)
	assert.ErrorContains(t, err1, "no field")

	_, err2 := NewLogSchema([]string{"a", "", "c"})
	assert.ErrorContains(t, err2, "invalid 1th field")

	_, err3 := NewLogSchema([]string{"a", "b", "b"})
	assert.ErrorContains(t, err3, "duplicated 2th field 'b'")
}

func TestLogSchema(t *testing.T) {
	schema := MustNewLogSchema([]string{"a", "b"})

	_, err1 := schema.CreateFieldLocator("c")
	assert.ErrorContains(t, err1, "field 'c' is not defined in schema")

	b := schema.MustCreateFieldLocator("b")
	assert.Equal(t, "second", b.Get(LogFields{"first", "second"}))

	event := schema.NewEvent(time.Unix(1, 0))
	b.Set(event.Fields, "new")
	assert.Equal(t, LogFields{"", "new"}, event.Fields)

	provide, err2 := schema.CreateTemplateVariableResolver("a")
	assert.Nil(t, err2)
	assert.Equal(t, "first", provide([]string{"first", "second"}))

	assert.Equal(t, "[a, b]", schema.String())
}
