package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"www.velocidex.com/golang/vfilter/types"
)

func TestTrimSingleQuotes(t *testing.T) {
	assert.Equal(t, "/a/b", TrimSingleQuotes("'/a/b'"))
	assert.Equal(t, "/a/b", TrimSingleQuotes("/a/b"))
	assert.Equal(t, "'/a/b", TrimSingleQuotes("'/a/b"))
	assert.Equal(t, "", TrimSingleQuotes("''"))
	assert.Equal(t, "'", TrimSingleQuotes("'"))
}

func TestToString(t *testing.T) {
	var missing *string

	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "", ToString(missing))
	assert.Equal(t, "x", ToString(StringPtr("x")))
	assert.Equal(t, "42", ToString(int64(42)))
	assert.Equal(t, "", ToString(time.Time{}))
	assert.Equal(t, "2024-03-01T00:00:00Z", ToString(
		time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("AEST", 10*3600))))
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "b", FirstNonEmpty("", "b", "c"))
	assert.Equal(t, "", FirstNonEmpty())
	assert.True(t, InString([]string{"a", "b"}, "b"))
	assert.False(t, InString([]string{"a", "b"}, "c"))

	var missing *string
	assert.True(t, IsNil(nil))
	assert.True(t, IsNil(missing))
	assert.True(t, IsNil(types.Null{}))
	assert.False(t, IsNil("x"))
}
