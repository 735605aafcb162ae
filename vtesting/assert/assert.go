// Thin wrappers around testify so tests import a single assert
// package.
package assert

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestingT = assert.TestingT

var (
	Equal          = assert.Equal
	NotEqual       = assert.NotEqual
	True           = assert.True
	False          = assert.False
	Nil            = assert.Nil
	NotNil         = assert.NotNil
	Empty          = assert.Empty
	Len            = assert.Len
	Contains       = assert.Contains
	NotContains    = assert.NotContains
	Error          = assert.Error
	ErrorIs        = assert.ErrorIs
	Regexp         = assert.Regexp
	WithinDuration = assert.WithinDuration

	// Abort the test on failure.
	NoError = require.NoError
)
