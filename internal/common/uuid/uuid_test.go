package uuid

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultUUID(t *testing.T) {
	gen := New()

	a := gen.NewUUID()
	b := gen.NewUUID()
	assert.NotEqual(t, a, b)

	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestDefaultUUIDOrdered(t *testing.T) {
	gen := New()

	first, err := gen.NewOrderedUUID()
	require.NoError(t, err)
	second, err := gen.NewOrderedUUID()
	require.NoError(t, err)

	parsed, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.Less(t, first, second)
}
