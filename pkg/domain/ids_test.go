package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "fieldgate/pkg/domain-errors"
)

func TestParseFieldID(t *testing.T) {
	t.Run("accepts a valid UUID", func(t *testing.T) {
		raw := uuid.NewString()
		parsed, err := ParseFieldID(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, parsed.String())
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := ParseFieldID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		_, err := ParseFieldID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects the nil UUID", func(t *testing.T) {
		_, err := ParseFieldID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestParseItemID(t *testing.T) {
	raw := uuid.NewString()
	parsed, err := ParseItemID(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, parsed.String())

	_, err = ParseItemID("")
	assert.Error(t, err)
}

func TestParseUserID(t *testing.T) {
	raw := uuid.NewString()
	parsed, err := ParseUserID(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, parsed.String())

	_, err = ParseUserID(uuid.Nil.String())
	assert.Error(t, err)
}

func TestIsZero(t *testing.T) {
	assert.True(t, FieldID{}.IsZero())
	assert.True(t, ItemID{}.IsZero())
	assert.True(t, UserID{}.IsZero())
	assert.False(t, NewFieldID().IsZero())
	assert.False(t, NewItemID().IsZero())
}
