package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/lawyered0/clawyer/pkg/domain-errors"
)

func TestParsePartyID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParsePartyID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParsePartyID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParsePartyID(uuid.Nil.String())
		require.Error(t, err)
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParsePartyID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, PartyID(valid), id)
	})
}

func TestParseMatterID(t *testing.T) {
	t.Run("trims whitespace", func(t *testing.T) {
		id, err := ParseMatterID("  M-2024-017  ")
		require.NoError(t, err)
		assert.Equal(t, MatterID("M-2024-017"), id)
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := ParseMatterID("   ")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects path separators", func(t *testing.T) {
		_, err := ParseMatterID("matters/M1")
		require.Error(t, err)
	})
}

func TestTypeDistinction(t *testing.T) {
	partyID := PartyID(uuid.New())
	clearanceID := ClearanceID(uuid.New())

	// Distinct types; cross-assignment fails to compile.
	assert.NotEqual(t, uuid.UUID(partyID), uuid.UUID(clearanceID))
}
