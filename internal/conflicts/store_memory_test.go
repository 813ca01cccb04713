package conflicts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/lawyered0/clawyer/pkg/domain-errors"
)

func TestInMemoryStore_SeedAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	require.NoError(t, store.SeedEntry(ctx, SeedEntry{
		MatterID:      "M1",
		CanonicalName: "Jane Doe",
		Type:          PartyIndividual,
		Role:          RoleClient,
		Aliases:       []string{"J. Doe"},
	}))

	g, err := store.Load(ctx)
	require.NoError(t, err)

	p, ok := g.ByName("jane doe")
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", p.DisplayName)
	require.Len(t, p.Aliases, 1)
	assert.Equal(t, "j doe", p.Aliases[0].Normalized)
	require.Len(t, p.Matters, 1)
	assert.Equal(t, RoleClient, p.Matters[0].Role)
}

func TestInMemoryStore_SeedIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	entry := SeedEntry{
		MatterID: "M1", CanonicalName: "Acme Corp", Type: PartyEntity, Role: RoleClient, Aliases: []string{"Acme"},
	}
	require.NoError(t, store.SeedEntry(ctx, entry))
	require.NoError(t, store.SeedEntry(ctx, entry))

	g, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())
	p, _ := g.ByName("acme corp")
	assert.Len(t, p.Aliases, 1)
	assert.Len(t, p.Matters, 1)
}

func TestInMemoryStore_SamePartyAcrossMatters(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	require.NoError(t, store.SeedEntry(ctx, SeedEntry{
		MatterID: "M1", CanonicalName: "Acme Corp", Type: PartyEntity, Role: RoleClient,
	}))
	require.NoError(t, store.SeedEntry(ctx, SeedEntry{
		MatterID: "M2", CanonicalName: "ACME corp.", Type: PartyEntity, Role: RoleOpposing,
	}))

	g, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len(), "same normalized name must collapse to one party")
	p, _ := g.ByName("acme corp")
	assert.Len(t, p.Matters, 2)
}

func TestInMemoryStore_ResetAll(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	require.NoError(t, store.SeedEntry(ctx, SeedEntry{
		MatterID: "M1", CanonicalName: "Acme Corp", Type: PartyEntity, Role: RoleClient,
	}))
	require.NoError(t, store.ResetAll(ctx))

	g, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, g.Empty())
}

func TestInMemoryStore_SeedValidation(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	err := store.SeedEntry(ctx, SeedEntry{MatterID: "M1", CanonicalName: "  ., "})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	err = store.SeedEntry(ctx, SeedEntry{CanonicalName: "Acme"})
	require.Error(t, err)
}
