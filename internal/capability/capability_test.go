package capability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetgov/pkg/domain"
	"assetgov/pkg/platform/tx"
)

func TestTable(t *testing.T) {
	ctx := context.Background()
	alice := domain.NamedAddress("alice")
	bob := domain.NamedAddress("bob")
	resource := domain.NamedAddress("registry")

	t.Run("grant and revoke", func(t *testing.T) {
		table := NewTable()
		assert.False(t, table.HasCapability(ctx, alice, Admin(resource)))

		table.Grant(ctx, alice, Admin(resource))
		assert.True(t, table.HasCapability(ctx, alice, Admin(resource)))
		assert.False(t, table.HasCapability(ctx, alice, Owner(resource)), "roles are distinct")
		assert.False(t, table.HasCapability(ctx, bob, Admin(resource)))

		table.Revoke(ctx, alice, Admin(resource))
		assert.False(t, table.HasCapability(ctx, alice, Admin(resource)))
	})

	t.Run("holders are sorted", func(t *testing.T) {
		table := NewTable()
		table.Grant(ctx, bob, Owner(resource))
		table.Grant(ctx, alice, Owner(resource))
		holders := table.Holders(Owner(resource))
		require.Len(t, holders, 2)
		assert.True(t, string(holders[0][:]) < string(holders[1][:]))
	})

	t.Run("journal reverts grants and revocations", func(t *testing.T) {
		table := NewTable()
		table.Grant(ctx, alice, Owner(resource))

		j := tx.NewJournal()
		opCtx := tx.WithJournal(ctx, j)
		table.Grant(opCtx, bob, Owner(resource))
		table.Revoke(opCtx, alice, Owner(resource))
		table.Grant(opCtx, bob, Owner(resource))
		j.Revert()

		assert.True(t, table.HasCapability(ctx, alice, Owner(resource)))
		assert.False(t, table.HasCapability(ctx, bob, Owner(resource)))
	})
}

func TestRequire(t *testing.T) {
	ctx := context.Background()
	table := NewTable()
	alice := domain.NamedAddress("alice")
	resource := domain.NamedAddress("engine")
	table.Grant(ctx, alice, Owner(resource))

	assert.NoError(t, Require(ctx, table, alice, Owner(resource)))
	assert.ErrorIs(t, Require(ctx, table, domain.NamedAddress("mallory"), Owner(resource)), ErrMissingCapability)
	assert.ErrorIs(t, Require(ctx, table, domain.ZeroAddress, Owner(resource)), ErrMissingCapability)
}
