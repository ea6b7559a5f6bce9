package account

import (
	"context"
	"testing"

	"lendpool/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountStore(t *testing.T) {
	ctx := context.Background()
	database, err := db.Open(db.SqliteInMemory())
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		t.Fatal(err)
	}

	s := New(database)
	require.NoError(t, s.Create(ctx, database, &core.Account{AccountID: "a1", OwnerID: "alice", AssetID: "x", Balance: 5}))
	require.NoError(t, s.Create(ctx, database, &core.Account{AccountID: "a2", OwnerID: "alice", AssetID: "y"}))

	t.Run("create keeps the existing account", func(t *testing.T) {
		again := &core.Account{AccountID: "a1", OwnerID: "bob", AssetID: "x"}
		require.NoError(t, s.Create(ctx, database, again))
		assert.Equal(t, "alice", again.OwnerID)
		assert.Equal(t, uint64(5), again.Balance)
	})

	t.Run("find reads uncommitted writes of the transaction", func(t *testing.T) {
		err := database.Tx(func(tx *db.DB) error {
			a, err := s.Find(ctx, tx, "a1")
			if err != nil {
				return err
			}

			a.Balance = 9
			if err := s.Update(ctx, tx, a); err != nil {
				return err
			}

			again, err := s.Find(ctx, tx, "a1")
			if err != nil {
				return err
			}

			assert.Equal(t, uint64(9), again.Balance)
			again.Balance = 11
			return s.Update(ctx, tx, again)
		})
		require.NoError(t, err)

		a, err := s.Find(ctx, database, "a1")
		require.NoError(t, err)
		assert.Equal(t, uint64(11), a.Balance)
		assert.Equal(t, int64(2), a.Version)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := s.Find(ctx, database, "a3")
		assert.True(t, store.IsErrNotFound(err))
	})

	list, err := s.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
