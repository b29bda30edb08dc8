package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/lootcrate/internal/crate"
	"github.com/cory-johannsen/lootcrate/internal/crate/ledger"
)

func TestMemory_TransferMovesBalance(t *testing.T) {
	ctx := context.Background()
	m := ledger.NewMemory()
	m.Credit("vault", 1, 5)

	require.NoError(t, m.Transfer(ctx, "vault", "alice", 1, 2))

	vault, err := m.BalanceOf(ctx, "vault", 1)
	require.NoError(t, err)
	alice, err := m.BalanceOf(ctx, "alice", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), vault)
	assert.Equal(t, int64(2), alice)
}

func TestMemory_TransferOverdraft(t *testing.T) {
	ctx := context.Background()
	m := ledger.NewMemory()
	m.Credit("vault", 1, 1)

	err := m.Transfer(ctx, "vault", "alice", 1, 2)
	require.ErrorIs(t, err, ledger.ErrInsufficientBalance)

	vault, _ := m.BalanceOf(ctx, "vault", 1)
	assert.Equal(t, int64(1), vault)
	assert.Empty(t, m.Journal())
}

func TestMemory_MintCreatesSupply(t *testing.T) {
	ctx := context.Background()
	m := ledger.NewMemory()

	require.NoError(t, m.Mint(ctx, "alice", 7, []byte("tmpl"), 3))

	alice, _ := m.BalanceOf(ctx, "alice", 7)
	assert.Equal(t, int64(3), alice)

	journal := m.Journal()
	require.Len(t, journal, 1)
	assert.Equal(t, ledger.OpMint, journal[0].Kind)
	assert.Equal(t, []byte("tmpl"), journal[0].Template)
}

func TestMemory_ApplyAtomic(t *testing.T) {
	// The second transfer overdraws, so the first must not land either.
	ctx := context.Background()
	m := ledger.NewMemory()
	m.Credit("vault", 1, 1)

	err := m.Apply(ctx, []ledger.Op{
		{Kind: ledger.OpTransfer, Holder: "vault", Recipient: "alice", Item: 1, Amount: 1},
		{Kind: ledger.OpTransfer, Holder: "vault", Recipient: "bob", Item: 1, Amount: 1},
	})
	require.ErrorIs(t, err, ledger.ErrInsufficientBalance)

	vault, _ := m.BalanceOf(ctx, "vault", 1)
	alice, _ := m.BalanceOf(ctx, "alice", 1)
	assert.Equal(t, int64(1), vault)
	assert.Zero(t, alice)
	assert.Empty(t, m.Journal())
}

func TestMemory_ApplyCountsInBatchDeductions(t *testing.T) {
	ctx := context.Background()
	m := ledger.NewMemory()
	m.Credit("vault", 1, 2)

	err := m.Apply(ctx, []ledger.Op{
		{Kind: ledger.OpTransfer, Holder: "vault", Recipient: "alice", Item: 1, Amount: 1},
		{Kind: ledger.OpTransfer, Holder: "vault", Recipient: "bob", Item: 1, Amount: 1},
	})
	require.NoError(t, err)

	vault, _ := m.BalanceOf(ctx, "vault", 1)
	assert.Zero(t, vault)
}

func TestMemory_ApplyRejectsNonPositiveAmount(t *testing.T) {
	m := ledger.NewMemory()
	err := m.Apply(context.Background(), []ledger.Op{
		{Kind: ledger.OpMint, Recipient: "alice", Item: 1, Amount: 0},
	})
	assert.Error(t, err)
}

func TestMemory_Approvals(t *testing.T) {
	ctx := context.Background()
	m := ledger.NewMemory()

	ok, err := m.IsApprovedForAll(ctx, "vault", "engine")
	require.NoError(t, err)
	assert.False(t, ok)

	m.SetApprovalForAll("vault", "engine", true)
	ok, err = m.IsApprovedForAll(ctx, "vault", "engine")
	require.NoError(t, err)
	assert.True(t, ok)

	m.SetApprovalForAll("vault", "engine", false)
	ok, _ = m.IsApprovedForAll(ctx, "vault", "engine")
	assert.False(t, ok)
}

func TestMemory_Holdings(t *testing.T) {
	m := ledger.NewMemory()
	m.Credit("alice", 1, 2)
	m.Credit("alice", 2, 1)
	m.Credit("alice", 2, -1)

	holdings := m.Holdings("alice")
	assert.Equal(t, map[crate.ItemID]int64{1: 2}, holdings)
}
