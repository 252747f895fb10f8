package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abenezerh/birr/internal/model"
	"github.com/abenezerh/birr/internal/service"
)

func newTestStore(t *testing.T) *SQLiteHistory {
	t.Helper()
	store, err := NewSQLiteHistory(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestAppendAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Append(ctx, model.HistoryEntry{
		Bank:          model.BankCBE,
		TransactionID: "TXN1",
		AccountNumber: "100200300",
	})
	require.NoError(t, err)

	second, err := store.Append(ctx, model.HistoryEntry{
		Bank:          model.BankCBE,
		TransactionID: "TXN2",
	})
	require.NoError(t, err)
	assert.Greater(t, second, first)

	entries, err := store.List(ctx, model.BankCBE)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Most recent first.
	assert.Equal(t, "TXN2", entries[0].TransactionID)
	assert.Equal(t, "TXN1", entries[1].TransactionID)
	assert.Equal(t, model.AttemptPending, entries[0].Status)
}

func TestListIsPerBank(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Append(ctx, model.HistoryEntry{Bank: model.BankCBE, TransactionID: "CBE1"})
	require.NoError(t, err)
	_, err = store.Append(ctx, model.HistoryEntry{Bank: model.BankTelebirr, TransactionID: "TB1"})
	require.NoError(t, err)

	entries, err := store.List(ctx, model.BankTelebirr)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "TB1", entries[0].TransactionID)
}

func TestAppendPrunesBeyondCap(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < maxEntriesPerBank+5; i++ {
		_, err := store.Append(ctx, model.HistoryEntry{
			Bank:          model.BankBOA,
			TransactionID: fmt.Sprintf("TXN%03d", i),
		})
		require.NoError(t, err)
	}
	// Another bank's log is untouched by pruning.
	_, err := store.Append(ctx, model.HistoryEntry{Bank: model.BankCBE, TransactionID: "KEEP"})
	require.NoError(t, err)

	entries, err := store.List(ctx, model.BankBOA)
	require.NoError(t, err)
	require.Len(t, entries, maxEntriesPerBank)
	assert.Equal(t, fmt.Sprintf("TXN%03d", maxEntriesPerBank+4), entries[0].TransactionID)

	other, err := store.List(ctx, model.BankCBE)
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestUpdateStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Append(ctx, model.HistoryEntry{Bank: model.BankCBE, TransactionID: "TXN1"})
	require.NoError(t, err)

	err = store.UpdateStatus(ctx, model.BankCBE, id, model.AttemptFailed, model.ErrorTimeout)
	require.NoError(t, err)

	entries, err := store.List(ctx, model.BankCBE)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.AttemptFailed, entries[0].Status)
	assert.Equal(t, model.ErrorTimeout, entries[0].ErrorKind)
}

func TestRecentValues(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, txn := range []string{"AAA", "BBB", "AAA", "CCC"} {
		_, err := store.Append(ctx, model.HistoryEntry{Bank: model.BankCBE, TransactionID: txn})
		require.NoError(t, err)
	}
	// Empty values are excluded.
	_, err := store.Append(ctx, model.HistoryEntry{Bank: model.BankCBE, AccountNumber: "100200300"})
	require.NoError(t, err)

	values, err := store.RecentValues(ctx, model.BankCBE, service.FieldTransactionID, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"CCC", "AAA", "BBB"}, values)

	accounts, err := store.RecentValues(ctx, model.BankCBE, service.FieldAccountNumber, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"100200300"}, accounts)

	_, err = store.RecentValues(ctx, model.BankCBE, "status", 10)
	assert.Error(t, err, "only known columns may be queried")
}

func TestClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Append(ctx, model.HistoryEntry{Bank: model.BankCBE, TransactionID: "TXN1"})
	require.NoError(t, err)
	_, err = store.Append(ctx, model.HistoryEntry{Bank: model.BankBOA, TransactionID: "TXN2"})
	require.NoError(t, err)

	require.NoError(t, store.Clear(ctx, model.BankCBE))

	cleared, err := store.List(ctx, model.BankCBE)
	require.NoError(t, err)
	assert.Empty(t, cleared)

	kept, err := store.List(ctx, model.BankBOA)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}
