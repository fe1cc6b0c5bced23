package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/treasury-engine/treasury"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err, "failed to open in-memory store")
	t.Cleanup(func() { store.Close() })
	return store
}

func testAccount() treasury.Account {
	return treasury.Account{
		ID:               "acc-1",
		Name:             "Main Operating Account",
		CurrentBalance:   treasury.MustMoney("1234.56"),
		AdvanceCeiling:   treasury.MustMoney("5000"),
		OverdraftCeiling: treasury.MustMoney("2000"),
	}
}

func TestStore_AccountRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAccount(ctx, testAccount()))

	got, err := store.Account(ctx, "acc-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, treasury.AccountID("acc-1"), got.ID)
	assert.Equal(t, "Main Operating Account", got.Name)
	assert.True(t, got.CurrentBalance.Equal(treasury.MustMoney("1234.56")), "balance survives as exact decimal text")
	assert.True(t, got.AdvanceCeiling.Equal(treasury.MustMoney("5000")))
	assert.True(t, got.OverdraftCeiling.Equal(treasury.MustMoney("2000")))
}

func TestStore_Account_MissingIsNilNil(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Account(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got, "a missing account is not an error at the store layer")
}

func TestStore_Accounts_OrderedByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []treasury.AccountID{"acc-c", "acc-a", "acc-b"} {
		acc := testAccount()
		acc.ID = id
		require.NoError(t, store.SaveAccount(ctx, acc))
	}

	accounts, err := store.Accounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, treasury.AccountID("acc-a"), accounts[0].ID)
	assert.Equal(t, treasury.AccountID("acc-b"), accounts[1].ID)
	assert.Equal(t, treasury.AccountID("acc-c"), accounts[2].ID)
}

func TestStore_ReceivableRoundTrip_AdvanceFields(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveAccount(ctx, testAccount()))

	draw := treasury.Date(2026, time.March, 5)
	reversal := treasury.Date(2026, time.March, 20)
	rec := treasury.Receivable{
		ID:                      "r-1",
		AccountID:               "acc-1",
		CounterpartyName:        "Alfa Retail",
		InvoiceAmount:           treasury.MustMoney("1000"),
		DueDate:                 treasury.Date(2026, time.March, 25),
		AdvanceAmount:           treasury.MustMoney("300"),
		AdvanceDrawDate:         &draw,
		AdvanceReversalDate:     &reversal,
		AdvanceFoldedAtDraw:     true,
		AdvanceFoldedAtReversal: false,
	}
	require.NoError(t, store.SaveReceivable(ctx, rec))

	recs, err := store.Receivables(ctx, "acc-1")
	require.NoError(t, err)
	require.Len(t, recs, 1)

	got := recs[0]
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.CounterpartyName, got.CounterpartyName)
	assert.True(t, got.InvoiceAmount.Equal(rec.InvoiceAmount))
	assert.True(t, got.AdvanceAmount.Equal(rec.AdvanceAmount))
	assert.True(t, got.DueDate.Equal(rec.DueDate))
	require.NotNil(t, got.AdvanceDrawDate)
	assert.True(t, got.AdvanceDrawDate.Equal(draw))
	require.NotNil(t, got.AdvanceReversalDate)
	assert.True(t, got.AdvanceReversalDate.Equal(reversal))
	assert.True(t, got.AdvanceFoldedAtDraw)
	assert.False(t, got.AdvanceFoldedAtReversal)
	assert.False(t, got.Settled)
	assert.Nil(t, got.SettledDate)
}

func TestStore_ReceivableRoundTrip_NullDates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveAccount(ctx, testAccount()))

	rec := treasury.Receivable{
		ID:               "r-plain",
		AccountID:        "acc-1",
		CounterpartyName: "Beta Logistics",
		InvoiceAmount:    treasury.MustMoney("500"),
		DueDate:          treasury.Date(2026, time.April, 1),
		AdvanceAmount:    treasury.MustMoney("0"),
	}
	require.NoError(t, store.SaveReceivable(ctx, rec))

	recs, err := store.Receivables(ctx, "acc-1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Nil(t, recs[0].AdvanceDrawDate)
	assert.Nil(t, recs[0].AdvanceReversalDate)
	assert.Nil(t, recs[0].SettledDate)
	assert.False(t, recs[0].HasAdvance())
}

func TestStore_PayableRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveAccount(ctx, testAccount()))

	settled := treasury.Date(2026, time.February, 10)
	pay := treasury.Payable{
		ID:               "p-1",
		AccountID:        "acc-1",
		CounterpartyName: "Zeta Suppliers",
		Amount:           treasury.MustMoney("250.75"),
		DueDate:          treasury.Date(2026, time.March, 18),
		Settled:          true,
		SettledDate:      &settled,
	}
	require.NoError(t, store.SavePayable(ctx, pay))

	pays, err := store.Payables(ctx, "acc-1")
	require.NoError(t, err)
	require.Len(t, pays, 1)
	assert.True(t, pays[0].Amount.Equal(pay.Amount))
	assert.True(t, pays[0].Settled)
	require.NotNil(t, pays[0].SettledDate)
	assert.True(t, pays[0].SettledDate.Equal(settled))
}

func TestStore_SaveAccount_Upsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	acc := testAccount()
	require.NoError(t, store.SaveAccount(ctx, acc))

	acc.CurrentBalance = treasury.MustMoney("99")
	require.NoError(t, store.SaveAccount(ctx, acc))

	got, err := store.Account(ctx, acc.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.CurrentBalance.Equal(treasury.MustMoney("99")))

	accounts, err := store.Accounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1, "replace must not duplicate the row")
}

func TestStore_RecordsScopedToAccount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []treasury.AccountID{"acc-1", "acc-2"} {
		acc := testAccount()
		acc.ID = id
		require.NoError(t, store.SaveAccount(ctx, acc))
	}
	require.NoError(t, store.SaveReceivable(ctx, treasury.Receivable{
		ID: "r-1", AccountID: "acc-1", CounterpartyName: "Alfa",
		InvoiceAmount: treasury.MustMoney("100"), DueDate: treasury.Date(2026, time.March, 1),
		AdvanceAmount: treasury.MustMoney("0"),
	}))

	recs, err := store.Receivables(ctx, "acc-2")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestStore_Reset_DropsEverything(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAccount(ctx, testAccount()))
	require.NoError(t, store.SavePayable(ctx, treasury.Payable{
		ID: "p-1", AccountID: "acc-1", CounterpartyName: "Zeta",
		Amount: treasury.MustMoney("10"), DueDate: treasury.Date(2026, time.March, 1),
	}))

	require.NoError(t, store.Reset(ctx))

	accounts, err := store.Accounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	pays, err := store.Payables(ctx, "acc-1")
	require.NoError(t, err)
	assert.Empty(t, pays)
}
