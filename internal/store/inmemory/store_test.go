package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmelikhov/finbuddy/internal/extract"
	"github.com/dmelikhov/finbuddy/internal/store"
)

func newRow(t *testing.T, date string, amount float64, txType, category string) *store.TransactionRow {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	return store.RowFromCandidate(&extract.Candidate{
		Date:        d,
		Description: "test " + date,
		Amount:      amount,
		Type:        txType,
		Category:    category,
	}, store.DefaultUserID, "")
}

func TestStore_InsertAndList(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	older := newRow(t, "2026-08-01", 10, extract.TypeExpense, "food")
	newer := newRow(t, "2026-08-20", 20, extract.TypeExpense, "food")

	require.NoError(t, s.InsertTransactions(ctx, []*store.TransactionRow{older, newer}))

	rows, err := s.ListTransactions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Most recent first.
	assert.Equal(t, newer.TransactionID, rows[0].TransactionID)
	assert.Equal(t, older.TransactionID, rows[1].TransactionID)
}

func TestStore_ListLimit(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	for _, day := range []string{"2026-08-01", "2026-08-02", "2026-08-03"} {
		require.NoError(t, s.InsertTransactions(ctx, []*store.TransactionRow{
			newRow(t, day, 1.5, extract.TypeExpense, "other"),
		}))
	}

	rows, err := s.ListTransactions(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestStore_InsertRequiresID(t *testing.T) {
	s := NewStore()
	row := newRow(t, "2026-08-01", 5, extract.TypeExpense, "other")
	row.TransactionID = ""

	err := s.InsertTransactions(context.Background(), []*store.TransactionRow{row})
	assert.Error(t, err)
}

func TestStore_ListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.InsertTransactions(ctx, []*store.TransactionRow{
		newRow(t, "2026-08-01", 5, extract.TypeExpense, "other"),
	}))

	rows, err := s.ListTransactions(ctx, 0)
	require.NoError(t, err)
	rows[0].Description = "mutated"

	again, err := s.ListTransactions(ctx, 0)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again[0].Description)
}

func TestStore_Summarize(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.InsertTransactions(ctx, []*store.TransactionRow{
		newRow(t, "2026-08-10", 3000, extract.TypeIncome, "other"),
		newRow(t, "2026-08-11", 400, extract.TypeExpense, "food"),
		newRow(t, "2026-08-12", 800, extract.TypeExpense, "housing"),
		newRow(t, "2026-08-13", 100, extract.TypeExpense, "food"),
		// Outside the window, must be ignored.
		newRow(t, "2020-01-01", 9999, extract.TypeExpense, "food"),
	}))

	since, err := time.Parse("2006-01-02", "2026-06-01")
	require.NoError(t, err)

	summary, err := s.Summarize(ctx, since)
	require.NoError(t, err)

	assert.InDelta(t, 3000, summary.TotalIncome, 0.001)
	assert.InDelta(t, 1300, summary.TotalExpenses, 0.001)
	assert.InDelta(t, 1700, summary.Balance, 0.001)
	assert.InDelta(t, 500, summary.ExpensesByCategory["food"], 0.001)
	assert.InDelta(t, 800, summary.ExpensesByCategory["housing"], 0.001)
}

func TestStore_SummarizeEmpty(t *testing.T) {
	summary, err := NewStore().Summarize(context.Background(), time.Now())
	require.NoError(t, err)

	assert.Zero(t, summary.TotalIncome)
	assert.Zero(t, summary.TotalExpenses)
	assert.Zero(t, summary.Balance)
	assert.Empty(t, summary.ExpensesByCategory)
}
