package store

import (
	"context"
	"time"

	"github.com/dmelikhov/finbuddy/internal/extract"
)

// TransactionRepository persists reviewed transactions and serves the
// aggregate queries behind the dashboard and the advice prompt. The
// BigQuery implementation is the production store; the inmemory package
// provides the same contract for tests and local development.
type TransactionRepository interface {
	// InsertTransactions persists a batch of rows together.
	InsertTransactions(ctx context.Context, rows []*TransactionRow) error

	// ListTransactions returns up to limit rows, most recent first.
	ListTransactions(ctx context.Context, limit int) ([]*TransactionRow, error)

	// Summarize aggregates income, expenses, balance and per-category
	// expense totals over transactions dated on or after since.
	Summarize(ctx context.Context, since time.Time) (*extract.FinancialSummary, error)

	// Close releases underlying client resources.
	Close() error
}
