// Package inmemory provides an in-memory TransactionRepository. Data is
// lost on service restart - for persistence, use the BigQuery-backed
// store.
package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"cloud.google.com/go/civil"

	"github.com/dmelikhov/finbuddy/internal/extract"
	"github.com/dmelikhov/finbuddy/internal/store"
)

// Store keeps transactions in memory and is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	rows []*store.TransactionRow
}

// NewStore creates a new in-memory transaction store.
func NewStore() *Store {
	return &Store{}
}

// InsertTransactions implements the TransactionRepository interface.
func (s *Store) InsertTransactions(ctx context.Context, rows []*store.TransactionRow) error {
	for _, row := range rows {
		if row.TransactionID == "" {
			return fmt.Errorf("transaction ID is required")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range rows {
		// Copy to avoid external modifications.
		rowCopy := *row
		s.rows = append(s.rows, &rowCopy)
	}
	return nil
}

// ListTransactions implements the TransactionRepository interface.
func (s *Store) ListTransactions(ctx context.Context, limit int) ([]*store.TransactionRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*store.TransactionRow, 0, len(s.rows))
	for _, row := range s.rows {
		rowCopy := *row
		result = append(result, &rowCopy)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].TransactionDate != result[j].TransactionDate {
			return result[j].TransactionDate.Before(result[i].TransactionDate)
		}
		return result[j].CreatedTS.Before(result[i].CreatedTS)
	})

	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

// Summarize implements the TransactionRepository interface.
func (s *Store) Summarize(ctx context.Context, since time.Time) (*extract.FinancialSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := civil.DateOf(since)
	summary := &extract.FinancialSummary{
		ExpensesByCategory: make(map[string]float64),
	}

	for _, row := range s.rows {
		if row.TransactionDate.Before(cutoff) {
			continue
		}
		amount := row.AmountFloat()
		if row.Type == extract.TypeIncome {
			summary.TotalIncome += amount
		} else {
			summary.TotalExpenses += amount
			summary.ExpensesByCategory[row.Category] += amount
		}
	}

	summary.Balance = summary.TotalIncome - summary.TotalExpenses
	return summary, nil
}

// Close implements the TransactionRepository interface. No resources to
// release.
func (s *Store) Close() error {
	return nil
}

// Ensure Store implements TransactionRepository.
var _ store.TransactionRepository = (*Store)(nil)
