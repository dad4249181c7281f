package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/dmelikhov/finbuddy/internal/extract"
)

const (
	transactionsTable = "transactions"
	dateFormat        = "2006-01-02"
)

// BigQueryRepository is the production TransactionRepository backed by a
// BigQuery dataset. It holds a shared client to avoid creating a new
// connection per operation.
type BigQueryRepository struct {
	client  *bigquery.Client
	dataset string
}

// NewBigQueryRepository creates a repository for the given project and
// dataset using Application Default Credentials.
func NewBigQueryRepository(ctx context.Context, projectID, datasetID string) (*BigQueryRepository, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewBigQueryRepository: creating client: %w", err)
	}
	return &BigQueryRepository{client: client, dataset: datasetID}, nil
}

// Close closes the BigQuery client connection.
func (r *BigQueryRepository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// InsertTransactions inserts a batch of rows into the transactions table.
func (r *BigQueryRepository) InsertTransactions(ctx context.Context, rows []*TransactionRow) error {
	if len(rows) == 0 {
		return nil
	}
	inserter := r.client.Dataset(r.dataset).Table(transactionsTable).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertTransactions: inserting rows: %w", err)
	}
	return nil
}

// ListTransactions returns up to limit rows, most recent first.
func (r *BigQueryRepository) ListTransactions(ctx context.Context, limit int) ([]*TransactionRow, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT
			transaction_id,
			user_id,
			transaction_date,
			description,
			amount,
			type,
			category,
			merchant,
			source_document_id,
			created_ts
		FROM %s.%s
		ORDER BY transaction_date DESC, created_ts DESC
		LIMIT @limit
	`, r.dataset, transactionsTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "limit", Value: limit},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListTransactions: query read: %w", err)
	}

	var rows []*TransactionRow
	for {
		var row TransactionRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListTransactions: iter next: %w", err)
		}
		rows = append(rows, &row)
	}
	return rows, nil
}

// Summarize aggregates totals and per-category expenses since the given
// date.
func (r *BigQueryRepository) Summarize(ctx context.Context, since time.Time) (*extract.FinancialSummary, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT
			type,
			category,
			SUM(CAST(amount AS FLOAT64)) AS total
		FROM %s.%s
		WHERE transaction_date >= @since
		GROUP BY type, category
	`, r.dataset, transactionsTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "since", Value: since.Format(dateFormat)},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("Summarize: query read: %w", err)
	}

	summary := &extract.FinancialSummary{
		ExpensesByCategory: make(map[string]float64),
	}
	for {
		var row struct {
			Type     string               `bigquery:"type"`
			Category string               `bigquery:"category"`
			Total    bigquery.NullFloat64 `bigquery:"total"`
		}
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("Summarize: iter next: %w", err)
		}

		total := row.Total.Float64
		if row.Type == extract.TypeIncome {
			summary.TotalIncome += total
		} else {
			summary.TotalExpenses += total
			summary.ExpensesByCategory[row.Category] += total
		}
	}

	summary.Balance = summary.TotalIncome - summary.TotalExpenses
	return summary, nil
}

// Ensure BigQueryRepository implements TransactionRepository.
var _ TransactionRepository = (*BigQueryRepository)(nil)
