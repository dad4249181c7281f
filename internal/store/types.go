package store

import (
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/dmelikhov/finbuddy/internal/extract"
)

// DefaultUserID identifies the single-user deployment. Multi-user support
// would thread this through from an auth layer.
const DefaultUserID = "default"

// TransactionRow is the persisted form of a reviewed candidate, mapped to
// the finance.transactions table schema.
type TransactionRow struct {
	TransactionID string `bigquery:"transaction_id"` // REQUIRED

	UserID string `bigquery:"user_id"` // NULLABLE

	TransactionDate civil.Date `bigquery:"transaction_date"` // REQUIRED
	Description     string     `bigquery:"description"`      // REQUIRED
	Amount          *big.Rat   `bigquery:"amount"`           // REQUIRED NUMERIC

	Type     string `bigquery:"type"`     // "income" or "expense"
	Category string `bigquery:"category"` // lowercase closed set

	Merchant         bigquery.NullString `bigquery:"merchant"`           // NULLABLE
	SourceDocumentID bigquery.NullString `bigquery:"source_document_id"` // NULLABLE

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}

// RowFromCandidate maps a reviewed candidate onto a persistable row.
func RowFromCandidate(c *extract.Candidate, userID, documentID string) *TransactionRow {
	row := &TransactionRow{
		TransactionID:   uuid.New().String(),
		UserID:          userID,
		TransactionDate: civil.DateOf(c.Date),
		Description:     c.Description,
		Amount:          new(big.Rat).SetFloat64(c.Amount),
		Type:            c.Type,
		Category:        c.Category,
		CreatedTS:       time.Now().UTC(),
	}
	if c.Merchant != "" {
		row.Merchant = bigquery.NullString{StringVal: c.Merchant, Valid: true}
	}
	if documentID != "" {
		row.SourceDocumentID = bigquery.NullString{StringVal: documentID, Valid: true}
	}
	return row
}

// AmountFloat returns the row amount as a float64 for aggregation and API
// responses.
func (r *TransactionRow) AmountFloat() float64 {
	if r.Amount == nil {
		return 0
	}
	f, _ := r.Amount.Float64()
	return f
}
