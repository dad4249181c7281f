package extract

import (
	"sort"
	"strconv"
	"time"
)

// Transaction types accepted on candidates.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// CategoryOther is the catch-all category assigned when the extracted
// category is missing or not part of the closed set.
const CategoryOther = "other"

// validCategories is the closed category set. Values are stored lowercase;
// input is matched case-insensitively.
var validCategories = map[string]bool{
	"food":           true,
	"transportation": true,
	"housing":        true,
	"utilities":      true,
	"entertainment":  true,
	"healthcare":     true,
	"shopping":       true,
	"education":      true,
	"other":          true,
}

// Categories returns the closed category set in sorted order, for embedding
// into model prompts.
func Categories() []string {
	out := make([]string, 0, len(validCategories))
	for c := range validCategories {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Candidate is an unconfirmed transaction extracted from an uploaded
// document, pending user review before persistence. Every candidate
// surfaced by this package has a positive Amount and a non-empty
// Description.
type Candidate struct {
	Date        time.Time  `json:"date"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount"`
	Type        string     `json:"type"`
	Category    string     `json:"category"`
	Merchant    string     `json:"merchant,omitempty"`
	Items       []LineItem `json:"items,omitempty"`
}

// LineItem is one receipt line item. Amount is nil when the model did not
// report a per-item price.
type LineItem struct {
	Description string   `json:"description"`
	Amount      *float64 `json:"amount,omitempty"`
}

// FinancialSummary holds aggregate totals over a user's recent transaction
// history. It is computed by the store and consumed here when building
// advice prompts.
type FinancialSummary struct {
	TotalIncome        float64            `json:"totalIncome"`
	TotalExpenses      float64            `json:"totalExpenses"`
	Balance            float64            `json:"balance"`
	ExpensesByCategory map[string]float64 `json:"expensesByCategory"`
}

// formatAmount renders an amount the way it appears in synthesized
// descriptions and dedup keys: shortest exact decimal form, so 45.20
// renders as "45.2".
func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
