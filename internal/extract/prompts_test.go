package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReceiptPrompt(t *testing.T) {
	p := ReceiptPrompt("TESCO STORES\nTOTAL 12.40")

	assert.Contains(t, p, "TESCO STORES")
	assert.Contains(t, p, "STRICT JSON")
	assert.Contains(t, p, "single JSON object")
	for _, c := range Categories() {
		assert.Contains(t, p, c)
	}

	// Deterministic: same input, same prompt.
	assert.Equal(t, p, ReceiptPrompt("TESCO STORES\nTOTAL 12.40"))
}

func TestStatementPrompt(t *testing.T) {
	p := StatementPrompt("14/11 GROCERY  45.20")

	assert.Contains(t, p, "14/11 GROCERY  45.20")
	assert.Contains(t, p, "JSON array")
	assert.Contains(t, p, "OMIT")
	assert.Contains(t, p, "ONCE")
	assert.NotContains(t, p, "TESCO")
}

func TestAdvicePrompt(t *testing.T) {
	summary := FinancialSummary{
		TotalIncome:   3000,
		TotalExpenses: 1200,
		Balance:       1800,
		ExpensesByCategory: map[string]float64{
			"housing": 800,
			"food":    400,
		},
	}

	p := AdvicePrompt(summary, "Can I afford a holiday?")

	assert.Contains(t, p, "Total income: 3000.00")
	assert.Contains(t, p, "Total expenses: 1200.00")
	assert.Contains(t, p, "Balance: 1800.00")
	assert.Contains(t, p, "Can I afford a holiday?")

	// Category order is sorted, so the prompt is stable across runs.
	assert.Equal(t, p, AdvicePrompt(summary, "Can I afford a holiday?"))

	food := strings.Index(p, "food: 400.00")
	housing := strings.Index(p, "housing: 800.00")
	assert.True(t, food >= 0 && housing >= 0 && food < housing)
}
