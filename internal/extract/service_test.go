package extract_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmelikhov/finbuddy/internal/extract"
)

// mockGenerator is a function-field mock for the model gateway.
type mockGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
	prompts      []string
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.GenerateFunc(ctx, prompt)
}

func newService(gen extract.Generator) *extract.Service {
	return extract.NewService(gen, zerolog.Nop())
}

func TestExtractReceipt(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		gen := &mockGenerator{
			GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
				return `{"date": "2025-11-14", "description": "Coffee", "amount": 4.5, "type": "expense", "category": "food", "merchant": "Caffe Nero"}`, nil
			},
		}

		cand, err := newService(gen).ExtractReceipt(ctx, "receipt text")
		require.NoError(t, err)

		assert.Equal(t, "Coffee", cand.Description)
		assert.Equal(t, 4.5, cand.Amount)
		assert.Equal(t, "food", cand.Category)
		assert.Equal(t, "Caffe Nero", cand.Merchant)

		require.Len(t, gen.prompts, 1)
		assert.Contains(t, gen.prompts[0], "receipt text")
	})

	t.Run("model unavailable is fatal", func(t *testing.T) {
		gen := &mockGenerator{
			GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
				return "", errors.New("quota exceeded")
			},
		}

		_, err := newService(gen).ExtractReceipt(ctx, "receipt text")
		assert.True(t, extract.IsCode(err, extract.CodeModelUnavailable))
	})

	t.Run("no gateway configured", func(t *testing.T) {
		_, err := newService(nil).ExtractReceipt(ctx, "receipt text")
		assert.True(t, extract.IsCode(err, extract.CodeModelUnavailable))
	})

	t.Run("malformed reply", func(t *testing.T) {
		gen := &mockGenerator{
			GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
				return "Sorry, I cannot read this receipt.", nil
			},
		}

		_, err := newService(gen).ExtractReceipt(ctx, "receipt text")
		assert.True(t, extract.IsCode(err, extract.CodeMalformedResponse))
	})

	t.Run("amount-less reply", func(t *testing.T) {
		gen := &mockGenerator{
			GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
				return `{"description": "blurry receipt"}`, nil
			},
		}

		_, err := newService(gen).ExtractReceipt(ctx, "receipt text")
		assert.True(t, extract.IsCode(err, extract.CodeMalformedResponse))
		assert.ErrorIs(t, err, extract.ErrInvalidAmount)
	})
}

func TestExtractStatement(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path with dedup", func(t *testing.T) {
		gen := &mockGenerator{
			GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
				return `[
					{"date": "2025-11-14", "description": "Grocery Store", "amount": 45.2, "type": "expense", "category": "food"},
					{"date": "2025-11-15", "description": "Grocery Store", "amount": 45.2, "type": "expense", "category": "food"},
					{"date": "2025-11-15", "description": "Salary", "amount": 3000, "type": "income", "category": "other"}
				]`, nil
			},
		}

		cands, err := newService(gen).ExtractStatement(ctx, "statement text")
		require.NoError(t, err)
		require.Len(t, cands, 2)
		assert.Equal(t, "Grocery Store", cands[0].Description)
		assert.Equal(t, "Salary", cands[1].Description)
	})

	t.Run("invalid rows dropped, valid kept", func(t *testing.T) {
		gen := &mockGenerator{
			GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
				return `[
					{"description": "no amount"},
					{"description": "negative", "amount": -5},
					{"description": "Bus ticket", "amount": 3.5}
				]`, nil
			},
		}

		cands, err := newService(gen).ExtractStatement(ctx, "statement text")
		require.NoError(t, err)
		require.Len(t, cands, 1)
		assert.Equal(t, "Bus ticket", cands[0].Description)
	})

	t.Run("model unavailable falls back to scan", func(t *testing.T) {
		gen := &mockGenerator{
			GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
				return "", errors.New("connection refused")
			},
		}

		cands, err := newService(gen).ExtractStatement(ctx, "coffee $4.50")
		require.NoError(t, err)
		require.Len(t, cands, 1)
		assert.Equal(t, 4.5, cands[0].Amount)
	})

	t.Run("no gateway falls back to scan", func(t *testing.T) {
		cands, err := newService(nil).ExtractStatement(ctx, "coffee $4.50")
		require.NoError(t, err)
		assert.Len(t, cands, 1)
	})

	t.Run("empty model result falls back to scan", func(t *testing.T) {
		gen := &mockGenerator{
			GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
				return `[]`, nil
			},
		}

		cands, err := newService(gen).ExtractStatement(ctx, "coffee $4.50")
		require.NoError(t, err)
		require.Len(t, cands, 1)
		assert.Equal(t, "coffee", cands[0].Description)
	})

	t.Run("malformed reply is fatal, never falls back", func(t *testing.T) {
		gen := &mockGenerator{
			GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
				return `{"oops": "not an array"}`, nil
			},
		}

		_, err := newService(gen).ExtractStatement(ctx, "coffee $4.50")
		assert.True(t, extract.IsCode(err, extract.CodeMalformedResponse))
	})

	t.Run("empty both stages is a valid empty result", func(t *testing.T) {
		gen := &mockGenerator{
			GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
				return `[]`, nil
			},
		}

		cands, err := newService(gen).ExtractStatement(ctx, "nothing transactional here")
		require.NoError(t, err)
		assert.Empty(t, cands)
	})
}

func TestAdvise(t *testing.T) {
	ctx := context.Background()

	summary := extract.FinancialSummary{
		TotalIncome:   3000,
		TotalExpenses: 1200,
		Balance:       1800,
		ExpensesByCategory: map[string]float64{
			"food":    400,
			"housing": 800,
		},
	}

	t.Run("prompt carries summary and question", func(t *testing.T) {
		gen := &mockGenerator{
			GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
				return "Spend less on housing.", nil
			},
		}

		reply, err := newService(gen).Advise(ctx, summary, "Where does my money go?")
		require.NoError(t, err)
		assert.Equal(t, "Spend less on housing.", reply)

		require.Len(t, gen.prompts, 1)
		assert.Contains(t, gen.prompts[0], "Where does my money go?")
		assert.Contains(t, gen.prompts[0], "housing: 800.00")
	})

	t.Run("no gateway", func(t *testing.T) {
		_, err := newService(nil).Advise(ctx, summary, "hello")
		assert.True(t, extract.IsCode(err, extract.CodeModelUnavailable))
	})
}
