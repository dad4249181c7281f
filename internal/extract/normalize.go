package extract

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// Row-level rejection reasons. These travel back to the user verbatim in
// bulk-create responses, so the wording is part of the API.
var (
	ErrInvalidAmount = errors.New("Invalid amount")
	ErrInvalidRecord = errors.New("Invalid transaction")
)

// timeNow is swapped out in tests.
var timeNow = time.Now

// dateFormats tried when parsing extracted dates, most common first.
var dateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"02/01/2006",
	"2/1/2006",
	"01/02/2006",
	"02-01-2006",
	"02.01.2006",
	"2006/01/02",
	"Jan 2 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"02/01/06",
}

// NormalizeRecord turns one loosely-typed record into a Candidate or a
// rejection reason. This is the single source of truth for "is this a
// valid transaction row": the AI path and user-submitted bulk rows both
// go through it.
//
// A candidate without a recoverable positive amount is rejected, never
// defaulted to zero. Every other field has a defined default.
func NormalizeRecord(v interface{}) (*Candidate, error) {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, ErrInvalidRecord
	}

	amount, ok := numberField(obj, "amount")
	if !ok || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return nil, ErrInvalidAmount
	}

	date := parseDate(stringField(obj, "date"))

	description := strings.TrimSpace(stringField(obj, "description"))
	if description == "" {
		description = "Transaction " + formatAmount(amount)
	}

	txType := strings.ToLower(strings.TrimSpace(stringField(obj, "type")))
	if txType != TypeIncome && txType != TypeExpense {
		txType = TypeExpense
	}

	category := strings.ToLower(strings.TrimSpace(stringField(obj, "category")))
	if !validCategories[category] {
		category = CategoryOther
	}

	return &Candidate{
		Date:        date,
		Description: description,
		Amount:      amount,
		Type:        txType,
		Category:    category,
		Merchant:    strings.TrimSpace(stringField(obj, "merchant")),
		Items:       itemsField(obj, "items"),
	}, nil
}

// parseDate tries the known formats and falls back to the current date.
// The fallback is deliberate: a candidate with a garbled date is still
// worth surfacing for review. Results are calendar dates, truncated to
// midnight UTC, so repeated normalization is stable.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s != "" && s != "null" {
		for _, format := range dateFormats {
			if t, err := time.Parse(format, s); err == nil {
				return calendarDate(t)
			}
		}
	}
	return calendarDate(timeNow())
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// stringField returns the field as a string, or "" when absent, null, or
// not string-shaped.
func stringField(m map[string]interface{}, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// numberField attempts numeric coercion on the field: JSON numbers pass
// through, numeric strings are parsed. Anything else fails coercion.
func numberField(m map[string]interface{}, key string) (float64, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// itemsField reads the optional line-item array. Entries that are not
// objects or have no description are skipped; per-item amounts are
// optional.
func itemsField(m map[string]interface{}, key string) []LineItem {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	seq, ok := v.([]interface{})
	if !ok {
		return nil
	}

	var items []LineItem
	for _, el := range seq {
		obj, ok := el.(map[string]interface{})
		if !ok {
			continue
		}
		desc := strings.TrimSpace(stringField(obj, "description"))
		if desc == "" {
			continue
		}
		item := LineItem{Description: desc}
		if amt, ok := numberField(obj, "amount"); ok {
			item.Amount = &amt
		}
		items = append(items, item)
	}
	return items
}

// Record converts a candidate back into the loose record shape. Feeding
// the result through NormalizeRecord yields the same candidate again.
func (c *Candidate) Record() map[string]interface{} {
	rec := map[string]interface{}{
		"date":        c.Date.Format("2006-01-02"),
		"description": c.Description,
		"amount":      c.Amount,
		"type":        c.Type,
		"category":    c.Category,
	}
	if c.Merchant != "" {
		rec["merchant"] = c.Merchant
	}
	if len(c.Items) > 0 {
		items := make([]interface{}, 0, len(c.Items))
		for _, it := range c.Items {
			obj := map[string]interface{}{"description": it.Description}
			if it.Amount != nil {
				obj["amount"] = *it.Amount
			}
			items = append(items, obj)
		}
		rec["items"] = items
	}
	return rec
}
