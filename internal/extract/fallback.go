package extract

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// minCurrencyAmount filters OCR noise like "$0.00" column artifacts.
	minCurrencyAmount = 0.01

	// Bare numbers outside (minBareAmount, maxBareAmount) are ignored.
	// The pass is known-noisy: dates, quantities, and phone numbers in
	// range still misfire. Inherited limitation, kept as-is.
	minBareAmount = 1
	maxBareAmount = 100000

	maxDescriptionLen = 50
)

var (
	// A currency symbol immediately followed by a decimal number. No
	// whitespace in between: "$ 4.50" is left to the bare-number pass.
	currencyAmountRe = regexp.MustCompile(`[$₹€£]([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)

	// Standalone numeric tokens for the bare-number pass.
	bareNumberRe = regexp.MustCompile(`\b[0-9]+(?:\.[0-9]{1,2})?\b`)

	punctuationRe = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// FallbackExtract scans statement text line by line for
// transaction-looking amounts. It runs only when the model path produced
// zero usable candidates: the model may be unconfigured, rate-limited, or
// defeated by scanned-PDF garbage, and the user still deserves something
// to review.
//
// Pass 1 takes currency-prefixed amounts; pass 2 (bare numbers) runs only
// when pass 1 finds nothing. One dedup key space covers the whole scan.
// The fallback has no semantic understanding, so every candidate is an
// expense in the catch-all category.
func FallbackExtract(text string) []*Candidate {
	lines := strings.Split(text, "\n")
	seen := make(map[string]bool)

	out := scanPass(lines, seen, currencyCandidates)
	if len(out) > 0 {
		return out
	}
	return scanPass(lines, seen, bareNumberCandidates)
}

// lineMatch is one amount found on a line, with the line text minus the
// matched region.
type lineMatch struct {
	amount    float64
	remainder string
}

func scanPass(lines []string, seen map[string]bool, matchLine func(string) []lineMatch) []*Candidate {
	var out []*Candidate
	for i, line := range lines {
		for _, m := range matchLine(line) {
			desc := deriveDescription(lines, i, m.remainder, m.amount)
			key := identityKey(m.amount, desc)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, &Candidate{
				Date:        calendarDate(timeNow()),
				Description: desc,
				Amount:      m.amount,
				Type:        TypeExpense,
				Category:    CategoryOther,
			})
		}
	}
	return out
}

func currencyCandidates(line string) []lineMatch {
	var out []lineMatch
	for _, loc := range currencyAmountRe.FindAllStringSubmatchIndex(line, -1) {
		amtStr := strings.ReplaceAll(line[loc[2]:loc[3]], ",", "")
		amount, err := strconv.ParseFloat(amtStr, 64)
		if err != nil || amount <= minCurrencyAmount {
			continue
		}
		out = append(out, lineMatch{
			amount:    amount,
			remainder: line[:loc[0]] + " " + line[loc[1]:],
		})
	}
	return out
}

func bareNumberCandidates(line string) []lineMatch {
	var out []lineMatch
	for _, loc := range bareNumberRe.FindAllStringIndex(line, -1) {
		amount, err := strconv.ParseFloat(line[loc[0]:loc[1]], 64)
		if err != nil || amount <= minBareAmount || amount >= maxBareAmount {
			continue
		}
		out = append(out, lineMatch{
			amount:    amount,
			remainder: line[:loc[0]] + " " + line[loc[1]:],
		})
	}
	return out
}

// deriveDescription builds a description for a matched amount: the rest
// of its own line, then the previous line, then the next line, then a
// synthesized placeholder. Punctuation is stripped and the result is
// capped at 50 characters.
func deriveDescription(lines []string, idx int, remainder string, amount float64) string {
	desc := cleanDescription(remainder)
	if desc == "" && idx > 0 {
		desc = cleanDescription(lines[idx-1])
	}
	if desc == "" && idx+1 < len(lines) {
		desc = cleanDescription(lines[idx+1])
	}
	if desc == "" {
		desc = "Transaction " + formatAmount(amount)
	}

	if runes := []rune(desc); len(runes) > maxDescriptionLen {
		desc = strings.TrimSpace(string(runes[:maxDescriptionLen]))
	}
	return desc
}

func cleanDescription(s string) string {
	s = punctuationRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
