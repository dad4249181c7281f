package extract

// identityKey is the identity of a candidate within one extraction
// batch: amount plus description. It is intentionally
// coarse: two identical $5 coffees on different days collapse into one.
// That is an accepted limitation, not a bug to silently fix. The key is
// never persisted.
func identityKey(amount float64, description string) string {
	return formatAmount(amount) + "-" + description
}

// Dedupe removes duplicate candidates, preserving first-seen order. Both
// the model-output path and the heuristic fallback use the same identity
// rule.
func Dedupe(cands []*Candidate) []*Candidate {
	seen := make(map[string]bool, len(cands))
	out := make([]*Candidate, 0, len(cands))
	for _, c := range cands {
		key := identityKey(c.Amount, c.Description)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
