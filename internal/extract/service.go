package extract

import (
	"context"

	"github.com/rs/zerolog"
)

// Service wires the document pipeline: prompt -> model -> parse ->
// normalize -> dedupe, with the heuristic fallback behind the statement
// path. All work is synchronous within one upload request; there is no
// background processing and no retries.
type Service struct {
	gen Generator // nil when no model is configured
	log zerolog.Logger
}

// NewService creates the extraction service. gen may be nil: receipts
// then fail with CodeModelUnavailable and statements go straight to the
// heuristic fallback.
func NewService(gen Generator, log zerolog.Logger) *Service {
	return &Service{gen: gen, log: log}
}

// ExtractReceipt extracts a single transaction candidate from receipt
// text. Model failures are fatal here; the heuristic fallback only
// exists for the bulk statement task.
func (s *Service) ExtractReceipt(ctx context.Context, text string) (*Candidate, error) {
	raw, err := s.generate(ctx, ReceiptPrompt(text))
	if err != nil {
		return nil, err
	}

	obj, err := DecodeRecord(raw)
	if err != nil {
		return nil, err
	}

	cand, err := NormalizeRecord(obj)
	if err != nil {
		// The model was told to omit amount-less entries; getting one back
		// is a schema mismatch, not something to paper over.
		return nil, &Error{Code: CodeMalformedResponse, Message: "receipt yielded no usable transaction", Cause: err}
	}
	return cand, nil
}

// ExtractStatement extracts transaction candidates from bulk statement
// text. The bulk path tries the model first and runs the heuristic
// fallback only when the model is unavailable or produced zero usable
// candidates. A malformed model reply is fatal and never falls back.
// An empty result after both stages is a valid, if unhelpful, outcome.
func (s *Service) ExtractStatement(ctx context.Context, text string) ([]*Candidate, error) {
	cands, err := s.modelCandidates(ctx, text)
	if err != nil {
		if IsCode(err, CodeModelUnavailable) {
			s.log.Warn().Err(err).Msg("Model unavailable, scanning statement heuristically")
			return FallbackExtract(text), nil
		}
		return nil, err
	}

	if len(cands) == 0 {
		s.log.Info().Msg("Model produced no usable candidates, scanning statement heuristically")
		return FallbackExtract(text), nil
	}
	return cands, nil
}

// Advise answers a free-form finance question grounded in the user's
// aggregate summary.
func (s *Service) Advise(ctx context.Context, summary FinancialSummary, message string) (string, error) {
	return s.generate(ctx, AdvicePrompt(summary, message))
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	if s.gen == nil {
		return "", &Error{Code: CodeModelUnavailable, Message: "no model gateway configured"}
	}
	raw, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		if IsCode(err, CodeModelUnavailable) || IsCode(err, CodeMalformedResponse) {
			return "", err
		}
		// Custom Generator implementations may return plain errors.
		return "", &Error{Code: CodeModelUnavailable, Message: "generate content", Cause: err}
	}
	return raw, nil
}

func (s *Service) modelCandidates(ctx context.Context, text string) ([]*Candidate, error) {
	raw, err := s.generate(ctx, StatementPrompt(text))
	if err != nil {
		return nil, err
	}

	records, err := DecodeRecords(raw)
	if err != nil {
		return nil, err
	}

	cands := make([]*Candidate, 0, len(records))
	for i, rec := range records {
		cand, err := NormalizeRecord(rec)
		if err != nil {
			s.log.Debug().Err(err).Int("index", i).Msg("Dropping model transaction")
			continue
		}
		cands = append(cands, cand)
	}
	return Dedupe(cands), nil
}
