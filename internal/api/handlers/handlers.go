package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dmelikhov/finbuddy/internal/api/middleware"
	"github.com/dmelikhov/finbuddy/internal/archive"
	"github.com/dmelikhov/finbuddy/internal/extract"
)

// maxUploadBytes is the size ceiling for uploaded documents. The request
// body is hard-capped at this size before any extraction work starts;
// oversized uploads are rejected, never truncated.
const maxUploadBytes = 10 << 20 // 10 MiB

// ExtractionsHandler handles document upload and extraction endpoints.
type ExtractionsHandler struct {
	svc *extract.Service
	arc *archive.Archiver
	log zerolog.Logger
}

// NewExtractionsHandler creates a new extractions handler.
func NewExtractionsHandler(svc *extract.Service, arc *archive.Archiver, log zerolog.Logger) *ExtractionsHandler {
	return &ExtractionsHandler{
		svc: svc,
		arc: arc,
		log: log,
	}
}

// ExtractReceipt handles POST /api/receipts/extract: one image or PDF in,
// one transaction candidate out.
func (h *ExtractionsHandler) ExtractReceipt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	up, cleanup, err := saveUpload(w, r)
	if err != nil {
		writeUploadError(w, err)
		return
	}
	defer cleanup()

	text, err := extract.ExtractText(up.path, up.contentType)
	if err != nil {
		h.log.Warn().Err(err).Str("filename", up.filename).Msg("Text extraction failed")
		middleware.WriteError(w, http.StatusUnprocessableEntity, "Could not read any text from the uploaded file")
		return
	}

	cand, err := h.svc.ExtractReceipt(ctx, text)
	if err != nil {
		h.writeExtractionError(w, err)
		return
	}

	h.archiveUpload(ctx, up)

	middleware.WriteJSON(w, http.StatusOK, cand)
}

// ExtractStatement handles POST /api/statements/extract: one PDF
// statement in, zero or more transaction candidates out. An empty list is
// a valid result, not an error.
func (h *ExtractionsHandler) ExtractStatement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	up, cleanup, err := saveUpload(w, r)
	if err != nil {
		writeUploadError(w, err)
		return
	}
	defer cleanup()

	if !up.isPDF() {
		middleware.WriteError(w, http.StatusBadRequest, "A PDF statement is required")
		return
	}

	text, err := extract.ExtractText(up.path, up.contentType)
	if err != nil {
		h.log.Warn().Err(err).Str("filename", up.filename).Msg("Text extraction failed")
		middleware.WriteError(w, http.StatusUnprocessableEntity, "Could not read any text from the uploaded file")
		return
	}

	cands, err := h.svc.ExtractStatement(ctx, text)
	if err != nil {
		h.writeExtractionError(w, err)
		return
	}
	if cands == nil {
		cands = []*extract.Candidate{}
	}

	h.archiveUpload(ctx, up)

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": cands,
	})
}

// writeExtractionError maps pipeline failures onto user-facing responses.
func (h *ExtractionsHandler) writeExtractionError(w http.ResponseWriter, err error) {
	switch {
	case extract.IsCode(err, extract.CodeModelUnavailable):
		h.log.Error().Err(err).Msg("Model unavailable")
		middleware.WriteError(w, http.StatusServiceUnavailable, "AI extraction is currently unavailable")
	case extract.IsCode(err, extract.CodeMalformedResponse):
		h.log.Error().Err(err).Msg("Malformed model response")
		middleware.WriteError(w, http.StatusBadGateway, "The AI response could not be understood")
	default:
		h.log.Error().Err(err).Msg("Extraction failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Extraction failed")
	}
}

// archiveUpload stores the original file for provenance. Best-effort:
// failures are logged, never surfaced to the user.
func (h *ExtractionsHandler) archiveUpload(ctx context.Context, up *upload) {
	if !h.arc.Enabled() {
		return
	}

	data, err := os.ReadFile(up.path)
	if err != nil {
		h.log.Warn().Err(err).Str("filename", up.filename).Msg("Could not re-read upload for archival")
		return
	}

	uri, err := h.arc.Store(ctx, archive.ObjectName(up.filename), up.contentType, data)
	if err != nil {
		h.log.Warn().Err(err).Str("filename", up.filename).Msg("Receipt archival failed")
		return
	}
	h.log.Info().Str("gcs_uri", uri).Str("filename", up.filename).Msg("Upload archived")
}

// upload describes one file saved from a multipart request.
type upload struct {
	path        string
	filename    string
	contentType string
}

func (u *upload) isPDF() bool {
	return u.contentType == "application/pdf" ||
		strings.HasSuffix(strings.ToLower(u.filename), ".pdf")
}

// writeUploadError maps saveUpload failures onto user-facing responses.
func writeUploadError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		middleware.WriteError(w, http.StatusRequestEntityTooLarge, "Uploaded file is too large")
		return
	}
	middleware.WriteError(w, http.StatusBadRequest, "A file upload is required")
}

// saveUpload writes the request's "file" part to a uniquely named temp
// file. The body is capped at maxUploadBytes: ParseMultipartForm's
// maxMemory argument only bounds the in-memory portion and spills the
// rest to disk, so the reject has to happen on the body reader itself.
// The returned cleanup deletes the temp file exactly once and must run
// on every exit path, including panics unwinding through the handler.
func saveUpload(w http.ResponseWriter, r *http.Request) (*upload, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, nil, err
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "finbuddy-upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = os.Remove(tmp.Name()) }

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		cleanup()
		return nil, nil, err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return nil, nil, err
	}

	return &upload{
		path:        tmp.Name(),
		filename:    filepath.Base(header.Filename),
		contentType: header.Header.Get("Content-Type"),
	}, cleanup, nil
}
