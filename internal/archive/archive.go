// Package archive stores uploaded receipt and statement files in a GCS
// bucket for provenance. Archival is best-effort: extraction never fails
// because the archive write did.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// Archiver writes uploaded documents to a GCS bucket. It assumes
// Application Default Credentials are configured.
type Archiver struct {
	bucket string
}

// New creates an archiver for the given bucket. An empty bucket name
// disables archival.
func New(bucket string) *Archiver {
	return &Archiver{bucket: bucket}
}

// Enabled reports whether a bucket is configured.
func (a *Archiver) Enabled() bool {
	return a != nil && a.bucket != ""
}

// ObjectName builds a unique object name for an uploaded file, grouped by
// upload date.
func ObjectName(filename string) string {
	return path.Join("uploads", time.Now().Format("2006/01/02"), uuid.New().String()+"-"+filename)
}

// Store uploads the document bytes under the given object name and
// returns the resulting gs:// URI.
func (a *Archiver) Store(ctx context.Context, objectName, contentType string, data []byte) (string, error) {
	if !a.Enabled() {
		return "", fmt.Errorf("archive: no bucket configured")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("archive: create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(a.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("archive: copy to GCS writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("archive: finalize upload: %w", err)
	}

	return fmt.Sprintf("gs://%s/%s", a.bucket, objectName), nil
}
