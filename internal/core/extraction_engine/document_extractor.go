package extraction_engine

import (
	"context"
	"fmt"
	"io"

	"code.sajari.com/docconv"

	"github.com/aalghefa/ecologic-backend/internal/core"
)

var _ core.TextRecoverer = (*DocconvRecoverer)(nil)

// DocconvRecoverer recovers plain text from uploaded documents via docconv.
// It handles PDFs, office formats and plain text; image-only documents come
// back empty rather than failing.
type DocconvRecoverer struct {
	useReadability bool
}

func NewDocconvRecoverer(useReadability bool) *DocconvRecoverer {
	return &DocconvRecoverer{useReadability: useReadability}
}

// RecoverText converts the document to plain text using the content type as
// a parsing hint. The whole body is returned in one string; menu documents
// are small (uploads are capped upstream) so there is no need to stream.
func (e *DocconvRecoverer) RecoverText(ctx context.Context, r io.Reader, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	res, err := docconv.Convert(r, contentType, e.useReadability)
	if err != nil {
		return "", fmt.Errorf("docconv convert (%s): %w", contentType, err)
	}
	return res.Body, nil
}
