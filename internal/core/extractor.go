package core

import (
	"context"
	"io"
)

// TextRecoverer defines the interface for recovering plain text from an
// uploaded document of arbitrary format.
type TextRecoverer interface {
	// RecoverText reads the document and returns its best-effort plain text.
	// The `contentType` hint helps the recoverer choose the right parsing
	// strategy. An empty result is not an error at this layer; callers
	// decide what an empty body means.
	RecoverText(ctx context.Context, r io.Reader, contentType string) (string, error)
}
