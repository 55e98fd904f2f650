package services

import (
	"context"
	"fmt"
	"io"

	"github.com/aalghefa/ecologic-backend/internal/core"
	"github.com/aalghefa/ecologic-backend/internal/core/extraction_engine"
	"github.com/aalghefa/ecologic-backend/internal/models"
)

// MenuService turns uploaded menu documents into dish candidates. Nothing
// here touches storage: candidates go back to the caller, and confirmed
// dishes come back in through the dish endpoints.
type MenuService struct {
	recoverer core.TextRecoverer
}

func NewMenuService(recoverer core.TextRecoverer) *MenuService {
	return &MenuService{recoverer: recoverer}
}

// ExtractFromDocument recovers text from the uploaded document and extracts
// candidates from it. Returns core.ErrEmptyDocument when no text could be
// recovered at all (an image-only PDF, say); an empty candidate list with a
// nil error means the text just contained no recognizable menu items.
func (s *MenuService) ExtractFromDocument(ctx context.Context, r io.Reader, contentType string) ([]models.MenuCandidate, error) {
	text, err := s.recoverer.RecoverText(ctx, r, contentType)
	if err != nil {
		return nil, fmt.Errorf("recover text: %w", err)
	}
	return s.ExtractFromText(text)
}

// ExtractFromText runs normalization and candidate extraction over raw text
// the caller already has.
func (s *MenuService) ExtractFromText(text string) ([]models.MenuCandidate, error) {
	lines, err := extraction_engine.NormalizeText(text)
	if err != nil {
		return nil, err
	}
	return extraction_engine.ExtractCandidates(lines), nil
}
