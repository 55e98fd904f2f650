package handlers

import (
	"errors"
	"net/http"
	"path/filepath"

	"code.sajari.com/docconv"

	"github.com/aalghefa/ecologic-backend/internal/core"
	"github.com/aalghefa/ecologic-backend/internal/models"
	"github.com/aalghefa/ecologic-backend/internal/services"
)

// noCandidatesMessage is returned with an empty candidate list when a
// readable document contains nothing that looks like a priced menu item.
const noCandidatesMessage = "no menu items were detected; add dishes manually or upload a clearer menu"

type MenuHandler struct {
	menu           *services.MenuService
	maxUploadBytes int64
}

func NewMenuHandler(menu *services.MenuService, maxUploadBytes int64) *MenuHandler {
	return &MenuHandler{menu: menu, maxUploadBytes: maxUploadBytes}
}

type extractResponse struct {
	Candidates []models.MenuCandidate `json:"candidates"`
	Message    string                 `json:"message,omitempty"`
}

// Extract pulls dish candidates out of an uploaded menu document. The
// document itself is read once and discarded; nothing is persisted until the
// caller confirms candidates through the dish endpoints. Clients may send a
// multipart "file" part, or a "text" form value to skip document conversion.
func (h *MenuHandler) Extract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		respondError(w, wrapBodyError(err))
		return
	}

	if raw := r.FormValue("text"); raw != "" {
		candidates, err := h.menu.ExtractFromText(raw)
		h.respondCandidates(w, candidates, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, core.NewFieldError("file", "a menu file or a text field is required"))
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = docconv.MimeTypeByExtension(filename)
	}

	candidates, err := h.menu.ExtractFromDocument(r.Context(), file, contentType)
	h.respondCandidates(w, candidates, err)
}

func (h *MenuHandler) respondCandidates(w http.ResponseWriter, candidates []models.MenuCandidate, err error) {
	if err != nil {
		respondError(w, err)
		return
	}
	resp := extractResponse{Candidates: candidates}
	if len(candidates) == 0 {
		resp.Candidates = []models.MenuCandidate{}
		resp.Message = noCandidatesMessage
	}
	respondJSON(w, http.StatusOK, resp)
}

// wrapBodyError keeps the 413 mapping for oversized uploads while treating
// every other multipart failure as a malformed request.
func wrapBodyError(err error) error {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return err
	}
	return core.NewFieldError("body", "could not parse multipart form: "+err.Error())
}
