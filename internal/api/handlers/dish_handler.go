package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/aalghefa/ecologic-backend/internal/core"
	"github.com/aalghefa/ecologic-backend/internal/models"
	"github.com/aalghefa/ecologic-backend/internal/services"
)

type DishHandler struct {
	dishes         *services.DishService
	emissions      *services.EmissionsService
	maxUploadBytes int64
}

func NewDishHandler(dishes *services.DishService, emissions *services.EmissionsService, maxUploadBytes int64) *DishHandler {
	return &DishHandler{dishes: dishes, emissions: emissions, maxUploadBytes: maxUploadBytes}
}

type dishRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
}

func (req dishRequest) toModel(id string) models.Dish {
	return models.Dish{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
	}
}

func (h *DishHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dishRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	dish := req.toModel("")
	created, err := h.dishes.Create(r.Context(), &dish)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// BulkCreate persists a batch of dishes, typically the candidates an operator
// confirmed after an extraction run. The whole batch is rejected if any row
// fails validation.
func (h *DishHandler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	var reqs []dishRequest
	if err := decodeJSON(r, &reqs); err != nil {
		respondError(w, err)
		return
	}
	if len(reqs) == 0 {
		respondError(w, core.NewFieldError("body", "expected a non-empty array of dishes"))
		return
	}

	dishes := make([]models.Dish, 0, len(reqs))
	for _, req := range reqs {
		dishes = append(dishes, req.toModel(""))
	}

	created, err := h.dishes.BulkCreate(r.Context(), dishes)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *DishHandler) List(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.dishes.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dishes)
}

func (h *DishHandler) Get(w http.ResponseWriter, r *http.Request) {
	dish, err := h.dishes.Get(r.Context(), chi.URLParam(r, "dishID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dish)
}

func (h *DishHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dishRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	dish := req.toModel(chi.URLParam(r, "dishID"))
	updated, err := h.dishes.Update(r.Context(), &dish)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *DishHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.dishes.Delete(r.Context(), chi.URLParam(r, "dishID")); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// UploadImage attaches a photo to the dish via object storage.
func (h *DishHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		respondError(w, wrapBodyError(err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, core.NewFieldError("file", "an image file is required"))
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	dish, err := h.dishes.UploadImage(r.Context(), chi.URLParam(r, "dishID"), filename, contentType, file)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dish)
}

// Emissions returns the live per-ingredient breakdown for one dish.
func (h *DishHandler) Emissions(w http.ResponseWriter, r *http.Request) {
	breakdown, err := h.emissions.Breakdown(r.Context(), chi.URLParam(r, "dishID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, breakdown)
}

// ListIngredients returns the dish's ingredient links with joined names,
// quantities and factors.
func (h *DishHandler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	links, err := h.emissions.Links(r.Context(), chi.URLParam(r, "dishID"))
	if err != nil {
		respondError(w, err)
		return
	}
	if links == nil {
		links = []models.DishIngredientDetail{}
	}
	respondJSON(w, http.StatusOK, links)
}

type linkRequest struct {
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

type linkResponse struct {
	DishID         string  `json:"dish_id"`
	IngredientID   string  `json:"ingredient_id"`
	Quantity       float64 `json:"quantity,omitempty"`
	Unit           string  `json:"unit,omitempty"`
	EmissionsTotal float64 `json:"emissions_total"`
}

// SetIngredient upserts one (dish, ingredient) link and answers with the
// refreshed dish total, so clients never display a stale number.
func (h *DishHandler) SetIngredient(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	link := models.DishIngredient{
		DishID:       chi.URLParam(r, "dishID"),
		IngredientID: chi.URLParam(r, "ingredientID"),
		Quantity:     req.Quantity,
		Unit:         req.Unit,
	}
	total, err := h.emissions.SetIngredient(r.Context(), &link)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, linkResponse{
		DishID:         link.DishID,
		IngredientID:   link.IngredientID,
		Quantity:       link.Quantity,
		Unit:           link.Unit,
		EmissionsTotal: total,
	})
}

// RemoveIngredient unlinks the ingredient and answers with the refreshed
// dish total.
func (h *DishHandler) RemoveIngredient(w http.ResponseWriter, r *http.Request) {
	dishID := chi.URLParam(r, "dishID")
	ingredientID := chi.URLParam(r, "ingredientID")

	total, err := h.emissions.RemoveIngredient(r.Context(), dishID, ingredientID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, linkResponse{
		DishID:         dishID,
		IngredientID:   ingredientID,
		EmissionsTotal: total,
	})
}
