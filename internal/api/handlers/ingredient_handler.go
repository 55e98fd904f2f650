package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aalghefa/ecologic-backend/internal/models"
	"github.com/aalghefa/ecologic-backend/internal/services"
)

type IngredientHandler struct {
	ingredients *services.IngredientService
}

func NewIngredientHandler(ingredients *services.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredients: ingredients}
}

type ingredientRequest struct {
	Name        string   `json:"name"`
	KgCO2ePerKg *float64 `json:"kg_co2e_per_kg"`
}

func (h *IngredientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ingredientRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	ing := models.Ingredient{Name: req.Name, KgCO2ePerKg: req.KgCO2ePerKg}
	created, err := h.ingredients.Create(r.Context(), &ing)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *IngredientHandler) List(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.ingredients.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ingredients)
}

func (h *IngredientHandler) Get(w http.ResponseWriter, r *http.Request) {
	ing, err := h.ingredients.Get(r.Context(), chi.URLParam(r, "ingredientID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ing)
}

// Update writes the ingredient and triggers a recompute of every dish that
// uses it before responding, so a changed factor lands everywhere at once.
func (h *IngredientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req ingredientRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	ing := models.Ingredient{
		ID:          chi.URLParam(r, "ingredientID"),
		Name:        req.Name,
		KgCO2ePerKg: req.KgCO2ePerKg,
	}
	updated, err := h.ingredients.Update(r.Context(), &ing)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *IngredientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ingredients.Delete(r.Context(), chi.URLParam(r, "ingredientID")); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
