package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aalghefa/ecologic-backend/internal/models"
	"github.com/aalghefa/ecologic-backend/internal/services"
)

// LedgerHandler exposes the purchase and waste ledgers. List endpoints accept
// an optional ?ingredient_id= filter.
type LedgerHandler struct {
	ledger *services.LedgerService
}

func NewLedgerHandler(ledger *services.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

type purchaseRequest struct {
	IngredientID string    `json:"ingredient_id"`
	Quantity     float64   `json:"quantity"`
	Unit         string    `json:"unit"`
	Cost         float64   `json:"cost"`
	Supplier     string    `json:"supplier"`
	PurchasedAt  time.Time `json:"purchased_at"`
}

func (h *LedgerHandler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	purchase := models.Purchase{
		IngredientID: req.IngredientID,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		Cost:         req.Cost,
		Supplier:     req.Supplier,
		PurchasedAt:  req.PurchasedAt,
	}
	created, err := h.ledger.RecordPurchase(r.Context(), &purchase)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *LedgerHandler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.ledger.ListPurchases(r.Context(), r.URL.Query().Get("ingredient_id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, purchases)
}

func (h *LedgerHandler) DeletePurchase(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.DeletePurchase(r.Context(), chi.URLParam(r, "purchaseID")); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type wasteRequest struct {
	IngredientID string    `json:"ingredient_id"`
	Quantity     float64   `json:"quantity"`
	Unit         string    `json:"unit"`
	Reason       string    `json:"reason"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func (h *LedgerHandler) CreateWasteEvent(w http.ResponseWriter, r *http.Request) {
	var req wasteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	event := models.WasteEvent{
		IngredientID: req.IngredientID,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		Reason:       req.Reason,
		OccurredAt:   req.OccurredAt,
	}
	created, err := h.ledger.RecordWaste(r.Context(), &event)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *LedgerHandler) ListWasteEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.ledger.ListWasteEvents(r.Context(), r.URL.Query().Get("ingredient_id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}

func (h *LedgerHandler) DeleteWasteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.DeleteWasteEvent(r.Context(), chi.URLParam(r, "wasteEventID")); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
