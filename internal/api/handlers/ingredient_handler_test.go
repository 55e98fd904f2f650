package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalghefa/ecologic-backend/internal/models"
)

func TestIngredientHandler_CreateAndList(t *testing.T) {
	f := newFixture(t)

	var beef models.Ingredient
	rec := f.doJSON(t, http.MethodPost, "/api/ingredients", ingredientRequest{Name: "Beef", KgCO2ePerKg: floatPtr(2.0)}, &beef)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotEmpty(t, beef.ID)
	require.NotNil(t, beef.KgCO2ePerKg)
	assert.InDelta(t, 2.0, *beef.KgCO2ePerKg, 1e-9)

	rec = f.doJSON(t, http.MethodPost, "/api/ingredients", ingredientRequest{Name: "Rice"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var list []models.Ingredient
	rec = f.doJSON(t, http.MethodGet, "/api/ingredients", nil, &list)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, list, 2)
	assert.Equal(t, "Beef", list[0].Name)
	assert.Equal(t, "Rice", list[1].Name)
	assert.Nil(t, list[1].KgCO2ePerKg)
}

func TestIngredientHandler_Create_RejectsNegativeFactor(t *testing.T) {
	f := newFixture(t)

	rec := f.doJSON(t, http.MethodPost, "/api/ingredients", ingredientRequest{Name: "Beef", KgCO2ePerKg: floatPtr(-2.0)}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "kg_co2e_per_kg")
}

func TestIngredientHandler_Update_RefreshesDishTotals(t *testing.T) {
	f := newFixture(t)
	f.seedDish(t, "dish-1", "Beef Bowl")
	f.seedIngredient(t, "beef", "Beef", floatPtr(2.0))
	f.seedLink(t, "dish-1", "beef", 0.5, "kg")

	var updated models.Ingredient
	rec := f.doJSON(t, http.MethodPut, "/api/ingredients/beef", ingredientRequest{Name: "Beef", KgCO2ePerKg: floatPtr(4.0)}, &updated)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, updated.KgCO2ePerKg)
	assert.InDelta(t, 4.0, *updated.KgCO2ePerKg, 1e-9)

	var dish models.Dish
	rec = f.doJSON(t, http.MethodGet, "/api/dishes/dish-1", nil, &dish)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 2.0, dish.EmissionsTotal, 1e-9)
}

func TestIngredientHandler_Delete_RefreshesDishTotals(t *testing.T) {
	f := newFixture(t)
	f.seedDish(t, "dish-1", "Beef Bowl")
	f.seedIngredient(t, "beef", "Beef", floatPtr(2.0))
	f.seedIngredient(t, "rice", "Rice", floatPtr(1.5))
	f.seedLink(t, "dish-1", "beef", 0.5, "kg")
	f.seedLink(t, "dish-1", "rice", 1, "kg")

	rec := f.doJSON(t, http.MethodDelete, "/api/ingredients/beef", nil, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	var dish models.Dish
	rec = f.doJSON(t, http.MethodGet, "/api/dishes/dish-1", nil, &dish)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 1.5, dish.EmissionsTotal, 1e-9)

	rec = f.doJSON(t, http.MethodGet, "/api/ingredients/beef", nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIngredientHandler_Get_NotFound(t *testing.T) {
	f := newFixture(t)

	rec := f.doJSON(t, http.MethodGet, "/api/ingredients/missing", nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
