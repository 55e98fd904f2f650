package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	db "github.com/aalghefa/ecologic-backend/internal/core/database"
	"github.com/aalghefa/ecologic-backend/internal/models"
	"github.com/aalghefa/ecologic-backend/internal/services"
)

const testMaxUploadBytes = 5 << 20

// fakeStorage records the last upload and serves a deterministic URL.
type fakeStorage struct {
	bucket string
	key    string
	data   []byte
}

func (f *fakeStorage) UploadFile(_ context.Context, bucket, key string, data io.Reader, _ string) (string, error) {
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	f.bucket, f.key, f.data = bucket, key, b
	return "https://cdn.example.com/" + key, nil
}

func (f *fakeStorage) DeleteFile(context.Context, string, string) error { return nil }

func (f *fakeStorage) GetFile(context.Context, string, string) ([]byte, error) {
	return f.data, nil
}

func (f *fakeStorage) GetObjectReader(context.Context, string, string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

type fixture struct {
	store   *db.MemoryClient
	storage *fakeStorage
	router  chi.Router
}

// newFixture mounts every catalog and ledger route on an in-memory store,
// mirroring the server's route layout.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := db.NewMemoryClient()
	storage := &fakeStorage{}

	emissions := services.NewEmissionsService(store)
	dishes := services.NewDishService(store, storage, "test-bucket")
	ingredients := services.NewIngredientService(store, emissions)
	ledger := services.NewLedgerService(store)

	dh := NewDishHandler(dishes, emissions, testMaxUploadBytes)
	ih := NewIngredientHandler(ingredients)
	lh := NewLedgerHandler(ledger)

	r := chi.NewRouter()
	r.Route("/api/dishes", func(r chi.Router) {
		r.Post("/", dh.Create)
		r.Post("/bulk", dh.BulkCreate)
		r.Get("/", dh.List)
		r.Get("/{dishID}", dh.Get)
		r.Put("/{dishID}", dh.Update)
		r.Delete("/{dishID}", dh.Delete)
		r.Post("/{dishID}/image", dh.UploadImage)
		r.Get("/{dishID}/emissions", dh.Emissions)
		r.Get("/{dishID}/ingredients", dh.ListIngredients)
		r.Put("/{dishID}/ingredients/{ingredientID}", dh.SetIngredient)
		r.Delete("/{dishID}/ingredients/{ingredientID}", dh.RemoveIngredient)
	})
	r.Route("/api/ingredients", func(r chi.Router) {
		r.Post("/", ih.Create)
		r.Get("/", ih.List)
		r.Get("/{ingredientID}", ih.Get)
		r.Put("/{ingredientID}", ih.Update)
		r.Delete("/{ingredientID}", ih.Delete)
	})
	r.Route("/api/purchases", func(r chi.Router) {
		r.Post("/", lh.CreatePurchase)
		r.Get("/", lh.ListPurchases)
		r.Delete("/{purchaseID}", lh.DeletePurchase)
	})
	r.Route("/api/waste-events", func(r chi.Router) {
		r.Post("/", lh.CreateWasteEvent)
		r.Get("/", lh.ListWasteEvents)
		r.Delete("/{wasteEventID}", lh.DeleteWasteEvent)
	})

	return &fixture{store: store, storage: storage, router: r}
}

// doJSON performs a request with an optional JSON body and decodes the JSON
// response into out when out is non-nil.
func (f *fixture) doJSON(t *testing.T, method, target string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if out != nil && rec.Code < http.StatusMultipleChoices {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
	}
	return rec
}

func (f *fixture) seedDish(t *testing.T, id, name string) {
	t.Helper()
	require.NoError(t, f.store.CreateDish(context.Background(), &models.Dish{ID: id, Name: name, Price: 10}))
}

func (f *fixture) seedIngredient(t *testing.T, id, name string, factor *float64) {
	t.Helper()
	require.NoError(t, f.store.CreateIngredient(context.Background(), &models.Ingredient{ID: id, Name: name, KgCO2ePerKg: factor}))
}

func (f *fixture) seedLink(t *testing.T, dishID, ingredientID string, quantity float64, unit string) {
	t.Helper()
	require.NoError(t, f.store.UpsertDishIngredient(context.Background(), &models.DishIngredient{
		DishID:       dishID,
		IngredientID: ingredientID,
		Quantity:     quantity,
		Unit:         unit,
	}))
}

func floatPtr(v float64) *float64 { return &v }

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}
