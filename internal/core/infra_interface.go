package core

import (
	"context"
	"io"

	"github.com/aalghefa/ecologic-backend/internal/models"
)

// DbClient defines all persistence operations the services need.
// It abstracts Postgres so higher layers never depend on a specific DB.
type DbClient interface {
	CreateDish(ctx context.Context, dish *models.Dish) error
	CreateDishes(ctx context.Context, dishes []models.Dish) error
	GetDishByID(ctx context.Context, id string) (*models.Dish, error)
	ListDishes(ctx context.Context) ([]models.Dish, error)
	UpdateDish(ctx context.Context, dish *models.Dish) error
	UpdateDishImageURL(ctx context.Context, id string, url string) error
	UpdateDishEmissionsTotal(ctx context.Context, id string, total float64) error
	DeleteDish(ctx context.Context, id string) error

	CreateIngredient(ctx context.Context, ing *models.Ingredient) error
	GetIngredientByID(ctx context.Context, id string) (*models.Ingredient, error)
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	UpdateIngredient(ctx context.Context, ing *models.Ingredient) error
	DeleteIngredient(ctx context.Context, id string) error

	UpsertDishIngredient(ctx context.Context, link *models.DishIngredient) error
	DeleteDishIngredient(ctx context.Context, dishID, ingredientID string) error
	ListDishIngredients(ctx context.Context, dishID string) ([]models.DishIngredientDetail, error)
	ListDishIDsByIngredient(ctx context.Context, ingredientID string) ([]string, error)

	CreatePurchase(ctx context.Context, p *models.Purchase) error
	ListPurchases(ctx context.Context, ingredientID string) ([]models.Purchase, error)
	DeletePurchase(ctx context.Context, id string) error

	CreateWasteEvent(ctx context.Context, ev *models.WasteEvent) error
	ListWasteEvents(ctx context.Context, ingredientID string) ([]models.WasteEvent, error)
	DeleteWasteEvent(ctx context.Context, id string) error

	Close() error
}

// ObjectClient defines interactions with S3 or any object storage.
// It's abstract so AWS can be swapped for MinIO, R2, etc. easily.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, bucket, key string) error
	GetFile(ctx context.Context, bucket, key string) ([]byte, error)

	GetObjectReader(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}
