package services

import (
	"context"
	"io"
	"math"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/aalghefa/ecologic-backend/internal/core"
	"github.com/aalghefa/ecologic-backend/internal/models"
)

type DishService struct {
	db      core.DbClient
	storage core.ObjectClient
	bucket  string
}

// NewDishService wires the dish catalog. storage may be nil when the server
// runs without object storage; image uploads then fail with
// core.ErrNoObjectStorage while everything else keeps working.
func NewDishService(db core.DbClient, storage core.ObjectClient, bucket string) *DishService {
	return &DishService{db: db, storage: storage, bucket: bucket}
}

// Create persists one confirmed dish, typically a candidate the operator
// accepted from an extraction run.
func (s *DishService) Create(ctx context.Context, dish *models.Dish) (*models.Dish, error) {
	if err := validateDish(dish); err != nil {
		return nil, err
	}
	if dish.ID == "" {
		dish.ID = uuid.NewString()
	}
	if err := s.db.CreateDish(ctx, dish); err != nil {
		return nil, err
	}
	return s.db.GetDishByID(ctx, dish.ID)
}

// BulkCreate persists a batch of confirmed dishes in one transaction.
func (s *DishService) BulkCreate(ctx context.Context, dishes []models.Dish) ([]models.Dish, error) {
	for i := range dishes {
		if err := validateDish(&dishes[i]); err != nil {
			return nil, err
		}
		if dishes[i].ID == "" {
			dishes[i].ID = uuid.NewString()
		}
	}
	if err := s.db.CreateDishes(ctx, dishes); err != nil {
		return nil, err
	}

	out := make([]models.Dish, 0, len(dishes))
	for i := range dishes {
		d, err := s.db.GetDishByID(ctx, dishes[i].ID)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

func (s *DishService) Get(ctx context.Context, id string) (*models.Dish, error) {
	return s.db.GetDishByID(ctx, id)
}

func (s *DishService) List(ctx context.Context) ([]models.Dish, error) {
	return s.db.ListDishes(ctx)
}

func (s *DishService) Update(ctx context.Context, dish *models.Dish) (*models.Dish, error) {
	if err := validateDish(dish); err != nil {
		return nil, err
	}
	if err := s.db.UpdateDish(ctx, dish); err != nil {
		return nil, err
	}
	return s.db.GetDishByID(ctx, dish.ID)
}

func (s *DishService) Delete(ctx context.Context, id string) error {
	return s.db.DeleteDish(ctx, id)
}

// UploadImage stores the dish photo in object storage and records its URL
// on the dish.
func (s *DishService) UploadImage(ctx context.Context, dishID, filename, contentType string, data io.Reader) (*models.Dish, error) {
	if s.storage == nil {
		return nil, core.ErrNoObjectStorage
	}
	if _, err := s.db.GetDishByID(ctx, dishID); err != nil {
		return nil, err
	}

	url, err := s.storage.UploadFile(ctx, s.bucket, s.objectKey(dishID, filename), data, contentType)
	if err != nil {
		return nil, err
	}
	if err := s.db.UpdateDishImageURL(ctx, dishID, url); err != nil {
		return nil, err
	}
	return s.db.GetDishByID(ctx, dishID)
}

// objectKey creates a consistent S3 key layout.
func (s *DishService) objectKey(dishID, filename string) string {
	filename = strings.TrimSpace(filename)
	filename = strings.ReplaceAll(filename, " ", "_")
	return path.Join("dishes", dishID, "images", filename)
}

func validateDish(dish *models.Dish) error {
	if dish == nil {
		return core.NewFieldError("dish", "missing body")
	}
	if strings.TrimSpace(dish.Name) == "" {
		return core.NewFieldError("name", "must not be empty")
	}
	if dish.Price < 0 || math.IsNaN(dish.Price) || math.IsInf(dish.Price, 0) {
		return core.NewFieldError("price", "must be a non-negative number")
	}
	return nil
}
