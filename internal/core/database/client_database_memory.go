package db

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/aalghefa/ecologic-backend/internal/core"
	"github.com/aalghefa/ecologic-backend/internal/models"
)

// MemoryClient is an in-memory core.DbClient with the same observable
// behavior as the Postgres client, including the cascades. It backs the
// service and handler tests and is handy for local demos without a DB.
type MemoryClient struct {
	mu sync.RWMutex

	dishes      map[string]models.Dish
	ingredients map[string]models.Ingredient
	links       map[string]map[string]models.DishIngredient // dishID -> ingredientID -> link
	purchases   []models.Purchase
	waste       []models.WasteEvent
}

var _ core.DbClient = (*MemoryClient)(nil)

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		dishes:      make(map[string]models.Dish),
		ingredients: make(map[string]models.Ingredient),
		links:       make(map[string]map[string]models.DishIngredient),
	}
}

func (c *MemoryClient) Close() error { return nil }

func (c *MemoryClient) CreateDish(ctx context.Context, dish *models.Dish) error {
	if dish == nil {
		return errors.New("nil dish")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	stampDish(dish)
	c.dishes[dish.ID] = *dish
	return nil
}

func (c *MemoryClient) CreateDishes(ctx context.Context, dishes []models.Dish) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range dishes {
		stampDish(&dishes[i])
		c.dishes[dishes[i].ID] = dishes[i]
	}
	return nil
}

func (c *MemoryClient) GetDishByID(ctx context.Context, id string) (*models.Dish, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.dishes[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &d, nil
}

func (c *MemoryClient) ListDishes(ctx context.Context) ([]models.Dish, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Dish, 0, len(c.dishes))
	for _, d := range c.dishes {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (c *MemoryClient) UpdateDish(ctx context.Context, dish *models.Dish) error {
	if dish == nil {
		return errors.New("nil dish")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	cur, ok := c.dishes[dish.ID]
	if !ok {
		return core.ErrNotFound
	}
	cur.Name = dish.Name
	cur.Description = dish.Description
	cur.Category = dish.Category
	cur.Price = dish.Price
	cur.UpdatedAt = time.Now()
	c.dishes[dish.ID] = cur
	return nil
}

func (c *MemoryClient) UpdateDishImageURL(ctx context.Context, id string, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur, ok := c.dishes[id]
	if !ok {
		return core.ErrNotFound
	}
	cur.ImageURL = url
	cur.UpdatedAt = time.Now()
	c.dishes[id] = cur
	return nil
}

func (c *MemoryClient) UpdateDishEmissionsTotal(ctx context.Context, id string, total float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur, ok := c.dishes[id]
	if !ok {
		return core.ErrNotFound
	}
	cur.EmissionsTotal = total
	cur.UpdatedAt = time.Now()
	c.dishes[id] = cur
	return nil
}

func (c *MemoryClient) DeleteDish(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.dishes[id]; !ok {
		return core.ErrNotFound
	}
	delete(c.dishes, id)
	delete(c.links, id)
	return nil
}

func (c *MemoryClient) CreateIngredient(ctx context.Context, ing *models.Ingredient) error {
	if ing == nil {
		return errors.New("nil ingredient")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if ing.CreatedAt.IsZero() {
		ing.CreatedAt = time.Now()
	}
	if ing.UpdatedAt.IsZero() {
		ing.UpdatedAt = ing.CreatedAt
	}
	c.ingredients[ing.ID] = *ing
	return nil
}

func (c *MemoryClient) GetIngredientByID(ctx context.Context, id string) (*models.Ingredient, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ing, ok := c.ingredients[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &ing, nil
}

func (c *MemoryClient) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Ingredient, 0, len(c.ingredients))
	for _, ing := range c.ingredients {
		out = append(out, ing)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (c *MemoryClient) UpdateIngredient(ctx context.Context, ing *models.Ingredient) error {
	if ing == nil {
		return errors.New("nil ingredient")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	cur, ok := c.ingredients[ing.ID]
	if !ok {
		return core.ErrNotFound
	}
	cur.Name = ing.Name
	cur.KgCO2ePerKg = ing.KgCO2ePerKg
	cur.UpdatedAt = time.Now()
	c.ingredients[ing.ID] = cur
	return nil
}

func (c *MemoryClient) DeleteIngredient(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.ingredients[id]; !ok {
		return core.ErrNotFound
	}
	delete(c.ingredients, id)
	for dishID := range c.links {
		delete(c.links[dishID], id)
	}
	kept := c.purchases[:0]
	for _, p := range c.purchases {
		if p.IngredientID != id {
			kept = append(kept, p)
		}
	}
	c.purchases = kept
	keptWaste := c.waste[:0]
	for _, ev := range c.waste {
		if ev.IngredientID != id {
			keptWaste = append(keptWaste, ev)
		}
	}
	c.waste = keptWaste
	return nil
}

func (c *MemoryClient) UpsertDishIngredient(ctx context.Context, link *models.DishIngredient) error {
	if link == nil {
		return errors.New("nil link")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	byIngredient, ok := c.links[link.DishID]
	if !ok {
		byIngredient = make(map[string]models.DishIngredient)
		c.links[link.DishID] = byIngredient
	}
	now := time.Now()
	stored := *link
	if prev, exists := byIngredient[link.IngredientID]; exists {
		stored.CreatedAt = prev.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	byIngredient[link.IngredientID] = stored
	return nil
}

func (c *MemoryClient) DeleteDishIngredient(ctx context.Context, dishID, ingredientID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	byIngredient, ok := c.links[dishID]
	if !ok {
		return core.ErrNotFound
	}
	if _, ok := byIngredient[ingredientID]; !ok {
		return core.ErrNotFound
	}
	delete(byIngredient, ingredientID)
	return nil
}

func (c *MemoryClient) ListDishIngredients(ctx context.Context, dishID string) ([]models.DishIngredientDetail, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.DishIngredientDetail
	for _, link := range c.links[dishID] {
		detail := models.DishIngredientDetail{DishIngredient: link}
		if ing, ok := c.ingredients[link.IngredientID]; ok {
			detail.IngredientName = ing.Name
			detail.KgCO2ePerKg = ing.KgCO2ePerKg
		}
		out = append(out, detail)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IngredientName < out[j].IngredientName })
	return out, nil
}

func (c *MemoryClient) ListDishIDsByIngredient(ctx context.Context, ingredientID string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []string
	for dishID, byIngredient := range c.links {
		if _, ok := byIngredient[ingredientID]; ok {
			out = append(out, dishID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (c *MemoryClient) CreatePurchase(ctx context.Context, p *models.Purchase) error {
	if p == nil {
		return errors.New("nil purchase")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	c.purchases = append(c.purchases, *p)
	return nil
}

func (c *MemoryClient) ListPurchases(ctx context.Context, ingredientID string) ([]models.Purchase, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.Purchase
	for _, p := range c.purchases {
		if ingredientID == "" || p.IngredientID == ingredientID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PurchasedAt.After(out[j].PurchasedAt) })
	return out, nil
}

func (c *MemoryClient) DeletePurchase(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, p := range c.purchases {
		if p.ID == id {
			c.purchases = append(c.purchases[:i], c.purchases[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func (c *MemoryClient) CreateWasteEvent(ctx context.Context, ev *models.WasteEvent) error {
	if ev == nil {
		return errors.New("nil waste event")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	c.waste = append(c.waste, *ev)
	return nil
}

func (c *MemoryClient) ListWasteEvents(ctx context.Context, ingredientID string) ([]models.WasteEvent, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.WasteEvent
	for _, ev := range c.waste {
		if ingredientID == "" || ev.IngredientID == ingredientID {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	return out, nil
}

func (c *MemoryClient) DeleteWasteEvent(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, ev := range c.waste {
		if ev.ID == id {
			c.waste = append(c.waste[:i], c.waste[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func stampDish(d *models.Dish) {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = d.CreatedAt
	}
}
