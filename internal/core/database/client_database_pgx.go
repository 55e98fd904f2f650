package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/aalghefa/ecologic-backend/internal/config"
	"github.com/aalghefa/ecologic-backend/internal/core"
	"github.com/aalghefa/ecologic-backend/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (core.DbClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Sensible pool settings for an API service; adjust as needed.
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	// Ensure bootstrap once
	if err := EnsureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Implementing the db interface for dishes

func (c *DatabaseClient) CreateDish(ctx context.Context, dish *models.Dish) error {
	if dish == nil {
		return errors.New("nil dish")
	}
	const q = `
		INSERT INTO dishes (id, name, description, category, price, image_url, emissions_total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, now()), COALESCE($9, now()))
	`
	_, err := c.db.ExecContext(ctx, q,
		dish.ID, dish.Name, dish.Description, dish.Category, dish.Price, dish.ImageURL, dish.EmissionsTotal,
		nullableTime(dish.CreatedAt), nullableTime(dish.UpdatedAt))
	return err
}

// CreateDishes inserts all dishes in a single transaction, so a bulk
// confirmation either lands completely or not at all.
func (c *DatabaseClient) CreateDishes(ctx context.Context, dishes []models.Dish) error {
	if len(dishes) == 0 {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO dishes (id, name, description, category, price, image_url, emissions_total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, now()), COALESCE($9, now()))
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i := range dishes {
		d := &dishes[i]
		if _, err := stmt.ExecContext(ctx,
			d.ID, d.Name, d.Description, d.Category, d.Price, d.ImageURL, d.EmissionsTotal,
			nullableTime(d.CreatedAt), nullableTime(d.UpdatedAt),
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (c *DatabaseClient) GetDishByID(ctx context.Context, id string) (*models.Dish, error) {
	const q = `
		SELECT id, name, description, category, price, image_url, emissions_total, created_at, updated_at
		FROM dishes
		WHERE id = $1
	`
	var d models.Dish
	err := c.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.Name, &d.Description, &d.Category, &d.Price, &d.ImageURL, &d.EmissionsTotal, &d.CreatedAt, &d.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *DatabaseClient) ListDishes(ctx context.Context) ([]models.Dish, error) {
	const q = `
		SELECT id, name, description, category, price, image_url, emissions_total, created_at, updated_at
		FROM dishes
		ORDER BY created_at DESC
	`
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Dish
	for rows.Next() {
		var d models.Dish
		if err := rows.Scan(
			&d.ID, &d.Name, &d.Description, &d.Category, &d.Price, &d.ImageURL, &d.EmissionsTotal, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) UpdateDish(ctx context.Context, dish *models.Dish) error {
	if dish == nil {
		return errors.New("nil dish")
	}
	const q = `
		UPDATE dishes
		SET name = $2, description = $3, category = $4, price = $5, updated_at = now()
		WHERE id = $1
	`
	res, err := c.db.ExecContext(ctx, q, dish.ID, dish.Name, dish.Description, dish.Category, dish.Price)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (c *DatabaseClient) UpdateDishImageURL(ctx context.Context, id string, url string) error {
	const q = `
		UPDATE dishes
		SET image_url = $2, updated_at = now()
		WHERE id = $1
	`
	res, err := c.db.ExecContext(ctx, q, id, url)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (c *DatabaseClient) UpdateDishEmissionsTotal(ctx context.Context, id string, total float64) error {
	const q = `
		UPDATE dishes
		SET emissions_total = $2, updated_at = now()
		WHERE id = $1
	`
	res, err := c.db.ExecContext(ctx, q, id, total)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (c *DatabaseClient) DeleteDish(ctx context.Context, id string) error {
	const q = `DELETE FROM dishes WHERE id = $1`
	res, err := c.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// Implementing the db interface for ingredients

func (c *DatabaseClient) CreateIngredient(ctx context.Context, ing *models.Ingredient) error {
	if ing == nil {
		return errors.New("nil ingredient")
	}
	const q = `
		INSERT INTO ingredients (id, name, kg_co2e_per_kg, created_at, updated_at)
		VALUES ($1, $2, $3, COALESCE($4, now()), COALESCE($5, now()))
	`
	_, err := c.db.ExecContext(ctx, q,
		ing.ID, ing.Name, ing.KgCO2ePerKg, nullableTime(ing.CreatedAt), nullableTime(ing.UpdatedAt))
	return err
}

func (c *DatabaseClient) GetIngredientByID(ctx context.Context, id string) (*models.Ingredient, error) {
	const q = `
		SELECT id, name, kg_co2e_per_kg, created_at, updated_at
		FROM ingredients
		WHERE id = $1
	`
	var ing models.Ingredient
	err := c.db.QueryRowContext(ctx, q, id).Scan(
		&ing.ID, &ing.Name, &ing.KgCO2ePerKg, &ing.CreatedAt, &ing.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ing, nil
}

func (c *DatabaseClient) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	const q = `
		SELECT id, name, kg_co2e_per_kg, created_at, updated_at
		FROM ingredients
		ORDER BY name ASC
	`
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Ingredient
	for rows.Next() {
		var ing models.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.KgCO2ePerKg, &ing.CreatedAt, &ing.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) UpdateIngredient(ctx context.Context, ing *models.Ingredient) error {
	if ing == nil {
		return errors.New("nil ingredient")
	}
	const q = `
		UPDATE ingredients
		SET name = $2, kg_co2e_per_kg = $3, updated_at = now()
		WHERE id = $1
	`
	res, err := c.db.ExecContext(ctx, q, ing.ID, ing.Name, ing.KgCO2ePerKg)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (c *DatabaseClient) DeleteIngredient(ctx context.Context, id string) error {
	const q = `DELETE FROM ingredients WHERE id = $1`
	res, err := c.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// Implementing the db interface for dish-ingredient links

// UpsertDishIngredient writes the one link per (dish, ingredient) pair,
// overwriting quantity and unit if the pair already exists.
func (c *DatabaseClient) UpsertDishIngredient(ctx context.Context, link *models.DishIngredient) error {
	if link == nil {
		return errors.New("nil link")
	}
	const q = `
		INSERT INTO dish_ingredients (dish_id, ingredient_id, quantity, unit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (dish_id, ingredient_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, unit = EXCLUDED.unit, updated_at = now()
	`
	_, err := c.db.ExecContext(ctx, q, link.DishID, link.IngredientID, link.Quantity, link.Unit)
	return err
}

func (c *DatabaseClient) DeleteDishIngredient(ctx context.Context, dishID, ingredientID string) error {
	const q = `DELETE FROM dish_ingredients WHERE dish_id = $1 AND ingredient_id = $2`
	res, err := c.db.ExecContext(ctx, q, dishID, ingredientID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (c *DatabaseClient) ListDishIngredients(ctx context.Context, dishID string) ([]models.DishIngredientDetail, error) {
	const q = `
		SELECT di.dish_id, di.ingredient_id, di.quantity, di.unit, di.created_at, di.updated_at,
		       i.name, i.kg_co2e_per_kg
		FROM dish_ingredients di
		JOIN ingredients i ON i.id = di.ingredient_id
		WHERE di.dish_id = $1
		ORDER BY i.name ASC
	`
	rows, err := c.db.QueryContext(ctx, q, dishID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DishIngredientDetail
	for rows.Next() {
		var d models.DishIngredientDetail
		if err := rows.Scan(
			&d.DishID, &d.IngredientID, &d.Quantity, &d.Unit, &d.CreatedAt, &d.UpdatedAt,
			&d.IngredientName, &d.KgCO2ePerKg,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) ListDishIDsByIngredient(ctx context.Context, ingredientID string) ([]string, error) {
	const q = `SELECT dish_id FROM dish_ingredients WHERE ingredient_id = $1`
	rows, err := c.db.QueryContext(ctx, q, ingredientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Implementing the db interface for the ledgers

func (c *DatabaseClient) CreatePurchase(ctx context.Context, p *models.Purchase) error {
	if p == nil {
		return errors.New("nil purchase")
	}
	const q = `
		INSERT INTO purchases (id, ingredient_id, quantity, unit, cost, supplier, purchased_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, now()))
	`
	_, err := c.db.ExecContext(ctx, q,
		p.ID, p.IngredientID, p.Quantity, p.Unit, p.Cost, p.Supplier, p.PurchasedAt, nullableTime(p.CreatedAt))
	return err
}

func (c *DatabaseClient) ListPurchases(ctx context.Context, ingredientID string) ([]models.Purchase, error) {
	const qAll = `
		SELECT id, ingredient_id, quantity, unit, cost, supplier, purchased_at, created_at
		FROM purchases
		ORDER BY purchased_at DESC
	`
	const qByIngredient = `
		SELECT id, ingredient_id, quantity, unit, cost, supplier, purchased_at, created_at
		FROM purchases
		WHERE ingredient_id = $1
		ORDER BY purchased_at DESC
	`

	var (
		rows *sql.Rows
		err  error
	)
	if ingredientID == "" {
		rows, err = c.db.QueryContext(ctx, qAll)
	} else {
		rows, err = c.db.QueryContext(ctx, qByIngredient, ingredientID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Purchase
	for rows.Next() {
		var p models.Purchase
		if err := rows.Scan(&p.ID, &p.IngredientID, &p.Quantity, &p.Unit, &p.Cost, &p.Supplier, &p.PurchasedAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) DeletePurchase(ctx context.Context, id string) error {
	const q = `DELETE FROM purchases WHERE id = $1`
	res, err := c.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (c *DatabaseClient) CreateWasteEvent(ctx context.Context, ev *models.WasteEvent) error {
	if ev == nil {
		return errors.New("nil waste event")
	}
	const q = `
		INSERT INTO waste_events (id, ingredient_id, quantity, unit, reason, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, now()))
	`
	_, err := c.db.ExecContext(ctx, q,
		ev.ID, ev.IngredientID, ev.Quantity, ev.Unit, ev.Reason, ev.OccurredAt, nullableTime(ev.CreatedAt))
	return err
}

func (c *DatabaseClient) ListWasteEvents(ctx context.Context, ingredientID string) ([]models.WasteEvent, error) {
	const qAll = `
		SELECT id, ingredient_id, quantity, unit, reason, occurred_at, created_at
		FROM waste_events
		ORDER BY occurred_at DESC
	`
	const qByIngredient = `
		SELECT id, ingredient_id, quantity, unit, reason, occurred_at, created_at
		FROM waste_events
		WHERE ingredient_id = $1
		ORDER BY occurred_at DESC
	`

	var (
		rows *sql.Rows
		err  error
	)
	if ingredientID == "" {
		rows, err = c.db.QueryContext(ctx, qAll)
	} else {
		rows, err = c.db.QueryContext(ctx, qByIngredient, ingredientID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WasteEvent
	for rows.Next() {
		var ev models.WasteEvent
		if err := rows.Scan(&ev.ID, &ev.IngredientID, &ev.Quantity, &ev.Unit, &ev.Reason, &ev.OccurredAt, &ev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) DeleteWasteEvent(ctx context.Context, id string) error {
	const q = `DELETE FROM waste_events WHERE id = $1`
	res, err := c.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// nullableTime lets COALESCE($n, now()) fill in timestamps the caller left
// zero-valued.
func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
