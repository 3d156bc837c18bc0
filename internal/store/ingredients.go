package store

import (
	"context"
	"time"

	"foodtruck_back_end/internal/apperr"
	"foodtruck_back_end/internal/database"
	"foodtruck_back_end/internal/models"

	"github.com/gocql/gocql"
)

func (s *Store) IngredientExists(ctx context.Context, id int64) (bool, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return false, err
	}
	return exists(ctx, session, "ingredients", "ingredient_id", id)
}

func (s *Store) GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	var ing models.Ingredient
	ing.ID = id
	err = session.Query(`SELECT name, price, photo_url, created_at FROM ingredients WHERE ingredient_id = ?`, id).
		WithContext(ctx).Scan(&ing.Name, &ing.Price, &ing.PhotoURL, &ing.CreatedAt)
	if err == gocql.ErrNotFound {
		return nil, apperr.New(apperr.NotFound, "Ingredient not found")
	}
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}
	return &ing, nil
}

func (s *Store) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	iter := session.Query(`SELECT ingredient_id, name, price, photo_url, created_at FROM ingredients`).
		WithContext(ctx).Iter()

	ingredients := []models.Ingredient{}
	var ing models.Ingredient
	for iter.Scan(&ing.ID, &ing.Name, &ing.Price, &ing.PhotoURL, &ing.CreatedAt) {
		ingredients = append(ingredients, ing)
		ing = models.Ingredient{}
	}
	if err := iter.Close(); err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}
	return ingredients, nil
}

func (s *Store) CreateIngredient(ctx context.Context, ing *models.Ingredient) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	id, err := s.NextID(ctx, "ingredients")
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	ing.ID = id
	ing.CreatedAt = time.Now()

	err = session.Query(`INSERT INTO ingredients (ingredient_id, name, price, photo_url, created_at) VALUES (?, ?, ?, ?, ?)`,
		ing.ID, ing.Name, ing.Price, ing.PhotoURL, ing.CreatedAt).WithContext(ctx).Exec()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	return nil
}

func (s *Store) UpdateIngredient(ctx context.Context, id int64, updates map[string]any) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	if err := applyUpdate(ctx, session, "ingredients", "ingredient_id", id, updates); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	return nil
}

// DeleteIngredient supprime l'ingrédient et ses liens produit (cascade).
func (s *Store) DeleteIngredient(ctx context.Context, id int64) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	// Les liens many-to-many sont partitionnés par produit : on les balaie.
	iter := session.Query(`SELECT product_id, ingredient_id FROM product_ingredients ALLOW FILTERING`).
		WithContext(ctx).Iter()
	var productID, ingredientID int64
	for iter.Scan(&productID, &ingredientID) {
		if ingredientID == id {
			session.Query(`DELETE FROM product_ingredients WHERE product_id = ? AND ingredient_id = ?`,
				productID, ingredientID).WithContext(ctx).Exec()
		}
	}
	if err := iter.Close(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	if err := session.Query(`DELETE FROM ingredients WHERE ingredient_id = ?`, id).WithContext(ctx).Exec(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	return nil
}
