package store

import (
	"context"
	"encoding/json"
	"time"

	"foodtruck_back_end/internal/apperr"
	"foodtruck_back_end/internal/database"
	"foodtruck_back_end/internal/models"

	"github.com/gocql/gocql"
)

const productsCacheKey = "products:all"

func (s *Store) ProductExists(ctx context.Context, id int64) (bool, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return false, err
	}
	return exists(ctx, session, "products", "product_id", id)
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	var p models.Product
	p.ID = id
	var discountID int64
	err = session.Query(`SELECT name, description, price, photo_url, category_id, discount_id, created_at, updated_at
		FROM products WHERE product_id = ?`, id).
		WithContext(ctx).Scan(&p.Name, &p.Description, &p.Price, &p.PhotoURL, &p.CategoryID, &discountID, &p.CreatedAt, &p.UpdatedAt)
	if err == gocql.ErrNotFound {
		return nil, apperr.New(apperr.NotFound, "Product not found")
	}
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}
	if discountID > 0 {
		p.DiscountID = &discountID
	}

	ids, err := s.GetProductIngredients(ctx, id)
	if err != nil {
		return nil, err
	}
	p.IngredientIDs = ids
	return &p, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	// ✅ Cache Redis d'abord
	if val, err := database.Redis.Get(ctx, productsCacheKey).Result(); err == nil && val != "" {
		var cached []models.Product
		if json.Unmarshal([]byte(val), &cached) == nil {
			return cached, nil
		}
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	iter := session.Query(`SELECT product_id, name, description, price, photo_url, category_id, discount_id, created_at, updated_at FROM products`).
		WithContext(ctx).Iter()

	products := []models.Product{}
	var p models.Product
	var discountID int64
	for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.PhotoURL, &p.CategoryID, &discountID, &p.CreatedAt, &p.UpdatedAt) {
		if discountID > 0 {
			d := discountID
			p.DiscountID = &d
		}
		products = append(products, p)
		p = models.Product{}
		discountID = 0
	}
	if err := iter.Close(); err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	if data, err := json.Marshal(products); err == nil {
		database.Redis.Set(ctx, productsCacheKey, data, listCacheTTL)
	}
	return products, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	id, err := s.NextID(ctx, "products")
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	p.ID = id
	now := time.Now()
	p.CreatedAt = &now
	p.UpdatedAt = &now

	var discountID int64
	if p.DiscountID != nil {
		discountID = *p.DiscountID
	}

	err = session.Query(`INSERT INTO products (product_id, name, description, price, photo_url, category_id, discount_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Price, p.PhotoURL, p.CategoryID, discountID, p.CreatedAt, p.UpdatedAt).
		WithContext(ctx).Exec()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	if err := s.SetProductIngredients(ctx, p.ID, p.IngredientIDs); err != nil {
		return err
	}

	invalidateCache(ctx, productsCacheKey)
	return nil
}

func (s *Store) UpdateProduct(ctx context.Context, id int64, updates map[string]any) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	updates["updated_at"] = time.Now()
	if err := applyUpdate(ctx, session, "products", "product_id", id, updates); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	invalidateCache(ctx, productsCacheKey)
	return nil
}

// SetProductIngredients remplace les liens produit → ingrédients.
func (s *Store) SetProductIngredients(ctx context.Context, productID int64, ingredientIDs []int64) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	if err := session.Query(`DELETE FROM product_ingredients WHERE product_id = ?`, productID).WithContext(ctx).Exec(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	for _, ingID := range ingredientIDs {
		if err := session.Query(`INSERT INTO product_ingredients (product_id, ingredient_id) VALUES (?, ?)`,
			productID, ingID).WithContext(ctx).Exec(); err != nil {
			return apperr.Wrap(err, "Internal server error")
		}
	}
	return nil
}

func (s *Store) GetProductIngredients(ctx context.Context, productID int64) ([]int64, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	iter := session.Query(`SELECT ingredient_id FROM product_ingredients WHERE product_id = ?`, productID).
		WithContext(ctx).Iter()

	var ids []int64
	var ingID int64
	for iter.Scan(&ingID) {
		ids = append(ids, ingID)
	}
	if err := iter.Close(); err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}
	return ids, nil
}

// DeleteProduct supprime le produit, ses liens ingrédients et ses groupes
// d'options (cascade).
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	if err := session.Query(`DELETE FROM product_ingredients WHERE product_id = ?`, id).WithContext(ctx).Exec(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	iter := session.Query(`SELECT option_group_id FROM option_groups WHERE product_id = ? ALLOW FILTERING`, id).
		WithContext(ctx).Iter()
	var groupID int64
	var groupIDs []int64
	for iter.Scan(&groupID) {
		groupIDs = append(groupIDs, groupID)
	}
	if err := iter.Close(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	for _, gid := range groupIDs {
		if err := s.DeleteOptionGroup(ctx, gid); err != nil {
			return err
		}
	}

	if err := session.Query(`DELETE FROM products WHERE product_id = ?`, id).WithContext(ctx).Exec(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	invalidateCache(ctx, productsCacheKey)
	return nil
}
