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

const categoriesCacheKey = "categories:all"

func (s *Store) CategoryExists(ctx context.Context, id int64) (bool, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return false, err
	}
	return exists(ctx, session, "categories", "category_id", id)
}

func (s *Store) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	var cat models.Category
	cat.ID = id
	err = session.Query(`SELECT name, description, photo_url, created_at FROM categories WHERE category_id = ?`, id).
		WithContext(ctx).Scan(&cat.Name, &cat.Description, &cat.PhotoURL, &cat.CreatedAt)
	if err == gocql.ErrNotFound {
		return nil, apperr.New(apperr.NotFound, "Category not found")
	}
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}
	return &cat, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	// ✅ Cache Redis d'abord
	if val, err := database.Redis.Get(ctx, categoriesCacheKey).Result(); err == nil && val != "" {
		var cached []models.Category
		if json.Unmarshal([]byte(val), &cached) == nil {
			return cached, nil
		}
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	iter := session.Query(`SELECT category_id, name, description, photo_url, created_at FROM categories`).
		WithContext(ctx).Iter()

	categories := []models.Category{}
	var cat models.Category
	for iter.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.PhotoURL, &cat.CreatedAt) {
		categories = append(categories, cat)
		cat = models.Category{}
	}
	if err := iter.Close(); err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	if data, err := json.Marshal(categories); err == nil {
		database.Redis.Set(ctx, categoriesCacheKey, data, listCacheTTL)
	}
	return categories, nil
}

func (s *Store) CreateCategory(ctx context.Context, cat *models.Category) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	id, err := s.NextID(ctx, "categories")
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	cat.ID = id
	cat.CreatedAt = time.Now()

	err = session.Query(`INSERT INTO categories (category_id, name, description, photo_url, created_at) VALUES (?, ?, ?, ?, ?)`,
		cat.ID, cat.Name, cat.Description, cat.PhotoURL, cat.CreatedAt).WithContext(ctx).Exec()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	invalidateCache(ctx, categoriesCacheKey)
	return nil
}

func (s *Store) UpdateCategory(ctx context.Context, id int64, updates map[string]any) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	if err := applyUpdate(ctx, session, "categories", "category_id", id, updates); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	invalidateCache(ctx, categoriesCacheKey)
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	if err := session.Query(`DELETE FROM categories WHERE category_id = ?`, id).WithContext(ctx).Exec(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	invalidateCache(ctx, categoriesCacheKey)
	return nil
}
