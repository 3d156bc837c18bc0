package store

import (
	"context"
	"time"

	"foodtruck_back_end/internal/apperr"
	"foodtruck_back_end/internal/database"
	"foodtruck_back_end/internal/models"

	"github.com/gocql/gocql"
)

func (s *Store) DiscountExists(ctx context.Context, id int64) (bool, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return false, err
	}
	return exists(ctx, session, "discounts", "discount_id", id)
}

func (s *Store) GetDiscount(ctx context.Context, id int64) (*models.Discount, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	var d models.Discount
	d.ID = id
	err = session.Query(`SELECT name, percentage, created_at FROM discounts WHERE discount_id = ?`, id).
		WithContext(ctx).Scan(&d.Name, &d.Percentage, &d.CreatedAt)
	if err == gocql.ErrNotFound {
		return nil, apperr.New(apperr.NotFound, "Discount not found")
	}
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}
	return &d, nil
}

func (s *Store) ListDiscounts(ctx context.Context) ([]models.Discount, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	iter := session.Query(`SELECT discount_id, name, percentage, created_at FROM discounts`).
		WithContext(ctx).Iter()

	discounts := []models.Discount{}
	var d models.Discount
	for iter.Scan(&d.ID, &d.Name, &d.Percentage, &d.CreatedAt) {
		discounts = append(discounts, d)
		d = models.Discount{}
	}
	if err := iter.Close(); err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}
	return discounts, nil
}

func (s *Store) CreateDiscount(ctx context.Context, d *models.Discount) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	id, err := s.NextID(ctx, "discounts")
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	d.ID = id
	d.CreatedAt = time.Now()

	err = session.Query(`INSERT INTO discounts (discount_id, name, percentage, created_at) VALUES (?, ?, ?, ?)`,
		d.ID, d.Name, d.Percentage, d.CreatedAt).WithContext(ctx).Exec()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	return nil
}

func (s *Store) UpdateDiscount(ctx context.Context, id int64, updates map[string]any) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	if err := applyUpdate(ctx, session, "discounts", "discount_id", id, updates); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	return nil
}

func (s *Store) DeleteDiscount(ctx context.Context, id int64) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	if err := session.Query(`DELETE FROM discounts WHERE discount_id = ?`, id).WithContext(ctx).Exec(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	return nil
}
