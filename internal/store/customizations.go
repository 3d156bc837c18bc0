package store

import (
	"context"

	"foodtruck_back_end/internal/apperr"
	"foodtruck_back_end/internal/database"
	"foodtruck_back_end/internal/models"

	"github.com/gocql/gocql"
)

func (s *Store) CustomizationExists(ctx context.Context, id int64) (bool, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return false, err
	}
	return exists(ctx, session, "customizations", "customization_id", id)
}

func (s *Store) GetCustomization(ctx context.Context, id int64) (*models.Customization, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	var cu models.Customization
	cu.ID = id
	err = session.Query(`SELECT quantity, price, ingredient_id FROM customizations WHERE customization_id = ?`, id).
		WithContext(ctx).Scan(&cu.Quantity, &cu.Price, &cu.IngredientID)
	if err == gocql.ErrNotFound {
		return nil, apperr.New(apperr.NotFound, "Customization not found")
	}
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}
	return &cu, nil
}

func (s *Store) ListCustomizations(ctx context.Context) ([]models.Customization, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	iter := session.Query(`SELECT customization_id, quantity, price, ingredient_id FROM customizations`).
		WithContext(ctx).Iter()

	customizations := []models.Customization{}
	var cu models.Customization
	for iter.Scan(&cu.ID, &cu.Quantity, &cu.Price, &cu.IngredientID) {
		customizations = append(customizations, cu)
		cu = models.Customization{}
	}
	if err := iter.Close(); err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}
	return customizations, nil
}

func (s *Store) CreateCustomization(ctx context.Context, cu *models.Customization) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	id, err := s.NextID(ctx, "customizations")
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	cu.ID = id

	err = session.Query(`INSERT INTO customizations (customization_id, quantity, price, ingredient_id) VALUES (?, ?, ?, ?)`,
		cu.ID, cu.Quantity, cu.Price, cu.IngredientID).WithContext(ctx).Exec()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	return nil
}

func (s *Store) UpdateCustomization(ctx context.Context, id int64, updates map[string]any) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	if err := applyUpdate(ctx, session, "customizations", "customization_id", id, updates); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	return nil
}

// DeleteCustomization supprime la customization et ses liens (cascade).
func (s *Store) DeleteCustomization(ctx context.Context, id int64) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	iter := session.Query(`SELECT product_order_id, customization_id FROM product_order_customizations ALLOW FILTERING`).
		WithContext(ctx).Iter()
	var poID, cuID int64
	for iter.Scan(&poID, &cuID) {
		if cuID == id {
			session.Query(`DELETE FROM product_order_customizations WHERE product_order_id = ? AND customization_id = ?`,
				poID, cuID).WithContext(ctx).Exec()
		}
	}
	if err := iter.Close(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	if err := session.Query(`DELETE FROM customizations WHERE customization_id = ?`, id).WithContext(ctx).Exec(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	return nil
}

// AttachCustomization lie une customization à un product order.
// Le lien est many-to-many ; un doublon est un conflit.
func (s *Store) AttachCustomization(ctx context.Context, productOrderID, customizationID int64) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	var found int64
	err = session.Query(`SELECT customization_id FROM product_order_customizations WHERE product_order_id = ? AND customization_id = ?`,
		productOrderID, customizationID).WithContext(ctx).Scan(&found)
	if err == nil {
		return apperr.New(apperr.Conflict, "Customization is already linked to this product order")
	}
	if err != gocql.ErrNotFound {
		return apperr.Wrap(err, "Internal server error")
	}

	err = session.Query(`INSERT INTO product_order_customizations (product_order_id, customization_id) VALUES (?, ?)`,
		productOrderID, customizationID).WithContext(ctx).Exec()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	// Le prix unitaire de la ligne absorbe la customization.
	return s.adjustProductOrderPrice(ctx, productOrderID, customizationID, +1)
}

func (s *Store) DetachCustomization(ctx context.Context, productOrderID, customizationID int64) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	err = session.Query(`DELETE FROM product_order_customizations WHERE product_order_id = ? AND customization_id = ?`,
		productOrderID, customizationID).WithContext(ctx).Exec()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	return s.adjustProductOrderPrice(ctx, productOrderID, customizationID, -1)
}

func (s *Store) adjustProductOrderPrice(ctx context.Context, productOrderID, customizationID int64, sign float64) error {
	cu, err := s.GetCustomization(ctx, customizationID)
	if err != nil {
		return err
	}
	po, err := s.GetProductOrder(ctx, productOrderID)
	if err != nil {
		return err
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	newPrice := po.Price + sign*cu.Price*float64(cu.Quantity)
	if err := session.Query(`UPDATE product_orders SET price = ? WHERE product_order_id = ?`,
		newPrice, productOrderID).WithContext(ctx).Exec(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	if po.CartID > 0 {
		return s.recomputeCartTotal(ctx, po.CartID)
	}
	return nil
}

func (s *Store) GetProductOrderCustomizations(ctx context.Context, productOrderID int64) ([]int64, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	iter := session.Query(`SELECT customization_id FROM product_order_customizations WHERE product_order_id = ?`, productOrderID).
		WithContext(ctx).Iter()

	var ids []int64
	var cuID int64
	for iter.Scan(&cuID) {
		ids = append(ids, cuID)
	}
	if err := iter.Close(); err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}
	return ids, nil
}
