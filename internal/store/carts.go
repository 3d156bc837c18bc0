package store

import (
	"context"
	"time"

	"foodtruck_back_end/internal/apperr"
	"foodtruck_back_end/internal/database"
	"foodtruck_back_end/internal/models"

	"github.com/gocql/gocql"
)

func (s *Store) CartExists(ctx context.Context, id int64) (bool, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return false, err
	}
	return exists(ctx, session, "carts", "cart_id", id)
}

func (s *Store) GetCart(ctx context.Context, id int64) (*models.Cart, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	var cart models.Cart
	cart.ID = id
	err = session.Query(`SELECT total, user_id, created_at FROM carts WHERE cart_id = ?`, id).
		WithContext(ctx).Scan(&cart.Total, &cart.UserID, &cart.CreatedAt)
	if err == gocql.ErrNotFound {
		return nil, apperr.New(apperr.NotFound, "Cart not found")
	}
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}
	return &cart, nil
}

// GetCartByUser retourne le panier courant d'un utilisateur, nil s'il n'en a
// pas. Un panier par utilisateur, jamais de variable globale de processus.
func (s *Store) GetCartByUser(ctx context.Context, userID gocql.UUID) (*models.Cart, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	var cart models.Cart
	err = session.Query(`SELECT cart_id, total, user_id, created_at FROM carts WHERE user_id = ? ALLOW FILTERING`, userID).
		WithContext(ctx).Scan(&cart.ID, &cart.Total, &cart.UserID, &cart.CreatedAt)
	if err == gocql.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}
	return &cart, nil
}

func (s *Store) CreateCart(ctx context.Context, cart *models.Cart) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	id, err := s.NextID(ctx, "carts")
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	cart.ID = id
	cart.CreatedAt = time.Now()

	err = session.Query(`INSERT INTO carts (cart_id, total, user_id, created_at) VALUES (?, ?, ?, ?)`,
		cart.ID, cart.Total, cart.UserID, cart.CreatedAt).WithContext(ctx).Exec()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	return nil
}

func (s *Store) DeleteCart(ctx context.Context, id int64) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	// Détache les lignes avant de supprimer le panier.
	pos, err := s.GetCartProductOrders(ctx, id)
	if err != nil {
		return err
	}
	for _, po := range pos {
		session.Query(`UPDATE product_orders SET cart_id = 0 WHERE product_order_id = ?`, po.ID).WithContext(ctx).Exec()
	}
	if err := session.Query(`DELETE FROM product_orders_by_cart WHERE cart_id = ?`, id).WithContext(ctx).Exec(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	if err := session.Query(`DELETE FROM carts WHERE cart_id = ?`, id).WithContext(ctx).Exec(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	return nil
}

// GetCartProductOrders retourne les lignes du panier, customizations incluses.
func (s *Store) GetCartProductOrders(ctx context.Context, cartID int64) ([]models.ProductOrder, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	iter := session.Query(`SELECT product_order_id FROM product_orders_by_cart WHERE cart_id = ?`, cartID).
		WithContext(ctx).Iter()

	var ids []int64
	var poID int64
	for iter.Scan(&poID) {
		ids = append(ids, poID)
	}
	if err := iter.Close(); err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	pos := []models.ProductOrder{}
	for _, id := range ids {
		po, err := s.GetProductOrder(ctx, id)
		if err != nil {
			return nil, err
		}
		pos = append(pos, *po)
	}
	return pos, nil
}

// AddProductOrderToCart lie une ligne au panier et met le total à jour.
func (s *Store) AddProductOrderToCart(ctx context.Context, cartID int64, po *models.ProductOrder) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	var found int64
	err = session.Query(`SELECT product_order_id FROM product_orders_by_cart WHERE cart_id = ? AND product_order_id = ?`,
		cartID, po.ID).WithContext(ctx).Scan(&found)
	if err == nil {
		return apperr.New(apperr.Conflict, "ProductOrder is already in this cart")
	}
	if err != gocql.ErrNotFound {
		return apperr.Wrap(err, "Internal server error")
	}

	if err := session.Query(`INSERT INTO product_orders_by_cart (cart_id, product_order_id) VALUES (?, ?)`,
		cartID, po.ID).WithContext(ctx).Exec(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	if err := session.Query(`UPDATE product_orders SET cart_id = ? WHERE product_order_id = ?`,
		cartID, po.ID).WithContext(ctx).Exec(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	return s.recomputeCartTotal(ctx, cartID)
}

func (s *Store) RemoveProductOrderFromCart(ctx context.Context, cartID, productOrderID int64) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	if err := session.Query(`DELETE FROM product_orders_by_cart WHERE cart_id = ? AND product_order_id = ?`,
		cartID, productOrderID).WithContext(ctx).Exec(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	if err := session.Query(`UPDATE product_orders SET cart_id = 0 WHERE product_order_id = ?`,
		productOrderID).WithContext(ctx).Exec(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	return s.recomputeCartTotal(ctx, cartID)
}

func (s *Store) recomputeCartTotal(ctx context.Context, cartID int64) error {
	pos, err := s.GetCartProductOrders(ctx, cartID)
	if err != nil {
		return err
	}

	total := 0.0
	for _, po := range pos {
		total += po.Price * float64(po.Quantity)
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	if err := session.Query(`UPDATE carts SET total = ? WHERE cart_id = ?`, total, cartID).WithContext(ctx).Exec(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	return nil
}

// =============================================
// PRODUCT ORDERS
// =============================================

func (s *Store) ProductOrderExists(ctx context.Context, id int64) (bool, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return false, err
	}
	return exists(ctx, session, "product_orders", "product_order_id", id)
}

func (s *Store) GetProductOrder(ctx context.Context, id int64) (*models.ProductOrder, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	var po models.ProductOrder
	po.ID = id
	var orderID gocql.UUID
	err = session.Query(`SELECT product_id, quantity, price, cart_id, order_id FROM product_orders WHERE product_order_id = ?`, id).
		WithContext(ctx).Scan(&po.ProductID, &po.Quantity, &po.Price, &po.CartID, &orderID)
	if err == gocql.ErrNotFound {
		return nil, apperr.New(apperr.NotFound, "ProductOrder not found")
	}
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}
	if orderID != (gocql.UUID{}) {
		po.OrderID = &orderID
	}

	ids, err := s.GetProductOrderCustomizations(ctx, id)
	if err != nil {
		return nil, err
	}
	po.CustomizationIDs = ids
	return &po, nil
}

func (s *Store) CreateProductOrder(ctx context.Context, po *models.ProductOrder) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	id, err := s.NextID(ctx, "product_orders")
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	po.ID = id

	err = session.Query(`INSERT INTO product_orders (product_order_id, product_id, quantity, price, cart_id, order_id) VALUES (?, ?, ?, ?, ?, ?)`,
		po.ID, po.ProductID, po.Quantity, po.Price, po.CartID, gocql.UUID{}).WithContext(ctx).Exec()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	if po.CartID > 0 {
		if err := session.Query(`INSERT INTO product_orders_by_cart (cart_id, product_order_id) VALUES (?, ?)`,
			po.CartID, po.ID).WithContext(ctx).Exec(); err != nil {
			return apperr.Wrap(err, "Internal server error")
		}
		if err := s.recomputeCartTotal(ctx, po.CartID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) DeleteProductOrder(ctx context.Context, id int64) error {
	po, err := s.GetProductOrder(ctx, id)
	if err != nil {
		return err
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	if err := session.Query(`DELETE FROM product_order_customizations WHERE product_order_id = ?`, id).WithContext(ctx).Exec(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	if po.CartID > 0 {
		if err := session.Query(`DELETE FROM product_orders_by_cart WHERE cart_id = ? AND product_order_id = ?`,
			po.CartID, id).WithContext(ctx).Exec(); err != nil {
			return apperr.Wrap(err, "Internal server error")
		}
	}
	if err := session.Query(`DELETE FROM product_orders WHERE product_order_id = ?`, id).WithContext(ctx).Exec(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	if po.CartID > 0 {
		return s.recomputeCartTotal(ctx, po.CartID)
	}
	return nil
}
