package store

import (
	"context"
	"time"

	"foodtruck_back_end/internal/apperr"
	"foodtruck_back_end/internal/database"
	"foodtruck_back_end/internal/models"

	"github.com/gocql/gocql"
)

func (s *Store) GetOrder(ctx context.Context, id gocql.UUID) (*models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	var o models.Order
	o.ID = id
	err = session.Query(`SELECT first_name, last_name, email, phone_number, total, order_status, user_id, created_at
		FROM orders WHERE order_id = ?`, id).
		WithContext(ctx).Scan(&o.FirstName, &o.LastName, &o.Email, &o.PhoneNumber, &o.Total, &o.OrderStatus, &o.UserID, &o.CreatedAt)
	if err == gocql.ErrNotFound {
		return nil, apperr.New(apperr.NotFound, "Order not found")
	}
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}
	return &o, nil
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID gocql.UUID) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	iter := session.Query(`SELECT order_id FROM orders_by_user WHERE user_id = ?`, userID).
		WithContext(ctx).Iter()

	var ids []gocql.UUID
	var orderID gocql.UUID
	for iter.Scan(&orderID) {
		ids = append(ids, orderID)
	}
	if err := iter.Close(); err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	orders := []models.Order{}
	for _, oid := range ids {
		o, err := s.GetOrder(ctx, oid)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

// CreateOrder persiste la commande au callback de succès — jamais avant.
func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	o.CreatedAt = time.Now()
	err = session.Query(`INSERT INTO orders (order_id, first_name, last_name, email, phone_number, total, order_status, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.FirstName, o.LastName, o.Email, o.PhoneNumber, o.Total, o.OrderStatus, o.UserID, o.CreatedAt).
		WithContext(ctx).Exec()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	err = session.Query(`INSERT INTO orders_by_user (user_id, order_id) VALUES (?, ?)`, o.UserID, o.ID).
		WithContext(ctx).Exec()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	return nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id gocql.UUID, status string) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	err = session.Query(`UPDATE orders SET order_status = ? WHERE order_id = ?`, status, id).
		WithContext(ctx).Exec()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	return nil
}

// AttachProductOrders transfère les lignes du panier vers la commande :
// order_id posé, cart_id effacé, tables de lookup déplacées, total du panier
// remis à zéro. Trois écritures sans transaction applicative — le store ne
// garantit l'atomicité que par requête.
func (s *Store) AttachProductOrders(ctx context.Context, orderID gocql.UUID, cartID int64, pos []models.ProductOrder) error {
	catalog, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	orders, err := database.GetOrdersSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	for _, po := range pos {
		if err := catalog.Query(`UPDATE product_orders SET order_id = ?, cart_id = 0 WHERE product_order_id = ?`,
			orderID, po.ID).WithContext(ctx).Exec(); err != nil {
			return apperr.Wrap(err, "Internal server error")
		}
		if err := orders.Query(`INSERT INTO product_orders_by_order (order_id, product_order_id) VALUES (?, ?)`,
			orderID, po.ID).WithContext(ctx).Exec(); err != nil {
			return apperr.Wrap(err, "Internal server error")
		}
	}

	if err := catalog.Query(`DELETE FROM product_orders_by_cart WHERE cart_id = ?`, cartID).WithContext(ctx).Exec(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	if err := catalog.Query(`UPDATE carts SET total = 0 WHERE cart_id = ?`, cartID).WithContext(ctx).Exec(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	return nil
}

// GetOrderProductOrders retourne les lignes d'une commande finalisée.
func (s *Store) GetOrderProductOrders(ctx context.Context, orderID gocql.UUID) ([]models.ProductOrder, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	iter := session.Query(`SELECT product_order_id FROM product_orders_by_order WHERE order_id = ?`, orderID).
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
