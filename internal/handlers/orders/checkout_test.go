package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"foodtruck_back_end/internal/apperr"
	"foodtruck_back_end/internal/models"
	"foodtruck_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore tient tout en mémoire, aucun Scylla/Redis requis.
type fakeStore struct {
	carts    map[int64]*models.Cart
	users    map[gocql.UUID]*models.User
	cartPOs  map[int64][]models.ProductOrder
	products map[int64]*models.Product
	pending  map[string]*models.PendingCheckout
	orders   map[gocql.UUID]*models.Order
	orderPOs map[gocql.UUID][]models.ProductOrder

	pendingSaves int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		carts:    map[int64]*models.Cart{},
		users:    map[gocql.UUID]*models.User{},
		cartPOs:  map[int64][]models.ProductOrder{},
		products: map[int64]*models.Product{},
		pending:  map[string]*models.PendingCheckout{},
		orders:   map[gocql.UUID]*models.Order{},
		orderPOs: map[gocql.UUID][]models.ProductOrder{},
	}
}

func (f *fakeStore) CartExists(_ context.Context, id int64) (bool, error) {
	_, ok := f.carts[id]
	return ok, nil
}

func (f *fakeStore) GetCart(_ context.Context, id int64) (*models.Cart, error) {
	cart, ok := f.carts[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "Cart not found")
	}
	return cart, nil
}

func (f *fakeStore) GetCartProductOrders(_ context.Context, cartID int64) ([]models.ProductOrder, error) {
	return f.cartPOs[cartID], nil
}

func (f *fakeStore) GetProduct(_ context.Context, id int64) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "Product not found")
	}
	return p, nil
}

func (f *fakeStore) GetUser(_ context.Context, id gocql.UUID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "User not found")
	}
	return u, nil
}

func (f *fakeStore) SavePendingCheckout(_ context.Context, pc *models.PendingCheckout) error {
	f.pendingSaves++
	f.pending[pc.Order.ID.String()] = pc
	return nil
}

func (f *fakeStore) GetPendingCheckout(_ context.Context, orderID string) (*models.PendingCheckout, error) {
	return f.pending[orderID], nil
}

func (f *fakeStore) DeletePendingCheckout(_ context.Context, orderID string) error {
	delete(f.pending, orderID)
	return nil
}

func (f *fakeStore) CreateOrder(_ context.Context, o *models.Order) error {
	f.orders[o.ID] = o
	return nil
}

func (f *fakeStore) AttachProductOrders(_ context.Context, orderID gocql.UUID, cartID int64, pos []models.ProductOrder) error {
	attached := make([]models.ProductOrder, len(pos))
	for i, po := range pos {
		id := orderID
		po.OrderID = &id
		po.CartID = 0
		attached[i] = po
	}
	f.orderPOs[orderID] = attached
	delete(f.cartPOs, cartID)
	if cart, ok := f.carts[cartID]; ok {
		cart.Total = 0
	}
	return nil
}

func (f *fakeStore) GetOrder(_ context.Context, id gocql.UUID) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "Order not found")
	}
	return o, nil
}

func (f *fakeStore) GetOrderProductOrders(_ context.Context, orderID gocql.UUID) ([]models.ProductOrder, error) {
	return f.orderPOs[orderID], nil
}

func (f *fakeStore) ListOrdersByUser(_ context.Context, userID gocql.UUID) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateOrderStatus(_ context.Context, id gocql.UUID, status string) error {
	o, ok := f.orders[id]
	if !ok {
		return apperr.New(apperr.NotFound, "Order not found")
	}
	o.OrderStatus = status
	return nil
}

type fakePayments struct {
	calls      int
	lastEmail  string
	lastItems  []services.LineItem
	sessionURL string
	err        error
}

func (f *fakePayments) CreateCheckoutSession(_ context.Context, email string, items []services.LineItem, successURL, cancelURL string) (string, error) {
	f.calls++
	f.lastEmail = email
	f.lastItems = items
	if f.err != nil {
		return "", f.err
	}
	return f.sessionURL, nil
}

func newTestHandler(fs *fakeStore, fp *fakePayments) *Handler {
	return &Handler{
		Store:     fs,
		Payments:  fp,
		BaseURL:   "http://api.test",
		ClientURL: "http://client.test",
	}
}

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/orders/create", h.CreateOrder)
	r.GET("/api/orders/orderSuccess/:id", h.OrderSuccess)
	r.GET("/api/orders/orderCancel/:id", h.OrderCancel)
	return r
}

func seedCheckout(fs *fakeStore) (cartID int64, userID gocql.UUID) {
	userID = gocql.UUID(uuid.New())
	cartID = 1
	fs.users[userID] = &models.User{ID: userID, Email: "jean@example.com"}
	fs.carts[cartID] = &models.Cart{ID: cartID, Total: 21.98, UserID: userID}
	fs.products[10] = &models.Product{ID: 10, Name: "Burger classique", Description: "Bœuf, cheddar", Price: 10.99}
	fs.cartPOs[cartID] = []models.ProductOrder{
		{ID: 100, ProductID: 10, Quantity: 2, Price: 10.99, CartID: cartID},
	}
	return cartID, userID
}

func postJSON(r *gin.Engine, path string, body map[string]any) *httptest.ResponseRecorder {
	buf, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateOrder(t *testing.T) {
	validBody := func(cartID int64) map[string]any {
		return map[string]any{
			"cartId":    cartID,
			"firstName": "Jean",
			"lastName":  "Dupont",
			"email":     "jean@example.com",
		}
	}

	t.Run("redirects to the payment session", func(t *testing.T) {
		fs := newFakeStore()
		fp := &fakePayments{sessionURL: "https://pay.test/session/abc"}
		r := newRouter(newTestHandler(fs, fp))
		cartID, _ := seedCheckout(fs)

		w := postJSON(r, "/api/orders/create", validBody(cartID))

		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "https://pay.test/session/abc", w.Header().Get("Location"))
		assert.Equal(t, 1, fp.calls)
		assert.Equal(t, "jean@example.com", fp.lastEmail)
		require.Len(t, fp.lastItems, 1)
		assert.Equal(t, "Burger classique", fp.lastItems[0].Name)
		assert.Equal(t, int64(1099), fp.lastItems[0].UnitAmount)
		assert.Equal(t, int64(2), fp.lastItems[0].Quantity)

		require.Len(t, fs.pending, 1)
		for _, pc := range fs.pending {
			assert.Equal(t, models.OrderStatusUnpaid, pc.Order.OrderStatus)
			assert.Equal(t, cartID, pc.CartID)
			assert.Equal(t, 21.98, pc.Order.Total)
		}
		// Aucune commande persistée avant le callback.
		assert.Empty(t, fs.orders)
	})

	t.Run("empty cart never reaches the payment provider", func(t *testing.T) {
		fs := newFakeStore()
		fp := &fakePayments{sessionURL: "https://pay.test/session/abc"}
		r := newRouter(newTestHandler(fs, fp))
		cartID, _ := seedCheckout(fs)
		fs.cartPOs[cartID] = nil

		w := postJSON(r, "/api/orders/create", validBody(cartID))

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Cart is empty")
		assert.Equal(t, 0, fp.calls)
	})

	t.Run("unknown cart", func(t *testing.T) {
		fs := newFakeStore()
		fp := &fakePayments{}
		r := newRouter(newTestHandler(fs, fp))

		w := postJSON(r, "/api/orders/create", validBody(999))

		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Cart not found")
		assert.Equal(t, 0, fp.calls)
	})

	t.Run("short first name", func(t *testing.T) {
		fs := newFakeStore()
		fp := &fakePayments{}
		r := newRouter(newTestHandler(fs, fp))
		cartID, _ := seedCheckout(fs)

		body := validBody(cartID)
		body["firstName"] = "J"
		w := postJSON(r, "/api/orders/create", body)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 0, fp.calls)
	})

	t.Run("requires an email or a phone number", func(t *testing.T) {
		fs := newFakeStore()
		fp := &fakePayments{}
		r := newRouter(newTestHandler(fs, fp))
		cartID, _ := seedCheckout(fs)

		body := validBody(cartID)
		delete(body, "email")
		w := postJSON(r, "/api/orders/create", body)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "An email or a phone number is required")
		assert.Equal(t, 0, fp.calls)
	})

	t.Run("phone number alone is enough", func(t *testing.T) {
		fs := newFakeStore()
		fp := &fakePayments{sessionURL: "https://pay.test/session/abc"}
		r := newRouter(newTestHandler(fs, fp))
		cartID, _ := seedCheckout(fs)

		body := validBody(cartID)
		delete(body, "email")
		body["phoneNumber"] = "+32 470 12 34 56"
		w := postJSON(r, "/api/orders/create", body)

		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, 1, fp.calls)
	})

	t.Run("payment failure surfaces as 500", func(t *testing.T) {
		fs := newFakeStore()
		fp := &fakePayments{err: apperr.New(apperr.Internal, "Payment session could not be created")}
		r := newRouter(newTestHandler(fs, fp))
		cartID, _ := seedCheckout(fs)

		w := postJSON(r, "/api/orders/create", validBody(cartID))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Empty(t, fs.orders)
	})
}

func TestOrderSuccess(t *testing.T) {
	seedPending := func(fs *fakeStore) (gocql.UUID, int64) {
		cartID, userID := seedCheckout(fs)
		orderID := gocql.UUID(uuid.New())
		fs.pending[orderID.String()] = &models.PendingCheckout{
			Order: models.Order{
				ID:          orderID,
				FirstName:   "Jean",
				LastName:    "Dupont",
				Email:       "jean@example.com",
				Total:       21.98,
				OrderStatus: models.OrderStatusUnpaid,
				UserID:      userID,
			},
			CartID: cartID,
		}
		return orderID, cartID
	}

	t.Run("materializes the paid order", func(t *testing.T) {
		fs := newFakeStore()
		r := newRouter(newTestHandler(fs, &fakePayments{}))
		orderID, cartID := seedPending(fs)
		wantPOs := append([]models.ProductOrder{}, fs.cartPOs[cartID]...)

		w := get(r, "/api/orders/orderSuccess/"+orderID.String())

		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "http://client.test/orders/success/"+orderID.String(), w.Header().Get("Location"))

		order, ok := fs.orders[orderID]
		require.True(t, ok)
		assert.Equal(t, models.OrderStatusPaid, order.OrderStatus)
		assert.Equal(t, orderID, order.ID)

		attached := fs.orderPOs[orderID]
		require.Len(t, attached, len(wantPOs))
		for i, po := range attached {
			assert.Equal(t, wantPOs[i].ID, po.ID)
			require.NotNil(t, po.OrderID)
			assert.Equal(t, orderID, *po.OrderID)
			assert.Zero(t, po.CartID)
		}

		// Le pending est consommé, le panier vidé.
		assert.Empty(t, fs.pending)
		assert.Empty(t, fs.cartPOs[cartID])
	})

	t.Run("malformed id", func(t *testing.T) {
		fs := newFakeStore()
		r := newRouter(newTestHandler(fs, &fakePayments{}))

		w := get(r, "/api/orders/orderSuccess/not-a-uuid")

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Order ID is not valid")
		assert.Empty(t, fs.orders)
	})

	t.Run("unknown pending id creates nothing", func(t *testing.T) {
		fs := newFakeStore()
		r := newRouter(newTestHandler(fs, &fakePayments{}))
		seedPending(fs)

		stray := gocql.UUID(uuid.New())
		w := get(r, "/api/orders/orderSuccess/"+stray.String())

		require.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "No pending order matches this ID")
		assert.Empty(t, fs.orders)
		assert.Len(t, fs.pending, 1)
	})

	t.Run("mismatched stored id rejected", func(t *testing.T) {
		fs := newFakeStore()
		r := newRouter(newTestHandler(fs, &fakePayments{}))
		orderID, _ := seedPending(fs)

		// Enregistrement corrompu : la clé ne correspond plus à l'id interne.
		pc := fs.pending[orderID.String()]
		pc.Order.ID = gocql.UUID(uuid.New())

		w := get(r, "/api/orders/orderSuccess/"+orderID.String())

		require.Equal(t, http.StatusConflict, w.Code)
		assert.Empty(t, fs.orders)
	})

	t.Run("cart emptied between initiate and confirm", func(t *testing.T) {
		fs := newFakeStore()
		r := newRouter(newTestHandler(fs, &fakePayments{}))
		orderID, cartID := seedPending(fs)
		fs.cartPOs[cartID] = nil

		w := get(r, "/api/orders/orderSuccess/"+orderID.String())

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Cart is empty")
		assert.Empty(t, fs.orders)
	})
}

func TestOrderCancel(t *testing.T) {
	t.Run("discards the pending checkout only", func(t *testing.T) {
		fs := newFakeStore()
		r := newRouter(newTestHandler(fs, &fakePayments{}))
		cartID, userID := seedCheckout(fs)
		orderID := gocql.UUID(uuid.New())
		fs.pending[orderID.String()] = &models.PendingCheckout{
			Order:  models.Order{ID: orderID, UserID: userID},
			CartID: cartID,
		}

		w := get(r, "/api/orders/orderCancel/"+orderID.String())

		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "http://client.test/orders/cancel", w.Header().Get("Location"))
		assert.Empty(t, fs.pending)
		assert.Empty(t, fs.orders)
		// Le panier reste intact.
		assert.Len(t, fs.cartPOs[cartID], 1)
	})

	t.Run("unknown pending id", func(t *testing.T) {
		fs := newFakeStore()
		r := newRouter(newTestHandler(fs, &fakePayments{}))

		stray := gocql.UUID(uuid.New())
		w := get(r, "/api/orders/orderCancel/"+stray.String())

		require.Equal(t, http.StatusConflict, w.Code)
	})
}
