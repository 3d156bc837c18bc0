package orders

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"foodtruck_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newAuthedRouter simule le middleware JWT en posant user_id directement.
func newAuthedRouter(h *Handler, userID gocql.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID.String())
		c.Next()
	})
	r.GET("/api/orders/my", h.GetMyOrders)
	r.GET("/api/orders/:id", h.GetByID)
	r.PUT("/api/orders/:id/status", h.UpdateStatus)
	return r
}

func seedOrder(fs *fakeStore, userID gocql.UUID) gocql.UUID {
	orderID := gocql.UUID(uuid.New())
	fs.orders[orderID] = &models.Order{
		ID:          orderID,
		FirstName:   "Jean",
		LastName:    "Dupont",
		Total:       21.98,
		OrderStatus: models.OrderStatusPaid,
		UserID:      userID,
	}
	fs.orderPOs[orderID] = []models.ProductOrder{{ID: 100, ProductID: 10, Quantity: 2, Price: 10.99}}
	return orderID
}

func TestGetMyOrders(t *testing.T) {
	fs := newFakeStore()
	userID := gocql.UUID(uuid.New())
	other := gocql.UUID(uuid.New())
	seedOrder(fs, userID)
	seedOrder(fs, other)

	r := newAuthedRouter(newTestHandler(fs, &fakePayments{}), userID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders/my", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var orders []models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, userID, orders[0].UserID)
}

func TestGetOrderByID(t *testing.T) {
	fs := newFakeStore()
	userID := gocql.UUID(uuid.New())
	orderID := seedOrder(fs, userID)

	t.Run("owner sees the order with its lines", func(t *testing.T) {
		r := newAuthedRouter(newTestHandler(fs, &fakePayments{}), userID)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders/"+orderID.String(), nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"productOrders"`)
	})

	t.Run("another user gets a 404", func(t *testing.T) {
		stranger := gocql.UUID(uuid.New())
		r := newAuthedRouter(newTestHandler(fs, &fakePayments{}), stranger)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders/"+orderID.String(), nil))

		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Order not found")
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	putStatus := func(r *gin.Engine, orderID, status string) *httptest.ResponseRecorder {
		buf, _ := json.Marshal(map[string]string{"status": status})
		req := httptest.NewRequest(http.MethodPut, "/api/orders/"+orderID+"/status", bytes.NewReader(buf))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("advances the pickup cycle and broadcasts", func(t *testing.T) {
		fs := newFakeStore()
		userID := gocql.UUID(uuid.New())
		orderID := seedOrder(fs, userID)

		h := newTestHandler(fs, &fakePayments{})
		var published []string
		h.PublishStatus = func(_ gocql.UUID, _, status string) {
			published = append(published, status)
		}
		r := newAuthedRouter(h, userID)

		w := putStatus(r, orderID.String(), models.OrderStatusReady)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, models.OrderStatusReady, fs.orders[orderID].OrderStatus)
		assert.Equal(t, []string{models.OrderStatusReady}, published)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		fs := newFakeStore()
		userID := gocql.UUID(uuid.New())
		orderID := seedOrder(fs, userID)
		r := newAuthedRouter(newTestHandler(fs, &fakePayments{}), userID)

		w := putStatus(r, orderID.String(), "Teleported")

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid order status")
		assert.Equal(t, models.OrderStatusPaid, fs.orders[orderID].OrderStatus)
	})

	t.Run("unknown order", func(t *testing.T) {
		fs := newFakeStore()
		userID := gocql.UUID(uuid.New())
		r := newAuthedRouter(newTestHandler(fs, &fakePayments{}), userID)

		w := putStatus(r, gocql.UUID(uuid.New()).String(), models.OrderStatusReady)

		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
