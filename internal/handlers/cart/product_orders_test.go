package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"foodtruck_back_end/internal/apperr"
	"foodtruck_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePOStore struct {
	products       map[int64]*models.Product
	carts          map[int64]bool
	productOrders  map[int64]*models.ProductOrder
	customizations map[int64]*models.Customization
	links          map[int64][]int64 // product order → customizations
	nextID         int64
}

func newFakePOStore() *fakePOStore {
	return &fakePOStore{
		products:       map[int64]*models.Product{},
		carts:          map[int64]bool{},
		productOrders:  map[int64]*models.ProductOrder{},
		customizations: map[int64]*models.Customization{},
		links:          map[int64][]int64{},
	}
}

func (f *fakePOStore) ProductExists(_ context.Context, id int64) (bool, error) {
	_, ok := f.products[id]
	return ok, nil
}

func (f *fakePOStore) GetProduct(_ context.Context, id int64) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "Product not found")
	}
	return p, nil
}

func (f *fakePOStore) CartExists(_ context.Context, id int64) (bool, error) {
	return f.carts[id], nil
}

func (f *fakePOStore) GetProductOrder(_ context.Context, id int64) (*models.ProductOrder, error) {
	po, ok := f.productOrders[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "ProductOrder not found")
	}
	return po, nil
}

func (f *fakePOStore) CreateProductOrder(_ context.Context, po *models.ProductOrder) error {
	f.nextID++
	po.ID = f.nextID
	f.productOrders[po.ID] = po
	return nil
}

func (f *fakePOStore) DeleteProductOrder(_ context.Context, id int64) error {
	if _, ok := f.productOrders[id]; !ok {
		return apperr.New(apperr.NotFound, "ProductOrder not found")
	}
	delete(f.productOrders, id)
	return nil
}

func (f *fakePOStore) CustomizationExists(_ context.Context, id int64) (bool, error) {
	_, ok := f.customizations[id]
	return ok, nil
}

func (f *fakePOStore) AttachCustomization(_ context.Context, poID, cuID int64) error {
	for _, existing := range f.links[poID] {
		if existing == cuID {
			return apperr.New(apperr.Conflict, "Customization is already linked to this product order")
		}
	}
	f.links[poID] = append(f.links[poID], cuID)
	return nil
}

func (f *fakePOStore) DetachCustomization(_ context.Context, poID, cuID int64) error {
	kept := f.links[poID][:0]
	for _, existing := range f.links[poID] {
		if existing != cuID {
			kept = append(kept, existing)
		}
	}
	f.links[poID] = kept
	return nil
}

func (f *fakePOStore) GetCustomization(_ context.Context, id int64) (*models.Customization, error) {
	cu, ok := f.customizations[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "Customization not found")
	}
	return cu, nil
}

func newPORouter(fs *fakePOStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewProductOrderHandler(fs)
	r.POST("/api/productOrders/create", h.Create)
	r.GET("/api/productOrders/:id", h.GetByID)
	r.DELETE("/api/productOrders/:id", h.Delete)
	r.POST("/api/productOrders/:id/customizations", h.AttachCustomization)
	r.DELETE("/api/productOrders/:id/customizations/:customizationId", h.DetachCustomization)
	return r
}

func send(r *gin.Engine, method, path string, body map[string]any) *httptest.ResponseRecorder {
	buf := []byte("{}")
	if body != nil {
		buf, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateProductOrder(t *testing.T) {
	t.Run("snapshots the catalog price", func(t *testing.T) {
		fs := newFakePOStore()
		fs.products[10] = &models.Product{ID: 10, Name: "Burger classique", Price: 10.99}
		fs.carts[1] = true
		r := newPORouter(fs)

		w := send(r, http.MethodPost, "/api/productOrders/create", map[string]any{
			"productId": 10, "quantity": 2, "cartId": 1,
		})

		require.Equal(t, http.StatusCreated, w.Code)
		require.Len(t, fs.productOrders, 1)
		po := fs.productOrders[1]
		assert.Equal(t, 10.99, po.Price)
		assert.Equal(t, 2, po.Quantity)
		assert.Equal(t, int64(1), po.CartID)
	})

	t.Run("unknown product", func(t *testing.T) {
		fs := newFakePOStore()
		r := newPORouter(fs)

		w := send(r, http.MethodPost, "/api/productOrders/create", map[string]any{
			"productId": 9999, "quantity": 2,
		})

		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Product not found")
	})

	t.Run("quantity must be positive", func(t *testing.T) {
		fs := newFakePOStore()
		fs.products[10] = &models.Product{ID: 10, Price: 10.99}
		r := newPORouter(fs)

		w := send(r, http.MethodPost, "/api/productOrders/create", map[string]any{
			"productId": 10, "quantity": 0,
		})

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "quantity must be greater than 0")
	})
}

func TestAttachCustomization(t *testing.T) {
	seed := func(fs *fakePOStore) {
		fs.productOrders[1] = &models.ProductOrder{ID: 1, ProductID: 10, Quantity: 2, Price: 10.99}
		fs.customizations[7] = &models.Customization{ID: 7, Quantity: 1, Price: 0.5, IngredientID: 3}
	}

	t.Run("links once", func(t *testing.T) {
		fs := newFakePOStore()
		seed(fs)
		r := newPORouter(fs)

		w := send(r, http.MethodPost, "/api/productOrders/1/customizations", map[string]any{"customizationId": 7})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []int64{7}, fs.links[1])
	})

	t.Run("duplicate link is a conflict", func(t *testing.T) {
		fs := newFakePOStore()
		seed(fs)
		fs.links[1] = []int64{7}
		r := newPORouter(fs)

		w := send(r, http.MethodPost, "/api/productOrders/1/customizations", map[string]any{"customizationId": 7})

		require.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "Customization is already linked to this product order")
		assert.Equal(t, []int64{7}, fs.links[1])
	})

	t.Run("unknown customization", func(t *testing.T) {
		fs := newFakePOStore()
		seed(fs)
		r := newPORouter(fs)

		w := send(r, http.MethodPost, "/api/productOrders/1/customizations", map[string]any{"customizationId": 9999})

		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Customization not found")
	})
}

func TestDetachCustomization(t *testing.T) {
	fs := newFakePOStore()
	fs.productOrders[1] = &models.ProductOrder{ID: 1}
	fs.customizations[7] = &models.Customization{ID: 7}
	fs.links[1] = []int64{7}
	r := newPORouter(fs)

	w := send(r, http.MethodDelete, "/api/productOrders/1/customizations/7", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, fs.links[1])
}
