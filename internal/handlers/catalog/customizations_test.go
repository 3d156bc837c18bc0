package catalog

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

type fakeCustomizationStore struct {
	ingredients    map[int64]bool
	customizations map[int64]*models.Customization
	nextID         int64
	updates        int
}

func newFakeCustomizationStore() *fakeCustomizationStore {
	return &fakeCustomizationStore{
		ingredients:    map[int64]bool{},
		customizations: map[int64]*models.Customization{},
	}
}

func (f *fakeCustomizationStore) IngredientExists(_ context.Context, id int64) (bool, error) {
	return f.ingredients[id], nil
}

func (f *fakeCustomizationStore) GetCustomization(_ context.Context, id int64) (*models.Customization, error) {
	cu, ok := f.customizations[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "Customization not found")
	}
	return cu, nil
}

func (f *fakeCustomizationStore) ListCustomizations(_ context.Context) ([]models.Customization, error) {
	out := []models.Customization{}
	for _, cu := range f.customizations {
		out = append(out, *cu)
	}
	return out, nil
}

func (f *fakeCustomizationStore) CreateCustomization(_ context.Context, cu *models.Customization) error {
	f.nextID++
	cu.ID = f.nextID
	f.customizations[cu.ID] = cu
	return nil
}

func (f *fakeCustomizationStore) UpdateCustomization(_ context.Context, id int64, updates map[string]any) error {
	f.updates++
	cu := f.customizations[id]
	if q, ok := updates["quantity"].(int); ok {
		cu.Quantity = q
	}
	if p, ok := updates["price"].(float64); ok {
		cu.Price = p
	}
	if ing, ok := updates["ingredient_id"].(int64); ok {
		cu.IngredientID = ing
	}
	return nil
}

func (f *fakeCustomizationStore) DeleteCustomization(_ context.Context, id int64) error {
	delete(f.customizations, id)
	return nil
}

func newCustomizationRouter(fs *fakeCustomizationStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewCustomizationHandler(fs)
	r.POST("/api/customizations/create", h.Create)
	r.GET("/api/customizations/:id", h.GetByID)
	r.PUT("/api/customizations/:id", h.Update)
	r.DELETE("/api/customizations/:id", h.Delete)
	return r
}

func doJSON(r *gin.Engine, method, path string, body map[string]any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		buf, _ := json.Marshal(body)
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader([]byte("{}"))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateCustomization(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		fs := newFakeCustomizationStore()
		fs.ingredients[7] = true
		r := newCustomizationRouter(fs)

		w := doJSON(r, http.MethodPost, "/api/customizations/create", map[string]any{
			"quantity": 3, "price": 10.99, "ingredientId": 7,
		})

		require.Equal(t, http.StatusCreated, w.Code)
		var resp struct {
			Message string               `json:"message"`
			Data    models.Customization `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 3, resp.Data.Quantity)
		assert.Equal(t, 10.99, resp.Data.Price)
		assert.Equal(t, int64(7), resp.Data.IngredientID)
	})

	t.Run("missing ingredient id", func(t *testing.T) {
		fs := newFakeCustomizationStore()
		r := newCustomizationRouter(fs)

		w := doJSON(r, http.MethodPost, "/api/customizations/create", map[string]any{
			"quantity": 3, "price": 10.99,
		})

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Ingredient ID is required")
		assert.Empty(t, fs.customizations)
	})

	t.Run("unknown ingredient", func(t *testing.T) {
		fs := newFakeCustomizationStore()
		r := newCustomizationRouter(fs)

		w := doJSON(r, http.MethodPost, "/api/customizations/create", map[string]any{
			"quantity": 3, "price": 10.99, "ingredientId": 9999,
		})

		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Ingredient not found")
		assert.Empty(t, fs.customizations)
	})
}

func TestUpdateCustomization(t *testing.T) {
	seed := func(fs *fakeCustomizationStore) int64 {
		fs.ingredients[7] = true
		fs.nextID = 1
		fs.customizations[1] = &models.Customization{ID: 1, Quantity: 3, Price: 10.99, IngredientID: 7}
		return 1
	}

	t.Run("partial update", func(t *testing.T) {
		fs := newFakeCustomizationStore()
		id := seed(fs)
		r := newCustomizationRouter(fs)

		w := doJSON(r, http.MethodPut, "/api/customizations/1", map[string]any{"quantity": 5})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 5, fs.customizations[id].Quantity)
		assert.Equal(t, 10.99, fs.customizations[id].Price)
	})

	t.Run("no fields is a 200 no-op", func(t *testing.T) {
		fs := newFakeCustomizationStore()
		seed(fs)
		r := newCustomizationRouter(fs)

		w := doJSON(r, http.MethodPut, "/api/customizations/1", map[string]any{})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "No details to update")
		assert.Zero(t, fs.updates)
	})

	t.Run("non numeric path id", func(t *testing.T) {
		fs := newFakeCustomizationStore()
		r := newCustomizationRouter(fs)

		w := doJSON(r, http.MethodPut, "/api/customizations/abc", map[string]any{"quantity": 5})

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Customization ID must be a number")
	})

	t.Run("unknown customization", func(t *testing.T) {
		fs := newFakeCustomizationStore()
		r := newCustomizationRouter(fs)

		w := doJSON(r, http.MethodPut, "/api/customizations/42", map[string]any{"quantity": 5})

		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Customization not found")
	})
}

func TestDeleteCustomization(t *testing.T) {
	fs := newFakeCustomizationStore()
	fs.customizations[1] = &models.Customization{ID: 1, Quantity: 3, Price: 10.99, IngredientID: 7}
	r := newCustomizationRouter(fs)

	w := doJSON(r, http.MethodDelete, "/api/customizations/1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Customization deleted")
	assert.Empty(t, fs.customizations)
}
