package catalog

import (
	"context"
	"net/http"
	"strings"

	"foodtruck_back_end/internal/apperr"
	"foodtruck_back_end/internal/handlers"
	"foodtruck_back_end/internal/models"
	"foodtruck_back_end/internal/services"
	"foodtruck_back_end/internal/validate"

	"github.com/gin-gonic/gin"
)

type productStore interface {
	ProductExists(ctx context.Context, id int64) (bool, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, id int64, updates map[string]any) error
	SetProductIngredients(ctx context.Context, productID int64, ingredientIDs []int64) error
	DeleteProduct(ctx context.Context, id int64) error
	CategoryExists(ctx context.Context, id int64) (bool, error)
	DiscountExists(ctx context.Context, id int64) (bool, error)
	IngredientExists(ctx context.Context, id int64) (bool, error)
}

type ProductHandler struct {
	Store     productStore
	SavePhoto func(ctx context.Context, dataURI string) (string, error)
	// Hooks Elasticsearch, asynchrones et best-effort.
	Index       func(p models.Product)
	RemoveIndex func(id int64)
	Search      func(ctx context.Context, query string) ([]models.Product, error)
}

func NewProductHandler(st productStore) *ProductHandler {
	return &ProductHandler{
		Store:       st,
		SavePhoto:   services.SavePhoto,
		Index:       services.IndexProduct,
		RemoveIndex: services.RemoveProductFromIndex,
		Search:      services.SearchProducts,
	}
}

func (h *ProductHandler) schema() validate.Schema {
	return validate.Schema{
		Entity: "Product",
		Fields: []validate.Field{
			{Name: "name", Kind: validate.String, Required: true, MinLen: 1},
			{Name: "description", Kind: validate.String},
			{Name: "price", Kind: validate.Float, Required: true, Positive: true},
			{Name: "categoryId", Column: "category_id", Kind: validate.ID, Required: true,
				Entity: "Category", Exists: h.Store.CategoryExists},
			{Name: "discountId", Column: "discount_id", Kind: validate.ID,
				Entity: "Discount", Exists: h.Store.DiscountExists},
		},
	}
}

// checkIngredientIDs valide un tableau d'ids d'ingrédients, existence comprise.
func (h *ProductHandler) checkIngredientIDs(ctx context.Context, raw any) ([]int64, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, apperr.New(apperr.Validation, "ingredientIds must be an array")
	}

	field := validate.Field{Name: "ingredientIds", Kind: validate.ID,
		Entity: "Ingredient", Exists: h.Store.IngredientExists}
	schema := validate.Schema{Entity: "Product", Fields: []validate.Field{field}}

	ids := make([]int64, 0, len(list))
	for _, item := range list {
		vals, err := schema.Check(ctx, map[string]any{"ingredientIds": item}, false)
		if err != nil {
			return nil, err
		}
		ids = append(ids, vals["ingredientIds"].(int64))
	}
	return ids, nil
}

func (h *ProductHandler) resolvePhoto(ctx context.Context, details map[string]any) (string, bool, error) {
	raw, present := details["photo"]
	if !present || raw == nil {
		return "", false, nil
	}
	str, ok := raw.(string)
	if !ok {
		return "", false, apperr.New(apperr.Validation, "photo must be a string")
	}
	if strings.HasPrefix(str, "data:") {
		url, err := h.SavePhoto(ctx, str)
		if err != nil {
			return "", false, err
		}
		return url, true, nil
	}
	return str, true, nil
}

func (h *ProductHandler) List(c *gin.Context) {
	ps, err := h.Store.ListProducts(c.Request.Context())
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, ps)
}

func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := validate.CheckID("Product", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	p, err := h.Store.GetProduct(c.Request.Context(), id)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// SearchByName interroge l'index Elasticsearch.
func (h *ProductHandler) SearchByName(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		handlers.Error(c, apperr.New(apperr.Validation, "Search query is required"))
		return
	}

	ps, err := h.Search(c.Request.Context(), query)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, ps)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var details map[string]any
	if err := c.ShouldBindJSON(&details); err != nil {
		handlers.Error(c, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}

	ctx := c.Request.Context()
	vals, err := h.schema().Check(ctx, details, false)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	p := &models.Product{
		Name:       vals["name"].(string),
		Price:      vals["price"].(float64),
		CategoryID: vals["category_id"].(int64),
	}
	if d, ok := vals["description"].(string); ok {
		p.Description = d
	}
	if did, ok := vals["discount_id"].(int64); ok {
		p.DiscountID = &did
	}

	if raw, present := details["ingredientIds"]; present && raw != nil {
		ids, err := h.checkIngredientIDs(ctx, raw)
		if err != nil {
			handlers.Error(c, err)
			return
		}
		p.IngredientIDs = ids
	}

	photoURL, hasPhoto, err := h.resolvePhoto(ctx, details)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	if hasPhoto {
		p.PhotoURL = photoURL
	}

	if err := h.Store.CreateProduct(ctx, p); err != nil {
		handlers.Error(c, err)
		return
	}

	if h.Index != nil {
		go h.Index(*p)
	}
	handlers.Created(c, "Product created", p)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, err := validate.CheckID("Product", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Store.GetProduct(ctx, id); err != nil {
		handlers.Error(c, err)
		return
	}

	var details map[string]any
	if err := c.ShouldBindJSON(&details); err != nil {
		handlers.Error(c, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}

	_, hasPhoto := details["photo"]
	_, hasIngredients := details["ingredientIds"]

	vals, err := h.schema().Check(ctx, details, true)
	if err != nil {
		// Photo ou ingrédients seuls suffisent à faire une mise à jour.
		if !apperr.IsKind(err, apperr.NoOp) || (!hasPhoto && !hasIngredients) {
			handlers.Error(c, err)
			return
		}
		vals = map[string]any{}
	}

	if hasIngredients && details["ingredientIds"] != nil {
		ids, err := h.checkIngredientIDs(ctx, details["ingredientIds"])
		if err != nil {
			handlers.Error(c, err)
			return
		}
		if err := h.Store.SetProductIngredients(ctx, id, ids); err != nil {
			handlers.Error(c, err)
			return
		}
	}

	photoURL, photoSet, err := h.resolvePhoto(ctx, details)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	if photoSet {
		vals["photo_url"] = photoURL
	}

	if len(vals) > 0 {
		if err := h.Store.UpdateProduct(ctx, id, vals); err != nil {
			handlers.Error(c, err)
			return
		}
	}

	p, err := h.Store.GetProduct(ctx, id)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	if h.Index != nil {
		go h.Index(*p)
	}
	handlers.OK(c, "Product updated", p)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := validate.CheckID("Product", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Store.GetProduct(ctx, id); err != nil {
		handlers.Error(c, err)
		return
	}

	if err := h.Store.DeleteProduct(ctx, id); err != nil {
		handlers.Error(c, err)
		return
	}

	if h.RemoveIndex != nil {
		go h.RemoveIndex(id)
	}
	handlers.OK(c, "Product deleted", nil)
}
