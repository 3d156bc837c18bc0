// Package catalog regroupe les contrôleurs du catalogue : catégories,
// ingrédients, réductions, produits, groupes d'options et customizations.
// Chaque contrôleur déclare son schéma de validation et délègue au store.
package catalog

import (
	"context"
	"net/http"

	"foodtruck_back_end/internal/apperr"
	"foodtruck_back_end/internal/handlers"
	"foodtruck_back_end/internal/models"
	"foodtruck_back_end/internal/validate"

	"github.com/gin-gonic/gin"
)

type categoryStore interface {
	CategoryExists(ctx context.Context, id int64) (bool, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, cat *models.Category) error
	UpdateCategory(ctx context.Context, id int64, updates map[string]any) error
	DeleteCategory(ctx context.Context, id int64) error
}

type CategoryHandler struct {
	Store categoryStore
}

func NewCategoryHandler(st categoryStore) *CategoryHandler {
	return &CategoryHandler{Store: st}
}

func (h *CategoryHandler) schema() validate.Schema {
	return validate.Schema{
		Entity: "Category",
		Fields: []validate.Field{
			{Name: "name", Kind: validate.String, Required: true, MinLen: 1},
			{Name: "description", Kind: validate.String},
			{Name: "photoUrl", Column: "photo_url", Kind: validate.String},
		},
	}
}

func (h *CategoryHandler) List(c *gin.Context) {
	cats, err := h.Store.ListCategories(c.Request.Context())
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, err := validate.CheckID("Category", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	cat, err := h.Store.GetCategory(c.Request.Context(), id)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) Create(c *gin.Context) {
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

	cat := &models.Category{Name: vals["name"].(string)}
	if d, ok := vals["description"].(string); ok {
		cat.Description = d
	}
	if p, ok := vals["photo_url"].(string); ok {
		cat.PhotoURL = p
	}

	if err := h.Store.CreateCategory(ctx, cat); err != nil {
		handlers.Error(c, err)
		return
	}
	handlers.Created(c, "Category created", cat)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := validate.CheckID("Category", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Store.GetCategory(ctx, id); err != nil {
		handlers.Error(c, err)
		return
	}

	var details map[string]any
	if err := c.ShouldBindJSON(&details); err != nil {
		handlers.Error(c, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}

	vals, err := h.schema().Check(ctx, details, true)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	if err := h.Store.UpdateCategory(ctx, id, vals); err != nil {
		handlers.Error(c, err)
		return
	}

	cat, err := h.Store.GetCategory(ctx, id)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	handlers.OK(c, "Category updated", cat)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := validate.CheckID("Category", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Store.GetCategory(ctx, id); err != nil {
		handlers.Error(c, err)
		return
	}

	if err := h.Store.DeleteCategory(ctx, id); err != nil {
		handlers.Error(c, err)
		return
	}
	handlers.OK(c, "Category deleted", nil)
}
