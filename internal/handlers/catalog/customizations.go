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

type customizationStore interface {
	IngredientExists(ctx context.Context, id int64) (bool, error)
	GetCustomization(ctx context.Context, id int64) (*models.Customization, error)
	ListCustomizations(ctx context.Context) ([]models.Customization, error)
	CreateCustomization(ctx context.Context, cu *models.Customization) error
	UpdateCustomization(ctx context.Context, id int64, updates map[string]any) error
	DeleteCustomization(ctx context.Context, id int64) error
}

type CustomizationHandler struct {
	Store customizationStore
}

func NewCustomizationHandler(st customizationStore) *CustomizationHandler {
	return &CustomizationHandler{Store: st}
}

func (h *CustomizationHandler) schema() validate.Schema {
	return validate.Schema{
		Entity: "Customization",
		Fields: []validate.Field{
			{Name: "quantity", Kind: validate.Int, Required: true, Positive: true},
			{Name: "price", Kind: validate.Float, Required: true, NonNegative: true},
			{Name: "ingredientId", Column: "ingredient_id", Kind: validate.ID, Required: true,
				Entity: "Ingredient", Exists: h.Store.IngredientExists},
		},
	}
}

func (h *CustomizationHandler) List(c *gin.Context) {
	cus, err := h.Store.ListCustomizations(c.Request.Context())
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, cus)
}

func (h *CustomizationHandler) GetByID(c *gin.Context) {
	id, err := validate.CheckID("Customization", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	cu, err := h.Store.GetCustomization(c.Request.Context(), id)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, cu)
}

func (h *CustomizationHandler) Create(c *gin.Context) {
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

	cu := &models.Customization{
		Quantity:     vals["quantity"].(int),
		Price:        vals["price"].(float64),
		IngredientID: vals["ingredient_id"].(int64),
	}

	if err := h.Store.CreateCustomization(ctx, cu); err != nil {
		handlers.Error(c, err)
		return
	}
	handlers.Created(c, "Customization created", cu)
}

func (h *CustomizationHandler) Update(c *gin.Context) {
	id, err := validate.CheckID("Customization", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Store.GetCustomization(ctx, id); err != nil {
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

	if err := h.Store.UpdateCustomization(ctx, id, vals); err != nil {
		handlers.Error(c, err)
		return
	}

	cu, err := h.Store.GetCustomization(ctx, id)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	handlers.OK(c, "Customization updated", cu)
}

func (h *CustomizationHandler) Delete(c *gin.Context) {
	id, err := validate.CheckID("Customization", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Store.GetCustomization(ctx, id); err != nil {
		handlers.Error(c, err)
		return
	}

	if err := h.Store.DeleteCustomization(ctx, id); err != nil {
		handlers.Error(c, err)
		return
	}
	handlers.OK(c, "Customization deleted", nil)
}
