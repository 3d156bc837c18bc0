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

type discountStore interface {
	DiscountExists(ctx context.Context, id int64) (bool, error)
	GetDiscount(ctx context.Context, id int64) (*models.Discount, error)
	ListDiscounts(ctx context.Context) ([]models.Discount, error)
	CreateDiscount(ctx context.Context, d *models.Discount) error
	UpdateDiscount(ctx context.Context, id int64, updates map[string]any) error
	DeleteDiscount(ctx context.Context, id int64) error
}

type DiscountHandler struct {
	Store discountStore
}

func NewDiscountHandler(st discountStore) *DiscountHandler {
	return &DiscountHandler{Store: st}
}

func (h *DiscountHandler) schema() validate.Schema {
	return validate.Schema{
		Entity: "Discount",
		Fields: []validate.Field{
			{Name: "name", Kind: validate.String, Required: true, MinLen: 1},
			// Un pourcentage hors ]0;100] n'a pas de sens commercial.
			{Name: "percentage", Kind: validate.Float, Required: true, Positive: true, Max: 100},
		},
	}
}

func (h *DiscountHandler) List(c *gin.Context) {
	ds, err := h.Store.ListDiscounts(c.Request.Context())
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, ds)
}

func (h *DiscountHandler) GetByID(c *gin.Context) {
	id, err := validate.CheckID("Discount", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	d, err := h.Store.GetDiscount(c.Request.Context(), id)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DiscountHandler) Create(c *gin.Context) {
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

	d := &models.Discount{
		Name:       vals["name"].(string),
		Percentage: vals["percentage"].(float64),
	}

	if err := h.Store.CreateDiscount(ctx, d); err != nil {
		handlers.Error(c, err)
		return
	}
	handlers.Created(c, "Discount created", d)
}

func (h *DiscountHandler) Update(c *gin.Context) {
	id, err := validate.CheckID("Discount", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Store.GetDiscount(ctx, id); err != nil {
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

	if err := h.Store.UpdateDiscount(ctx, id, vals); err != nil {
		handlers.Error(c, err)
		return
	}

	d, err := h.Store.GetDiscount(ctx, id)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	handlers.OK(c, "Discount updated", d)
}

func (h *DiscountHandler) Delete(c *gin.Context) {
	id, err := validate.CheckID("Discount", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Store.GetDiscount(ctx, id); err != nil {
		handlers.Error(c, err)
		return
	}

	if err := h.Store.DeleteDiscount(ctx, id); err != nil {
		handlers.Error(c, err)
		return
	}
	handlers.OK(c, "Discount deleted", nil)
}
