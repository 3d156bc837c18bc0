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

type optionStore interface {
	ProductExists(ctx context.Context, id int64) (bool, error)
	OptionGroupExists(ctx context.Context, id int64) (bool, error)
	GetOptionGroup(ctx context.Context, id int64) (*models.OptionGroup, error)
	ListOptionGroups(ctx context.Context) ([]models.OptionGroup, error)
	CreateOptionGroup(ctx context.Context, g *models.OptionGroup) error
	UpdateOptionGroup(ctx context.Context, id int64, updates map[string]any) error
	DeleteOptionGroup(ctx context.Context, id int64) error
	GetOption(ctx context.Context, id int64) (*models.Option, error)
	CreateOption(ctx context.Context, opt *models.Option) error
	UpdateOption(ctx context.Context, id int64, updates map[string]any) error
	DeleteOption(ctx context.Context, id int64) error
}

// OptionHandler couvre les deux niveaux : groupes d'options et options.
type OptionHandler struct {
	Store optionStore
}

func NewOptionHandler(st optionStore) *OptionHandler {
	return &OptionHandler{Store: st}
}

func (h *OptionHandler) groupSchema() validate.Schema {
	return validate.Schema{
		Entity: "OptionGroup",
		Fields: []validate.Field{
			{Name: "name", Kind: validate.String, Required: true, MinLen: 1},
			{Name: "productId", Column: "product_id", Kind: validate.ID, Required: true,
				Entity: "Product", Exists: h.Store.ProductExists},
		},
	}
}

func (h *OptionHandler) optionSchema() validate.Schema {
	return validate.Schema{
		Entity: "Option",
		Fields: []validate.Field{
			{Name: "name", Kind: validate.String, Required: true, MinLen: 1},
			{Name: "price", Kind: validate.Float, Required: true, NonNegative: true},
			{Name: "optionGroupId", Column: "option_group_id", Kind: validate.ID, Required: true,
				Entity: "OptionGroup", Exists: h.Store.OptionGroupExists},
		},
	}
}

func (h *OptionHandler) ListGroups(c *gin.Context) {
	groups, err := h.Store.ListOptionGroups(c.Request.Context())
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

func (h *OptionHandler) GetGroupByID(c *gin.Context) {
	id, err := validate.CheckID("OptionGroup", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	group, err := h.Store.GetOptionGroup(c.Request.Context(), id)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *OptionHandler) CreateGroup(c *gin.Context) {
	var details map[string]any
	if err := c.ShouldBindJSON(&details); err != nil {
		handlers.Error(c, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}

	ctx := c.Request.Context()
	vals, err := h.groupSchema().Check(ctx, details, false)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	group := &models.OptionGroup{
		Name:      vals["name"].(string),
		ProductID: vals["product_id"].(int64),
	}

	if err := h.Store.CreateOptionGroup(ctx, group); err != nil {
		handlers.Error(c, err)
		return
	}
	handlers.Created(c, "OptionGroup created", group)
}

func (h *OptionHandler) UpdateGroup(c *gin.Context) {
	id, err := validate.CheckID("OptionGroup", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Store.GetOptionGroup(ctx, id); err != nil {
		handlers.Error(c, err)
		return
	}

	var details map[string]any
	if err := c.ShouldBindJSON(&details); err != nil {
		handlers.Error(c, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}

	vals, err := h.groupSchema().Check(ctx, details, true)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	if err := h.Store.UpdateOptionGroup(ctx, id, vals); err != nil {
		handlers.Error(c, err)
		return
	}

	group, err := h.Store.GetOptionGroup(ctx, id)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	handlers.OK(c, "OptionGroup updated", group)
}

func (h *OptionHandler) DeleteGroup(c *gin.Context) {
	id, err := validate.CheckID("OptionGroup", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Store.GetOptionGroup(ctx, id); err != nil {
		handlers.Error(c, err)
		return
	}

	if err := h.Store.DeleteOptionGroup(ctx, id); err != nil {
		handlers.Error(c, err)
		return
	}
	handlers.OK(c, "OptionGroup deleted", nil)
}

func (h *OptionHandler) GetOptionByID(c *gin.Context) {
	id, err := validate.CheckID("Option", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	opt, err := h.Store.GetOption(c.Request.Context(), id)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, opt)
}

func (h *OptionHandler) CreateOption(c *gin.Context) {
	var details map[string]any
	if err := c.ShouldBindJSON(&details); err != nil {
		handlers.Error(c, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}

	ctx := c.Request.Context()
	vals, err := h.optionSchema().Check(ctx, details, false)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	opt := &models.Option{
		Name:          vals["name"].(string),
		Price:         vals["price"].(float64),
		OptionGroupID: vals["option_group_id"].(int64),
	}

	if err := h.Store.CreateOption(ctx, opt); err != nil {
		handlers.Error(c, err)
		return
	}
	handlers.Created(c, "Option created", opt)
}

func (h *OptionHandler) UpdateOption(c *gin.Context) {
	id, err := validate.CheckID("Option", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Store.GetOption(ctx, id); err != nil {
		handlers.Error(c, err)
		return
	}

	var details map[string]any
	if err := c.ShouldBindJSON(&details); err != nil {
		handlers.Error(c, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}

	vals, err := h.optionSchema().Check(ctx, details, true)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	if err := h.Store.UpdateOption(ctx, id, vals); err != nil {
		handlers.Error(c, err)
		return
	}

	opt, err := h.Store.GetOption(ctx, id)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	handlers.OK(c, "Option updated", opt)
}

func (h *OptionHandler) DeleteOption(c *gin.Context) {
	id, err := validate.CheckID("Option", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Store.GetOption(ctx, id); err != nil {
		handlers.Error(c, err)
		return
	}

	if err := h.Store.DeleteOption(ctx, id); err != nil {
		handlers.Error(c, err)
		return
	}
	handlers.OK(c, "Option deleted", nil)
}
