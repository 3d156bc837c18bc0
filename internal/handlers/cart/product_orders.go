package cart

import (
	"context"
	"net/http"

	"foodtruck_back_end/internal/apperr"
	"foodtruck_back_end/internal/handlers"
	"foodtruck_back_end/internal/models"
	"foodtruck_back_end/internal/validate"

	"github.com/gin-gonic/gin"
)

type productOrderStore interface {
	ProductExists(ctx context.Context, id int64) (bool, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CartExists(ctx context.Context, id int64) (bool, error)
	GetProductOrder(ctx context.Context, id int64) (*models.ProductOrder, error)
	CreateProductOrder(ctx context.Context, po *models.ProductOrder) error
	DeleteProductOrder(ctx context.Context, id int64) error
	CustomizationExists(ctx context.Context, id int64) (bool, error)
	AttachCustomization(ctx context.Context, productOrderID, customizationID int64) error
	DetachCustomization(ctx context.Context, productOrderID, customizationID int64) error
	GetCustomization(ctx context.Context, id int64) (*models.Customization, error)
}

type ProductOrderHandler struct {
	Store productOrderStore
}

func NewProductOrderHandler(st productOrderStore) *ProductOrderHandler {
	return &ProductOrderHandler{Store: st}
}

func (h *ProductOrderHandler) schema() validate.Schema {
	return validate.Schema{
		Entity: "ProductOrder",
		Fields: []validate.Field{
			{Name: "productId", Column: "product_id", Kind: validate.ID, Required: true,
				Entity: "Product", Exists: h.Store.ProductExists},
			{Name: "quantity", Kind: validate.Int, Required: true, Positive: true},
			{Name: "cartId", Column: "cart_id", Kind: validate.ID,
				Entity: "Cart", Exists: h.Store.CartExists},
		},
	}
}

func (h *ProductOrderHandler) GetByID(c *gin.Context) {
	id, err := validate.CheckID("ProductOrder", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	po, err := h.Store.GetProductOrder(c.Request.Context(), id)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, po)
}

// Create pose une ligne de commande. Le prix unitaire est figé au prix
// catalogue du moment, il ne bougera plus même si le produit change.
func (h *ProductOrderHandler) Create(c *gin.Context) {
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

	product, err := h.Store.GetProduct(ctx, vals["product_id"].(int64))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	po := &models.ProductOrder{
		ProductID: product.ID,
		Quantity:  vals["quantity"].(int),
		Price:     product.Price,
	}
	if cartID, ok := vals["cart_id"].(int64); ok {
		po.CartID = cartID
	}

	if err := h.Store.CreateProductOrder(ctx, po); err != nil {
		handlers.Error(c, err)
		return
	}
	handlers.Created(c, "ProductOrder created", po)
}

func (h *ProductOrderHandler) Delete(c *gin.Context) {
	id, err := validate.CheckID("ProductOrder", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	if err := h.Store.DeleteProductOrder(c.Request.Context(), id); err != nil {
		handlers.Error(c, err)
		return
	}
	handlers.OK(c, "ProductOrder deleted", nil)
}

// AttachCustomization lie une customization à la ligne. Refusé en double.
func (h *ProductOrderHandler) AttachCustomization(c *gin.Context) {
	poID, err := validate.CheckID("ProductOrder", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Store.GetProductOrder(ctx, poID); err != nil {
		handlers.Error(c, err)
		return
	}

	var body struct {
		CustomizationID any `json:"customizationId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		handlers.Error(c, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}

	schema := validate.Schema{Entity: "ProductOrder", Fields: []validate.Field{
		{Name: "customizationId", Kind: validate.ID, Required: true,
			Entity: "Customization", Exists: h.Store.CustomizationExists},
	}}
	vals, err := schema.Check(ctx, map[string]any{"customizationId": body.CustomizationID}, false)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	if err := h.Store.AttachCustomization(ctx, poID, vals["customizationId"].(int64)); err != nil {
		handlers.Error(c, err)
		return
	}
	handlers.OK(c, "Customization added to product order", nil)
}

func (h *ProductOrderHandler) DetachCustomization(c *gin.Context) {
	poID, err := validate.CheckID("ProductOrder", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}
	cuID, err := validate.CheckID("Customization", c.Param("customizationId"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Store.GetProductOrder(ctx, poID); err != nil {
		handlers.Error(c, err)
		return
	}
	if _, err := h.Store.GetCustomization(ctx, cuID); err != nil {
		handlers.Error(c, err)
		return
	}

	if err := h.Store.DetachCustomization(ctx, poID, cuID); err != nil {
		handlers.Error(c, err)
		return
	}
	handlers.OK(c, "Customization removed from product order", nil)
}
