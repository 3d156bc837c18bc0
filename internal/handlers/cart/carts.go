// Package cart porte les contrôleurs du panier et de ses lignes de commande.
package cart

import (
	"context"
	"net/http"

	"foodtruck_back_end/internal/apperr"
	"foodtruck_back_end/internal/handlers"
	"foodtruck_back_end/internal/models"
	"foodtruck_back_end/internal/validate"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

type cartStore interface {
	GetCart(ctx context.Context, id int64) (*models.Cart, error)
	GetCartByUser(ctx context.Context, userID gocql.UUID) (*models.Cart, error)
	CreateCart(ctx context.Context, cart *models.Cart) error
	DeleteCart(ctx context.Context, id int64) error
	GetCartProductOrders(ctx context.Context, cartID int64) ([]models.ProductOrder, error)
	AddProductOrderToCart(ctx context.Context, cartID int64, po *models.ProductOrder) error
	RemoveProductOrderFromCart(ctx context.Context, cartID, productOrderID int64) error
	GetProductOrder(ctx context.Context, id int64) (*models.ProductOrder, error)
}

type CartHandler struct {
	Store cartStore
}

func NewCartHandler(st cartStore) *CartHandler {
	return &CartHandler{Store: st}
}

// currentUserID lit l'identité posée par le middleware JWT.
func currentUserID(c *gin.Context) (gocql.UUID, error) {
	id, err := gocql.ParseUUID(c.GetString("user_id"))
	if err != nil {
		return gocql.UUID{}, apperr.New(apperr.Validation, "User ID is not valid")
	}
	return id, nil
}

// Create ouvre le panier de l'utilisateur courant. Idempotent : s'il en a
// déjà un, on le retourne tel quel.
func (h *CartHandler) Create(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	existing, err := h.Store.GetCartByUser(ctx, userID)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	if existing != nil {
		handlers.OK(c, "Cart already exists", existing)
		return
	}

	cart := &models.Cart{UserID: userID}
	if err := h.Store.CreateCart(ctx, cart); err != nil {
		handlers.Error(c, err)
		return
	}
	handlers.Created(c, "Cart created", cart)
}

// GetMine retourne le panier de l'utilisateur courant avec ses lignes.
func (h *CartHandler) GetMine(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	cart, err := h.Store.GetCartByUser(ctx, userID)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	if cart == nil {
		handlers.Error(c, apperr.New(apperr.NotFound, "Cart not found"))
		return
	}

	pos, err := h.Store.GetCartProductOrders(ctx, cart.ID)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart, "productOrders": pos})
}

func (h *CartHandler) GetByID(c *gin.Context) {
	id, err := validate.CheckID("Cart", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	cart, err := h.Store.GetCart(ctx, id)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	pos, err := h.Store.GetCartProductOrders(ctx, id)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart, "productOrders": pos})
}

func (h *CartHandler) Delete(c *gin.Context) {
	id, err := validate.CheckID("Cart", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Store.GetCart(ctx, id); err != nil {
		handlers.Error(c, err)
		return
	}

	if err := h.Store.DeleteCart(ctx, id); err != nil {
		handlers.Error(c, err)
		return
	}
	handlers.OK(c, "Cart deleted", nil)
}

// AddProductOrder lie une ligne existante au panier.
func (h *CartHandler) AddProductOrder(c *gin.Context) {
	cartID, err := validate.CheckID("Cart", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Store.GetCart(ctx, cartID); err != nil {
		handlers.Error(c, err)
		return
	}

	var body struct {
		ProductOrderID any `json:"productOrderId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		handlers.Error(c, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}

	schema := validate.Schema{Entity: "Cart", Fields: []validate.Field{
		{Name: "productOrderId", Kind: validate.ID, Required: true, Entity: "ProductOrder"},
	}}
	vals, err := schema.Check(ctx, map[string]any{"productOrderId": body.ProductOrderID}, false)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	po, err := h.Store.GetProductOrder(ctx, vals["productOrderId"].(int64))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	if err := h.Store.AddProductOrderToCart(ctx, cartID, po); err != nil {
		handlers.Error(c, err)
		return
	}
	handlers.OK(c, "ProductOrder added to cart", nil)
}

func (h *CartHandler) RemoveProductOrder(c *gin.Context) {
	cartID, err := validate.CheckID("Cart", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}
	poID, err := validate.CheckID("ProductOrder", c.Param("productOrderId"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Store.GetCart(ctx, cartID); err != nil {
		handlers.Error(c, err)
		return
	}
	if _, err := h.Store.GetProductOrder(ctx, poID); err != nil {
		handlers.Error(c, err)
		return
	}

	if err := h.Store.RemoveProductOrderFromCart(ctx, cartID, poID); err != nil {
		handlers.Error(c, err)
		return
	}
	handlers.OK(c, "ProductOrder removed from cart", nil)
}
