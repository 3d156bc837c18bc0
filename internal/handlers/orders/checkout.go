// Package orders porte le cœur du système : le workflow de checkout
// (initiation → session de paiement → callback → matérialisation de la
// commande) et la consultation des commandes.
package orders

import (
	"context"
	"log"
	"math"
	"net/http"
	"time"

	"foodtruck_back_end/internal/apperr"
	"foodtruck_back_end/internal/config"
	"foodtruck_back_end/internal/handlers"
	"foodtruck_back_end/internal/models"
	"foodtruck_back_end/internal/services"
	"foodtruck_back_end/internal/validate"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

type orderStore interface {
	CartExists(ctx context.Context, id int64) (bool, error)
	GetCart(ctx context.Context, id int64) (*models.Cart, error)
	GetCartProductOrders(ctx context.Context, cartID int64) ([]models.ProductOrder, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	GetUser(ctx context.Context, id gocql.UUID) (*models.User, error)
	SavePendingCheckout(ctx context.Context, pc *models.PendingCheckout) error
	GetPendingCheckout(ctx context.Context, orderID string) (*models.PendingCheckout, error)
	DeletePendingCheckout(ctx context.Context, orderID string) error
	CreateOrder(ctx context.Context, o *models.Order) error
	AttachProductOrders(ctx context.Context, orderID gocql.UUID, cartID int64, pos []models.ProductOrder) error
	GetOrder(ctx context.Context, id gocql.UUID) (*models.Order, error)
	GetOrderProductOrders(ctx context.Context, orderID gocql.UUID) ([]models.ProductOrder, error)
	ListOrdersByUser(ctx context.Context, userID gocql.UUID) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id gocql.UUID, status string) error
}

type Handler struct {
	Store     orderStore
	Payments  services.PaymentProvider
	BaseURL   string
	ClientURL string
	// Notify envoie l'email de confirmation avec QR et reçu PDF. Asynchrone,
	// best-effort : un échec ne remet pas le paiement en cause.
	Notify func(order models.Order, pos []models.ProductOrder)
	// PublishStatus diffuse un changement de statut vers les websockets.
	PublishStatus func(userID gocql.UUID, orderID, status string)
}

func NewHandler(st orderStore, payments services.PaymentProvider) *Handler {
	return &Handler{
		Store:         st,
		Payments:      payments,
		BaseURL:       config.BaseURL(),
		ClientURL:     config.ClientURL(),
		Notify:        DefaultNotify,
		PublishStatus: PublishOrderStatus,
	}
}

func (h *Handler) createSchema() validate.Schema {
	return validate.Schema{
		Entity: "Order",
		Fields: []validate.Field{
			{Name: "cartId", Column: "cart_id", Kind: validate.ID, Required: true,
				Entity: "Cart", Exists: h.Store.CartExists},
			{Name: "firstName", Kind: validate.String, Required: true, MinLen: 2},
			{Name: "lastName", Kind: validate.String, Required: true, MinLen: 2},
			{Name: "email", Kind: validate.String},
			{Name: "phoneNumber", Kind: validate.String},
		},
	}
}

// CreateOrder initie le checkout : valide les détails, fige un PendingCheckout
// dans Redis, crée la session de paiement hébergée et redirige vers elle.
// Tout échec interrompt avant l'appel externe.
func (h *Handler) CreateOrder(c *gin.Context) {
	var details map[string]any
	if err := c.ShouldBindJSON(&details); err != nil {
		handlers.Error(c, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}

	ctx := c.Request.Context()
	vals, err := h.createSchema().Check(ctx, details, false)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	email, _ := vals["email"].(string)
	phone, _ := vals["phoneNumber"].(string)
	if err := validate.RequireContact(email, phone); err != nil {
		handlers.Error(c, err)
		return
	}

	cartID := vals["cart_id"].(int64)
	cart, err := h.Store.GetCart(ctx, cartID)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	user, err := h.Store.GetUser(ctx, cart.UserID)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	pos, err := h.Store.GetCartProductOrders(ctx, cartID)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	if len(pos) == 0 {
		handlers.Error(c, apperr.New(apperr.Validation, "Cart is empty"))
		return
	}

	// L'id est généré avant le paiement pour figurer dans les URLs de callback.
	order := models.Order{
		ID:          gocql.UUID(uuid.New()),
		FirstName:   vals["firstName"].(string),
		LastName:    vals["lastName"].(string),
		Email:       email,
		PhoneNumber: phone,
		Total:       cart.Total,
		OrderStatus: models.OrderStatusUnpaid,
		UserID:      cart.UserID,
		CreatedAt:   time.Now(),
	}

	if err := h.Store.SavePendingCheckout(ctx, &models.PendingCheckout{Order: order, CartID: cartID}); err != nil {
		handlers.Error(c, err)
		return
	}

	items := make([]services.LineItem, 0, len(pos))
	for _, po := range pos {
		product, err := h.Store.GetProduct(ctx, po.ProductID)
		if err != nil {
			handlers.Error(c, err)
			return
		}
		items = append(items, services.LineItem{
			Name:        product.Name,
			Description: product.Description,
			ImageURL:    product.PhotoURL,
			UnitAmount:  int64(math.Round(po.Price * 100)),
			Quantity:    int64(po.Quantity),
		})
	}

	orderID := order.ID.String()
	successURL := h.BaseURL + "/api/orders/orderSuccess/" + orderID
	cancelURL := h.BaseURL + "/api/orders/orderCancel/" + orderID

	paymentURL, err := h.Payments.CreateCheckoutSession(ctx, user.Email, items, successURL, cancelURL)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	log.Printf("💳 Checkout initié pour la commande %s (panier %d)", orderID, cartID)
	c.Redirect(http.StatusSeeOther, paymentURL)
}

// OrderSuccess est le callback de succès du collaborateur de paiement. L'id
// du chemin doit correspondre exactement au PendingCheckout stocké, sinon la
// transition est refusée sans rien muter.
func (h *Handler) OrderSuccess(c *gin.Context) {
	id, err := validate.CheckUUID("Order", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	pc, err := h.Store.GetPendingCheckout(ctx, id.String())
	if err != nil {
		handlers.Error(c, err)
		return
	}
	if pc == nil || pc.Order.ID != id {
		handlers.Error(c, apperr.New(apperr.WorkflowState, "No pending order matches this ID"))
		return
	}

	// Le panier a pu être vidé entre l'initiation et le callback.
	pos, err := h.Store.GetCartProductOrders(ctx, pc.CartID)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	if len(pos) == 0 {
		handlers.Error(c, apperr.New(apperr.Validation, "Cart is empty"))
		return
	}

	pc.Order.OrderStatus = models.OrderStatusPaid
	if err := h.Store.CreateOrder(ctx, &pc.Order); err != nil {
		handlers.Error(c, err)
		return
	}
	if err := h.Store.AttachProductOrders(ctx, pc.Order.ID, pc.CartID, pos); err != nil {
		handlers.Error(c, err)
		return
	}
	if err := h.Store.DeletePendingCheckout(ctx, id.String()); err != nil {
		log.Printf("⚠️ Impossible de supprimer le pending checkout %s: %v", id, err)
	}

	if h.Notify != nil {
		go h.Notify(pc.Order, pos)
	}
	if h.PublishStatus != nil {
		h.PublishStatus(pc.Order.UserID, id.String(), models.OrderStatusPaid)
	}

	log.Printf("✅ Commande %s payée (%d lignes)", id, len(pos))
	c.Redirect(http.StatusSeeOther, h.ClientURL+"/orders/success/"+id.String())
}

// OrderCancel est le callback d'annulation : jette le PendingCheckout, ne
// touche à aucun état persistant.
func (h *Handler) OrderCancel(c *gin.Context) {
	id, err := validate.CheckUUID("Order", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	pc, err := h.Store.GetPendingCheckout(ctx, id.String())
	if err != nil {
		handlers.Error(c, err)
		return
	}
	if pc == nil || pc.Order.ID != id {
		handlers.Error(c, apperr.New(apperr.WorkflowState, "No pending order matches this ID"))
		return
	}

	if err := h.Store.DeletePendingCheckout(ctx, id.String()); err != nil {
		handlers.Error(c, err)
		return
	}

	log.Printf("🚫 Checkout annulé pour la commande %s", id)
	c.Redirect(http.StatusSeeOther, h.ClientURL+"/orders/cancel")
}
