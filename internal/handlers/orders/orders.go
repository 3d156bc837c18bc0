package orders

import (
	"net/http"

	"foodtruck_back_end/internal/apperr"
	"foodtruck_back_end/internal/handlers"
	"foodtruck_back_end/internal/models"
	"foodtruck_back_end/internal/validate"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

var allowedStatuses = map[string]bool{
	models.OrderStatusPaid:     true,
	models.OrderStatusReady:    true,
	models.OrderStatusPickedUp: true,
}

func currentUserID(c *gin.Context) (gocql.UUID, error) {
	id, err := gocql.ParseUUID(c.GetString("user_id"))
	if err != nil {
		return gocql.UUID{}, apperr.New(apperr.Validation, "User ID is not valid")
	}
	return id, nil
}

// GetMyOrders liste les commandes de l'utilisateur courant.
func (h *Handler) GetMyOrders(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	orders, err := h.Store.ListOrdersByUser(c.Request.Context(), userID)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetByID retourne une commande avec ses lignes. Une commande d'un autre
// utilisateur est indiscernable d'une commande inexistante.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := validate.CheckUUID("Order", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	userID, err := currentUserID(c)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	order, err := h.Store.GetOrder(ctx, id)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	if order.UserID != userID {
		handlers.Error(c, apperr.New(apperr.NotFound, "Order not found"))
		return
	}

	pos, err := h.Store.GetOrderProductOrders(ctx, id)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "productOrders": pos})
}

// UpdateStatus fait avancer une commande dans son cycle de retrait
// (Paid → Ready → PickedUp). Réservé au staff.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := validate.CheckUUID("Order", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Status == "" {
		handlers.Error(c, apperr.New(apperr.Validation, "status is required"))
		return
	}
	if !allowedStatuses[body.Status] {
		handlers.Error(c, apperr.New(apperr.Validation, "Invalid order status"))
		return
	}

	ctx := c.Request.Context()
	order, err := h.Store.GetOrder(ctx, id)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	if err := h.Store.UpdateOrderStatus(ctx, id, body.Status); err != nil {
		handlers.Error(c, err)
		return
	}

	if h.PublishStatus != nil {
		h.PublishStatus(order.UserID, id.String(), body.Status)
	}

	order.OrderStatus = body.Status
	handlers.OK(c, "Order status updated", order)
}
