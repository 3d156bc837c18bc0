package models

import (
	"time"

	"github.com/gocql/gocql"
)

const (
	OrderStatusUnpaid   = "unPaid"
	OrderStatusPaid     = "Paid"
	OrderStatusReady    = "Ready"
	OrderStatusPickedUp = "PickedUp"
)

// Order est la trace durable d'un achat payé. L'ID est généré avant la
// confirmation du paiement pour pouvoir figurer dans les URLs de callback.
type Order struct {
	ID          gocql.UUID `json:"id"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Email       string     `json:"email,omitempty"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	Total       float64    `json:"total"`
	OrderStatus string     `json:"orderStatus"`
	UserID      gocql.UUID `json:"userId"`
	CreatedAt   time.Time  `json:"created_at,omitempty"`
}

// PendingCheckout est l'état intermédiaire entre l'initiation du checkout et
// le callback de paiement. Stocké dans Redis avec TTL, adressé par l'ID de
// la future commande — survit aux redémarrages et aux onglets multiples.
type PendingCheckout struct {
	Order  Order `json:"order"`
	CartID int64 `json:"cartId"`
}
