package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Cart struct {
	ID        int64      `json:"id"`
	Total     float64    `json:"total"`
	UserID    gocql.UUID `json:"userId"`
	CreatedAt time.Time  `json:"created_at,omitempty"`
}

// ProductOrder est une ligne de commande : un produit, une quantité, un prix,
// et d'éventuelles customizations. Rattachée à un panier avant paiement,
// puis à une commande après.
type ProductOrder struct {
	ID               int64       `json:"id"`
	ProductID        int64       `json:"productId"`
	Quantity         int         `json:"quantity"`
	Price            float64     `json:"price"`
	CartID           int64       `json:"cartId,omitempty"`
	OrderID          *gocql.UUID `json:"orderId,omitempty"`
	CustomizationIDs []int64     `json:"customizationIds,omitempty"`
}
