package models

import "time"

type Product struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Price         float64    `json:"price"`
	PhotoURL      string     `json:"photoUrl,omitempty"`
	CategoryID    int64      `json:"categoryId"`
	DiscountID    *int64     `json:"discountId,omitempty"`
	IngredientIDs []int64    `json:"ingredientIds,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}
