package models

// Customization est une modification d'ingrédient (ajout/substitution) avec
// son propre prix et sa quantité, rattachée à un ou plusieurs product orders.
type Customization struct {
	ID           int64   `json:"id"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	IngredientID int64   `json:"ingredientId"`
}
