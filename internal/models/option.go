package models

// OptionGroup est un choix configurable au niveau catalogue (taille, suppléments...)
// rattaché à un produit. Distinct d'une Customization qui se décide au moment
// de la commande.
type OptionGroup struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	ProductID int64    `json:"productId"`
	Options   []Option `json:"options,omitempty"`
}

type Option struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	OptionGroupID int64   `json:"optionGroupId"`
}
