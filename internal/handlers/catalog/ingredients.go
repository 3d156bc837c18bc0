package catalog

import (
	"context"
	"net/http"
	"strings"

	"foodtruck_back_end/internal/apperr"
	"foodtruck_back_end/internal/handlers"
	"foodtruck_back_end/internal/models"
	"foodtruck_back_end/internal/services"
	"foodtruck_back_end/internal/validate"

	"github.com/gin-gonic/gin"
)

type ingredientStore interface {
	IngredientExists(ctx context.Context, id int64) (bool, error)
	GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error)
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	CreateIngredient(ctx context.Context, ing *models.Ingredient) error
	UpdateIngredient(ctx context.Context, id int64, updates map[string]any) error
	DeleteIngredient(ctx context.Context, id int64) error
}

type IngredientHandler struct {
	Store ingredientStore
	// SavePhoto transforme un data URI en URL publique (MinIO en prod).
	SavePhoto func(ctx context.Context, dataURI string) (string, error)
}

func NewIngredientHandler(st ingredientStore) *IngredientHandler {
	return &IngredientHandler{Store: st, SavePhoto: services.SavePhoto}
}

func (h *IngredientHandler) schema() validate.Schema {
	return validate.Schema{
		Entity: "Ingredient",
		Fields: []validate.Field{
			{Name: "name", Kind: validate.String, Required: true, MinLen: 1},
			{Name: "price", Kind: validate.Float, Required: true, NonNegative: true},
		},
	}
}

// resolvePhoto accepte soit un data URI (uploadé vers le bucket), soit une
// URL déjà hébergée.
func (h *IngredientHandler) resolvePhoto(ctx context.Context, details map[string]any) (string, bool, error) {
	raw, present := details["photo"]
	if !present || raw == nil {
		return "", false, nil
	}
	str, ok := raw.(string)
	if !ok {
		return "", false, apperr.New(apperr.Validation, "photo must be a string")
	}
	if strings.HasPrefix(str, "data:") {
		url, err := h.SavePhoto(ctx, str)
		if err != nil {
			return "", false, err
		}
		return url, true, nil
	}
	return str, true, nil
}

func (h *IngredientHandler) List(c *gin.Context) {
	ings, err := h.Store.ListIngredients(c.Request.Context())
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, ings)
}

func (h *IngredientHandler) GetByID(c *gin.Context) {
	id, err := validate.CheckID("Ingredient", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	ing, err := h.Store.GetIngredient(c.Request.Context(), id)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, ing)
}

func (h *IngredientHandler) Create(c *gin.Context) {
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

	ing := &models.Ingredient{
		Name:  vals["name"].(string),
		Price: vals["price"].(float64),
	}

	photoURL, hasPhoto, err := h.resolvePhoto(ctx, details)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	if hasPhoto {
		ing.PhotoURL = photoURL
	}

	if err := h.Store.CreateIngredient(ctx, ing); err != nil {
		handlers.Error(c, err)
		return
	}
	handlers.Created(c, "Ingredient created", ing)
}

func (h *IngredientHandler) Update(c *gin.Context) {
	id, err := validate.CheckID("Ingredient", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Store.GetIngredient(ctx, id); err != nil {
		handlers.Error(c, err)
		return
	}

	var details map[string]any
	if err := c.ShouldBindJSON(&details); err != nil {
		handlers.Error(c, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}

	vals, err := h.schema().Check(ctx, details, true)
	if err != nil {
		// La photo seule suffit à faire une mise à jour.
		if _, hasPhoto := details["photo"]; !hasPhoto || !apperr.IsKind(err, apperr.NoOp) {
			handlers.Error(c, err)
			return
		}
		vals = map[string]any{}
	}

	photoURL, hasPhoto, err := h.resolvePhoto(ctx, details)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	if hasPhoto {
		vals["photo_url"] = photoURL
	}

	if len(vals) > 0 {
		if err := h.Store.UpdateIngredient(ctx, id, vals); err != nil {
			handlers.Error(c, err)
			return
		}
	}

	ing, err := h.Store.GetIngredient(ctx, id)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	handlers.OK(c, "Ingredient updated", ing)
}

func (h *IngredientHandler) Delete(c *gin.Context) {
	id, err := validate.CheckID("Ingredient", c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Store.GetIngredient(ctx, id); err != nil {
		handlers.Error(c, err)
		return
	}

	if err := h.Store.DeleteIngredient(ctx, id); err != nil {
		handlers.Error(c, err)
		return
	}
	handlers.OK(c, "Ingredient deleted", nil)
}
