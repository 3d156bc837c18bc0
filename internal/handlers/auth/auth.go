// Package auth porte l'inscription, la connexion et les flux OAuth.
package auth

import (
	"context"
	"net/http"

	"foodtruck_back_end/internal/apperr"
	"foodtruck_back_end/internal/handlers"
	"foodtruck_back_end/internal/models"
	"foodtruck_back_end/internal/utils"
	"foodtruck_back_end/internal/validate"

	"github.com/gin-gonic/gin"
)

type userStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpsertOAuthUser(ctx context.Context, email, firstName, lastName, provider string) (*models.User, error)
}

type Handler struct {
	Store     userStore
	ClientURL string
}

func NewHandler(st userStore, clientURL string) *Handler {
	return &Handler{Store: st, ClientURL: clientURL}
}

func (h *Handler) registerSchema() validate.Schema {
	return validate.Schema{
		Entity: "User",
		Fields: []validate.Field{
			{Name: "firstName", Kind: validate.String, Required: true, MinLen: 2},
			{Name: "lastName", Kind: validate.String, Required: true, MinLen: 2},
			{Name: "email", Kind: validate.String, Required: true, MinLen: 1},
			{Name: "password", Kind: validate.String, Required: true, MinLen: 8},
		},
	}
}

func (h *Handler) Register(c *gin.Context) {
	var details map[string]any
	if err := c.ShouldBindJSON(&details); err != nil {
		handlers.Error(c, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}

	ctx := c.Request.Context()
	vals, err := h.registerSchema().Check(ctx, details, false)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	email := vals["email"].(string)
	if !validate.IsEmail(email) {
		handlers.Error(c, apperr.New(apperr.Validation, "email is not valid"))
		return
	}

	existing, err := h.Store.GetUserByEmail(ctx, email)
	if err != nil && !apperr.IsKind(err, apperr.NotFound) {
		handlers.Error(c, err)
		return
	}
	if existing != nil {
		handlers.Error(c, apperr.New(apperr.Conflict, "An account with this email already exists"))
		return
	}

	hash, err := utils.HashPassword(vals["password"].(string))
	if err != nil {
		handlers.Error(c, apperr.Wrap(err, "Internal server error"))
		return
	}

	user := &models.User{
		Email:        email,
		FirstName:    vals["firstName"].(string),
		LastName:     vals["lastName"].(string),
		Provider:     "local",
		PasswordHash: hash,
	}
	if err := h.Store.CreateUser(ctx, user); err != nil {
		handlers.Error(c, err)
		return
	}

	token, err := utils.GenerateJWT(*user)
	if err != nil {
		handlers.Error(c, apperr.Wrap(err, "Internal server error"))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Account created", "token": token, "user": user})
}

func (h *Handler) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Email == "" || body.Password == "" {
		handlers.Error(c, apperr.New(apperr.Validation, "email and password are required"))
		return
	}

	ctx := c.Request.Context()
	user, err := h.Store.GetUserByEmail(ctx, body.Email)
	if err != nil || user == nil || !utils.VerifyPassword(body.Password, user.PasswordHash) {
		// Même réponse qu'un mot de passe faux : ne pas révéler l'existence
		// du compte.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateJWT(*user)
	if err != nil {
		handlers.Error(c, apperr.Wrap(err, "Internal server error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged in", "token": token, "user": user})
}
