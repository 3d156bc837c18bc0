package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"foodtruck_back_end/internal/apperr"
	"foodtruck_back_end/internal/config"
	"foodtruck_back_end/internal/handlers"
	"foodtruck_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// BeginAuth démarre le flux OAuth navigateur du provider du chemin.
func (h *Handler) BeginAuth(c *gin.Context) {
	q := c.Request.URL.Query()
	q.Set("provider", c.Param("provider"))
	c.Request.URL.RawQuery = q.Encode()

	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// CallbackAuth termine le flux OAuth : upsert de l'utilisateur, émission du
// JWT, puis redirection vers le front avec le token en query.
func (h *Handler) CallbackAuth(c *gin.Context) {
	q := c.Request.URL.Query()
	q.Set("provider", c.Param("provider"))
	c.Request.URL.RawQuery = q.Encode()

	gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		log.Printf("❌ Callback OAuth %s échoué: %v", c.Param("provider"), err)
		handlers.Error(c, apperr.New(apperr.Validation, "OAuth authentication failed"))
		return
	}
	if gothUser.Email == "" {
		handlers.Error(c, apperr.New(apperr.Validation, "OAuth provider did not return an email"))
		return
	}

	user, err := h.Store.UpsertOAuthUser(c.Request.Context(),
		gothUser.Email, gothUser.FirstName, gothUser.LastName, gothUser.Provider)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	token, err := utils.GenerateJWT(*user)
	if err != nil {
		handlers.Error(c, apperr.Wrap(err, "Internal server error"))
		return
	}

	log.Printf("✅ Connexion OAuth %s pour %s", gothUser.Provider, user.Email)
	c.Redirect(http.StatusSeeOther, h.ClientURL+"/auth/callback?token="+url.QueryEscape(token))
}

// GoogleExchange échange directement un code d'autorisation contre un token
// (clients mobiles qui ne passent pas par le flux navigateur).
func (h *Handler) GoogleExchange(c *gin.Context) {
	var body struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Code == "" {
		handlers.Error(c, apperr.New(apperr.Validation, "code is required"))
		return
	}

	ctx := c.Request.Context()
	oauthToken, err := config.GoogleOAuthConfig.Exchange(ctx, body.Code)
	if err != nil {
		handlers.Error(c, apperr.New(apperr.Validation, "Invalid authorization code"))
		return
	}

	resp, err := config.GoogleOAuthConfig.Client(ctx, oauthToken).Get(googleUserInfoURL)
	if err != nil {
		handlers.Error(c, apperr.Wrap(err, "Internal server error"))
		return
	}
	defer resp.Body.Close()

	var info struct {
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil || info.Email == "" {
		handlers.Error(c, apperr.Wrap(err, "Internal server error"))
		return
	}

	user, err := h.Store.UpsertOAuthUser(ctx, info.Email, info.GivenName, info.FamilyName, "google")
	if err != nil {
		handlers.Error(c, err)
		return
	}

	token, err := utils.GenerateJWT(*user)
	if err != nil {
		handlers.Error(c, apperr.Wrap(err, "Internal server error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged in", "token": token, "user": user})
}
