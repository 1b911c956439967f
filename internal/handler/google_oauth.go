package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"carelink/config"
	"carelink/internal/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type GoogleOAuthHandler struct {
	cfg     *config.Config
	authSvc *service.AuthService
}

func NewGoogleOAuthHandler(cfg *config.Config, authSvc *service.AuthService) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{cfg: cfg, authSvc: authSvc}
}

func (h *GoogleOAuthHandler) OAuth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.cfg.OAuth.GoogleClientID,
		ClientSecret: h.cfg.OAuth.GoogleClientSecret,
		RedirectURL:  h.cfg.OAuth.GoogleRedirectURL,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
		Endpoint:     google.Endpoint,
	}
}

// Redirect sends the user to the Google consent screen. An optional role
// query is carried through the state parameter and applied only to brand-new
// accounts.
func (h *GoogleOAuthHandler) Redirect(c *gin.Context) {
	if h.cfg.OAuth.GoogleClientID == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google OAuth not configured"})
		return
	}
	state := "role:" + c.DefaultQuery("role", "customer")
	authURL := h.OAuth2Config().AuthCodeURL(state, oauth2.AccessTypeOffline)
	c.Redirect(http.StatusFound, authURL)
}

type googleUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Callback exchanges the code, fetches the Google profile, finds or creates
// the account, and returns tokens.
func (h *GoogleOAuthHandler) Callback(c *gin.Context) {
	if h.cfg.OAuth.GoogleClientID == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google OAuth not configured"})
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
		return
	}
	ctx := c.Request.Context()
	conf := h.OAuth2Config()
	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "code exchange failed"})
		return
	}

	resp, err := conf.Client(ctx, tok).Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "fetching Google profile failed"})
		return
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "fetching Google profile failed"})
		return
	}
	var info googleUserInfo
	if err := json.Unmarshal(body, &info); err != nil || info.ID == "" || info.Email == "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": "invalid Google profile"})
		return
	}

	role := ""
	if state := c.Query("state"); len(state) > 5 && state[:5] == "role:" {
		role = state[5:]
	}
	p, access, refresh, isNew, err := h.authSvc.LoginWithGoogle(info.ID, info.Email, info.Name, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign-in failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":          p,
		"access_token":  access,
		"refresh_token": refresh,
		"is_new":        isNew,
	})
}

// TokenSignIn accepts an ID-token-less flow for SPA clients that completed
// the consent screen themselves and hold an access token.
func (h *GoogleOAuthHandler) TokenSignIn(c *gin.Context) {
	var req struct {
		AccessToken string `json:"access_token" binding:"required"`
		Role        string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + url.QueryEscape(req.AccessToken))
	if err != nil || resp.StatusCode != http.StatusOK {
		if resp != nil {
			resp.Body.Close()
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid Google token"})
		return
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "fetching Google profile failed"})
		return
	}
	var info googleUserInfo
	if err := json.Unmarshal(body, &info); err != nil || info.ID == "" || info.Email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid Google token"})
		return
	}
	p, access, refresh, isNew, err := h.authSvc.LoginWithGoogle(info.ID, info.Email, info.Name, req.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign-in failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":          p,
		"access_token":  access,
		"refresh_token": refresh,
		"is_new":        isNew,
	})
}
