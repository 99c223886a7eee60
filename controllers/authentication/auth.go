package authentication

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"craftmyprep-backend/controllers/respond"
	"craftmyprep-backend/logger"
	"craftmyprep-backend/models/users"
	"craftmyprep-backend/services/accounts"
	"craftmyprep-backend/services/profile"
)

// CookieOptions controls the session cookie set on sign-in.
type CookieOptions struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	accounts *accounts.Service
	profiles *profile.Service
	tokens   *TokenIssuer
	cookie   CookieOptions
	log      *logger.Logger
}

func NewAuthHandler(accountSvc *accounts.Service, profileSvc *profile.Service, tokens *TokenIssuer, cookie CookieOptions, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accountSvc,
		profiles: profileSvc,
		tokens:   tokens,
		cookie:   cookie,
		log:      log.With("handler", "AuthHandler"),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a password account and signs it in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req accounts.RegisterRequest
	if !respond.BindJSON(c, &req) {
		return
	}
	u, err := h.accounts.Register(c.Request.Context(), req)
	if err != nil {
		respond.Error(c, h.log, err)
		return
	}
	h.signIn(c, http.StatusCreated, u)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !respond.BindJSON(c, &req) {
		return
	}
	u, err := h.accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respond.Error(c, h.log, err)
		return
	}
	h.signIn(c, http.StatusOK, u)
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.profiles.Me(c.Request.Context(), UserID(c))
	if err != nil {
		respond.Error(c, h.log, err)
		return
	}
	respond.OK(c, gin.H{"user": u.Public()})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	respond.OK(c, gin.H{"message": "logged out"})
}

func (h *AuthHandler) signIn(c *gin.Context, status int, u *users.User) {
	token, err := h.setSessionCookie(c, u)
	if err != nil {
		respond.Error(c, h.log, err)
		return
	}
	c.JSON(status, gin.H{"user": u.Public(), "token": token})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, u *users.User) (string, error) {
	token, err := h.tokens.Issue(u)
	if err != nil {
		return "", err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, int(h.tokens.TTL().Seconds()), "/", "", h.cookie.Secure, true)
	return token, nil
}
