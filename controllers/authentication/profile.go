package authentication

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"craftmyprep-backend/controllers/respond"
	"craftmyprep-backend/logger"
	"craftmyprep-backend/services/profile"
)

type ProfileHandler struct {
	profiles *profile.Service
	cookie   CookieOptions
	log      *logger.Logger
}

func NewProfileHandler(profiles *profile.Service, cookie CookieOptions, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, cookie: cookie, log: log.With("handler", "ProfileHandler")}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	u, err := h.profiles.Me(c.Request.Context(), UserID(c))
	if err != nil {
		respond.Error(c, h.log, err)
		return
	}
	respond.OK(c, gin.H{"user": u.Public()})
}

// Update changes the name and/or password.
func (h *ProfileHandler) Update(c *gin.Context) {
	var req profile.UpdateRequest
	if !respond.BindJSON(c, &req) {
		return
	}
	u, err := h.profiles.Update(c.Request.Context(), UserID(c), req)
	if err != nil {
		respond.Error(c, h.log, err)
		return
	}
	respond.OK(c, gin.H{"id": u.ID, "email": u.EmailAddress(), "name": u.Name})
}

// Delete removes the account with all of its data and signs the client out.
func (h *ProfileHandler) Delete(c *gin.Context) {
	if err := h.profiles.Delete(c.Request.Context(), UserID(c)); err != nil {
		respond.Error(c, h.log, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	respond.OK(c, gin.H{"message": "account deleted"})
}
