package controllers

import (
	"github.com/gin-gonic/gin"

	"craftmyprep-backend/controllers/authentication"
	"craftmyprep-backend/controllers/respond"
	"craftmyprep-backend/logger"
	"craftmyprep-backend/services/challenges"
)

type ChallengeHandler struct {
	challenges *challenges.Service
	log        *logger.Logger
}

func NewChallengeHandler(svc *challenges.Service, log *logger.Logger) *ChallengeHandler {
	return &ChallengeHandler{challenges: svc, log: log.With("handler", "ChallengeHandler")}
}

func (h *ChallengeHandler) Today(c *gin.Context) {
	challenge, err := h.challenges.Today(c.Request.Context(), authentication.UserID(c))
	if err != nil {
		respond.Error(c, h.log, err)
		return
	}
	respond.OK(c, gin.H{"challenge": challenge})
}

func (h *ChallengeHandler) MarkSolved(c *gin.Context) {
	id, ok := respond.IDParam(c, "id")
	if !ok {
		return
	}
	challenge, err := h.challenges.MarkSolved(c.Request.Context(), authentication.UserID(c), id)
	if err != nil {
		respond.Error(c, h.log, err)
		return
	}
	respond.OK(c, gin.H{"message": "challenge marked as solved", "challenge": challenge})
}

func (h *ChallengeHandler) History(c *gin.Context) {
	history, err := h.challenges.History(c.Request.Context(), authentication.UserID(c))
	if err != nil {
		respond.Error(c, h.log, err)
		return
	}
	respond.OK(c, gin.H{"history": history})
}
