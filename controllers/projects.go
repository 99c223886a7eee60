package controllers

import (
	"github.com/gin-gonic/gin"

	"craftmyprep-backend/controllers/authentication"
	"craftmyprep-backend/controllers/respond"
	"craftmyprep-backend/logger"
	"craftmyprep-backend/services/projects"
)

type ProjectHandler struct {
	projects *projects.Service
	log      *logger.Logger
}

func NewProjectHandler(svc *projects.Service, log *logger.Logger) *ProjectHandler {
	return &ProjectHandler{projects: svc, log: log.With("handler", "ProjectHandler")}
}

func (h *ProjectHandler) Generate(c *gin.Context) {
	var req projects.GenerateRequest
	if !respond.BindJSON(c, &req) {
		return
	}
	project, err := h.projects.Generate(c.Request.Context(), authentication.UserID(c), req)
	if err != nil {
		respond.Error(c, h.log, err)
		return
	}
	respond.Created(c, gin.H{"project": project})
}

func (h *ProjectHandler) List(c *gin.Context) {
	list, err := h.projects.List(c.Request.Context(), authentication.UserID(c))
	if err != nil {
		respond.Error(c, h.log, err)
		return
	}
	respond.OK(c, gin.H{"projects": list})
}

func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := respond.IDParam(c, "id")
	if !ok {
		return
	}
	project, err := h.projects.Get(c.Request.Context(), authentication.UserID(c), id)
	if err != nil {
		respond.Error(c, h.log, err)
		return
	}
	respond.OK(c, gin.H{"project": project})
}

// MarkComplete awards XP on the first completion only.
func (h *ProjectHandler) MarkComplete(c *gin.Context) {
	id, ok := respond.IDParam(c, "id")
	if !ok {
		return
	}
	project, err := h.projects.MarkComplete(c.Request.Context(), authentication.UserID(c), id)
	if err != nil {
		respond.Error(c, h.log, err)
		return
	}
	respond.OK(c, gin.H{"project": project})
}
