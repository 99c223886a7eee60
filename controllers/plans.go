package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"craftmyprep-backend/controllers/authentication"
	"craftmyprep-backend/controllers/respond"
	"craftmyprep-backend/logger"
	planmodel "craftmyprep-backend/models/plans"
	"craftmyprep-backend/services/plans"
)

type PlanHandler struct {
	plans *plans.Service
	log   *logger.Logger
}

func NewPlanHandler(svc *plans.Service, log *logger.Logger) *PlanHandler {
	return &PlanHandler{plans: svc, log: log.With("handler", "PlanHandler")}
}

type generatePlanRequest struct {
	JobDescription string `json:"jobDescription"`
}

// Generate always answers 200 with a plan; provider failures yield the
// fallback plan.
func (h *PlanHandler) Generate(c *gin.Context) {
	var req generatePlanRequest
	if !respond.BindJSON(c, &req) {
		return
	}
	plan, err := h.plans.Generate(c.Request.Context(), authentication.UserID(c), req.JobDescription)
	if err != nil {
		respond.Error(c, h.log, err)
		return
	}
	respond.OK(c, gin.H{"plan": plan.View()})
}

func (h *PlanHandler) List(c *gin.Context) {
	list, err := h.plans.List(c.Request.Context(), authentication.UserID(c))
	if err != nil {
		respond.Error(c, h.log, err)
		return
	}
	views := make([]planmodel.View, 0, len(list))
	for i := range list {
		views = append(views, list[i].View())
	}
	respond.OK(c, gin.H{"plans": views})
}

func (h *PlanHandler) Get(c *gin.Context) {
	planID, ok := respond.IDParam(c, "planId")
	if !ok {
		return
	}
	plan, err := h.plans.Get(c.Request.Context(), authentication.UserID(c), planID)
	if err != nil {
		respond.Error(c, h.log, err)
		return
	}
	respond.OK(c, gin.H{"plan": plan.View()})
}

func (h *PlanHandler) CompleteStep(c *gin.Context) {
	planID, ok := respond.IDParam(c, "planId")
	if !ok {
		return
	}
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil || day < 1 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid day"})
		return
	}
	plan, err := h.plans.CompleteStep(c.Request.Context(), authentication.UserID(c), planID, day)
	if err != nil {
		respond.Error(c, h.log, err)
		return
	}
	respond.OK(c, gin.H{"plan": plan.View()})
}
