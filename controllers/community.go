package controllers

import (
	"github.com/gin-gonic/gin"

	"craftmyprep-backend/controllers/authentication"
	"craftmyprep-backend/controllers/respond"
	"craftmyprep-backend/logger"
	"craftmyprep-backend/services/leaderboard"
	"craftmyprep-backend/services/notes"
	"craftmyprep-backend/services/questions"
)

type LeaderboardHandler struct {
	board *leaderboard.Service
	log   *logger.Logger
}

func NewLeaderboardHandler(svc *leaderboard.Service, log *logger.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{board: svc, log: log.With("handler", "LeaderboardHandler")}
}

func (h *LeaderboardHandler) Get(c *gin.Context) {
	board, err := h.board.Get(c.Request.Context(), authentication.UserID(c))
	if err != nil {
		respond.Error(c, h.log, err)
		return
	}
	respond.OK(c, board)
}

type NoteHandler struct {
	notes *notes.Service
	log   *logger.Logger
}

func NewNoteHandler(svc *notes.Service, log *logger.Logger) *NoteHandler {
	return &NoteHandler{notes: svc, log: log.With("handler", "NoteHandler")}
}

type createNoteRequest struct {
	Content string `json:"content"`
}

func (h *NoteHandler) List(c *gin.Context) {
	list, err := h.notes.List(c.Request.Context(), authentication.UserID(c))
	if err != nil {
		respond.Error(c, h.log, err)
		return
	}
	respond.OK(c, gin.H{"notes": list})
}

func (h *NoteHandler) Create(c *gin.Context) {
	var req createNoteRequest
	if !respond.BindJSON(c, &req) {
		return
	}
	note, err := h.notes.Create(c.Request.Context(), authentication.UserID(c), req.Content)
	if err != nil {
		respond.Error(c, h.log, err)
		return
	}
	respond.Created(c, gin.H{"note": note})
}

func (h *NoteHandler) Delete(c *gin.Context) {
	id, ok := respond.IDParam(c, "id")
	if !ok {
		return
	}
	if err := h.notes.Delete(c.Request.Context(), authentication.UserID(c), id); err != nil {
		respond.Error(c, h.log, err)
		return
	}
	respond.OK(c, gin.H{"message": "note deleted"})
}

type QuestionHandler struct {
	questions *questions.Service
	log       *logger.Logger
}

func NewQuestionHandler(svc *questions.Service, log *logger.Logger) *QuestionHandler {
	return &QuestionHandler{questions: svc, log: log.With("handler", "QuestionHandler")}
}

// ForCompanyRole serves GET /api/company-questions?company=&role=.
func (h *QuestionHandler) ForCompanyRole(c *gin.Context) {
	list, err := h.questions.ForCompanyRole(c.Request.Context(), authentication.UserID(c), c.Query("company"), c.Query("role"))
	if err != nil {
		respond.Error(c, h.log, err)
		return
	}
	respond.OK(c, gin.H{"questions": list})
}

func Health(c *gin.Context) {
	respond.OK(c, gin.H{"ok": true})
}
