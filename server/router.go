package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"craftmyprep-backend/config"
	"craftmyprep-backend/controllers"
	"craftmyprep-backend/controllers/authentication"
	"craftmyprep-backend/controllers/httpCors"
	"craftmyprep-backend/logger"
)

type RouterConfig struct {
	Config         config.Config
	Log            *logger.Logger
	AuthMiddleware *authentication.Middleware
	Auth           *authentication.AuthHandler
	GitHub         *authentication.GitHubHandler
	Profile        *authentication.ProfileHandler
	Plans          *controllers.PlanHandler
	Challenges     *controllers.ChallengeHandler
	Projects       *controllers.ProjectHandler
	Leaderboard    *controllers.LeaderboardHandler
	Notes          *controllers.NoteHandler
	Questions      *controllers.QuestionHandler
}

// NewRouter wires every route and wraps the engine with CORS.
func NewRouter(cfg RouterConfig) http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(cfg.Log))

	router.GET("/health", controllers.Health)

	auth := router.Group("/auth")
	{
		auth.POST("/register", cfg.Auth.Register)
		auth.POST("/login", cfg.Auth.Login)
		auth.POST("/logout", cfg.Auth.Logout)
		auth.GET("/me", cfg.AuthMiddleware.RequireAuth(), cfg.Auth.Me)
		auth.GET("/github", cfg.GitHub.Login)
		auth.GET("/github/callback", cfg.GitHub.Callback)
	}

	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	api.POST("/plans/generate", cfg.Plans.Generate)
	api.GET("/plans", cfg.Plans.List)
	api.GET("/plans/:planId", cfg.Plans.Get)
	api.PATCH("/plans/:planId/steps/:day/complete", cfg.Plans.CompleteStep)

	api.GET("/challenges/today", cfg.Challenges.Today)
	api.POST("/challenges/:id/mark-solved", cfg.Challenges.MarkSolved)
	api.GET("/challenges/history", cfg.Challenges.History)

	api.GET("/miniprojects", cfg.Projects.List)
	api.POST("/miniprojects", cfg.Projects.Generate)
	api.GET("/miniprojects/:id", cfg.Projects.Get)
	api.PATCH("/miniprojects/:id/mark-complete", cfg.Projects.MarkComplete)

	api.GET("/leaderboard", cfg.Leaderboard.Get)

	api.GET("/notes", cfg.Notes.List)
	api.POST("/notes", cfg.Notes.Create)
	api.DELETE("/notes/:id", cfg.Notes.Delete)

	api.GET("/company-questions", cfg.Questions.ForCompanyRole)

	api.GET("/profile", cfg.Profile.Get)
	api.PUT("/profile", cfg.Profile.Update)
	api.DELETE("/profile", cfg.Profile.Delete)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return httpCors.CorsSettings(cfg.Config).Handler(router)
}
