// Package server assembles the services and HTTP handlers.
package server

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"craftmyprep-backend/config"
	"craftmyprep-backend/controllers"
	"craftmyprep-backend/controllers/authentication"
	"craftmyprep-backend/logger"
	"craftmyprep-backend/services/accounts"
	"craftmyprep-backend/services/ai"
	"craftmyprep-backend/services/challenges"
	"craftmyprep-backend/services/leaderboard"
	"craftmyprep-backend/services/notes"
	"craftmyprep-backend/services/plans"
	"craftmyprep-backend/services/profile"
	"craftmyprep-backend/services/projects"
	"craftmyprep-backend/services/questions"
)

// Deps are the external resources the application runs on.
type Deps struct {
	Config   config.Config
	DB       *gorm.DB
	Provider ai.Provider
	Cache    leaderboard.Cache
	Log      *logger.Logger
	Clock    func() time.Time
}

// NewHandler builds every service and returns the routed HTTP handler.
func NewHandler(d Deps) http.Handler {
	cfg, db, log := d.Config, d.DB, d.Log

	gen := ai.NewGenerator(d.Provider, cfg.AITimeout(), log)
	board := leaderboard.NewService(db, d.Cache, log)
	profileSvc := profile.NewService(db, board, log)
	accountSvc := accounts.NewService(db, board, log)

	var challengeOpts []challenges.Option
	if d.Clock != nil {
		challengeOpts = append(challengeOpts, challenges.WithClock(d.Clock))
	}

	tokens := authentication.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	cookie := authentication.CookieOptions{Name: cfg.Auth.CookieName, Secure: cfg.IsProduction()}
	authHandler := authentication.NewAuthHandler(accountSvc, profileSvc, tokens, cookie, log)

	return NewRouter(RouterConfig{
		Config:         cfg,
		Log:            log,
		AuthMiddleware: authentication.NewMiddleware(tokens, cfg.Auth.CookieName, accountSvc, log),
		Auth:           authHandler,
		GitHub:         authentication.NewGitHubHandler(cfg, config.NewSessionStore(cfg), accountSvc, authHandler, log),
		Profile:        authentication.NewProfileHandler(profileSvc, cookie, log),
		Plans:          controllers.NewPlanHandler(plans.NewService(db, gen, log), log),
		Challenges:     controllers.NewChallengeHandler(challenges.NewService(db, gen, log, challengeOpts...), log),
		Projects:       controllers.NewProjectHandler(projects.NewService(db, gen, board, log), log),
		Leaderboard:    controllers.NewLeaderboardHandler(board, log),
		Notes:          controllers.NewNoteHandler(notes.NewService(db), log),
		Questions:      controllers.NewQuestionHandler(questions.NewService(db, gen, log), log),
	})
}

// Run serves h until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, h http.Handler, log *logger.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
