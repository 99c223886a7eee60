// Package projects generates practice mini-projects and awards XP when they
// are completed.
package projects

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"craftmyprep-backend/apperrors"
	"craftmyprep-backend/logger"
	projectmodel "craftmyprep-backend/models/projects"
	"craftmyprep-backend/models/users"
	"craftmyprep-backend/services/ai"
)

// Invalidator is notified after a user's XP changes.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type GenerateRequest struct {
	Timeline   string `json:"timeline"`
	Languages  string `json:"languages"`
	Difficulty string `json:"difficulty"`
}

type Service struct {
	db     *gorm.DB
	gen    *ai.Generator
	ranked Invalidator
	log    *logger.Logger
}

func NewService(db *gorm.DB, gen *ai.Generator, ranked Invalidator, log *logger.Logger) *Service {
	return &Service{db: db, gen: gen, ranked: ranked, log: log.With("service", "ProjectService")}
}

func (s *Service) Generate(ctx context.Context, userID uint, req GenerateRequest) (*projectmodel.MiniProject, error) {
	difficulty, ok := projectmodel.ParseDifficulty(req.Difficulty)
	if !ok {
		return nil, apperrors.Validation("difficulty must be Easy, Medium or Hard")
	}
	timeline := strings.TrimSpace(req.Timeline)
	languages := strings.TrimSpace(req.Languages)

	res := ai.Structured(ctx, s.gen, ai.ProjectPrompt(timeline, languages, string(difficulty)), ai.ValidateProject,
		func() ai.ProjectPayload { return ai.FallbackProject(languages) })

	p := &projectmodel.MiniProject{
		UserID:      userID,
		Title:       res.Value.Title,
		Description: res.Value.Description,
		TechStack:   res.Value.TechStack,
		Timeline:    timeline,
		Difficulty:  difficulty,
		Steps:       res.Value.Steps,
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to save project")
	}
	s.log.Info("Mini-project generated", "user_id", userID, "project_id", p.ID, "source", res.Source)
	return p, nil
}

// List returns the user's projects, newest first.
func (s *Service) List(ctx context.Context, userID uint) ([]projectmodel.MiniProject, error) {
	var out []projectmodel.MiniProject
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load projects")
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, userID, projectID uint) (*projectmodel.MiniProject, error) {
	return loadOwned(s.db.WithContext(ctx), userID, projectID)
}

// MarkComplete completes the project and awards XP to its owner exactly once.
// The completion flag and the award commit together.
func (s *Service) MarkComplete(ctx context.Context, userID, projectID uint) (*projectmodel.MiniProject, error) {
	var (
		project *projectmodel.MiniProject
		awarded bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := loadOwned(tx, userID, projectID)
		if err != nil {
			return err
		}

		res := tx.Model(&projectmodel.MiniProject{}).
			Where("id = ? AND is_completed = ?", p.ID, false).
			Update("is_completed", true)
		if res.Error != nil {
			return apperrors.Internal(res.Error, "failed to update project")
		}
		p.IsCompleted = true
		project = p

		if res.RowsAffected == 0 {
			return nil
		}
		err = tx.Model(&users.User{}).
			Where("id = ?", p.UserID).
			Update("xp", gorm.Expr("xp + ?", users.XPPerProject)).Error
		if err != nil {
			return apperrors.Internal(err, "failed to award xp")
		}
		awarded = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if awarded {
		s.log.Info("Project completed", "user_id", userID, "project_id", projectID, "xp", users.XPPerProject)
		if s.ranked != nil {
			s.ranked.Invalidate(ctx)
		}
	}
	return project, nil
}

func loadOwned(db *gorm.DB, userID, projectID uint) (*projectmodel.MiniProject, error) {
	var p projectmodel.MiniProject
	if err := db.First(&p, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("project not found")
		}
		return nil, apperrors.Internal(err, "failed to load project")
	}
	if p.UserID != userID {
		return nil, apperrors.Forbidden("forbidden")
	}
	return &p, nil
}
