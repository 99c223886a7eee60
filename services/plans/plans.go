// Package plans generates learning plans from job descriptions and tracks
// roadmap progress.
package plans

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"craftmyprep-backend/apperrors"
	"craftmyprep-backend/logger"
	planmodel "craftmyprep-backend/models/plans"
	"craftmyprep-backend/services/ai"
)

type Service struct {
	db  *gorm.DB
	gen *ai.Generator
	log *logger.Logger
}

func NewService(db *gorm.DB, gen *ai.Generator, log *logger.Logger) *Service {
	return &Service{db: db, gen: gen, log: log.With("service", "PlanService")}
}

// Generate asks the provider for a plan and stores it. Provider failures
// store the fallback plan instead.
func (s *Service) Generate(ctx context.Context, userID uint, jobDescription string) (*planmodel.Plan, error) {
	jd := strings.TrimSpace(jobDescription)
	if jd == "" {
		return nil, apperrors.Validation("jobDescription is required")
	}

	res := ai.Structured(ctx, s.gen, ai.PlanPrompt(jd), ai.ValidatePlan, ai.FallbackPlan)
	payload := res.Value

	plan := &planmodel.Plan{
		UserID:    userID,
		JD:        jd,
		Skills:    payload.Skills,
		Roadmap:   payload.Roadmap,
		Projects:  payload.Projects,
		Questions: payload.Questions,
		Resources: payload.Resources,
	}
	if err := s.db.WithContext(ctx).Create(plan).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to save plan")
	}

	s.log.Info("Plan generated", "user_id", userID, "plan_id", plan.ID, "source", res.Source, "steps", len(plan.Roadmap))
	return plan, nil
}

// List returns the user's plans, newest first.
func (s *Service) List(ctx context.Context, userID uint) ([]planmodel.Plan, error) {
	var out []planmodel.Plan
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load plans")
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, userID, planID uint) (*planmodel.Plan, error) {
	return loadOwned(s.db.WithContext(ctx), userID, planID)
}

// CompleteStep marks the step for day as completed. Completing an already
// completed step is a no-op.
func (s *Service) CompleteStep(ctx context.Context, userID, planID uint, day int) (*planmodel.Plan, error) {
	var plan *planmodel.Plan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := loadOwned(tx, userID, planID)
		if err != nil {
			return err
		}
		idx := p.StepIndex(day)
		if idx < 0 {
			return apperrors.NotFound("step not found")
		}
		plan = p
		if p.Roadmap[idx].Completed {
			return nil
		}

		p.Roadmap[idx].Completed = true
		if err := tx.Model(p).Update("roadmap", p.Roadmap).Error; err != nil {
			return apperrors.Internal(err, "failed to update plan")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func loadOwned(db *gorm.DB, userID, planID uint) (*planmodel.Plan, error) {
	var plan planmodel.Plan
	if err := db.First(&plan, planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("plan not found")
		}
		return nil, apperrors.Internal(err, "failed to load plan")
	}
	if plan.UserID != userID {
		return nil, apperrors.Forbidden("forbidden")
	}
	return &plan, nil
}
