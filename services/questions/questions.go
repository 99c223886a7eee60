// Package questions serves generated interview questions per company and
// role.
package questions

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"craftmyprep-backend/apperrors"
	"craftmyprep-backend/logger"
	questionmodel "craftmyprep-backend/models/questions"
	"craftmyprep-backend/services/ai"
)

type Service struct {
	db  *gorm.DB
	gen *ai.Generator
	log *logger.Logger
}

func NewService(db *gorm.DB, gen *ai.Generator, log *logger.Logger) *Service {
	return &Service{db: db, gen: gen, log: log.With("service", "QuestionService")}
}

// ForCompanyRole returns the user's stored set for company and role,
// generating and storing one when none exists.
func (s *Service) ForCompanyRole(ctx context.Context, userID uint, company, role string) ([]questionmodel.CompanyQuestion, error) {
	company = strings.TrimSpace(company)
	role = strings.TrimSpace(role)
	if company == "" || role == "" {
		return nil, apperrors.Validation("company and role are required")
	}

	stored, err := s.stored(ctx, userID, company, role)
	if err != nil {
		return nil, err
	}
	if len(stored) > 0 {
		return stored, nil
	}

	res := ai.Structured(ctx, s.gen, ai.QuestionsPrompt(company, role), ai.ValidateQuestionSet, ai.FallbackQuestionSet)

	rows := make([]questionmodel.CompanyQuestion, 0, len(res.Value.Questions))
	for _, qa := range res.Value.Questions {
		rows = append(rows, questionmodel.CompanyQuestion{
			UserID:   userID,
			Company:  company,
			Role:     role,
			Question: qa.Question,
			Answer:   qa.Answer,
		})
	}
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to save questions")
	}
	s.log.Info("Company questions generated", "user_id", userID, "company", company, "role", role,
		"count", len(rows), "source", res.Source)
	return rows, nil
}

func (s *Service) stored(ctx context.Context, userID uint, company, role string) ([]questionmodel.CompanyQuestion, error) {
	var out []questionmodel.CompanyQuestion
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND company = ? AND role = ?", userID, company, role).
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load questions")
	}
	return out, nil
}
