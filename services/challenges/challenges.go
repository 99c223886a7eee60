// Package challenges serves one generated interview question per user per
// calendar day.
package challenges

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"craftmyprep-backend/apperrors"
	"craftmyprep-backend/logger"
	challengemodel "craftmyprep-backend/models/challenges"
	"craftmyprep-backend/services/ai"
)

type Service struct {
	db    *gorm.DB
	gen   *ai.Generator
	now   func() time.Time
	group singleflight.Group
	log   *logger.Logger
}

type Option func(*Service)

// WithClock replaces time.Now; days start at local midnight of the returned
// time's location.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(db *gorm.DB, gen *ai.Generator, log *logger.Logger, opts ...Option) *Service {
	s := &Service{db: db, gen: gen, now: time.Now, log: log.With("service", "ChallengeService")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the user's challenge for the current day, generating and
// storing one on the first call. Concurrent first calls share a single
// generation.
func (s *Service) Today(ctx context.Context, userID uint) (*challengemodel.Challenge, error) {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	key := fmt.Sprintf("%d:%s", userID, start.Format(time.DateOnly))

	v, err, _ := s.group.Do(key, func() (any, error) {
		// Shared by every waiter, so one caller going away must not fail the rest.
		shared := context.WithoutCancel(ctx)
		existing, err := s.findSince(shared, userID, start)
		if err != nil || existing != nil {
			return existing, err
		}
		return s.create(shared, userID, now)
	})
	if err != nil {
		return nil, err
	}
	c := *v.(*challengemodel.Challenge)
	return &c, nil
}

func (s *Service) findSince(ctx context.Context, userID uint, start time.Time) (*challengemodel.Challenge, error) {
	var c challengemodel.Challenge
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, start.AddDate(0, 0, 1)).
		Order("date ASC").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load challenge")
	}
	return &c, nil
}

func (s *Service) create(ctx context.Context, userID uint, now time.Time) (*challengemodel.Challenge, error) {
	res := ai.Structured(ctx, s.gen, ai.ChallengePrompt(), ai.ValidateChallenge, ai.FallbackChallenge)

	c := &challengemodel.Challenge{
		UserID:   userID,
		Question: res.Value.Question,
		Solution: res.Value.Solution,
		Date:     now,
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to save challenge")
	}
	s.log.Info("Daily challenge created", "user_id", userID, "challenge_id", c.ID, "source", res.Source)
	return c, nil
}

// MarkSolved flags the challenge as solved. Only the owner may do this;
// repeating it changes nothing.
func (s *Service) MarkSolved(ctx context.Context, userID, challengeID uint) (*challengemodel.Challenge, error) {
	db := s.db.WithContext(ctx)

	var c challengemodel.Challenge
	if err := db.First(&c, challengeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("challenge not found")
		}
		return nil, apperrors.Internal(err, "failed to load challenge")
	}
	if c.UserID != userID {
		return nil, apperrors.Forbidden("forbidden")
	}
	if c.Solved {
		return &c, nil
	}

	if err := db.Model(&c).Update("solved", true).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to update challenge")
	}
	c.Solved = true
	return &c, nil
}

// History lists every challenge of the user, most recent day first.
func (s *Service) History(ctx context.Context, userID uint) ([]challengemodel.Challenge, error) {
	var out []challengemodel.Challenge
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").Order("id DESC").
		Find(&out).Error
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load challenge history")
	}
	return out, nil
}
