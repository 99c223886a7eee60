// Package profile reads, edits and deletes user accounts.
package profile

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"craftmyprep-backend/apperrors"
	"craftmyprep-backend/logger"
	"craftmyprep-backend/models/challenges"
	"craftmyprep-backend/models/notes"
	"craftmyprep-backend/models/plans"
	"craftmyprep-backend/models/projects"
	"craftmyprep-backend/models/questions"
	"craftmyprep-backend/models/users"
)

// MinPasswordLength applies to registration and password changes.
const MinPasswordLength = 6

// Invalidator is notified when a ranked user disappears.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type UpdateRequest struct {
	Name        *string `json:"name"`
	OldPassword string  `json:"oldPassword"`
	NewPassword string  `json:"newPassword"`
}

type Service struct {
	db     *gorm.DB
	ranked Invalidator
	log    *logger.Logger
}

func NewService(db *gorm.DB, ranked Invalidator, log *logger.Logger) *Service {
	return &Service{db: db, ranked: ranked, log: log.With("service", "ProfileService")}
}

func (s *Service) Me(ctx context.Context, userID uint) (*users.User, error) {
	return load(s.db.WithContext(ctx), userID)
}

// Update changes the display name and, when NewPassword is set, the password.
// A password change requires the current password.
func (s *Service) Update(ctx context.Context, userID uint, req UpdateRequest) (*users.User, error) {
	db := s.db.WithContext(ctx)
	u, err := load(db, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.Validation("name cannot be empty")
		}
		updates["name"] = name
	}

	if req.NewPassword != "" {
		if req.OldPassword == "" {
			return nil, apperrors.Validation("oldPassword is required to set a new password")
		}
		if len(req.NewPassword) < MinPasswordLength {
			return nil, apperrors.Validation("password must be at least 6 characters")
		}
		if !u.HasPassword() {
			return nil, apperrors.Validation("user has no password set")
		}
		if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.OldPassword)) != nil {
			return nil, apperrors.Validation("invalid old password")
		}
		hash, err := HashPassword(req.NewPassword)
		if err != nil {
			return nil, apperrors.Internal(err, "failed to hash password")
		}
		updates["password"] = hash
	}

	if len(updates) == 0 {
		return u, nil
	}
	if err := db.Model(u).Updates(updates).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to update profile")
	}
	if name, ok := updates["name"].(string); ok {
		changed := name != u.Name
		u.Name = name
		if changed && s.ranked != nil {
			s.ranked.Invalidate(ctx)
		}
	}
	if hash, ok := updates["password"].(string); ok {
		u.Password = hash
	}
	return u, nil
}

// Delete removes the user and everything they own in one transaction.
func (s *Service) Delete(ctx context.Context, userID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := load(tx, userID); err != nil {
			return err
		}
		owned := []any{
			&plans.Plan{},
			&notes.Note{},
			&projects.MiniProject{},
			&challenges.Challenge{},
			&questions.CompanyQuestion{},
		}
		for _, model := range owned {
			if err := tx.Where("user_id = ?", userID).Delete(model).Error; err != nil {
				return apperrors.Internal(err, "failed to delete account data")
			}
		}
		if err := tx.Delete(&users.User{}, userID).Error; err != nil {
			return apperrors.Internal(err, "failed to delete account")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Account deleted", "user_id", userID)
	if s.ranked != nil {
		s.ranked.Invalidate(ctx)
	}
	return nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func load(db *gorm.DB, userID uint) (*users.User, error) {
	var u users.User
	if err := db.First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal(err, "failed to load user")
	}
	return &u, nil
}
