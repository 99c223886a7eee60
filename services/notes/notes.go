// Package notes stores free-form study notes.
package notes

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"craftmyprep-backend/apperrors"
	notemodel "craftmyprep-backend/models/notes"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Create(ctx context.Context, userID uint, content string) (*notemodel.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.Validation("content is required")
	}
	n := &notemodel.Note{UserID: userID, Content: content}
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to save note")
	}
	return n, nil
}

func (s *Service) List(ctx context.Context, userID uint) ([]notemodel.Note, error) {
	var out []notemodel.Note
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load notes")
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, userID, noteID uint) error {
	db := s.db.WithContext(ctx)

	var n notemodel.Note
	if err := db.First(&n, noteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("note not found")
		}
		return apperrors.Internal(err, "failed to load note")
	}
	if n.UserID != userID {
		return apperrors.Forbidden("forbidden")
	}
	if err := db.Delete(&n).Error; err != nil {
		return apperrors.Internal(err, "failed to delete note")
	}
	return nil
}
