// Package accounts registers users and resolves their credentials.
package accounts

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"craftmyprep-backend/apperrors"
	"craftmyprep-backend/logger"
	"craftmyprep-backend/models/users"
	"craftmyprep-backend/services/profile"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// GitHubIdentity is what the OAuth callback learned about a GitHub user.
type GitHubIdentity struct {
	ID        string
	Login     string
	Name      string
	Email     string
	AvatarURL string
}

// Invalidator drops cached leaderboard state once the set of users or their
// public fields change.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type Service struct {
	db     *gorm.DB
	ranked Invalidator
	log    *logger.Logger
}

// NewService builds the account service. ranked may be nil.
func NewService(db *gorm.DB, ranked Invalidator, log *logger.Logger) *Service {
	return &Service{db: db, ranked: ranked, log: log.With("service", "AccountService")}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*users.User, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.Validation("a valid email is required")
	}
	if len(req.Password) < profile.MinPasswordLength {
		return nil, apperrors.Validation("password must be at least 6 characters")
	}
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	db := s.db.WithContext(ctx)
	var existing int64
	if err := db.Model(&users.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to check email")
	}
	if existing > 0 {
		return nil, apperrors.Conflict("email already registered")
	}

	hash, err := profile.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to hash password")
	}
	u := &users.User{Email: &email, Name: name, Password: hash}
	if err := db.Create(u).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to create user")
	}
	s.log.Info("User registered", "user_id", u.ID)
	s.invalidate(ctx)
	return u, nil
}

// Exists reports whether the user still has an account.
func (s *Service) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&users.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, apperrors.Internal(err, "failed to load user")
	}
	return n > 0, nil
}

// Authenticate checks an email and password pair. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*users.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.Validation("email and password are required")
	}

	var u users.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Unauthorized("invalid credentials")
	}
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load user")
	}
	if !u.HasPassword() || bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}
	return &u, nil
}

// UpsertGitHub finds the user linked to the GitHub account, links an existing
// account with the same email, or creates a new one.
func (s *Service) UpsertGitHub(ctx context.Context, id GitHubIdentity) (*users.User, error) {
	if id.ID == "" {
		return nil, apperrors.Validation("github id is required")
	}
	email := normalizeEmail(id.Email)
	name := strings.TrimSpace(id.Name)
	if name == "" {
		name = id.Login
	}

	var out *users.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u users.User
		err := tx.Where("github_id = ?", id.ID).First(&u).Error
		if err == nil {
			u.AvatarURL = id.AvatarURL
			out = &u
			return tx.Model(&u).Update("avatar_url", id.AvatarURL).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if email != "" {
			err = tx.Where("email = ?", email).First(&u).Error
			if err == nil {
				u.GitHubID = &id.ID
				if u.AvatarURL == "" {
					u.AvatarURL = id.AvatarURL
				}
				out = &u
				return tx.Model(&u).Updates(map[string]any{"github_id": id.ID, "avatar_url": u.AvatarURL}).Error
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		u = users.User{Name: name, AvatarURL: id.AvatarURL, GitHubID: &id.ID}
		if email != "" {
			u.Email = &email
		}
		out = &u
		return tx.Create(&u).Error
	})
	if err != nil {
		return nil, apperrors.Internal(err, "failed to save github user")
	}
	s.invalidate(ctx)
	return out, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.ranked != nil {
		s.ranked.Invalidate(ctx)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
