// Package leaderboard ranks users by XP.
package leaderboard

import (
	"context"

	"gorm.io/gorm"

	"craftmyprep-backend/apperrors"
	"craftmyprep-backend/logger"
	"craftmyprep-backend/models/users"
)

type Entry struct {
	Rank      int    `json:"rank"`
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	XP        int    `json:"xp"`
}

type UserRank struct {
	Rank int `json:"rank"`
	XP   int `json:"xp"`
}

// Board is the leaderboard as seen by one user. UserRank is nil when the
// user is not ranked.
type Board struct {
	Leaderboard []Entry   `json:"leaderboard"`
	UserRank    *UserRank `json:"userRank"`
}

type Service struct {
	db    *gorm.DB
	cache Cache
	log   *logger.Logger
}

func NewService(db *gorm.DB, cache Cache, log *logger.Logger) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	return &Service{db: db, cache: cache, log: log.With("service", "LeaderboardService")}
}

// Get returns every user ordered by XP descending, ties broken by id, with
// 1-based ranks.
func (s *Service) Get(ctx context.Context, userID uint) (*Board, error) {
	entries, err := s.ranked(ctx)
	if err != nil {
		return nil, err
	}

	board := &Board{Leaderboard: entries}
	for _, e := range entries {
		if e.ID == userID {
			board.UserRank = &UserRank{Rank: e.Rank, XP: e.XP}
			break
		}
	}
	return board, nil
}

// Invalidate drops the cached ranking after an XP, name or membership change.
func (s *Service) Invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx)
}

func (s *Service) ranked(ctx context.Context) ([]Entry, error) {
	entries, gen, ok := s.cache.Get(ctx)
	if ok {
		return entries, nil
	}

	var all []users.User
	err := s.db.WithContext(ctx).
		Select("id", "name", "avatar_url", "xp").
		Order("xp DESC").Order("id ASC").
		Find(&all).Error
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load leaderboard")
	}

	entries = make([]Entry, 0, len(all))
	for i, u := range all {
		entries = append(entries, Entry{Rank: i + 1, ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL, XP: u.XP})
	}
	s.cache.Set(ctx, gen, entries)
	return entries, nil
}
