package projects

import (
	"strings"
	"time"

	"gorm.io/datatypes"

	"craftmyprep-backend/models/users"
)

type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// ParseDifficulty accepts the three tiers case-insensitively.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(normalize(s)) {
	case Easy:
		return Easy, true
	case Medium:
		return Medium, true
	case Hard:
		return Hard, true
	}
	return "", false
}

func normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// MiniProject is a practice project. Completion is one-way.
type MiniProject struct {
	ID          uint                        `json:"id" gorm:"primaryKey"`
	UserID      uint                        `json:"userId" gorm:"index;not null"`
	User        users.User                  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Title       string                      `json:"title" gorm:"not null"`
	Description string                      `json:"description" gorm:"type:text"`
	TechStack   string                      `json:"techStack"`
	Timeline    string                      `json:"timeline"`
	Difficulty  Difficulty                  `json:"difficulty" gorm:"type:varchar(10);not null"`
	Steps       datatypes.JSONSlice[string] `json:"steps"`
	IsCompleted bool                        `json:"isCompleted" gorm:"not null;default:false"`
	CreatedAt   time.Time                   `json:"createdAt"`
}
