package notes

import (
	"time"

	"craftmyprep-backend/models/users"
)

type Note struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	UserID    uint       `json:"userId" gorm:"index;not null"`
	User      users.User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Content   string     `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time  `json:"createdAt"`
}
