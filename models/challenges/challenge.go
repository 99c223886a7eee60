package challenges

import (
	"time"

	"craftmyprep-backend/models/users"
)

// Challenge is a daily interview question. A user has at most one per
// calendar day.
type Challenge struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	UserID    uint       `json:"userId" gorm:"index;not null"`
	User      users.User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Question  string     `json:"question" gorm:"type:text;not null"`
	Solution  string     `json:"solution" gorm:"type:text"`
	Solved    bool       `json:"solved" gorm:"not null;default:false"`
	Date      time.Time  `json:"date" gorm:"index;not null"`
	CreatedAt time.Time  `json:"createdAt"`
}
