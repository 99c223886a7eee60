package questions

import (
	"time"

	"craftmyprep-backend/models/users"
)

// CompanyQuestion is one generated interview question for a company and role,
// kept per user so repeated visits return the same set.
type CompanyQuestion struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	UserID    uint       `json:"userId" gorm:"index:idx_company_questions_lookup;not null"`
	User      users.User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Company   string     `json:"company" gorm:"index:idx_company_questions_lookup;not null"`
	Role      string     `json:"role" gorm:"index:idx_company_questions_lookup;not null"`
	Question  string     `json:"question" gorm:"type:text;not null"`
	Answer    string     `json:"answer" gorm:"type:text"`
	CreatedAt time.Time  `json:"createdAt"`
}
