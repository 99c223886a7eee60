package models

import (
	"gorm.io/gorm"

	"craftmyprep-backend/models/challenges"
	"craftmyprep-backend/models/notes"
	"craftmyprep-backend/models/plans"
	"craftmyprep-backend/models/projects"
	"craftmyprep-backend/models/questions"
	"craftmyprep-backend/models/users"
)

// AutoMigrate creates or updates every table the service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&plans.Plan{},
		&challenges.Challenge{},
		&projects.MiniProject{},
		&notes.Note{},
		&questions.CompanyQuestion{},
	)
}
