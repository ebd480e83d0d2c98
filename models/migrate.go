package models

import "gorm.io/gorm"

// Migrate creates or updates the questions, quizzes and quiz_questions tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Question{},
		&Quiz{},
		&QuizQuestion{},
	)
}
