package models

import "github.com/google/uuid"

// QuizQuestion links a question to a quiz. The pair (QuizID, QuestionID) is the
// primary key; Position keeps the order in which questions were attached.
type QuizQuestion struct {
	QuizID     uuid.UUID `json:"quiz_id" gorm:"type:uuid;primaryKey"`
	QuestionID uuid.UUID `json:"question_id" gorm:"type:uuid;primaryKey"`
	Position   int       `json:"position" gorm:"not null;default:0"`

	// Relationships
	Quiz     *Quiz    `json:"-" gorm:"foreignKey:QuizID"`
	Question Question `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}
