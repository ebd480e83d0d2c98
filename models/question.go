package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEmptyQuestionText   = errors.New("question text is required")
	ErrEmptyQuestionAnswer = errors.New("question answer is required")
)

type Question struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Text   string    `json:"text" gorm:"not null"`
	Answer string    `json:"answer" gorm:"not null"`

	// Relationships
	Links []QuizQuestion `json:"-" gorm:"foreignKey:QuestionID"`
}

// NewQuestion builds a question with a fresh id. Text and answer must be non-blank.
func NewQuestion(text, answer string) (*Question, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyQuestionText
	}
	if strings.TrimSpace(answer) == "" {
		return nil, ErrEmptyQuestionAnswer
	}
	return &Question{ID: uuid.New(), Text: text, Answer: answer}, nil
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
