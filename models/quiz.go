package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrEmptyQuizTitle = errors.New("quiz title is required")

type Quiz struct {
	ID    uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title string    `json:"title" gorm:"not null;index"`

	// Relationships
	Links []QuizQuestion `json:"-" gorm:"foreignKey:QuizID"`
}

// NewQuiz builds a quiz with a fresh id and no links.
func NewQuiz(title string) (*Quiz, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyQuizTitle
	}
	return &Quiz{ID: uuid.New(), Title: title}, nil
}

func (q *Quiz) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// Questions returns the linked questions in link order.
func (q *Quiz) Questions() []Question {
	questions := make([]Question, 0, len(q.Links))
	for _, link := range q.Links {
		questions = append(questions, link.Question)
	}
	return questions
}
