package services

import "github.com/google/uuid"

type CreateQuestionRequest struct {
	Text   string `json:"text" binding:"required"`
	Answer string `json:"answer" binding:"required"`
}

type CreateQuizRequest struct {
	Title               string                  `json:"title" binding:"required"`
	ExistingQuestionIDs []uuid.UUID             `json:"existingQuestionsId"`
	Questions           []CreateQuestionRequest `json:"questions"`
}

// UpdateQuizRequest replaces a quiz's question set. A nil Title keeps the
// current title.
type UpdateQuizRequest struct {
	Title               *string                 `json:"title"`
	ExistingQuestionIDs []uuid.UUID             `json:"existingQuestionsId"`
	Questions           []CreateQuestionRequest `json:"questions"`
}

type QuestionSummary struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"text"`
}

type QuizSummary struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type QuizDetails struct {
	ID        uuid.UUID         `json:"id"`
	Title     string            `json:"title"`
	Questions []QuestionSummary `json:"questions"`
}
