package services

import (
	"context"
	"strings"

	"quizapi/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionService struct {
	db *gorm.DB
}

func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchQuestions returns questions whose text contains searchText, ignoring
// case. A blank searchText returns every question.
func (s *QuestionService) SearchQuestions(ctx context.Context, searchText string) ([]QuestionSummary, error) {
	query := s.db.WithContext(ctx).Model(&models.Question{}).Select("id", "text")

	if term := strings.TrimSpace(searchText); term != "" {
		// both sides go through the database's LOWER so they fold alike
		pattern := "%" + likeEscaper.Replace(term) + "%"
		query = query.Where(`LOWER(text) LIKE LOWER(?) ESCAPE '\'`, pattern)
	}

	var questions []models.Question
	if err := query.Order("text ASC").Order("id ASC").Find(&questions).Error; err != nil {
		return nil, persistence("search questions", err)
	}

	results := make([]QuestionSummary, 0, len(questions))
	for _, q := range questions {
		results = append(results, QuestionSummary{ID: q.ID, Text: q.Text})
	}
	return results, nil
}

// CreateQuestion stores a standalone question that quizzes can attach later.
func (s *QuestionService) CreateQuestion(ctx context.Context, req *CreateQuestionRequest) (*QuestionSummary, error) {
	question, err := models.NewQuestion(req.Text, req.Answer)
	if err != nil {
		return nil, validation(err)
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(question).Error; err != nil {
		return nil, persistence("create question", err)
	}
	return &QuestionSummary{ID: question.ID, Text: question.Text}, nil
}
