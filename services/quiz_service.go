package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quizapi/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

type QuizService struct {
	db       *gorm.DB
	cache    QuizCache
	notifier Notifier
}

// NewQuizService wires the service. cache and notifier may be nil.
func NewQuizService(db *gorm.DB, cache QuizCache, notifier Notifier) *QuizService {
	if cache == nil {
		cache = noopCache{}
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &QuizService{db: db, cache: cache, notifier: notifier}
}

// ClampPage floors page to 1 and clamps pageSize to [1, MaxPageSize].
func ClampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// CreateQuiz stores a quiz together with its links. Existing question ids that
// do not match a stored question are dropped; every entry in req.Questions
// becomes a new question.
func (s *QuizService) CreateQuiz(ctx context.Context, req *CreateQuizRequest) (uuid.UUID, error) {
	quiz, err := models.NewQuiz(req.Title)
	if err != nil {
		return uuid.Nil, validation(err)
	}
	newQuestions, err := buildQuestions(req.Questions)
	if err != nil {
		return uuid.Nil, err
	}

	// Start transaction
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return uuid.Nil, persistence("begin transaction", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := tx.Omit(clause.Associations).Create(quiz).Error; err != nil {
		tx.Rollback()
		return uuid.Nil, persistence("create quiz", err)
	}

	if err := attachQuestions(tx, quiz.ID, req.ExistingQuestionIDs, newQuestions); err != nil {
		tx.Rollback()
		return uuid.Nil, err
	}

	// Commit transaction
	if err := tx.Commit().Error; err != nil {
		return uuid.Nil, persistence("commit quiz", err)
	}

	s.notifier.Publish(QuizEvent{Type: QuizCreated, QuizID: quiz.ID, Title: quiz.Title})
	return quiz.ID, nil
}

func (s *QuizService) GetQuizByID(ctx context.Context, id uuid.UUID) (*QuizDetails, error) {
	if details, ok := s.cache.Get(ctx, id); ok {
		return details, nil
	}
	generation, cacheable := s.cache.Generation(ctx, id)

	quiz, err := loadQuiz(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}

	details := &QuizDetails{
		ID:        quiz.ID,
		Title:     quiz.Title,
		Questions: make([]QuestionSummary, 0, len(quiz.Links)),
	}
	for _, q := range quiz.Questions() {
		details.Questions = append(details.Questions, QuestionSummary{ID: q.ID, Text: q.Text})
	}

	if cacheable {
		s.cache.Set(ctx, details, generation)
	}
	return details, nil
}

// LoadForExport returns the quiz with its questions in attachment order.
func (s *QuizService) LoadForExport(ctx context.Context, id uuid.UUID) (*models.Quiz, error) {
	return loadQuiz(s.db.WithContext(ctx), id)
}

// ListQuizzes returns one page of quizzes ordered by title. Questions are not
// loaded.
func (s *QuizService) ListQuizzes(ctx context.Context, page, pageSize int) ([]QuizSummary, error) {
	page, pageSize = ClampPage(page, pageSize)

	var quizzes []models.Quiz
	err := s.db.WithContext(ctx).
		Select("id", "title").
		Order("title ASC").
		Order("id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&quizzes).Error
	if err != nil {
		return nil, persistence("list quizzes", err)
	}

	summaries := make([]QuizSummary, 0, len(quizzes))
	for _, quiz := range quizzes {
		summaries = append(summaries, QuizSummary{ID: quiz.ID, Title: quiz.Title})
	}
	return summaries, nil
}

// UpdateQuiz replaces the quiz's whole link set with the one described by req.
// Questions left out of req are unlinked but not deleted.
func (s *QuizService) UpdateQuiz(ctx context.Context, id uuid.UUID, req *UpdateQuizRequest) error {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return validation(models.ErrEmptyQuizTitle)
	}
	newQuestions, err := buildQuestions(req.Questions)
	if err != nil {
		return err
	}

	// Start transaction
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return persistence("begin transaction", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	quiz, err := lockQuiz(tx, id)
	if err != nil {
		tx.Rollback()
		return err
	}

	if req.Title != nil && *req.Title != quiz.Title {
		quiz.Title = *req.Title
		if err := tx.Model(quiz).Update("title", quiz.Title).Error; err != nil {
			tx.Rollback()
			return persistence("update quiz title", err)
		}
	}

	if err := tx.Where("quiz_id = ?", id).Delete(&models.QuizQuestion{}).Error; err != nil {
		tx.Rollback()
		return persistence("delete quiz links", err)
	}

	if err := attachQuestions(tx, id, req.ExistingQuestionIDs, newQuestions); err != nil {
		tx.Rollback()
		return err
	}

	// Commit transaction
	if err := tx.Commit().Error; err != nil {
		return persistence("commit quiz update", err)
	}

	s.cache.Invalidate(ctx, id)
	s.notifier.Publish(QuizEvent{Type: QuizUpdated, QuizID: id, Title: quiz.Title})
	return nil
}

// DeleteQuiz removes the quiz's links and then the quiz. Questions are kept.
func (s *QuizService) DeleteQuiz(ctx context.Context, id uuid.UUID) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return persistence("begin transaction", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	quiz, err := lockQuiz(tx, id)
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Where("quiz_id = ?", id).Delete(&models.QuizQuestion{}).Error; err != nil {
		tx.Rollback()
		return persistence("delete quiz links", err)
	}
	if err := tx.Where("id = ?", id).Delete(&models.Quiz{}).Error; err != nil {
		tx.Rollback()
		return persistence("delete quiz", err)
	}

	if err := tx.Commit().Error; err != nil {
		return persistence("commit quiz delete", err)
	}

	s.cache.Invalidate(ctx, id)
	s.notifier.Publish(QuizEvent{Type: QuizDeleted, QuizID: id, Title: quiz.Title})
	return nil
}

func loadQuiz(db *gorm.DB, id uuid.UUID) (*models.Quiz, error) {
	var quiz models.Quiz
	err := db.Where("id = ?", id).
		Preload("Links", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_questions.position")
		}).
		Preload("Links.Question").
		First(&quiz).Error
	if err != nil {
		return nil, notFoundOr(err, "load quiz", id)
	}
	return &quiz, nil
}

// lockQuiz reads the quiz row with a row lock so concurrent replacements of
// the same link set run one after the other.
func lockQuiz(tx *gorm.DB, id uuid.UUID) (*models.Quiz, error) {
	var quiz models.Quiz
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&quiz).Error
	if err != nil {
		return nil, notFoundOr(err, "lock quiz", id)
	}
	return &quiz, nil
}

func notFoundOr(err error, op string, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: quiz %s", ErrNotFound, id)
	}
	return persistence(op, err)
}

func buildQuestions(reqs []CreateQuestionRequest) ([]models.Question, error) {
	questions := make([]models.Question, 0, len(reqs))
	for i, req := range reqs {
		q, err := models.NewQuestion(req.Text, req.Answer)
		if err != nil {
			return nil, fmt.Errorf("%w: questions[%d]: %v", ErrValidation, i, err)
		}
		questions = append(questions, *q)
	}
	return questions, nil
}

// attachQuestions resolves existing ids, inserts new questions and links all
// of them to the quiz. Existing questions come first, in request order,
// followed by new ones.
func attachQuestions(tx *gorm.DB, quizID uuid.UUID, existingIDs []uuid.UUID, newQuestions []models.Question) error {
	ids, err := resolveExisting(tx, existingIDs)
	if err != nil {
		return err
	}

	if len(newQuestions) > 0 {
		if err := tx.Omit(clause.Associations).Create(&newQuestions).Error; err != nil {
			return persistence("create questions", err)
		}
		for _, q := range newQuestions {
			ids = append(ids, q.ID)
		}
	}

	if len(ids) == 0 {
		return nil
	}

	links := make([]models.QuizQuestion, 0, len(ids))
	for i, questionID := range ids {
		links = append(links, models.QuizQuestion{QuizID: quizID, QuestionID: questionID, Position: i})
	}
	if err := tx.Omit(clause.Associations).Create(&links).Error; err != nil {
		return persistence("create quiz links", err)
	}
	return nil
}

// resolveExisting keeps the ids that exist, in request order, without
// duplicates.
func resolveExisting(tx *gorm.DB, ids []uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return nil, nil
	}

	var found []uuid.UUID
	if err := tx.Model(&models.Question{}).Where("id IN ?", unique).Pluck("id", &found).Error; err != nil {
		return nil, persistence("resolve questions", err)
	}
	exists := make(map[uuid.UUID]bool, len(found))
	for _, id := range found {
		exists[id] = true
	}

	resolved := make([]uuid.UUID, 0, len(found))
	for _, id := range unique {
		if exists[id] {
			resolved = append(resolved, id)
		}
	}
	return resolved, nil
}
