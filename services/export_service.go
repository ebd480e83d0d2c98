package services

import (
	"context"
	"strings"
	"unicode"

	"quizapi/export"

	"github.com/google/uuid"
)

const defaultExportName = "quiz"

type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ExportService struct {
	quizzes  *QuizService
	registry *export.Registry
}

func NewExportService(quizzes *QuizService, registry *export.Registry) *ExportService {
	return &ExportService{quizzes: quizzes, registry: registry}
}

func (s *ExportService) Formats() []string {
	return s.registry.Formats()
}

// ExportQuiz renders the quiz in the requested format. The format is checked
// before the quiz is loaded.
func (s *ExportService) ExportQuiz(ctx context.Context, quizID uuid.UUID, format string) (*ExportResult, error) {
	exporter, err := s.registry.Resolve(format)
	if err != nil {
		return nil, err
	}

	quiz, err := s.quizzes.LoadForExport(ctx, quizID)
	if err != nil {
		return nil, err
	}

	data, err := exporter.Export(quiz)
	if err != nil {
		return nil, err
	}

	return &ExportResult{
		Filename:    SanitizeFileName(quiz.Title) + "." + exporter.FileExtension(),
		ContentType: exporter.ContentType(),
		Data:        data,
	}, nil
}

// SanitizeFileName replaces characters that are invalid in file names on
// common filesystems with '_' and trims surrounding spaces and dots.
func SanitizeFileName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(`<>:"/\|?*`, r) {
			return '_'
		}
		return r
	}, name)

	cleaned = strings.Trim(cleaned, " .")
	if strings.Trim(cleaned, "_") == "" {
		return defaultExportName
	}
	return cleaned
}
