package export

import (
	"encoding/json"

	"quizapi/models"
)

func init() { Register(JSONExporter{}) }

// JSONExporter writes the quiz title and numbered question texts. Answers are
// never included.
type JSONExporter struct{}

type jsonQuiz struct {
	Title     string         `json:"title"`
	Questions []jsonQuestion `json:"questions"`
}

type jsonQuestion struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

func (JSONExporter) Format() string        { return "json" }
func (JSONExporter) ContentType() string   { return "application/json" }
func (JSONExporter) FileExtension() string { return "json" }

func (JSONExporter) Export(quiz *models.Quiz) ([]byte, error) {
	doc := jsonQuiz{Title: quiz.Title, Questions: make([]jsonQuestion, 0, len(quiz.Links))}
	for i, link := range quiz.Links {
		doc.Questions = append(doc.Questions, jsonQuestion{Index: i + 1, Text: link.Question.Text})
	}
	return json.MarshalIndent(doc, "", "  ")
}
