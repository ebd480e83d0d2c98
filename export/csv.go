package export

import (
	"bytes"
	"strconv"
	"strings"

	"quizapi/models"
)

func init() { Register(CSVExporter{}) }

// CSVExporter writes one numbered, quoted line per question:
//
//	1. "What is 2+2?"
//	2. "Say ""hello"""
type CSVExporter struct{}

func (CSVExporter) Format() string        { return "csv" }
func (CSVExporter) ContentType() string   { return "text/csv" }
func (CSVExporter) FileExtension() string { return "csv" }

func (CSVExporter) Export(quiz *models.Quiz) ([]byte, error) {
	var buf bytes.Buffer
	for i, link := range quiz.Links {
		buf.WriteString(strconv.Itoa(i + 1))
		buf.WriteString(`. "`)
		buf.WriteString(strings.ReplaceAll(link.Question.Text, `"`, `""`))
		buf.WriteString("\"\n")
	}
	return buf.Bytes(), nil
}
