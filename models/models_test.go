package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewQuestion(t *testing.T) {
	q, err := NewQuestion("Capital of France?", "Paris")
	if err != nil {
		t.Fatalf("new question: %v", err)
	}
	if q.ID == uuid.Nil {
		t.Fatalf("expected generated id")
	}
	if q.Text != "Capital of France?" || q.Answer != "Paris" {
		t.Fatalf("unexpected question: %+v", q)
	}

	other, _ := NewQuestion("Capital of France?", "Paris")
	if other.ID == q.ID {
		t.Fatalf("ids must be unique")
	}
}

func TestNewQuestionRequiresTextAndAnswer(t *testing.T) {
	if _, err := NewQuestion("  ", "x"); !errors.Is(err, ErrEmptyQuestionText) {
		t.Fatalf("want ErrEmptyQuestionText, got %v", err)
	}
	if _, err := NewQuestion("x", ""); !errors.Is(err, ErrEmptyQuestionAnswer) {
		t.Fatalf("want ErrEmptyQuestionAnswer, got %v", err)
	}
}

func TestNewQuiz(t *testing.T) {
	if _, err := NewQuiz(""); !errors.Is(err, ErrEmptyQuizTitle) {
		t.Fatalf("want ErrEmptyQuizTitle, got %v", err)
	}
	quiz, err := NewQuiz("Geography")
	if err != nil {
		t.Fatalf("new quiz: %v", err)
	}
	if quiz.ID == uuid.Nil || len(quiz.Links) != 0 {
		t.Fatalf("unexpected quiz: %+v", quiz)
	}
}

func TestQuizQuestionsFollowLinkOrder(t *testing.T) {
	a, _ := NewQuestion("A", "1")
	b, _ := NewQuestion("B", "2")
	quiz, _ := NewQuiz("Letters")
	quiz.Links = []QuizQuestion{
		{QuizID: quiz.ID, QuestionID: b.ID, Position: 0, Question: *b},
		{QuizID: quiz.ID, QuestionID: a.ID, Position: 1, Question: *a},
	}
	got := quiz.Questions()
	if len(got) != 2 || got[0].Text != "B" || got[1].Text != "A" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestQuizJSONNeverCarriesAnswers(t *testing.T) {
	q, _ := NewQuestion("Secret?", "hidden-answer")
	quiz, _ := NewQuiz("Sealed")
	quiz.Links = []QuizQuestion{{QuizID: quiz.ID, QuestionID: q.ID, Question: *q}}

	data, err := json.Marshal(quiz)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "hidden-answer") || strings.Contains(string(data), "links") {
		t.Fatalf("links must not be serialized: %s", data)
	}
}
