package model

import "time"

// Question is a quiz authored by a user and shared by share code.
type Question struct {
	ID              string     `json:"questionId"`
	Title           string     `json:"title"`
	AuthorID        string     `json:"authorId"`
	Purpose         string     `json:"purpose,omitempty"`
	Tags            []string   `json:"tags"`
	Remarks         string     `json:"remarks,omitempty"`
	DMInviteMessage string     `json:"dmInviteMessage,omitempty"`
	QuizItems       []QuizItem `json:"quizItems"`
	ShareCode       string     `json:"shareCode"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// QuizItem is a single multiple-choice question inside a quiz.
type QuizItem struct {
	ID              string   `json:"id"`
	QuestionText    string   `json:"questionText"`
	Choices         []Choice `json:"choices"`
	CorrectAnswerID string   `json:"correctAnswerId"`
}

// Choice is one selectable answer.
type Choice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// HasChoice reports whether id names one of the item's choices.
func (q QuizItem) HasChoice(id string) bool {
	for _, c := range q.Choices {
		if c.ID == id {
			return true
		}
	}
	return false
}

// QuestionSummary is the projection returned when listing an author's questions.
type QuestionSummary struct {
	ID        string    `json:"questionId"`
	Title     string    `json:"title"`
	Tags      []string  `json:"tags"`
	ShareCode string    `json:"shareCode"`
	CreatedAt time.Time `json:"createdAt"`
}
