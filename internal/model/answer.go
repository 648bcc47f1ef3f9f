package model

import (
	"math"
	"time"
)

// AnswerLog records one answer submitted by a user.
type AnswerLog struct {
	ID               string    `json:"logId"`
	QuestionID       string    `json:"questionId"`
	UserID           string    `json:"userId"`
	SelectedChoiceID string    `json:"selectedChoiceId"`
	IsCorrect        bool      `json:"isCorrect"`
	Timestamp        time.Time `json:"timestamp"`
}

// UserStats aggregates a user's answer history.
type UserStats struct {
	UserID         string  `json:"userId"`
	TotalAnswers   int     `json:"totalAnswers"`
	CorrectAnswers int     `json:"correctAnswers"`
	Accuracy       float64 `json:"accuracy"`
}

// NewUserStats computes accuracy as a percentage rounded to two decimals.
func NewUserStats(userID string, total, correct int) UserStats {
	stats := UserStats{
		UserID:         userID,
		TotalAnswers:   total,
		CorrectAnswers: correct,
	}
	if total > 0 {
		stats.Accuracy = math.Round(float64(correct)/float64(total)*100*100) / 100
	}
	return stats
}
