// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"github.com/questionconnection/backend/internal/model"
)

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// MessageResponse carries a human-readable outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// ProfileImageLimitResponse is returned when the monthly change limit is hit.
type ProfileImageLimitResponse struct {
	Error             string `json:"error"`
	Message           string `json:"message"`
	ChangeCount       int    `json:"changeCount"`
	MaxChanges        int    `json:"maxChanges"`
	NextAvailableDate string `json:"nextAvailableDate"`
}

// CreateQuestionRequest is the body of POST /api/v1/questions.
type CreateQuestionRequest struct {
	QuestionID      string           `json:"questionId,omitempty"`
	Title           string           `json:"title"`
	AuthorID        string           `json:"authorId"`
	Purpose         string           `json:"purpose,omitempty"`
	Tags            []string         `json:"tags,omitempty"`
	Remarks         string           `json:"remarks,omitempty"`
	DMInviteMessage string           `json:"dmInviteMessage,omitempty"`
	QuizItems       []model.QuizItem `json:"quizItems"`
}

// QuestionListResponse wraps an author's questions.
type QuestionListResponse struct {
	Items []model.QuestionSummary `json:"items"`
}

// LogAnswerRequest is the body of POST /api/v1/answers.
type LogAnswerRequest struct {
	UserID           string `json:"userId,omitempty"`
	QuestionID       string `json:"questionId"`
	SelectedChoiceID string `json:"selectedChoiceId"`
	IsCorrect        *bool  `json:"isCorrect"`
}

// LogAnswerResponse confirms a stored answer.
type LogAnswerResponse struct {
	Message string `json:"message"`
	LogID   string `json:"logId"`
}

// AnswerStatusResponse reports whether the caller answered a question.
type AnswerStatusResponse struct {
	HasAnswered bool `json:"hasAnswered"`
}

// CreateMessageRequest is the body of POST /api/v1/threads. Older app
// builds send the body as messageText.
type CreateMessageRequest struct {
	SenderID      string `json:"senderId"`
	RecipientID   string `json:"recipientId"`
	Text          string `json:"text"`
	MessageText   string `json:"messageText,omitempty"`
	QuestionTitle string `json:"questionTitle,omitempty"`
}

// MessageBody returns Text, or MessageText when Text is empty.
func (r CreateMessageRequest) MessageBody() string {
	if r.Text != "" {
		return r.Text
	}
	return r.MessageText
}

// ThreadListResponse wraps a user's threads.
type ThreadListResponse struct {
	Threads []*model.Thread `json:"threads"`
}

// MessageListResponse wraps a thread's messages.
type MessageListResponse struct {
	Messages []*model.Message `json:"messages"`
}

// BlockRequest is the body of POST /api/v1/users/block.
type BlockRequest struct {
	BlockedUserID string `json:"blockedUserId"`
}

// BlockResponse confirms a block.
type BlockResponse struct {
	Status        string `json:"status"`
	BlockedUserID string `json:"blockedUserId"`
}

// UnblockResponse confirms an unblock.
type UnblockResponse struct {
	Status          string `json:"status"`
	UnblockedUserID string `json:"unblockedUserId"`
}

// BlockListResponse lists blocked user IDs.
type BlockListResponse struct {
	BlockedUserIDs []string `json:"blockedUserIds"`
}

// CheckBlockResponse reports whether the target blocked the caller.
type CheckBlockResponse struct {
	IsBlockedByTarget bool `json:"isBlockedByTarget"`
}

// RegisterDeviceRequest is the body of POST /api/v1/users/{userId}/devices.
type RegisterDeviceRequest struct {
	DeviceToken string `json:"deviceToken"`
}

// CompleteQuizRequest is the body of POST /api/v1/questions/{questionId}/complete.
type CompleteQuizRequest struct {
	Score          *int `json:"score"`
	TotalQuestions *int `json:"totalQuestions"`
}

// UpdateProfileRequest is the body of POST/PUT /api/v1/users/{userId}.
type UpdateProfileRequest struct {
	Nickname              *string `json:"nickname"`
	NotifyOnCorrectAnswer *bool   `json:"notifyOnCorrectAnswer,omitempty"`
}

// ProfileResponse is the public view of a user.
type ProfileResponse struct {
	UserID                string `json:"userId"`
	Nickname              string `json:"nickname"`
	ProfileImageURL       string `json:"profileImageUrl,omitempty"`
	NotifyOnCorrectAnswer bool   `json:"notifyOnCorrectAnswer"`
}

// ToProfileResponse converts a User to its public view. Change history is not exposed.
func ToProfileResponse(u *model.User) *ProfileResponse {
	return &ProfileResponse{
		UserID:                u.ID,
		Nickname:              u.Nickname,
		ProfileImageURL:       u.ProfileImageURL,
		NotifyOnCorrectAnswer: u.NotifyOnCorrectAnswer,
	}
}
