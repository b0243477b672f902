package events

import (
	"encoding/json"
	"time"

	"github.com/chngmn/Quizly-server/internal/models"
	"github.com/google/uuid"
)

type BaseEvent struct {
	ID        string           `json:"id"`
	Type      models.EventType `json:"type"`
	Timestamp int64            `json:"timestamp"`
	Version   string           `json:"version"`
}

func newBaseEvent(eventType models.EventType) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		Version:   "1.0",
	}
}

type UserRegisteredEvent struct {
	BaseEvent
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
	Method   string `json:"method"` // local or kakao
}

func NewUserRegisteredEvent(userID, nickname, method string) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseEvent: newBaseEvent(models.EventUserRegistered),
		UserID:    userID,
		Nickname:  nickname,
		Method:    method,
	}
}

func (e *UserRegisteredEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

type UserDeletedEvent struct {
	BaseEvent
	UserID string `json:"user_id"`
}

func NewUserDeletedEvent(userID string) *UserDeletedEvent {
	return &UserDeletedEvent{
		BaseEvent: newBaseEvent(models.EventUserDeleted),
		UserID:    userID,
	}
}

func (e *UserDeletedEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// QuizEvent covers quiz.created and quiz.deleted.
type QuizEvent struct {
	BaseEvent
	QuizID    string          `json:"quiz_id"`
	CreatorID string          `json:"creator_id"`
	QuizType  models.QuizType `json:"quiz_type,omitempty"`
}

func NewQuizEvent(eventType models.EventType, quizID, creatorID string, quizType models.QuizType) *QuizEvent {
	return &QuizEvent{
		BaseEvent: newBaseEvent(eventType),
		QuizID:    quizID,
		CreatorID: creatorID,
		QuizType:  quizType,
	}
}

func (e *QuizEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

type RecordSubmittedEvent struct {
	BaseEvent
	UserID    string `json:"user_id"`
	QuizID    string `json:"quiz_id"`
	IsCorrect bool   `json:"is_correct"`
}

func NewRecordSubmittedEvent(userID, quizID string, isCorrect bool) *RecordSubmittedEvent {
	return &RecordSubmittedEvent{
		BaseEvent: newBaseEvent(models.EventRecordSubmitted),
		UserID:    userID,
		QuizID:    quizID,
		IsCorrect: isCorrect,
	}
}

func (e *RecordSubmittedEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
