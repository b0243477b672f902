package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// WrongQuiz snapshots the first failed submission for a quiz.
type WrongQuiz struct {
	Quiz            bson.ObjectID `bson:"quiz" json:"quiz"`
	SubmittedAnswer any           `bson:"submittedAnswer" json:"submittedAnswer"`
	CorrectAnswer   any           `bson:"correctAnswer" json:"correctAnswer"`
	WrongAt         time.Time     `bson:"wrongAt" json:"wrongAt"`
}

// Record is the attempt state of one user on one quiz. WrongQuizzes holds at
// most one entry per quiz. EverWrong is nil only on documents written before
// the field existed.
type Record struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	User         bson.ObjectID `bson:"user" json:"user"`
	Quiz         bson.ObjectID `bson:"quiz" json:"quiz"`
	IsCorrect    bool          `bson:"isCorrect" json:"isCorrect"`
	UserAnswer   any           `bson:"userAnswer" json:"userAnswer"`
	EverWrong    *bool         `bson:"everWrong,omitempty" json:"everWrong"`
	WrongQuizzes []WrongQuiz   `bson:"wrongQuizzes" json:"wrongQuizzes"`
	Version      int64         `bson:"version" json:"-"`
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"updatedAt"`
}

func (r *Record) HasWrongEntry(quizID bson.ObjectID) bool {
	for _, w := range r.WrongQuizzes {
		if w.Quiz == quizID {
			return true
		}
	}
	return false
}

// SolvedQuiz is a record joined with its quiz.
type SolvedQuiz struct {
	Record
	QuizInfo *Quiz `json:"quizInfo"`
}

// WrongAnswer is one notebook entry with its quiz joined.
type WrongAnswer struct {
	WrongQuiz
	QuizInfo *Quiz `json:"quizInfo"`
}
