package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type QuizFile struct {
	Key          string `bson:"key" json:"key"`
	URL          string `bson:"url" json:"url"`
	OriginalName string `bson:"originalName" json:"originalName"`
	Size         int64  `bson:"size" json:"size"`
	ContentType  string `bson:"contentType" json:"contentType"`
}

// Quiz answer is either a string or a list of strings.
type Quiz struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	Creator     bson.ObjectID `bson:"creator" json:"creator"`
	Major       bson.ObjectID `bson:"major" json:"major"`
	Subject     bson.ObjectID `bson:"subject" json:"subject"`
	Type        QuizType      `bson:"type" json:"type"`
	Content     string        `bson:"content" json:"content"`
	Options     []string      `bson:"options,omitempty" json:"options,omitempty"`
	Answer      any           `bson:"answer,omitempty" json:"answer,omitempty"`
	Explanation string        `bson:"explanation,omitempty" json:"explanation,omitempty"`
	Files       []QuizFile    `bson:"files,omitempty" json:"files,omitempty"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}

type CreatorInfo struct {
	ID       bson.ObjectID `bson:"_id" json:"_id"`
	Nickname string        `bson:"nickname" json:"nickname"`
}

// QuizDetail is a quiz joined with its creator and categories.
type QuizDetail struct {
	Quiz        `bson:",inline"`
	CreatorInfo *CreatorInfo `bson:"creatorInfo,omitempty" json:"creatorInfo,omitempty"`
	MajorInfo   *Major       `bson:"majorInfo,omitempty" json:"majorInfo,omitempty"`
	SubjectInfo *Subject     `bson:"subjectInfo,omitempty" json:"subjectInfo,omitempty"`
}

type QuizFilter struct {
	Major   *bson.ObjectID
	Subject *bson.ObjectID
	Type    QuizType
	Creator *bson.ObjectID
	// Limit > 0 switches the listing to a random sample of that size.
	Limit int
}

type Major struct {
	ID   bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name string        `bson:"name" json:"name"`
}

type Subject struct {
	ID    bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name  string        `bson:"name" json:"name"`
	Major bson.ObjectID `bson:"major" json:"major"`
}

type MajorQuizCount struct {
	MajorID bson.ObjectID `bson:"_id" json:"majorId"`
	Name    string        `bson:"name" json:"name"`
	Count   int64         `bson:"count" json:"count"`
}
