// models/quiz.go - Quiz content models
package models

import (
	"time"
)

// Quiz categories match the fixed set the frontend filters on.
var Categories = []string{
	"General Knowledge",
	"Science",
	"Geography",
	"History",
	"Sport & Leisure",
	"Art & Literature",
}

const DefaultCategory = "General Knowledge"

func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Question belongs to exactly one quiz. CorrectAnswer is the index into
// Options; it is blanked to -1 before a quiz is handed to players.
type Question struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	QuizID        uint      `json:"quiz_id" gorm:"not null;index"`
	Text          string    `json:"text" gorm:"not null;type:text"`
	Options       []string  `json:"options" gorm:"serializer:json;type:text"`
	CorrectAnswer int       `json:"correct_answer" gorm:"not null"`
	Points        int       `json:"points" gorm:"default:10"`
	Difficulty    string    `json:"difficulty" gorm:"default:'medium';size:20"` // easy, medium, hard
	CreatedAt     time.Time `json:"created_at"`
}

type Quiz struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"not null;size:200"`
	Description string     `json:"description" gorm:"type:text"`
	Category    string     `json:"category" gorm:"size:50;index;default:'General Knowledge'"`
	Questions   []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
	CreatedBy   uint       `json:"created_by" gorm:"not null;index"`
	Creator     *User      `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	IsPublic    bool       `json:"is_public" gorm:"default:true"`
	TimeLimit   int        `json:"time_limit" gorm:"default:30"` // seconds per question
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

func (Question) TableName() string {
	return "questions"
}

// StripAnswers hides the correct option index so the quiz can be served
// to players. Points stay visible.
func (q *Quiz) StripAnswers() {
	for i := range q.Questions {
		q.Questions[i].CorrectAnswer = -1
	}
}
