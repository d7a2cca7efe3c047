// models/statistic.go
package models

import (
	"time"
)

// Statistic is one per-game stat row, written when a player finishes a
// match in any mode.
type Statistic struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UserID         uint      `json:"user_id" gorm:"not null;index"`
	User           *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Mode           string    `json:"mode" gorm:"not null;size:20"` // solo, duo, tournament
	Category       string    `json:"category" gorm:"size:50"`
	CorrectAnswers int       `json:"correct_answers" gorm:"default:0"`
	TotalQuestions int       `json:"total_questions" gorm:"default:0"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`
}

func (Statistic) TableName() string {
	return "statistics"
}
