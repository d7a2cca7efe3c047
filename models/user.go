// models/user.go
package models

import (
	"time"
)

type User struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Username string  `gorm:"uniqueIndex;not null" json:"username"`
	Email    *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Password string  `gorm:"not null" json:"-"`
	Avatar   string  `json:"avatar"`
	Bio      string  `json:"bio"`
	IsGuest  bool    `gorm:"default:false" json:"is_guest"`

	// Aggregate stats, updated after every finished game
	TotalGames     int `gorm:"default:0" json:"total_games"`
	Wins           int `gorm:"default:0" json:"wins"`
	CorrectAnswers int `gorm:"default:0" json:"correct_answers"`
	TotalQuestions int `gorm:"default:0" json:"total_questions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	LastLogin time.Time `json:"last_login"`
}

func (User) TableName() string {
	return "users"
}

// PublicInfo is the subset of a user profile safe to embed in
// session and leaderboard payloads.
type PublicInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

func (u *User) Public() PublicInfo {
	return PublicInfo{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
}
