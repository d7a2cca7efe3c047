// models/match.go - Named tournament and duo match records.
//
// Tournaments and duos carry display metadata (name, description) on top
// of the session that holds the actual lifecycle state. Lifecycle fields
// live on the Session only; these records never duplicate them.
package models

import (
	"time"
)

type Tournament struct {
	ID          uint     `json:"id" gorm:"primaryKey"`
	Name        string   `json:"name" gorm:"not null;size:200"`
	Description string   `json:"description" gorm:"type:text"`
	QuizID      uint     `json:"quiz_id" gorm:"not null;index"`
	Quiz        *Quiz    `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`
	CreatedBy   uint     `json:"created_by" gorm:"not null;index"`
	Creator     *User    `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	Category    string   `json:"category" gorm:"size:50;default:'General Knowledge'"`
	IsPrivate   bool     `json:"is_private" gorm:"default:false"`
	SessionID   string   `json:"session_id" gorm:"uniqueIndex;size:36"`
	Session     *Session `json:"session,omitempty" gorm:"foreignKey:SessionID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Duo struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	QuizID    uint     `json:"quiz_id" gorm:"not null;index"`
	CreatedBy uint     `json:"created_by" gorm:"not null;index"`
	Creator   *User    `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	Category  string   `json:"category" gorm:"size:50;default:'General Knowledge'"`
	IsPrivate bool     `json:"is_private" gorm:"default:false"`
	SessionID string   `json:"session_id" gorm:"uniqueIndex;size:36"`
	Session   *Session `json:"session,omitempty" gorm:"foreignKey:SessionID"`

	CreatedAt time.Time `json:"created_at"`
}

func (Tournament) TableName() string {
	return "tournaments"
}

func (Duo) TableName() string {
	return "duos"
}
