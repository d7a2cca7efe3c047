// models/session.go - Game session models (solo, duo and tournament matches)
package models

import (
	"time"
)

// Session kinds.
const (
	KindSolo       = "solo"
	KindDuo        = "duo"
	KindTournament = "tournament"
)

// Session lifecycle states. Transitions only move forward:
// waiting -> active -> finished.
const (
	StatusWaiting  = "waiting"
	StatusActive   = "active"
	StatusFinished = "finished"
)

// Per-player states.
const (
	PlayerWaiting  = "waiting"
	PlayerReady    = "ready"
	PlayerPlaying  = "playing"
	PlayerFinished = "finished"
)

func ValidKind(k string) bool {
	return k == KindSolo || k == KindDuo || k == KindTournament
}

// Session is one playable match instance. The creator is always the
// first entry of Players while the session is waiting; ownership moves
// to the earliest remaining joiner if the creator leaves.
type Session struct {
	ID         string `json:"id" gorm:"primaryKey;size:36"`
	Kind       string `json:"kind" gorm:"not null;size:20;index"`
	QuizID     uint   `json:"quiz_id" gorm:"not null;index"`
	Quiz       *Quiz  `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`
	CreatorID  uint   `json:"creator_id" gorm:"not null;index"`
	Category   string `json:"category" gorm:"size:50;default:'General Knowledge'"`
	IsPrivate  bool   `json:"is_private" gorm:"default:false"`
	AccessCode string `json:"-" gorm:"size:12"`
	MinPlayers int    `json:"min_players" gorm:"default:1"`
	MaxPlayers int    `json:"max_players" gorm:"default:1"`

	Status    string     `json:"status" gorm:"default:'waiting';size:20;index"`
	RoomID    string     `json:"room_id" gorm:"uniqueIndex;size:60"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`

	Players  []SessionPlayer `json:"players,omitempty" gorm:"foreignKey:SessionID"`
	Messages []ChatMessage   `json:"messages,omitempty" gorm:"foreignKey:SessionID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionPlayer is one participant record. JoinOrder starts at 0 for the
// creator and is the tie-break key for ownership transfer.
type SessionPlayer struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	SessionID string         `json:"session_id" gorm:"not null;index;size:36"`
	UserID    uint           `json:"user_id" gorm:"not null;index"`
	User      *User          `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Status    string         `json:"status" gorm:"default:'waiting';size:20"`
	Score     int            `json:"score" gorm:"default:0"`
	JoinOrder int            `json:"join_order" gorm:"not null"`
	Answers   []PlayerAnswer `json:"answers,omitempty" gorm:"foreignKey:PlayerID"`

	FinishTime *time.Time `json:"finish_time"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// PlayerAnswer is an append-only record of one answered question.
type PlayerAnswer struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PlayerID   uint      `json:"player_id" gorm:"not null;index"`
	QuestionID uint      `json:"question_id" gorm:"not null"`
	Answer     int       `json:"answer"`
	IsCorrect  bool      `json:"is_correct"`
	AnswerTime int       `json:"answer_time"` // seconds spent on the question
	Points     int       `json:"points"`
	CreatedAt  time.Time `json:"created_at"`
}

// ChatMessage is one entry of a session's append-only chat log.
type ChatMessage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SessionID string    `json:"session_id" gorm:"not null;index;size:36"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Username  string    `json:"username" gorm:"size:100"`
	Text      string    `json:"text" gorm:"type:text"`
	Timestamp time.Time `json:"timestamp" gorm:"not null"`
}

func (Session) TableName() string {
	return "sessions"
}

func (SessionPlayer) TableName() string {
	return "session_players"
}

func (PlayerAnswer) TableName() string {
	return "player_answers"
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

// Player returns the participant record for userID, or nil.
func (s *Session) Player(userID uint) *SessionPlayer {
	for i := range s.Players {
		if s.Players[i].UserID == userID {
			return &s.Players[i]
		}
	}
	return nil
}
