// services/store.go - Session record store
package services

import (
	"errors"
	"time"

	"quizarena/models"

	"gorm.io/gorm"
)

// SessionStore is the persistence boundary for match sessions. It has no
// concurrency control of its own; MatchService serializes mutations per
// session before calling in.
type SessionStore interface {
	Create(s *models.Session) error
	// Get loads a session with players in join order and the chat log.
	Get(id string) (*models.Session, error)
	// Update persists the session's lifecycle fields and its current
	// player list atomically. Players removed from the slice are removed
	// from the record; new players are inserted.
	Update(s *models.Session) error
	Delete(id string) error
	AppendMessage(msg *models.ChatMessage) error
	AppendAnswer(a *models.PlayerAnswer) error
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// GormSessionStore persists sessions in PostgreSQL.
type GormSessionStore struct {
	db *gorm.DB
}

func NewGormSessionStore(db *gorm.DB) *GormSessionStore {
	return &GormSessionStore{db: db}
}

func (s *GormSessionStore) Create(session *models.Session) error {
	return s.db.Create(session).Error
}

func (s *GormSessionStore) Get(id string) (*models.Session, error) {
	var session models.Session
	err := s.db.
		Preload("Players", func(db *gorm.DB) *gorm.DB {
			return db.Order("join_order ASC")
		}).
		Preload("Players.User").
		Preload("Players.Answers").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp ASC")
		}).
		First(&session, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *GormSessionStore) Update(session *models.Session) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Session{}).Where("id = ?", session.ID).
			Updates(map[string]interface{}{
				"creator_id": session.CreatorID,
				"status":     session.Status,
				"start_time": session.StartTime,
				"end_time":   session.EndTime,
				"updated_at": time.Now().UTC(),
			}).Error; err != nil {
			return err
		}

		// Drop player rows no longer present
		kept := make([]uint, 0, len(session.Players))
		for i := range session.Players {
			kept = append(kept, session.Players[i].UserID)
		}
		del := tx.Where("session_id = ?", session.ID)
		if len(kept) > 0 {
			del = del.Where("user_id NOT IN ?", kept)
		}
		if err := del.Delete(&models.SessionPlayer{}).Error; err != nil {
			return err
		}

		// Upsert the rest. Save inserts rows with a zero primary key and
		// updates the others.
		for i := range session.Players {
			p := session.Players[i]
			p.Answers = nil
			if err := tx.Save(&p).Error; err != nil {
				return err
			}
			session.Players[i].ID = p.ID
		}
		return nil
	})
}

func (s *GormSessionStore) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("player_id IN (SELECT id FROM session_players WHERE session_id = ?)", id).
			Delete(&models.PlayerAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", id).Delete(&models.SessionPlayer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", id).Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Session{}, "id = ?", id).Error
	})
}

func (s *GormSessionStore) AppendMessage(msg *models.ChatMessage) error {
	return s.db.Create(msg).Error
}

func (s *GormSessionStore) AppendAnswer(a *models.PlayerAnswer) error {
	return s.db.Create(a).Error
}
