// services/duo_service.go - Duo match records
package services

import (
	"quizarena/models"

	"gorm.io/gorm"
)

type DuoService struct {
	db      *gorm.DB
	matches *MatchService
}

func NewDuoService(db *gorm.DB, matches *MatchService) *DuoService {
	return &DuoService{db: db, matches: matches}
}

type CreateDuoInput struct {
	QuizID    uint   `json:"quiz_id"`
	IsPrivate bool   `json:"is_private"`
	Category  string `json:"category"`
}

// Create makes a duo record and its backing two-player session.
func (s *DuoService) Create(creatorID uint, in CreateDuoInput) (*models.Duo, *models.Session, error) {
	session, err := s.matches.Create(CreateMatchInput{
		CreatorID: creatorID,
		QuizID:    in.QuizID,
		Kind:      models.KindDuo,
		Category:  in.Category,
		IsPrivate: in.IsPrivate,
	})
	if err != nil {
		return nil, nil, err
	}

	duo := &models.Duo{
		QuizID:    in.QuizID,
		CreatedBy: creatorID,
		Category:  session.Category,
		IsPrivate: in.IsPrivate,
		SessionID: session.ID,
	}
	if err := s.db.Create(duo).Error; err != nil {
		_ = s.matches.store.Delete(session.ID)
		return nil, nil, fail(ErrStoreUnavailable, "create duo: %v", err)
	}
	return duo, session, nil
}

// Get returns one duo with its session and players.
func (s *DuoService) Get(id uint) (*models.Duo, error) {
	var duo models.Duo
	err := s.db.
		Preload("Creator").
		Preload("Session").
		Preload("Session.Players", func(db *gorm.DB) *gorm.DB {
			return db.Order("join_order ASC")
		}).
		Preload("Session.Players.User").
		First(&duo, id).Error
	if err != nil {
		return nil, storeErr(err, fail(ErrNotFound, "duo %d", id))
	}
	return &duo, nil
}

// DeleteBySession removes the duo row once its session is gone.
func (s *DuoService) DeleteBySession(sessionID string) error {
	if err := s.db.Where("session_id = ?", sessionID).Delete(&models.Duo{}).Error; err != nil {
		return fail(ErrStoreUnavailable, "delete duo: %v", err)
	}
	return nil
}
