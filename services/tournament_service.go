// services/tournament_service.go - Named tournament records
//
// A tournament is display metadata over a session; every lifecycle
// mutation goes through MatchService so state lives in one place.
package services

import (
	"quizarena/models"

	"gorm.io/gorm"
)

type TournamentService struct {
	db      *gorm.DB
	matches *MatchService
}

func NewTournamentService(db *gorm.DB, matches *MatchService) *TournamentService {
	return &TournamentService{db: db, matches: matches}
}

type CreateTournamentInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	QuizID      uint   `json:"quiz_id"`
	IsPrivate   bool   `json:"is_private"`
	MinPlayers  int    `json:"min_players"`
	MaxPlayers  int    `json:"max_players"`
	Category    string `json:"category"`
}

// Create makes the tournament record and its backing session. The
// session is created first so a failed tournament insert leaves nothing
// to roll back beyond the session itself.
func (s *TournamentService) Create(creatorID uint, in CreateTournamentInput) (*models.Tournament, *models.Session, error) {
	if in.Name == "" {
		return nil, nil, fail(ErrInvalidInput, "tournament name is required")
	}

	session, err := s.matches.Create(CreateMatchInput{
		CreatorID:  creatorID,
		QuizID:     in.QuizID,
		Kind:       models.KindTournament,
		Category:   in.Category,
		IsPrivate:  in.IsPrivate,
		MinPlayers: in.MinPlayers,
		MaxPlayers: in.MaxPlayers,
	})
	if err != nil {
		return nil, nil, err
	}

	tournament := &models.Tournament{
		Name:        in.Name,
		Description: in.Description,
		QuizID:      in.QuizID,
		CreatedBy:   creatorID,
		Category:    session.Category,
		IsPrivate:   in.IsPrivate,
		SessionID:   session.ID,
	}
	if err := s.db.Create(tournament).Error; err != nil {
		// Best effort: don't leave an orphaned session behind.
		_ = s.matches.store.Delete(session.ID)
		return nil, nil, fail(ErrStoreUnavailable, "create tournament: %v", err)
	}
	return tournament, session, nil
}

// List returns all tournaments with their sessions. Access codes are
// stripped from the session payload by the model's json tag; nothing
// extra to redact here.
func (s *TournamentService) List() ([]models.Tournament, error) {
	var tournaments []models.Tournament
	err := s.db.
		Preload("Creator").
		Preload("Quiz").
		Preload("Session").
		Preload("Session.Players", func(db *gorm.DB) *gorm.DB {
			return db.Order("join_order ASC")
		}).
		Order("created_at DESC").
		Find(&tournaments).Error
	if err != nil {
		return nil, fail(ErrStoreUnavailable, "list tournaments: %v", err)
	}
	return tournaments, nil
}

// Get returns one tournament with its session, players and users.
func (s *TournamentService) Get(id uint) (*models.Tournament, error) {
	var tournament models.Tournament
	err := s.db.
		Preload("Creator").
		Preload("Quiz").
		Preload("Session").
		Preload("Session.Players", func(db *gorm.DB) *gorm.DB {
			return db.Order("join_order ASC")
		}).
		Preload("Session.Players.User").
		First(&tournament, id).Error
	if err != nil {
		return nil, storeErr(err, fail(ErrNotFound, "tournament %d", id))
	}
	return &tournament, nil
}

// SessionID resolves a tournament to its session identifier.
func (s *TournamentService) SessionID(id uint) (string, error) {
	var tournament models.Tournament
	err := s.db.Select("id", "session_id").First(&tournament, id).Error
	if err != nil {
		return "", storeErr(err, fail(ErrNotFound, "tournament %d", id))
	}
	return tournament.SessionID, nil
}

// DeleteRecord removes the tournament row once its session is gone.
func (s *TournamentService) DeleteRecord(id uint) error {
	if err := s.db.Delete(&models.Tournament{}, id).Error; err != nil {
		return fail(ErrStoreUnavailable, "delete tournament: %v", err)
	}
	return nil
}

// DeleteBySession removes the tournament row pointing at a session that
// was deleted by the lifecycle manager (e.g. last player left).
func (s *TournamentService) DeleteBySession(sessionID string) error {
	if err := s.db.Where("session_id = ?", sessionID).Delete(&models.Tournament{}).Error; err != nil {
		return fail(ErrStoreUnavailable, "delete tournament: %v", err)
	}
	return nil
}
