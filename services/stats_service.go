// services/stats_service.go - Per-game statistic rows
package services

import (
	"quizarena/models"

	"gorm.io/gorm"
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

type StatInput struct {
	Mode           string `json:"mode"`
	Category       string `json:"category"`
	CorrectAnswers int    `json:"correct_answers"`
	TotalQuestions int    `json:"total_questions"`
}

func (s *StatsService) Record(userID uint, in StatInput) (*models.Statistic, error) {
	if !models.ValidKind(in.Mode) {
		return nil, fail(ErrInvalidInput, "unknown mode %q", in.Mode)
	}
	stat := &models.Statistic{
		UserID:         userID,
		Mode:           in.Mode,
		Category:       in.Category,
		CorrectAnswers: in.CorrectAnswers,
		TotalQuestions: in.TotalQuestions,
	}
	if err := s.db.Create(stat).Error; err != nil {
		return nil, fail(ErrStoreUnavailable, "record statistic: %v", err)
	}
	return stat, nil
}

func (s *StatsService) ListByUser(userID uint) ([]models.Statistic, error) {
	var stats []models.Statistic
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&stats).Error
	if err != nil {
		return nil, fail(ErrStoreUnavailable, "list statistics: %v", err)
	}
	return stats, nil
}
