// services/user_service.go - User lookup, profiles and leaderboard
package services

import (
	"quizarena/models"

	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// GetUser resolves a user for display decoration. Callers treat a
// failure as non-fatal and fall back to the raw id.
func (s *UserService) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, storeErr(err, fail(ErrNotFound, "user %d", id))
	}
	return &user, nil
}

type ProfileUpdate struct {
	Username string  `json:"username"`
	Bio      *string `json:"bio"`
	Avatar   string  `json:"avatar"`
}

func (s *UserService) UpdateProfile(id uint, in ProfileUpdate) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	if in.Username != "" {
		user.Username = in.Username
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Avatar != "" {
		user.Avatar = in.Avatar
	}
	if err := s.db.Save(user).Error; err != nil {
		return nil, fail(ErrStoreUnavailable, "update profile: %v", err)
	}
	return user, nil
}

type StatsUpdate struct {
	TotalGames     int `json:"total_games"`
	Wins           int `json:"wins"`
	CorrectAnswers int `json:"correct_answers"`
	TotalQuestions int `json:"total_questions"`
}

// BumpStats adds the deltas of one finished game to the user's
// aggregates. All fields are increments, never absolutes.
func (s *UserService) BumpStats(id uint, in StatsUpdate) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	user.TotalGames += in.TotalGames
	user.Wins += in.Wins
	user.CorrectAnswers += in.CorrectAnswers
	user.TotalQuestions += in.TotalQuestions
	if err := s.db.Save(user).Error; err != nil {
		return nil, fail(ErrStoreUnavailable, "update stats: %v", err)
	}
	return user, nil
}

// Leaderboard returns the top players by wins.
func (s *UserService) Leaderboard(limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 10
	}
	var users []models.User
	err := s.db.Order("wins DESC").Limit(limit).Find(&users).Error
	if err != nil {
		return nil, fail(ErrStoreUnavailable, "leaderboard: %v", err)
	}
	return users, nil
}
