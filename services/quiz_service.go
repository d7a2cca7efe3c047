// services/quiz_service.go - Quiz content CRUD and scoring lookups
package services

import (
	"quizarena/models"

	"gorm.io/gorm"
)

type QuizService struct {
	db *gorm.DB
}

func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{db: db}
}

// ListPublic returns all public quizzes with correct answers stripped.
func (s *QuizService) ListPublic() ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := s.db.Where("is_public = ?", true).
		Preload("Questions").
		Preload("Creator").
		Find(&quizzes).Error
	if err != nil {
		return nil, fail(ErrStoreUnavailable, "list quizzes: %v", err)
	}
	for i := range quizzes {
		quizzes[i].StripAnswers()
	}
	return quizzes, nil
}

// Get returns a quiz with correct answers stripped, for players.
func (s *QuizService) Get(id uint) (*models.Quiz, error) {
	quiz, err := s.getFull(id)
	if err != nil {
		return nil, err
	}
	quiz.StripAnswers()
	return quiz, nil
}

// GetFull returns a quiz including correct answers. Creator only.
func (s *QuizService) GetFull(id, requesterID uint) (*models.Quiz, error) {
	quiz, err := s.getFull(id)
	if err != nil {
		return nil, err
	}
	if quiz.CreatedBy != requesterID {
		return nil, fail(ErrForbidden, "only the quiz creator can see answers")
	}
	return quiz, nil
}

func (s *QuizService) getFull(id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.Preload("Questions").Preload("Creator").First(&quiz, id).Error
	if err != nil {
		return nil, storeErr(err, fail(ErrNotFound, "quiz %d", id))
	}
	return &quiz, nil
}

type QuizInput struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Questions   []models.Question `json:"questions"`
	IsPublic    *bool             `json:"is_public"`
	TimeLimit   int               `json:"time_limit"`
}

func (s *QuizService) Create(creatorID uint, in QuizInput) (*models.Quiz, error) {
	if in.Title == "" {
		return nil, fail(ErrInvalidInput, "quiz title is required")
	}
	if len(in.Questions) == 0 {
		return nil, fail(ErrInvalidInput, "quiz needs at least one question")
	}
	if in.Category == "" {
		in.Category = models.DefaultCategory
	}
	if !models.ValidCategory(in.Category) {
		return nil, fail(ErrInvalidInput, "unknown category %q", in.Category)
	}
	for i := range in.Questions {
		q := &in.Questions[i]
		if q.Text == "" || len(q.Options) < 2 {
			return nil, fail(ErrInvalidInput, "question %d needs text and at least two options", i+1)
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return nil, fail(ErrInvalidInput, "question %d has an out-of-range correct answer", i+1)
		}
		if q.Points == 0 {
			q.Points = 10
		}
	}

	isPublic := true
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
	}
	timeLimit := in.TimeLimit
	if timeLimit == 0 {
		timeLimit = 30
	}

	quiz := &models.Quiz{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Questions:   in.Questions,
		CreatedBy:   creatorID,
		IsPublic:    isPublic,
		TimeLimit:   timeLimit,
	}
	if err := s.db.Create(quiz).Error; err != nil {
		return nil, fail(ErrStoreUnavailable, "create quiz: %v", err)
	}
	return quiz, nil
}

func (s *QuizService) Update(id, requesterID uint, in QuizInput) (*models.Quiz, error) {
	quiz, err := s.getFull(id)
	if err != nil {
		return nil, err
	}
	if quiz.CreatedBy != requesterID {
		return nil, fail(ErrForbidden, "only the quiz creator can update it")
	}

	if in.Title != "" {
		quiz.Title = in.Title
	}
	if in.Description != "" {
		quiz.Description = in.Description
	}
	if in.Category != "" {
		if !models.ValidCategory(in.Category) {
			return nil, fail(ErrInvalidInput, "unknown category %q", in.Category)
		}
		quiz.Category = in.Category
	}
	if in.IsPublic != nil {
		quiz.IsPublic = *in.IsPublic
	}
	if in.TimeLimit != 0 {
		quiz.TimeLimit = in.TimeLimit
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(in.Questions) > 0 {
			if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&models.Question{}).Error; err != nil {
				return err
			}
			for i := range in.Questions {
				in.Questions[i].ID = 0
				in.Questions[i].QuizID = quiz.ID
			}
			quiz.Questions = in.Questions
			if err := tx.Create(&quiz.Questions).Error; err != nil {
				return err
			}
		}
		return tx.Omit("Questions", "Creator").Save(quiz).Error
	})
	if err != nil {
		return nil, fail(ErrStoreUnavailable, "update quiz: %v", err)
	}
	return quiz, nil
}

func (s *QuizService) Delete(id, requesterID uint) error {
	quiz, err := s.getFull(id)
	if err != nil {
		return err
	}
	if quiz.CreatedBy != requesterID {
		return fail(ErrForbidden, "only the quiz creator can delete it")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", id).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Quiz{}, id).Error
	})
	if err != nil {
		return fail(ErrStoreUnavailable, "delete quiz: %v", err)
	}
	return nil
}

// GetCorrectAnswer implements QuizContent for the lifecycle manager.
func (s *QuizService) GetCorrectAnswer(quizID, questionID uint) (int, int, error) {
	var q models.Question
	err := s.db.Where("quiz_id = ? AND id = ?", quizID, questionID).First(&q).Error
	if err != nil {
		return 0, 0, storeErr(err, fail(ErrNotFound, "question %d", questionID))
	}
	return q.CorrectAnswer, q.Points, nil
}

// QuestionCount implements QuizContent.
func (s *QuizService) QuestionCount(quizID uint) (int, error) {
	var count int64
	err := s.db.Model(&models.Question{}).Where("quiz_id = ?", quizID).Count(&count).Error
	if err != nil {
		return 0, fail(ErrStoreUnavailable, "count questions: %v", err)
	}
	if count == 0 {
		return 0, fail(ErrNotFound, "quiz %d has no questions", quizID)
	}
	return int(count), nil
}
