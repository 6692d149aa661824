package services

import (
	"errors"
	"fmt"

	"github.com/ayusuf9/trivia-africa/internal/game"
	"github.com/ayusuf9/trivia-africa/internal/models"

	"gorm.io/gorm"
)

// ContentService reads quiz content for the match engine. It is the
// authoritative source of correct answers.
type ContentService struct {
	db *gorm.DB
}

func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{db: db}
}

// QuestionSet returns a quiz's questions in play order. A zero quizID
// selects the most recently created quiz.
func (s *ContentService) QuestionSet(quizID uint) ([]game.QuestionInfo, error) {
	if quizID == 0 {
		var quiz models.Quiz
		if err := s.db.Order("created_at DESC").First(&quiz).Error; err != nil {
			return nil, errors.New("no quiz available")
		}
		quizID = quiz.ID
	}

	var questions []models.Question
	if err := s.db.Where("quiz_id = ?", quizID).
		Order("order_num ASC").
		Preload("Options").
		Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("load questions for quiz %d: %w", quizID, err)
	}

	result := make([]game.QuestionInfo, 0, len(questions))
	for _, q := range questions {
		info := game.QuestionInfo{
			ID:         q.ID,
			Text:       q.Text,
			BasePoints: q.BasePoints,
			TimeLimit:  q.TimeLimit,
		}
		for _, o := range q.Options {
			info.Options = append(info.Options, o.Text)
			if o.IsCorrect {
				info.Answer = o.Text
			}
		}
		result = append(result, info)
	}
	return result, nil
}

// AuthoritativeAnswer returns the correct answer, base points and time
// limit for one question.
func (s *ContentService) AuthoritativeAnswer(questionID uint) (string, int, int, error) {
	var question models.Question
	if err := s.db.Preload("Options").First(&question, questionID).Error; err != nil {
		return "", 0, 0, fmt.Errorf("question %d: %w", questionID, err)
	}
	for _, o := range question.Options {
		if o.IsCorrect {
			return o.Text, question.BasePoints, question.TimeLimit, nil
		}
	}
	return "", 0, 0, fmt.Errorf("question %d has no correct option", questionID)
}
