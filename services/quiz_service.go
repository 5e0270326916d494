package services

import (
	"errors"
	"strings"

	"classquiz/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuizService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewQuizService(db *gorm.DB, log *zap.Logger) *QuizService {
	return &QuizService{db: db, log: log}
}

// SaveQuestionInput carries one submitted question form. Options holds the
// four form slots in order; blank slots are skipped. CorrectOptions lists
// the 1-based positions that are marked correct.
type SaveQuestionInput struct {
	QuestionID     *uint
	Text           string
	Options        [4]string
	CorrectOptions []int
}

func (s *QuizService) ListForTeacher(teacherID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := s.db.Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

func (s *QuizService) Create(teacherID uint, title, description string) (*models.Quiz, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrBlankTitle
	}

	quiz := models.Quiz{
		Title:       title,
		Description: normalizeDescription(description),
		TeacherID:   teacherID,
	}

	if err := s.db.Create(&quiz).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

// GetForTeacher loads a quiz with its questions and options in position
// order. A quiz that exists but belongs to another teacher is reported the
// same way as a missing one.
func (s *QuizService) GetForTeacher(quizID, teacherID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.Where("id = ? AND teacher_id = ?", quizID, teacherID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.position")
		}).
		First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (s *QuizService) UpdateBasicInfo(quizID, teacherID uint, title, description string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrBlankTitle
	}

	res := s.db.Model(&models.Quiz{}).
		Where("id = ? AND teacher_id = ?", quizID, teacherID).
		Updates(map[string]interface{}{
			"title":       title,
			"description": normalizeDescription(description),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveQuestion creates a new question appended to the quiz, or replaces the
// text and options of an existing one. The prior option set is always
// discarded wholesale before the submitted slots are written back, so
// resubmitting the same form is idempotent. Returns true when a question
// was created rather than updated.
func (s *QuizService) SaveQuestion(quizID, teacherID uint, in SaveQuestionInput) (bool, error) {
	var quiz models.Quiz
	err := s.db.Where("id = ? AND teacher_id = ?", quizID, teacherID).First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var question models.Question
	created := in.QuestionID == nil

	if in.QuestionID != nil {
		err = tx.Where("id = ? AND quiz_id = ?", *in.QuestionID, quiz.ID).First(&question).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tx.Rollback()
			return false, ErrQuestionNotFound
		}
		if err != nil {
			tx.Rollback()
			return false, err
		}

		question.Text = in.Text
		if err := tx.Save(&question).Error; err != nil {
			tx.Rollback()
			return false, err
		}

		// Replace the option collection wholesale.
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.Option{}).Error; err != nil {
			tx.Rollback()
			return false, err
		}
	} else {
		// Positions are not compacted on delete, so the next free slot is
		// one past the maximum, not the count.
		var maxPosition int
		err := tx.Model(&models.Question{}).
			Where("quiz_id = ?", quiz.ID).
			Select("COALESCE(MAX(position), 0)").
			Scan(&maxPosition).Error
		if err != nil {
			tx.Rollback()
			return false, err
		}

		question = models.Question{
			QuizID:   quiz.ID,
			Text:     in.Text,
			Position: maxPosition + 1,
		}
		if err := tx.Create(&question).Error; err != nil {
			tx.Rollback()
			return false, err
		}
	}

	for i, text := range in.Options {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		option := models.Option{
			QuestionID: question.ID,
			Text:       text,
			IsCorrect:  containsInt(in.CorrectOptions, i+1),
			Position:   i + 1,
		}
		if err := tx.Create(&option).Error; err != nil {
			tx.Rollback()
			return false, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return false, err
	}

	s.log.Info("question saved",
		zap.Uint("quiz_id", quiz.ID),
		zap.Uint("question_id", question.ID),
		zap.Bool("created", created))
	return created, nil
}

// DeleteQuestion removes one question and its options from an owned quiz.
// Other questions keep their positions.
func (s *QuizService) DeleteQuestion(quizID, teacherID, questionID uint) error {
	var quiz models.Quiz
	err := s.db.Where("id = ? AND teacher_id = ?", quizID, teacherID).First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	var question models.Question
	err = s.db.Where("id = ? AND quiz_id = ?", questionID, quiz.ID).First(&question).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrQuestionNotFound
	}
	if err != nil {
		return err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("question_id = ?", question.ID).Delete(&models.Option{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&question).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	s.log.Info("question deleted",
		zap.Uint("quiz_id", quiz.ID),
		zap.Uint("question_id", question.ID))
	return nil
}

func normalizeDescription(description string) *string {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func containsInt(values []int, target int) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
