package services

import (
	"errors"
	"time"

	"classquiz/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AttemptService covers the student side: which quizzes a student may take
// and the scoring of a submitted attempt.
type AttemptService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAttemptService(db *gorm.DB, log *zap.Logger) *AttemptService {
	return &AttemptService{db: db, log: log}
}

// AvailableQuizzes lists quizzes owned by teachers of the classes the
// student belongs to.
func (s *AttemptService) AvailableQuizzes(studentID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := s.db.
		Distinct("quizzes.*").
		Joins("JOIN classes ON classes.teacher_id = quizzes.teacher_id AND classes.deleted_at IS NULL").
		Joins("JOIN class_students ON class_students.class_id = classes.id").
		Where("class_students.user_id = ?", studentID).
		Order("quizzes.created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

// QuizForStudent loads an available quiz with questions and options for the
// take-test page. Correctness flags stay server-side; views must not render
// them.
func (s *AttemptService) QuizForStudent(quizID, studentID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.
		Distinct("quizzes.*").
		Joins("JOIN classes ON classes.teacher_id = quizzes.teacher_id AND classes.deleted_at IS NULL").
		Joins("JOIN class_students ON class_students.class_id = classes.id").
		Where("quizzes.id = ? AND class_students.user_id = ?", quizID, studentID).
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

// Submit scores an attempt and records it. A question counts as correct
// only when the selected option set matches the correct option set exactly.
// Score is the percentage of correct questions.
func (s *AttemptService) Submit(quizID, studentID uint, answers map[uint][]uint) (*models.TestAttempt, error) {
	quiz, err := s.QuizForStudent(quizID, studentID)
	if err != nil {
		return nil, err
	}

	correct := 0
	for _, question := range quiz.Questions {
		if answeredCorrectly(question, answers[question.ID]) {
			correct++
		}
	}

	score := 0
	if len(quiz.Questions) > 0 {
		score = 100 * correct / len(quiz.Questions)
	}

	attempt := models.TestAttempt{
		QuizID:      quiz.ID,
		StudentID:   studentID,
		Score:       score,
		SubmittedAt: time.Now().UTC(),
	}
	if err := s.db.Create(&attempt).Error; err != nil {
		return nil, err
	}

	s.log.Info("attempt submitted",
		zap.Uint("quiz_id", quiz.ID),
		zap.Uint("student_id", studentID),
		zap.Int("score", score))
	return &attempt, nil
}

// HistoryForStudent returns the student's own attempts, newest first.
func (s *AttemptService) HistoryForStudent(studentID uint) ([]models.TestAttempt, error) {
	var attempts []models.TestAttempt
	err := s.db.Where("student_id = ?", studentID).
		Preload("Quiz").
		Order("submitted_at DESC").
		Find(&attempts).Error
	return attempts, err
}

func answeredCorrectly(question models.Question, selected []uint) bool {
	want := make(map[uint]bool)
	for _, option := range question.Options {
		if option.IsCorrect {
			want[option.ID] = true
		}
	}
	if len(selected) != len(want) {
		return false
	}
	for _, id := range selected {
		if !want[id] {
			return false
		}
	}
	return true
}
