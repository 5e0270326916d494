package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"classquiz/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DashboardService owns every authorization-scoped read over classes and
// their rosters. Handlers never query classes or students directly.
type DashboardService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewDashboardService(db *gorm.DB, log *zap.Logger) *DashboardService {
	return &DashboardService{db: db, log: log}
}

// TestHistoryEntry is one presentation-ready row of past quiz attempts.
type TestHistoryEntry struct {
	QuizTitle   string    `json:"quiz_title"`
	StudentID   uint      `json:"student_id"`
	StudentName string    `json:"student_name"`
	Score       int       `json:"score"`
	SubmittedAt time.Time `json:"submitted_at"`
}

var weekdayOrder = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

func (s *DashboardService) ClassesForTeacher(teacherID uint) ([]models.Class, error) {
	var classes []models.Class
	err := s.db.Where("teacher_id = ?", teacherID).
		Preload("Students").
		Order("name").
		Find(&classes).Error
	return classes, err
}

// ClassForTeacher resolves a class only when it is owned by the requesting
// teacher. Missing and not-owned are the same failure.
func (s *DashboardService) ClassForTeacher(classID, teacherID uint) (*models.Class, error) {
	var class models.Class
	err := s.db.Where("id = ? AND teacher_id = ?", classID, teacherID).
		Preload("Students").
		First(&class).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (s *DashboardService) FindStudentInClass(class *models.Class, studentID uint) (*models.User, bool) {
	for i := range class.Students {
		if class.Students[i].ID == studentID {
			return &class.Students[i], true
		}
	}
	return nil, false
}

// SortStudents returns the roster ordered by display name. The input slice
// is not modified.
func (s *DashboardService) SortStudents(class *models.Class) []models.User {
	students := make([]models.User, len(class.Students))
	copy(students, class.Students)
	sort.Slice(students, func(i, j int) bool {
		if students[i].Name != students[j].Name {
			return students[i].Name < students[j].Name
		}
		return students[i].ID < students[j].ID
	})
	return students
}

// ScheduleDays expands the stored day list into canonical weekday order.
// Labels that are not weekday names are dropped.
func (s *DashboardService) ScheduleDays(class *models.Class) []string {
	present := make(map[string]bool)
	for _, day := range strings.Split(class.Days, ",") {
		present[strings.TrimSpace(day)] = true
	}

	days := make([]string, 0, len(present))
	for _, day := range weekdayOrder {
		if present[day] {
			days = append(days, day)
		}
	}
	return days
}

func (s *DashboardService) FormatTimeRange(class *models.Class) string {
	if class.StartTime == "" || class.EndTime == "" {
		return ""
	}
	return fmt.Sprintf("%s - %s", class.StartTime, class.EndTime)
}

// TestHistorySnapshot flattens every attempt on the teacher's quizzes into
// presentation-ready rows, newest first.
func (s *DashboardService) TestHistorySnapshot(teacherID uint) ([]TestHistoryEntry, error) {
	var attempts []models.TestAttempt
	err := s.db.
		Joins("JOIN quizzes ON quizzes.id = test_attempts.quiz_id AND quizzes.deleted_at IS NULL").
		Where("quizzes.teacher_id = ?", teacherID).
		Preload("Quiz").
		Preload("Student").
		Order("test_attempts.submitted_at DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}

	entries := make([]TestHistoryEntry, 0, len(attempts))
	for _, attempt := range attempts {
		entries = append(entries, TestHistoryEntry{
			QuizTitle:   attempt.Quiz.Title,
			StudentID:   attempt.StudentID,
			StudentName: attempt.Student.Name,
			Score:       attempt.Score,
			SubmittedAt: attempt.SubmittedAt,
		})
	}
	return entries, nil
}
