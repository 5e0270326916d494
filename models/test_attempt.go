package models

import (
	"time"

	"gorm.io/gorm"
)

type TestAttempt struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	QuizID      uint           `json:"quiz_id" gorm:"not null;index"`
	StudentID   uint           `json:"student_id" gorm:"not null;index"`
	Score       int            `json:"score" gorm:"not null"` // percentage, 0-100
	SubmittedAt time.Time      `json:"submitted_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Quiz    Quiz `json:"quiz,omitempty"`
	Student User `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}
