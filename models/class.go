package models

import (
	"time"

	"gorm.io/gorm"
)

type Class struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"not null"`
	TeacherID uint           `json:"teacher_id" gorm:"not null"`
	Days      string         `json:"days"`       // comma-separated weekday names
	StartTime string         `json:"start_time"` // "15:04" wall-clock
	EndTime   string         `json:"end_time"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Teacher  User   `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
	Students []User `json:"students,omitempty" gorm:"many2many:class_students"`
}
