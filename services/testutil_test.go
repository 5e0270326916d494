package services

import (
	"testing"
	"time"

	"classquiz/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A fresh connection would see a fresh in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Class{},
		&models.Quiz{},
		&models.Question{},
		&models.Option{},
		&models.TestAttempt{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func newTestAuthService(t *testing.T, db *gorm.DB) *AuthService {
	t.Helper()
	return NewAuthService(db, newTestRedis(t), "test-secret", time.Hour, zap.NewNop())
}

func createTeacher(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := models.User{
		Name:         name,
		Email:        name + "@school.test",
		PasswordHash: "x",
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create teacher: %v", err)
	}
	return &user
}

func createStudent(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := models.User{
		Name:         name,
		Email:        name + "@school.test",
		PasswordHash: "x",
		Role:         models.RoleStudent,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create student: %v", err)
	}
	return &user
}

func createClass(t *testing.T, db *gorm.DB, name string, teacherID uint, students ...*models.User) *models.Class {
	t.Helper()
	class := models.Class{
		Name:      name,
		TeacherID: teacherID,
		Days:      "Monday,Wednesday",
		StartTime: "09:00",
		EndTime:   "10:30",
	}
	for _, s := range students {
		class.Students = append(class.Students, *s)
	}
	if err := db.Create(&class).Error; err != nil {
		t.Fatalf("failed to create class: %v", err)
	}
	return &class
}
