// Package testutil - общие фикстуры для тестов: SQLite в памяти,
// пользователи и тестовый HTTP сервер.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"edulearn_backend/internal/auth"
	"edulearn_backend/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbCounter atomic.Int64

// NewTestDB открывает отдельную базу SQLite в памяти и мигрирует модели
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:edulearn_test_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Не удалось открыть тестовую БД: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Не удалось получить *sql.DB: %v", err)
	}
	// одно соединение: база в памяти живет, пока оно открыто
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("Не удалось выполнить AutoMigrate: %v", err)
	}
	return db
}

// CreateUser сохраняет пользователя, хешируя переданный пароль
func CreateUser(t *testing.T, db *gorm.DB, user *models.User, password string) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("Не удалось хешировать пароль: %v", err)
	}
	user.PasswordHash = hash
	if user.Phone == "" {
		user.Phone = "0600000000"
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Не удалось создать пользователя %s: %v", user.Email, err)
	}
	return user
}

func CreateTeacher(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	return CreateUser(t, db, &models.User{
		FirstName: "Claire",
		LastName:  "Martin",
		Email:     email,
		Role:      models.UserRoleTeacher,
	}, "password123")
}

func CreateStudent(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	return CreateUser(t, db, &models.User{
		FirstName:   "Yanis",
		LastName:    "Benali",
		Email:       email,
		Role:        models.UserRoleStudent,
		SchoolLevel: "1ere",
	}, "password123")
}

func CreateAdmin(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	return CreateUser(t, db, &models.User{
		FirstName: "Admin",
		LastName:  "EduLearn",
		Email:     email,
		Role:      models.UserRoleAdmin,
	}, "password123")
}
