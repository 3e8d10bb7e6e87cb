package services

import (
	"edulearn_backend/internal/email"
	"edulearn_backend/internal/resetcode"
	"edulearn_backend/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService       AuthService
	CourseService     CourseService
	EnrollmentService EnrollmentService
	Notifier          *email.Notifier
	ResetCodes        resetcode.Store
	Storage           storage.Storage
}
