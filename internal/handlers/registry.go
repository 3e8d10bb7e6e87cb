package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler       *AuthHandler
	CourseHandler     *CourseHandler
	EnrollmentHandler *EnrollmentHandler
	FileHandler       *FileHandler
	HealthHandler     *HealthHandler
}
