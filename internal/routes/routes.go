package routes

import (
	"edulearn_backend/internal/handlers"
	"edulearn_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	jwtSecret string,
) {
	ginRouter.GET("/health", appHandlers.HealthHandler.Health)
	ginRouter.GET("/files/*path", appHandlers.FileHandler.ServeFile)

	api := ginRouter.Group("/api")

	// Аутентификация (публичные)
	authH := appHandlers.AuthHandler
	{
		api.POST("/register", authH.Register)
		api.POST("/login", authH.Login)
		api.POST("/forgot-password", authH.ForgotPassword)
		api.POST("/verify-code", authH.VerifyCode)
		api.POST("/reset-password", authH.ResetPassword)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtSecret))

	protected.GET("/me", authH.GetCurrentUser)
	protected.GET("/me/courses", middleware.StudentOnly(), appHandlers.EnrollmentHandler.MyCourses)

	registerCourseRoutes(protected, appHandlers.CourseHandler, appHandlers.EnrollmentHandler)
}

func registerCourseRoutes(rg *gin.RouterGroup, courseH *handlers.CourseHandler, enrollmentH *handlers.EnrollmentHandler) {
	courses := rg.Group("/courses")
	{
		courses.GET("", courseH.ListCourses)
		courses.GET("/search", courseH.SearchCourses)
		courses.GET("/teacher/:teacherId", courseH.ListTeacherCourses)
		courses.GET("/:id", courseH.GetCourse)
	}

	// Изменение курсов: преподаватель-владелец или администратор
	teacher := courses.Group("")
	teacher.Use(middleware.TeacherOnly())
	{
		teacher.POST("", courseH.CreateCourse)
		teacher.PUT("/:id", courseH.UpdateCourse)
		teacher.DELETE("/:id", courseH.DeleteCourse)
		teacher.POST("/:id/supports", courseH.UploadSupport)
	}

	student := courses.Group("/:id/enroll")
	student.Use(middleware.StudentOnly())
	{
		student.POST("", enrollmentH.Enroll)
		student.DELETE("", enrollmentH.Unenroll)
	}
}
