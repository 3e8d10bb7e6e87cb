package middleware

import (
	"strings"

	"edulearn_backend/internal/auth"
	"edulearn_backend/internal/logger"
	"edulearn_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// Ключи gin.Context, которые заполняет AuthMiddleware
const (
	UserIDKey = "userID"
	RoleKey   = "role"
	ClaimsKey = "claims"
)

// AuthMiddleware - проверка JWT из заголовка Authorization.
// Нет токена - 401, токен не прошел проверку - 403.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.HandleError(c, apperrors.ErrUnauthorized)
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenStr == "" {
			apperrors.HandleError(c, apperrors.ErrUnauthorized)
			return
		}

		claims, err := auth.ParseToken(secret, tokenStr)
		if err != nil {
			logger.CtxWarn(c.Request.Context(), "rejected token", "error", err, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		// Сохраняем claims в контекст
		c.Set(UserIDKey, claims.ID)
		c.Set(RoleKey, claims.Role)
		c.Set(ClaimsKey, claims)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.ID))
		c.Next()
	}
}

// TeacherOnly - преподаватели и администраторы
func TeacherOnly() gin.HandlerFunc {
	return requireRole(apperrors.ErrTeacherOnly, auth.IsTeacherOrAdmin)
}

func StudentOnly() gin.HandlerFunc {
	return requireRole(apperrors.ErrStudentOnly, auth.IsStudent)
}

// requireRole пропускает запрос, если allowed принимает роль из токена
func requireRole(denied *apperrors.AppError, allowed func(role string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			apperrors.HandleError(c, apperrors.ErrUnauthorized)
			return
		}

		if !allowed(claims.Role) {
			logger.CtxWarn(c.Request.Context(), "access denied by role",
				"role", claims.Role,
				"path", c.Request.URL.Path,
			)
			apperrors.HandleError(c, denied)
			return
		}

		c.Next()
	}
}

// GetClaims извлекает claims текущего пользователя из контекста
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	val, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := val.(*auth.Claims)
	return claims, ok && claims != nil
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) uint {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0
	}

	id, ok := userID.(uint)
	if !ok {
		return 0
	}

	return id
}
