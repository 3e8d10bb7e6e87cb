package auth

import "edulearn_backend/internal/models"

// IsAdmin проверяет является ли пользователь администратором
func IsAdmin(claims *Claims) bool {
	return claims != nil && models.UserRole(claims.Role) == models.UserRoleAdmin
}

// IsTeacherOrAdmin - роль, которой разрешено создавать и менять курсы
func IsTeacherOrAdmin(role string) bool {
	switch models.UserRole(role) {
	case models.UserRoleTeacher, models.UserRoleAdmin:
		return true
	}
	return false
}

func IsStudent(role string) bool {
	return models.UserRole(role) == models.UserRoleStudent
}

// CanMutateCourse - единая проверка для изменения и удаления курса:
// владелец курса или администратор.
func CanMutateCourse(claims *Claims, ownerID uint) bool {
	if claims == nil {
		return false
	}
	return IsAdmin(claims) || claims.ID == ownerID
}
