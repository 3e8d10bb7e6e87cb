package models

type UserRole string

const (
	UserRoleStudent UserRole = "etudiant"
	UserRoleTeacher UserRole = "enseignant"
	UserRoleAdmin   UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleStudent, UserRoleTeacher, UserRoleAdmin:
		return true
	}
	return false
}

// IsPublic - роли, доступные при самостоятельной регистрации.
// Администратор создается только при старте приложения.
func (r UserRole) IsPublic() bool {
	return r == UserRoleStudent || r == UserRoleTeacher
}

// Уровни обучения, для которых обязательна секция
var schoolLevelsWithSection = map[string]bool{
	"2eme": true,
	"3eme": true,
	"4eme": true,
}

func SchoolLevelRequiresSection(level string) bool {
	return schoolLevelsWithSection[level]
}
