package apperrors

// Коды ошибок сгруппированные по доменам
const (
	// Аутентификация и авторизация
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	// Валидация
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeWeakPassword     ErrorCode = "WEAK_PASSWORD"
	CodeInvalidUserRole  ErrorCode = "INVALID_USER_ROLE"

	// Сброс пароля
	CodeResetCodeNotFound ErrorCode = "RESET_CODE_NOT_FOUND"
	CodeResetCodeExpired  ErrorCode = "RESET_CODE_EXPIRED"
	CodeResetCodeMismatch ErrorCode = "RESET_CODE_MISMATCH"

	// Ресурсы
	CodeUserNotFound   ErrorCode = "USER_NOT_FOUND"
	CodeCourseNotFound ErrorCode = "COURSE_NOT_FOUND"
	CodeNotFound       ErrorCode = "NOT_FOUND"

	// Бизнес-логика
	CodeEmailAlreadyExists ErrorCode = "EMAIL_ALREADY_EXISTS"
	CodeAlreadyEnrolled    ErrorCode = "ALREADY_ENROLLED"
	CodeNotEnrolled        ErrorCode = "NOT_ENROLLED"

	// Системные ошибки
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
	CodeDeliveryError ErrorCode = "DELIVERY_ERROR"
)
