package apperrors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode - тип для кодов ошибок
type ErrorCode string

// AppError - основная структура ошибки приложения
type AppError struct {
	Code     ErrorCode   `json:"code"`
	Message  string      `json:"message"`
	Details  interface{} `json:"details,omitempty"`
	Err      error       `json:"-"`
	HTTPCode int         `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is сравнивает ошибки по коду и сообщению, чтобы копии из WithDetails/WithError
// совпадали с предопределенными переменными.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message && e.HTTPCode == t.HTTPCode
}

// Конструктор
func New(code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: httpCode,
	}
}

// С цепочкой ошибок
func Wrap(err error, code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Err:      err,
		HTTPCode: httpCode,
	}
}

// WithDetails возвращает копию ошибки с деталями.
// Предопределенные переменные не изменяются.
func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// WithError возвращает копию ошибки с причиной
func (e *AppError) WithError(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// Для маршалинга в JSON
func (e *AppError) MarshalJSON() ([]byte, error) {
	type alias struct {
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}
	return json.Marshal(&alias{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}

// Is - обертка над стандартной функцией errors.Is
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As - обертка над стандартной функцией errors.As
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Предопределенные ошибки
var (
	// Аутентификация
	ErrUnauthorized   = New(CodeUnauthorized, "Token d'accès requis", http.StatusUnauthorized)
	ErrInvalidToken   = New(CodeInvalidToken, "Token invalide", http.StatusForbidden)
	ErrWrongPassword  = New(CodeInvalidCredentials, "Mot de passe incorrect.", http.StatusUnauthorized)
	ErrTeacherOnly    = New(CodeForbidden, "Accès réservé aux enseignants", http.StatusForbidden)
	ErrStudentOnly    = New(CodeForbidden, "Accès réservé aux étudiants", http.StatusForbidden)
	ErrNotCourseOwner = New(CodeForbidden, "Vous n'êtes pas autorisé à modifier ce cours", http.StatusForbidden)
	ErrCannotDelete   = New(CodeForbidden, "Vous n'êtes pas autorisé à supprimer ce cours", http.StatusForbidden)

	// Пользователи
	ErrUserNotFound       = New(CodeUserNotFound, "Utilisateur non trouvé.", http.StatusNotFound)
	ErrTeacherNotFound    = New(CodeUserNotFound, "Enseignant non trouvé", http.StatusNotFound)
	ErrEmailAlreadyExists = New(CodeEmailAlreadyExists, "Cet email est déjà utilisé.", http.StatusBadRequest)
	ErrWeakPassword       = New(CodeWeakPassword, "Le mot de passe doit contenir au moins 8 caractères.", http.StatusBadRequest)
	ErrInvalidUserRole    = New(CodeInvalidUserRole, "Rôle utilisateur invalide.", http.StatusBadRequest)
	ErrSchoolLevelMissing = New(CodeValidationFailed, "Le champ \"niveau scolaire\" est obligatoire pour les étudiants.", http.StatusBadRequest)
	ErrSectionMissing     = New(CodeValidationFailed, "Le champ \"section\" est obligatoire pour ce niveau.", http.StatusBadRequest)

	// Сброс пароля
	ErrResetCodeNotFound = New(CodeResetCodeNotFound, "Aucune demande de réinitialisation pour cet email", http.StatusBadRequest)
	ErrResetCodeExpired  = New(CodeResetCodeExpired, "Code expiré", http.StatusBadRequest)
	ErrResetCodeMismatch = New(CodeResetCodeMismatch, "Code incorrect", http.StatusBadRequest)

	// Курсы
	ErrCourseNotFound  = New(CodeCourseNotFound, "Cours non trouvé", http.StatusNotFound)
	ErrAlreadyEnrolled = New(CodeAlreadyEnrolled, "Vous êtes déjà inscrit à ce cours", http.StatusBadRequest)
	ErrNotEnrolled     = New(CodeNotEnrolled, "Vous n'êtes pas inscrit à ce cours", http.StatusNotFound)
	ErrCourseFields    = New(CodeValidationFailed, "Le titre et la description sont obligatoires", http.StatusBadRequest)
	ErrSearchTerm      = New(CodeValidationFailed, "Terme de recherche requis", http.StatusBadRequest)
	ErrInvalidID       = New(CodeValidationFailed, "Identifiant invalide", http.StatusBadRequest)

	// Валидация
	ErrValidationFailed = New(CodeValidationFailed, "Tous les champs obligatoires doivent être remplis.", http.StatusBadRequest)

	// Загрузка файлов
	ErrFileTooLarge = New(CodeValidationFailed, "Fichier trop volumineux", http.StatusBadRequest)
	ErrFileRequired = New(CodeValidationFailed, "Aucun fichier fourni", http.StatusBadRequest)
)

// Функции-помощники для создания ошибок с деталями
func ValidationError(details interface{}) *AppError {
	return ErrValidationFailed.WithDetails(details)
}

func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "Erreur serveur", http.StatusInternalServerError)
}

// DeliveryError - сбой отправки письма, когда письмо единственный канал доставки кода
func DeliveryError(err error) *AppError {
	return Wrap(err, CodeDeliveryError, "Erreur lors de l'envoi de l'email", http.StatusInternalServerError)
}

func NewBadRequestError(message string) *AppError {
	return New(CodeValidationFailed, message, http.StatusBadRequest)
}

func NewNotFoundError(message string) *AppError {
	return New(CodeNotFound, message, http.StatusNotFound)
}
