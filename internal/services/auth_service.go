package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"edulearn_backend/internal/auth"
	"edulearn_backend/internal/email"
	"edulearn_backend/internal/logger"
	"edulearn_backend/internal/metrics"
	"edulearn_backend/internal/models"
	"edulearn_backend/internal/repositories"
	"edulearn_backend/internal/resetcode"
	"edulearn_backend/internal/services/dto"
	"edulearn_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error)
	ForgotPassword(ctx context.Context, db *gorm.DB, req *dto.ForgotPasswordRequest) (*dto.MessageResponse, error)
	VerifyResetCode(ctx context.Context, req *dto.VerifyCodeRequest) (*dto.VerifyCodeResponse, error)
	ResetPassword(ctx context.Context, db *gorm.DB, req *dto.ResetPasswordRequest) (*dto.MessageResponse, error)
	GetCurrentUser(db *gorm.DB, userID uint) (*dto.UserResponse, error)
}

// AuthConfig - параметры токенов и кодов сброса
type AuthConfig struct {
	JWTSecret    string
	TokenTTL     time.Duration
	ResetCodeTTL time.Duration
}

type AuthServiceImpl struct {
	userRepo repositories.UserRepository
	codes    resetcode.Store
	notifier *email.Notifier
	cfg      AuthConfig
}

func NewAuthService(
	userRepo repositories.UserRepository,
	codes resetcode.Store,
	notifier *email.Notifier,
	cfg AuthConfig,
) AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = auth.DefaultTokenTTL
	}
	if cfg.ResetCodeTTL <= 0 {
		cfg.ResetCodeTTL = resetcode.DefaultTTL
	}
	return &AuthServiceImpl{
		userRepo: userRepo,
		codes:    codes,
		notifier: notifier,
		cfg:      cfg,
	}
}

// Register - регистрация студента или преподавателя
func (s *AuthServiceImpl) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if !req.Role.IsPublic() {
		return nil, apperrors.ErrInvalidUserRole
	}

	schoolLevel := strings.TrimSpace(req.SchoolLevel)
	section := strings.TrimSpace(req.Section)

	// Уровень и секция имеют смысл только для студентов
	if req.Role == models.UserRoleStudent {
		if schoolLevel == "" {
			return nil, apperrors.ErrSchoolLevelMissing
		}
		if models.SchoolLevelRequiresSection(schoolLevel) && section == "" {
			return nil, apperrors.ErrSectionMissing
		}
	} else {
		schoolLevel, section = "", ""
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         req.Role,
		SchoolLevel:  schoolLevel,
		Section:      section,
		PasswordHash: hash,
	}

	if err := s.userRepo.Create(db, user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	logger.Info("user registered", "user_id", user.ID, "role", user.Role)

	return &dto.RegisterResponse{
		Message: "Inscription réussie",
		User:    dto.NewUserResponse(user),
	}, nil
}

func (s *AuthServiceImpl) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.findUser(db, req.Email)
	if err != nil {
		return nil, err
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrWrongPassword
	}

	token, err := auth.GenerateToken(s.cfg.JWTSecret, s.cfg.TokenTTL, user.ID, string(user.Role), user.Email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		Message: "Connexion réussie",
		Token:   token,
		User:    dto.NewUserResponse(user),
	}, nil
}

// ForgotPassword выдает код и отправляет его письмом.
// Письмо - единственный канал доставки, поэтому сбой отправки это ошибка запроса.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, db *gorm.DB, req *dto.ForgotPasswordRequest) (*dto.MessageResponse, error) {
	user, err := s.findUser(db, req.Email)
	if err != nil {
		return nil, err
	}

	code, err := s.codes.Issue(ctx, user.Email, user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	metrics.ResetCodeEvent(metrics.ResetCodeIssued)

	if err := s.notifier.SendResetCode(user.Email, user.FirstName, code, s.cfg.ResetCodeTTL); err != nil {
		metrics.EmailFailure("reset_code")
		logger.CtxError(ctx, "failed to send reset code", "user_id", user.ID, "error", err)
		return nil, apperrors.DeliveryError(err)
	}

	return &dto.MessageResponse{Message: "Code de réinitialisation envoyé par email"}, nil
}

func (s *AuthServiceImpl) VerifyResetCode(ctx context.Context, req *dto.VerifyCodeRequest) (*dto.VerifyCodeResponse, error) {
	if err := s.codes.Verify(ctx, strings.TrimSpace(req.Email), strings.TrimSpace(req.Code)); err != nil {
		return nil, mapResetCodeError(err)
	}
	metrics.ResetCodeEvent(metrics.ResetCodeVerified)

	return &dto.VerifyCodeResponse{Message: "Code vérifié", Verified: true}, nil
}

// ResetPassword погашает код и сохраняет новый пароль.
// Длина пароля проверяется до погашения, чтобы короткий пароль не тратил код.
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, db *gorm.DB, req *dto.ResetPasswordRequest) (*dto.MessageResponse, error) {
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	userID, err := s.codes.Consume(ctx, strings.TrimSpace(req.Email), strings.TrimSpace(req.Code))
	if err != nil {
		return nil, mapResetCodeError(err)
	}
	metrics.ResetCodeEvent(metrics.ResetCodeConsumed)

	if err := s.userRepo.UpdatePassword(db, userID, hash); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "password reset", "user_id", userID)

	if user, err := s.userRepo.FindByID(db, userID); err == nil {
		if err := s.notifier.SendPasswordChanged(user.Email, user.FirstName); err != nil {
			metrics.EmailFailure("password_changed")
			logger.CtxWarn(ctx, "failed to send password changed email", "user_id", userID, "error", err)
		}
	}

	return &dto.MessageResponse{Message: "Mot de passe réinitialisé avec succès"}, nil
}

func (s *AuthServiceImpl) GetCurrentUser(db *gorm.DB, userID uint) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *AuthServiceImpl) findUser(db *gorm.DB, rawEmail string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(db, strings.TrimSpace(rawEmail))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func mapResetCodeError(err error) error {
	metrics.ResetCodeEvent(metrics.ResetCodeRejected)

	switch {
	case errors.Is(err, resetcode.ErrChallengeNotFound):
		return apperrors.ErrResetCodeNotFound
	case errors.Is(err, resetcode.ErrChallengeExpired):
		return apperrors.ErrResetCodeExpired
	case errors.Is(err, resetcode.ErrCodeMismatch):
		return apperrors.ErrResetCodeMismatch
	default:
		return apperrors.InternalError(err)
	}
}
