package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"edulearn_backend/internal/auth"
	"edulearn_backend/internal/email"
	"edulearn_backend/internal/models"
	"edulearn_backend/internal/repositories"
	"edulearn_backend/internal/resetcode"
	"edulearn_backend/internal/services/dto"
	"edulearn_backend/internal/testutil"
	"edulearn_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

type authFixture struct {
	db     *gorm.DB
	svc    AuthService
	mailer *testutil.RecordingMailer
	codes  *resetcode.MemoryStore
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	mailer := &testutil.RecordingMailer{}
	codes := resetcode.NewMemoryStore(resetcode.DefaultTTL)
	notifier := email.NewNotifier(mailer, email.NewTemplateManager())

	return &authFixture{
		db: testutil.NewTestDB(t),
		svc: NewAuthService(repositories.NewUserRepository(), codes, notifier, AuthConfig{
			JWTSecret: testSecret,
			TokenTTL:  time.Hour,
		}),
		mailer: mailer,
		codes:  codes,
	}
}

func studentRequest(level, section string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		FirstName:   "Inès",
		LastName:    "Haddad",
		Email:       "ines@edulearn.fr",
		Phone:       "0612345678",
		Role:        models.UserRoleStudent,
		SchoolLevel: level,
		Section:     section,
		Password:    "motdepasse1",
	}
}

func lastCode(t *testing.T, mailer *testutil.RecordingMailer) string {
	t.Helper()
	msg, ok := mailer.Last()
	require.True(t, ok, "no email was sent")
	code := codePattern.FindString(msg.HTML)
	require.NotEmpty(t, code, "email does not contain a code")
	return code
}

func TestRegisterStudentRules(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Register(f.db, studentRequest("", ""))
	assert.ErrorIs(t, err, apperrors.ErrSchoolLevelMissing)

	_, err = f.svc.Register(f.db, studentRequest("3eme", ""))
	assert.ErrorIs(t, err, apperrors.ErrSectionMissing)

	resp, err := f.svc.Register(f.db, studentRequest("3eme", "Sciences"))
	require.NoError(t, err)
	require.NotNil(t, resp.User.Section)
	assert.Equal(t, "Sciences", *resp.User.Section)

	_, err = f.svc.Register(f.db, studentRequest("1ere", ""))
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestRegisterTeacherDropsStudentFields(t *testing.T) {
	f := newAuthFixture(t)

	req := studentRequest("3eme", "Maths")
	req.Role = models.UserRoleTeacher
	resp, err := f.svc.Register(f.db, req)
	require.NoError(t, err)
	assert.Nil(t, resp.User.SchoolLevel)
	assert.Nil(t, resp.User.Section)

	req.Email = "root@edulearn.fr"
	req.Role = models.UserRoleAdmin
	_, err = f.svc.Register(f.db, req)
	assert.ErrorIs(t, err, apperrors.ErrInvalidUserRole)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.svc.Register(f.db, studentRequest("1ere", ""))
	require.NoError(t, err)

	_, err = f.svc.Login(f.db, &dto.LoginRequest{Email: "nobody@edulearn.fr", Password: "x"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = f.svc.Login(f.db, &dto.LoginRequest{Email: "ines@edulearn.fr", Password: "mauvais"})
	assert.ErrorIs(t, err, apperrors.ErrWrongPassword)

	resp, err := f.svc.Login(f.db, &dto.LoginRequest{Email: "ines@edulearn.fr", Password: "motdepasse1"})
	require.NoError(t, err)

	claims, err := auth.ParseToken(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.ID)
	assert.Equal(t, string(models.UserRoleStudent), claims.Role)
	assert.Equal(t, "ines@edulearn.fr", claims.Email)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(f.db, studentRequest("1ere", ""))
	require.NoError(t, err)

	_, err = f.svc.ForgotPassword(ctx, f.db, &dto.ForgotPasswordRequest{Email: "nobody@edulearn.fr"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = f.svc.ForgotPassword(ctx, f.db, &dto.ForgotPasswordRequest{Email: "ines@edulearn.fr"})
	require.NoError(t, err)
	code := lastCode(t, f.mailer)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	_, err = f.svc.VerifyResetCode(ctx, &dto.VerifyCodeRequest{Email: "ines@edulearn.fr", Code: wrong})
	assert.ErrorIs(t, err, apperrors.ErrResetCodeMismatch)

	verified, err := f.svc.VerifyResetCode(ctx, &dto.VerifyCodeRequest{Email: "ines@edulearn.fr", Code: code})
	require.NoError(t, err)
	assert.True(t, verified.Verified)

	_, err = f.svc.ResetPassword(ctx, f.db, &dto.ResetPasswordRequest{Email: "ines@edulearn.fr", Code: code, NewPassword: "court"})
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)

	_, err = f.svc.ResetPassword(ctx, f.db, &dto.ResetPasswordRequest{Email: "ines@edulearn.fr", Code: code, NewPassword: "nouveaumotdepasse"})
	require.NoError(t, err)

	_, err = f.svc.Login(f.db, &dto.LoginRequest{Email: "ines@edulearn.fr", Password: "motdepasse1"})
	assert.ErrorIs(t, err, apperrors.ErrWrongPassword)
	_, err = f.svc.Login(f.db, &dto.LoginRequest{Email: "ines@edulearn.fr", Password: "nouveaumotdepasse"})
	assert.NoError(t, err)

	// код одноразовый
	_, err = f.svc.ResetPassword(ctx, f.db, &dto.ResetPasswordRequest{Email: "ines@edulearn.fr", Code: code, NewPassword: "encoreunautre"})
	assert.ErrorIs(t, err, apperrors.ErrResetCodeNotFound)

	msg, ok := f.mailer.Last()
	require.True(t, ok)
	assert.Equal(t, "Mot de passe modifié - EduLearn", msg.Subject)
}

func TestForgotPasswordDeliveryFailure(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.svc.Register(f.db, studentRequest("1ere", ""))
	require.NoError(t, err)

	f.mailer.SetError(errors.New("smtp: 421 service not available"))

	_, err = f.svc.ForgotPassword(context.Background(), f.db, &dto.ForgotPasswordRequest{Email: "ines@edulearn.fr"})
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeDeliveryError, appErr.Code)
}

func TestResetPasswordSurvivesConfirmationFailure(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(f.db, studentRequest("1ere", ""))
	require.NoError(t, err)

	_, err = f.svc.ForgotPassword(ctx, f.db, &dto.ForgotPasswordRequest{Email: "ines@edulearn.fr"})
	require.NoError(t, err)
	code := lastCode(t, f.mailer)

	f.mailer.SetError(errors.New("smtp: 421 service not available"))

	resp, err := f.svc.ResetPassword(ctx, f.db, &dto.ResetPasswordRequest{Email: "ines@edulearn.fr", Code: code, NewPassword: "nouveaumotdepasse"})
	require.NoError(t, err)
	assert.Equal(t, "Mot de passe réinitialisé avec succès", resp.Message)

	_, err = f.svc.Login(f.db, &dto.LoginRequest{Email: "ines@edulearn.fr", Password: "nouveaumotdepasse"})
	assert.NoError(t, err)
}

func TestGetCurrentUser(t *testing.T) {
	f := newAuthFixture(t)
	resp, err := f.svc.Register(f.db, studentRequest("1ere", ""))
	require.NoError(t, err)

	me, err := f.svc.GetCurrentUser(f.db, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Inès", me.FirstName)
	assert.Equal(t, "1ere", *me.SchoolLevel)

	_, err = f.svc.GetCurrentUser(f.db, 4242)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
