package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"edulearn_backend/internal/auth"
	"edulearn_backend/internal/config"
	"edulearn_backend/internal/logger"
	"edulearn_backend/internal/models"
	"edulearn_backend/internal/repositories"
	"edulearn_backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const jwtSecret = "integration-secret"

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

type testApp struct {
	server *testutil.TestServer
	db     *gorm.DB
	mailer *testutil.RecordingMailer
	cfg    *config.Config
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := config.Default()
	cfg.Server.Env = "test"
	cfg.JWT.Secret = jwtSecret
	cfg.Storage.BasePath = t.TempDir()
	cfg.Upload.MaxSize = 1 << 20

	db := testutil.NewTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	mailer := &testutil.RecordingMailer{}
	router, _, err := SetupRouter(cfg, db, sqlDB, WithMailer(mailer))
	require.NoError(t, err)

	return &testApp{
		server: testutil.NewTestServer(t, router),
		db:     db,
		mailer: mailer,
		cfg:    cfg,
	}
}

func decode(t *testing.T, body string, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(body), v), body)
}

func errorMessage(t *testing.T, body string) string {
	t.Helper()
	var resp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	decode(t, body, &resp)
	return resp.Error.Message
}

func (a *testApp) login(t *testing.T, email, password string) string {
	t.Helper()
	res, body := a.server.SendRequest(t, http.MethodPost, "/api/login", "", map[string]string{
		"email":      email,
		"motDePasse": password,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, body, &resp)
	return resp.Token
}

type courseView struct {
	ID          uint     `json:"id"`
	Title       string   `json:"titre"`
	Description string   `json:"description"`
	Support     []string `json:"support"`
	TeacherID   uint     `json:"enseignantId"`
	TeacherName string   `json:"enseignantNom"`
	Duration    int      `json:"duree"`
	Level       string   `json:"niveau"`
}

func TestRegistrationLoginAndPasswordReset(t *testing.T) {
	a := newTestApp(t)

	student := map[string]string{
		"prenom":         "Lina",
		"nom":            "Moreau",
		"email":          "lina@edulearn.fr",
		"telephone":      "0611223344",
		"role":           "etudiant",
		"niveauScolaire": "3eme",
		"motDePasse":     "ancienmdp",
	}

	res, body := a.server.SendRequest(t, http.MethodPost, "/api/register", "", student)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)

	student["section"] = "Sciences"
	res, body = a.server.SendRequest(t, http.MethodPost, "/api/register", "", student)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	res, _ = a.server.SendRequest(t, http.MethodPost, "/api/login", "", map[string]string{
		"email": "lina@edulearn.fr", "motDePasse": "mauvais",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	token := a.login(t, "lina@edulearn.fr", "ancienmdp")
	claims, err := auth.ParseToken(jwtSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "etudiant", claims.Role)

	res, body = a.server.SendRequest(t, http.MethodPost, "/api/forgot-password", "", map[string]string{"email": "lina@edulearn.fr"})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	msg, ok := a.mailer.Last()
	require.True(t, ok)
	assert.Equal(t, "lina@edulearn.fr", msg.To)
	code := codePattern.FindString(msg.HTML)
	require.Len(t, code, 6)

	wrong := "123456"
	if code == wrong {
		wrong = "654321"
	}
	res, body = a.server.SendRequest(t, http.MethodPost, "/api/verify-code", "", map[string]string{"email": "lina@edulearn.fr", "code": wrong})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Code incorrect", errorMessage(t, body))

	res, body = a.server.SendRequest(t, http.MethodPost, "/api/verify-code", "", map[string]string{"email": "lina@edulearn.fr", "code": code})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, `"verified":true`)

	res, body = a.server.SendRequest(t, http.MethodPost, "/api/reset-password", "", map[string]string{
		"email": "lina@edulearn.fr", "code": code, "newPassword": "nouveaumdp",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, _ = a.server.SendRequest(t, http.MethodPost, "/api/login", "", map[string]string{
		"email": "lina@edulearn.fr", "motDePasse": "ancienmdp",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	a.login(t, "lina@edulearn.fr", "nouveaumdp")
}

func TestLoginUnknownEmail(t *testing.T) {
	a := newTestApp(t)

	res, body := a.server.SendRequest(t, http.MethodPost, "/api/login", "", map[string]string{
		"email": "ghost@edulearn.fr", "motDePasse": "x",
	})
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "Utilisateur non trouvé.", errorMessage(t, body))
}

func TestForgotPasswordDeliveryFailure(t *testing.T) {
	a := newTestApp(t)
	testutil.CreateStudent(t, a.db, "yanis@edulearn.fr")
	a.mailer.SetError(fmt.Errorf("smtp down"))

	res, _ := a.server.SendRequest(t, http.MethodPost, "/api/forgot-password", "", map[string]string{"email": "yanis@edulearn.fr"})
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
}

func TestCourseLifecycle(t *testing.T) {
	a := newTestApp(t)
	testutil.CreateTeacher(t, a.db, "claire@edulearn.fr")
	testutil.CreateTeacher(t, a.db, "paul@edulearn.fr")
	testutil.CreateStudent(t, a.db, "yanis@edulearn.fr")

	owner := a.login(t, "claire@edulearn.fr", "password123")
	other := a.login(t, "paul@edulearn.fr", "password123")
	student := a.login(t, "yanis@edulearn.fr", "password123")

	res, _ := a.server.SendRequest(t, http.MethodGet, "/api/courses", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = a.server.SendRequest(t, http.MethodPost, "/api/courses", student, map[string]string{"titre": "x", "description": "y"})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, body := a.server.SendRequest(t, http.MethodPost, "/api/courses", owner, map[string]string{
		"titre":       "Chimie organique",
		"description": "Les alcanes",
		"support":     "https://cdn.edulearn.fr/alcanes.pdf, https://cdn.edulearn.fr/td1.pdf",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var created courseView
	decode(t, body, &created)
	assert.Equal(t, 60, created.Duration)
	assert.Equal(t, models.DefaultCourseLevel, created.Level)
	assert.Equal(t, "Martin", created.TeacherName)
	assert.Len(t, created.Support, 2)

	coursePath := fmt.Sprintf("/api/courses/%d", created.ID)

	res, _ = a.server.SendRequest(t, http.MethodPut, coursePath, other, map[string]string{"titre": "Volé"})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, body = a.server.SendRequest(t, http.MethodPut, coursePath, owner, map[string]interface{}{
		"support": []string{"a", "b", "c"},
		"duree":   90,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = a.server.SendRequest(t, http.MethodGet, coursePath, student, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var fetched courseView
	decode(t, body, &fetched)
	assert.Equal(t, []string{"a", "b", "c"}, fetched.Support)
	assert.Equal(t, 90, fetched.Duration)
	assert.Equal(t, "Chimie organique", fetched.Title)

	res, _ = a.server.SendRequest(t, http.MethodPut, coursePath, owner, map[string]string{"support": ""})
	require.Equal(t, http.StatusOK, res.StatusCode)
	_, body = a.server.SendRequest(t, http.MethodGet, coursePath, student, nil)
	decode(t, body, &fetched)
	assert.Equal(t, []string{}, fetched.Support)

	res, body = a.server.SendRequest(t, http.MethodGet, "/api/courses/search?search=ALCANES", student, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var found []courseView
	decode(t, body, &found)
	require.Len(t, found, 1)

	res, _ = a.server.SendRequest(t, http.MethodGet, "/api/courses/search", student, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, body = a.server.SendRequest(t, http.MethodGet, fmt.Sprintf("/api/courses/teacher/%d", created.TeacherID), student, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	decode(t, body, &found)
	assert.Len(t, found, 1)

	res, body = a.server.SendRequest(t, http.MethodDelete, coursePath, other, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Equal(t, "Vous n'êtes pas autorisé à supprimer ce cours", errorMessage(t, body))

	res, _ = a.server.SendRequest(t, http.MethodDelete, coursePath, owner, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = a.server.SendRequest(t, http.MethodGet, coursePath, student, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = a.server.SendRequest(t, http.MethodGet, "/api/courses/abc", student, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestEnrollmentAndSupportUpload(t *testing.T) {
	a := newTestApp(t)
	testutil.CreateTeacher(t, a.db, "claire@edulearn.fr")
	testutil.CreateStudent(t, a.db, "yanis@edulearn.fr")
	teacher := a.login(t, "claire@edulearn.fr", "password123")
	student := a.login(t, "yanis@edulearn.fr", "password123")

	_, body := a.server.SendRequest(t, http.MethodPost, "/api/courses", teacher, map[string]string{
		"titre": "Géographie", "description": "Les fleuves",
	})
	var course courseView
	decode(t, body, &course)

	enrollPath := fmt.Sprintf("/api/courses/%d/enroll", course.ID)

	res, _ := a.server.SendRequest(t, http.MethodPost, enrollPath, teacher, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, body = a.server.SendRequest(t, http.MethodPost, enrollPath, student, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	res, body = a.server.SendRequest(t, http.MethodPost, enrollPath, student, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Vous êtes déjà inscrit à ce cours", errorMessage(t, body))

	content := []byte("Le Rhône prend sa source en Suisse.\n")
	res, body = a.server.SendFile(t, fmt.Sprintf("/api/courses/%d/supports", course.ID), teacher, "rhone.txt", content)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	var withFile courseView
	decode(t, body, &withFile)
	require.Len(t, withFile.Support, 1)

	res, body = a.server.SendRequest(t, http.MethodGet, withFile.Support[0], "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, string(content), body)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/plain")

	res, _ = a.server.SendRequest(t, http.MethodGet, "/files/courses/1/unknown.txt", "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	// строка поддержки есть, а файла на диске нет
	stored := filepath.Join(a.cfg.Storage.BasePath, strings.TrimPrefix(withFile.Support[0], "/files/"))
	require.NoError(t, os.Remove(stored))
	res, body = a.server.SendRequest(t, http.MethodGet, withFile.Support[0], "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "Fichier non trouvé", errorMessage(t, body))

	res, body = a.server.SendRequest(t, http.MethodGet, "/api/me/courses", student, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var mine []courseView
	decode(t, body, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, withFile.Support, mine[0].Support)

	res, _ = a.server.SendRequest(t, http.MethodDelete, enrollPath, student, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res, _ = a.server.SendRequest(t, http.MethodDelete, enrollPath, student, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestCurrentUserAndHealth(t *testing.T) {
	a := newTestApp(t)
	testutil.CreateStudent(t, a.db, "yanis@edulearn.fr")
	token := a.login(t, "yanis@edulearn.fr", "password123")

	res, body := a.server.SendRequest(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var me struct {
		Email       string  `json:"email"`
		Role        string  `json:"role"`
		SchoolLevel *string `json:"niveauScolaire"`
	}
	decode(t, body, &me)
	assert.Equal(t, "yanis@edulearn.fr", me.Email)
	assert.Equal(t, "etudiant", me.Role)

	res, _ = a.server.SendRequest(t, http.MethodGet, "/api/me", "garbage", nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, _ = a.server.SendRequest(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, body = a.server.SendRequest(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "edulearn_http_requests_total")
}

func TestSeedFirstAdmin(t *testing.T) {
	db := testutil.NewTestDB(t)
	cfg := config.Default()

	require.NoError(t, seedFirstAdmin(db, cfg), "no credentials means nothing to seed")

	cfg.FirstAdminEmail = "admin@edulearn.fr"
	cfg.FirstAdminPassword = "supersecret"
	require.NoError(t, seedFirstAdmin(db, cfg))
	require.NoError(t, seedFirstAdmin(db, cfg), "seeding twice is a no-op")

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&count).Error)
	require.EqualValues(t, 1, count)

	admin, err := repositories.NewUserRepository().FindByEmail(db, "admin@edulearn.fr")
	require.NoError(t, err)
	assert.True(t, auth.CheckPasswordHash("supersecret", admin.PasswordHash))
}
