package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"edulearn_backend/internal/auth"
	"edulearn_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware())

	protected := r.Group("/", AuthMiddleware(secret))
	protected.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetUserID(c)})
	})
	protected.GET("/teacher", TeacherOnly(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	protected.GET("/student", StudentOnly(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func do(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Message
}

func token(t *testing.T, role string, ttl time.Duration) string {
	t.Helper()
	tok, err := auth.GenerateToken(secret, ttl, 7, role, "user@edulearn.fr")
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()

	w := do(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperrors.ErrUnauthorized.Message, errorMessage(t, w))

	w = do(r, "/me", "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, "/me", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperrors.ErrInvalidToken.Message, errorMessage(t, w))

	foreign, err := auth.GenerateToken("another-secret", time.Hour, 7, "etudiant", "user@edulearn.fr")
	require.NoError(t, err)
	w = do(r, "/me", "Bearer "+foreign)
	assert.Equal(t, http.StatusForbidden, w.Code, "token signed with another secret")

	w = do(r, "/me", token(t, "etudiant", time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRoleGates(t *testing.T) {
	r := newRouter()

	w := do(r, "/teacher", token(t, "etudiant", time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperrors.ErrTeacherOnly.Message, errorMessage(t, w))

	assert.Equal(t, http.StatusNoContent, do(r, "/teacher", token(t, "enseignant", time.Hour)).Code)
	assert.Equal(t, http.StatusNoContent, do(r, "/teacher", token(t, "admin", time.Hour)).Code)

	w = do(r, "/student", token(t, "enseignant", time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperrors.ErrStudentOnly.Message, errorMessage(t, w))
	assert.Equal(t, http.StatusNoContent, do(r, "/student", token(t, "etudiant", time.Hour)).Code)
}

func TestRequestIDIsPropagated(t *testing.T) {
	r := newRouter()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}
