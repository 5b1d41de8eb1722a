package middleware_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"cardtrack/internal/logging"
	"cardtrack/internal/middleware"
	"cardtrack/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, token string) *model.User {
	args := m.Called(ctx, token)
	user := args.Get(0)
	if user == nil {
		return nil
	}
	return user.(*model.User)
}

func setupRouter(authn middleware.Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	protected := r.Group("/protected")
	protected.Use(middleware.TokenAuthMiddleware(authn))
	protected.GET("/resource", func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "User not found in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Access granted",
			"user_id": user.ID,
		})
	})

	return r
}

func TestTokenAuthMiddleware_ValidToken(t *testing.T) {
	for _, scheme := range []string{"Token", "Bearer"} {
		t.Run(scheme, func(t *testing.T) {
			authn := new(MockAuthenticator)
			user := &model.User{ID: uuid.New(), Email: "alice@example.com"}
			authn.On("Authenticate", mock.Anything, "fake-token-alice@example.com").Return(user)
			router := setupRouter(authn)

			req, _ := http.NewRequest("GET", "/protected/resource", nil)
			req.Header.Set("Authorization", scheme+" fake-token-alice@example.com")

			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			assert.Equal(t, http.StatusOK, resp.Code)
			assert.Contains(t, resp.Body.String(), "Access granted")
			assert.Contains(t, resp.Body.String(), user.ID.String())
			authn.AssertExpectations(t)
		})
	}
}

func TestTokenAuthMiddleware_NoAuthHeader(t *testing.T) {
	authn := new(MockAuthenticator)
	router := setupRouter(authn)

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Authorization header is required")
	authn.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
}

func TestTokenAuthMiddleware_InvalidAuthFormat(t *testing.T) {
	router := setupRouter(new(MockAuthenticator))

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "InvalidFormat token123")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Authorization header format must be")
}

func TestTokenAuthMiddleware_UnknownUser(t *testing.T) {
	authn := new(MockAuthenticator)
	authn.On("Authenticate", mock.Anything, "fake-token-ghost@example.com").Return(nil)
	router := setupRouter(authn)

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Token fake-token-ghost@example.com")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid or expired token")
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	r := gin.New()
	r.Use(middleware.RequestLogger(logging.New(&buf, "info", "text")))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	req, _ := http.NewRequest("GET", "/missing", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "path=/missing")
	assert.Contains(t, buf.String(), "status=404")
}
