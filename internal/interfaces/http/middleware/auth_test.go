package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wallet-registry.backend/pkg/jwt"
)

func newAuthRouter(jwtService *jwt.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(jwtService), func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{})
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": userID})
	})
	return r
}

func getWithAuth(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set(AuthorizationHeader, header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	jwtService := jwt.NewJWTService("secret", 15*time.Minute, time.Hour)
	r := newAuthRouter(jwtService)

	userID := uuid.New()
	pair, err := jwtService.GenerateTokenPair(userID, "alice@example.com", "free")
	require.NoError(t, err)

	w := getWithAuth(r, BearerPrefix+pair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	r := newAuthRouter(jwt.NewJWTService("secret", time.Minute, time.Hour))

	w := getWithAuth(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_BadScheme(t *testing.T) {
	r := newAuthRouter(jwt.NewJWTService("secret", time.Minute, time.Hour))

	w := getWithAuth(r, "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_GarbageToken(t *testing.T) {
	r := newAuthRouter(jwt.NewJWTService("secret", time.Minute, time.Hour))

	w := getWithAuth(r, BearerPrefix+"garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	jwtService := jwt.NewJWTService("secret", -time.Minute, time.Hour)
	r := newAuthRouter(jwtService)

	pair, err := jwtService.GenerateTokenPair(uuid.New(), "alice@example.com", "free")
	require.NoError(t, err)

	w := getWithAuth(r, BearerPrefix+pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	issuer := jwt.NewJWTService("secret-a", time.Minute, time.Hour)
	r := newAuthRouter(jwt.NewJWTService("secret-b", time.Minute, time.Hour))

	pair, err := issuer.GenerateTokenPair(uuid.New(), "alice@example.com", "free")
	require.NoError(t, err)

	w := getWithAuth(r, BearerPrefix+pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetUserID_AbsentOrWrongType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetUserID(c)
	assert.False(t, ok)

	c.Set(UserIDKey, "not-a-uuid")
	_, ok = GetUserID(c)
	assert.False(t, ok)
}
