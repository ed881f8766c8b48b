package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"researchhub/internal/app"
	"researchhub/internal/model"
	"researchhub/internal/pkg/jwtutil"
	"researchhub/internal/repository"
)

const testSecret = "middleware-test-secret"

func newAuthService(t *testing.T) *app.AuthService {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))

	return app.NewAuthService(repository.NewUserRepository(db), testSecret, time.Hour)
}

func newProtectedRouter(authService *app.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthJWT(testSecret, authService), func(c *gin.Context) {
		userID := c.GetUint(ContextUserIDKey)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return router
}

func TestAuthJWT_ValidToken(t *testing.T) {
	authService := newAuthService(t)
	_, err := authService.Register(app.RegisterInput{
		Username: "alice",
		Password: "password-123",
	})
	require.NoError(t, err)

	token, err := jwtutil.GenerateToken(testSecret, time.Hour, "alice")
	require.NoError(t, err)

	router := newProtectedRouter(authService)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "user_id")
}

func TestAuthJWT_MissingHeader(t *testing.T) {
	router := newProtectedRouter(newAuthService(t))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_TamperedToken(t *testing.T) {
	token, err := jwtutil.GenerateToken("some-other-secret", time.Hour, "alice")
	require.NoError(t, err)

	router := newProtectedRouter(newAuthService(t))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_UnknownSubject(t *testing.T) {
	// Token is well formed but its subject was never registered.
	token, err := jwtutil.GenerateToken(testSecret, time.Hour, "ghost")
	require.NoError(t, err)

	router := newProtectedRouter(newAuthService(t))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
