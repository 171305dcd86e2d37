package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"streamhub/domain/dto"
	"streamhub/domain/model"
	"streamhub/domain/repository"
	"streamhub/infrastructure/configuration"
	"streamhub/infrastructure/persistence"
	"streamhub/infrastructure/utils"
	"streamhub/interfaces/middleware"
	"streamhub/usecase"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var auth = configuration.Auth{
	AccessTokenSecret:  "access-secret",
	AccessTokenExpiry:  time.Minute,
	RefreshTokenSecret: "refresh-secret",
	RefreshTokenExpiry: time.Hour,
}

type fixture struct {
	router *gin.Engine
	users  repository.IUser
	tokens usecase.ITokenUsecase
	user   *model.User
}

func newFixture(t *testing.T, userCache repository.IUserCache) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	users := persistence.NewUserMemoryRepository(persistence.NewMemoryStore())
	user := &model.User{ID: "0b8f7a52-6f1e-4f7e-9a38-0d2f3c8b1a11", Username: "alice", Email: "alice@example.com", Password: "hash"}
	require.NoError(t, users.Create(context.Background(), user))

	tokens := usecase.NewTokenUsecase(users, auth)
	router := gin.New()
	router.GET("/me", middleware.Auth(tokens, users, userCache), func(c *gin.Context) {
		current, ok := middleware.CurrentUser(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": c.GetString(middleware.ContextUserIDKey), "password": current.Password})
	})
	return &fixture{router: router, users: users, tokens: tokens, user: user}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) accessToken(t *testing.T) string {
	t.Helper()
	pair, err := f.tokens.IssueTokenPair(context.Background(), f.user.ID)
	require.NoError(t, err)
	return pair.AccessToken
}

func decodeErr(t *testing.T, w *httptest.ResponseRecorder) dto.ErrRes {
	t.Helper()
	var res dto.ErrRes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestAuth_NoToken(t *testing.T) {
	f := newFixture(t, nil)
	w := f.do(httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	res := decodeErr(t, w)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.False(t, res.Success)
}

func TestAuth_BearerHeader(t *testing.T) {
	f := newFixture(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+f.accessToken(t))

	w := f.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, f.user.ID, body["id"])
	assert.Empty(t, body["password"])
}

func TestAuth_CookieWinsOverHeader(t *testing.T) {
	f := newFixture(t, nil)
	valid := f.accessToken(t)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: valid})
	req.Header.Set("Authorization", "Bearer garbage")
	assert.Equal(t, http.StatusOK, f.do(req).Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: "garbage"})
	req.Header.Set("Authorization", "Bearer "+valid)
	assert.Equal(t, http.StatusUnauthorized, f.do(req).Code)
}

func TestAuth_ExpiredToken(t *testing.T) {
	f := newFixture(t, nil)
	expired, err := utils.GenerateToken(model.UserClaims{
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(-time.Minute).Unix()},
		UserID:         f.user.ID,
		Type:           model.AccessToken,
	}, auth.AccessTokenSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	w := f.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, decodeErr(t, w).Message, "expired")
}

func TestAuth_RefreshTokenIsNotAnAccessToken(t *testing.T) {
	f := newFixture(t, nil)
	pair, err := f.tokens.IssueTokenPair(context.Background(), f.user.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, f.do(req).Code)
}

func TestAuth_DeletedUser(t *testing.T) {
	f := newFixture(t, nil)
	token := f.accessToken(t)
	require.NoError(t, f.users.DeleteByID(context.Background(), f.user.ID))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, f.do(req).Code)
}

type mapCache struct {
	users map[string]*model.User
	sets  int
}

func (c *mapCache) Get(_ context.Context, id string) (*model.User, bool) {
	u, ok := c.users[id]
	return u, ok
}

func (c *mapCache) Set(_ context.Context, user *model.User) {
	c.sets++
	c.users[user.ID] = user
}

func (c *mapCache) Invalidate(_ context.Context, id string) { delete(c.users, id) }

func TestAuth_UsesCache(t *testing.T) {
	userCache := &mapCache{users: map[string]*model.User{}}
	f := newFixture(t, userCache)
	token := f.accessToken(t)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, f.do(req).Code)
	assert.Equal(t, 1, userCache.sets)
	assert.Empty(t, userCache.users[f.user.ID].Password)

	// served from cache even after the store lost the user
	require.NoError(t, f.users.DeleteByID(context.Background(), f.user.ID))
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, f.do(req).Code)
	assert.Equal(t, 1, userCache.sets)
}
