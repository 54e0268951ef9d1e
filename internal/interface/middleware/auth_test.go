package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digicommerce/internal/domain/entity"
	"digicommerce/internal/domain/repository"
	"digicommerce/pkg/helpers"
)

type stubUserRepo struct {
	users map[string]*entity.User
}

func (s *stubUserRepo) Create(context.Context, *entity.User) error { return nil }
func (s *stubUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}
func (s *stubUserRepo) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, repository.ErrNotFound
}
func (s *stubUserRepo) Update(context.Context, *entity.User) error          { return nil }
func (s *stubUserRepo) UpdatePassword(context.Context, string, string) error { return nil }
func (s *stubUserRepo) SetVerified(context.Context, string) error           { return nil }
func (s *stubUserRepo) Delete(context.Context, string) error                { return nil }
func (s *stubUserRepo) List(context.Context, int, int) ([]*entity.User, error) {
	return nil, nil
}

func newAuthTestRouter(repo repository.UserRepository, jwt *helpers.JWTManager, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{Authenticate(repo, jwt)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(CtxUserIDKey), "role": c.GetString(CtxUserRole)})
	})
	r.GET("/protected", chain...)
	return r
}

func seededRepoAndToken(t *testing.T, role string, verified bool) (*stubUserRepo, *helpers.JWTManager, string) {
	t.Helper()
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	u := &entity.User{ID: "u-1", Email: "u@example.com", Role: role, IsVerified: verified}
	repo := &stubUserRepo{users: map[string]*entity.User{"u-1": u}}
	token, _, err := jwt.Generate(u.ID, u.Email, u.Role)
	require.NoError(t, err)
	return repo, jwt, token
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate_MissingToken(t *testing.T) {
	repo, jwt, _ := seededRepoAndToken(t, entity.RoleBuyer, true)
	r := newAuthTestRouter(repo, jwt)

	w := doRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_BadHeaderFormat(t *testing.T) {
	repo, jwt, token := seededRepoAndToken(t, entity.RoleBuyer, true)
	r := newAuthTestRouter(repo, jwt)

	w := doRequest(r, token) // missing Bearer prefix
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	repo, jwt, _ := seededRepoAndToken(t, entity.RoleBuyer, true)
	r := newAuthTestRouter(repo, jwt)

	w := doRequest(r, "Bearer garbage.token.here")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	repo, jwt, token := seededRepoAndToken(t, entity.RoleBuyer, true)
	delete(repo.users, "u-1")
	r := newAuthTestRouter(repo, jwt)

	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthenticate_Success(t *testing.T) {
	repo, jwt, token := seededRepoAndToken(t, entity.RoleSeller, true)
	r := newAuthTestRouter(repo, jwt)

	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u-1"`)
	assert.Contains(t, w.Body.String(), `"role":"seller"`)
}

func TestRequireRole(t *testing.T) {
	repo, jwt, token := seededRepoAndToken(t, entity.RoleBuyer, true)

	denied := newAuthTestRouter(repo, jwt, RequireRole(entity.RoleAdmin))
	w := doRequest(denied, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	allowed := newAuthTestRouter(repo, jwt, RequireRole(entity.RoleBuyer, entity.RoleAdmin))
	w = doRequest(allowed, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireVerified(t *testing.T) {
	repo, jwt, token := seededRepoAndToken(t, entity.RoleSeller, false)

	r := newAuthTestRouter(repo, jwt, RequireVerified())
	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	repo.users["u-1"].IsVerified = true
	w = doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGatesWithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	r := gin.New()
	r.GET("/role", RequireRole(entity.RoleSeller), ok)
	r.GET("/verified", RequireVerified(), ok)

	req := httptest.NewRequest(http.MethodGet, "/role", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/verified", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
