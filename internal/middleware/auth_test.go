package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etatcivil/internal/models"
	"etatcivil/internal/services"
)

var testSecret = []byte("secret-test")

func init() {
	gin.SetMode(gin.TestMode)
}

func mintStaffToken(t *testing.T, userID, roleID int, expiresAt time.Time) string {
	t.Helper()
	claims := services.StaffClaims{
		UserID: userID,
		RoleID: roleID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "agent@bunec.cm",
			ID:        "jti-test",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func staffRouter() (*gin.Engine, *services.AuthService) {
	auth := services.NewAuthService(nil, nil, testSecret, 2*time.Hour)
	r := gin.New()
	r.GET("/me", StaffAuth(auth), func(c *gin.Context) {
		id, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	return r, auth
}

func TestStaffAuthAcceptsValidToken(t *testing.T) {
	r, _ := staffRouter()
	token := mintStaffToken(t, 7, 2, time.Now().Add(time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id": 7}`, w.Body.String())
}

func TestStaffAuthMissingHeader(t *testing.T) {
	r, _ := staffRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStaffAuthMalformedHeader(t *testing.T) {
	r, _ := staffRouter()
	token := mintStaffToken(t, 7, 2, time.Now().Add(time.Hour))

	for _, header := range []string{token, "Basic " + token, "Bearer"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", header)
		r.ServeHTTP(w, req)
		assert.Equalf(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestStaffAuthExpiredToken(t *testing.T) {
	r, _ := staffRouter()
	token := mintStaffToken(t, 7, 2, time.Now().Add(-time.Minute))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStaffAuthPassesOptions(t *testing.T) {
	auth := services.NewAuthService(nil, nil, testSecret, 2*time.Hour)
	r := gin.New()
	r.OPTIONS("/me", StaffAuth(auth), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/me", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

type fakePermRepo struct {
	codes map[int][]string
	err   error
}

func (r *fakePermRepo) Create(p *models.Permission) error          { return nil }
func (r *fakePermRepo) GetByID(id int) (*models.Permission, error) { return nil, nil }
func (r *fakePermRepo) List() ([]*models.Permission, error)        { return nil, nil }
func (r *fakePermRepo) Delete(id int) error                        { return nil }

func (r *fakePermRepo) CodesForUser(userID int) ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.codes[userID], nil
}

func permRouter(perms *fakePermRepo, codes ...string) *gin.Engine {
	auth := services.NewAuthService(nil, nil, testSecret, 2*time.Hour)
	r := gin.New()
	r.GET("/demandes", StaffAuth(auth), RequirePermissions(perms, codes...), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequirePermissionsGranted(t *testing.T) {
	perms := &fakePermRepo{codes: map[int][]string{7: {"demandes.lire", "demandes.valider"}}}
	r := permRouter(perms, "demandes.lire")
	token := mintStaffToken(t, 7, 2, time.Now().Add(time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/demandes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequirePermissionsNeedsAllCodes(t *testing.T) {
	perms := &fakePermRepo{codes: map[int][]string{7: {"demandes.lire"}}}
	r := permRouter(perms, "demandes.lire", "demandes.valider")
	token := mintStaffToken(t, 7, 2, time.Now().Add(time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/demandes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequirePermissionsWithoutAuth(t *testing.T) {
	perms := &fakePermRepo{}
	r := gin.New()
	r.GET("/demandes", RequirePermissions(perms, "demandes.lire"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/demandes", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
