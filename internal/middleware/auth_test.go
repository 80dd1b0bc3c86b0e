package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/dropoff-point-api/internal/constants"
	"github.com/yukikurage/dropoff-point-api/internal/models"
	"github.com/yukikurage/dropoff-point-api/internal/repository"
	"github.com/yukikurage/dropoff-point-api/internal/services"
	"github.com/yukikurage/dropoff-point-api/internal/testutil"
	"gorm.io/gorm"
)

var testSigningKey = []byte("test-signing-key")

func init() {
	gin.SetMode(gin.TestMode)
}

func setupAuthRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db := testutil.NewDB(t)
	accounts := services.NewAccountService(repository.NewStore(db))

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))

	// Stands in for the identity service writing the shared session.
	r.POST("/session/:id", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(constants.ContextKeyAccountID, c.Param("id"))
		require.NoError(t, session.Save())
		c.Status(http.StatusNoContent)
	})

	protected := r.Group("/", RequireAuth(accounts, testSigningKey))
	protected.GET("/me", func(c *gin.Context) {
		account, ok := GetAccount(c)
		require.True(t, ok)
		id, ok := GetAccountID(c)
		require.True(t, ok)
		assert.Equal(t, account.ID, id)
		c.String(http.StatusOK, account.Email)
	})
	protected.GET("/org", RequireOrganization(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	protected.GET("/admin", RequireSuperuser(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return r, db
}

func signToken(t *testing.T, key []byte, method jwt.SigningMethod, subject string, ttl time.Duration) string {
	t.Helper()

	token := jwt.NewWithClaims(method, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	})
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func doRequest(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearerRequest(path, token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestRequireAuth_Bearer(t *testing.T) {
	r, db := setupAuthRouter(t)
	account := testutil.CreateAccount(t, db, "user@example.com")

	w := doRequest(r, bearerRequest("/me", signToken(t, testSigningKey, jwt.SigningMethodHS256, account.ID.String(), time.Hour)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user@example.com", w.Body.String())
}

func TestRequireAuth_RejectsBadTokens(t *testing.T) {
	r, db := setupAuthRouter(t)
	account := testutil.CreateAccount(t, db, "user@example.com")

	tests := []struct {
		name  string
		token string
	}{
		{"wrong key", signToken(t, []byte("other-key"), jwt.SigningMethodHS256, account.ID.String(), time.Hour)},
		{"wrong algorithm", signToken(t, testSigningKey, jwt.SigningMethodHS512, account.ID.String(), time.Hour)},
		{"expired", signToken(t, testSigningKey, jwt.SigningMethodHS256, account.ID.String(), -time.Hour)},
		{"unknown account", signToken(t, testSigningKey, jwt.SigningMethodHS256, uuid.NewString(), time.Hour)},
		{"malformed subject", signToken(t, testSigningKey, jwt.SigningMethodHS256, "42", time.Hour)},
		{"garbage", "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, bearerRequest("/me", tt.token))
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}

	w := doRequest(r, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_Session(t *testing.T) {
	r, db := setupAuthRouter(t)
	account := testutil.CreateAccount(t, db, "user@example.com")

	w := doRequest(r, httptest.NewRequest(http.MethodPost, "/session/"+account.ID.String(), nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = doRequest(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user@example.com", w.Body.String())
}

func TestRequireAuth_InactiveAccount(t *testing.T) {
	r, db := setupAuthRouter(t)
	account := testutil.CreateAccount(t, db, "user@example.com", testutil.Inactive())

	w := doRequest(r, bearerRequest("/me", signToken(t, testSigningKey, jwt.SigningMethodHS256, account.ID.String(), time.Hour)))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRoleMiddleware(t *testing.T) {
	r, db := setupAuthRouter(t)
	user := testutil.CreateAccount(t, db, "user@example.com")
	org := testutil.CreateAccount(t, db, "org@example.com", testutil.Organization())
	admin := testutil.CreateAccount(t, db, "admin@example.com", testutil.Superuser())

	tests := []struct {
		name    string
		path    string
		account *models.Account
		want    int
	}{
		{"user on organization route", "/org", user, http.StatusForbidden},
		{"organization on organization route", "/org", org, http.StatusOK},
		{"organization on admin route", "/admin", org, http.StatusForbidden},
		{"superuser on admin route", "/admin", admin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := signToken(t, testSigningKey, jwt.SigningMethodHS256, tt.account.ID.String(), time.Hour)
			w := doRequest(r, bearerRequest(tt.path, token))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
