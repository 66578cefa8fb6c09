package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-postboard/internal/application"
	"github.com/oksasatya/go-postboard/internal/infrastructure/memory"
	"github.com/oksasatya/go-postboard/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func newResolver(t *testing.T) (*application.SessionResolver, string) {
	t.Helper()
	store := memory.NewStore()
	logger := helpers.NewNopLogger()
	jwt, err := helpers.NewJWTManager("test-secret", 0)
	require.NoError(t, err)

	auth := application.NewAuthService(store, helpers.NewBcryptHasher(bcrypt.MinCost), logger, nil, "postboard")
	u, err := auth.Register(context.Background(), application.RegisterInput{Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	resolver := application.NewSessionResolver(store, jwt, logger)
	tok, _, err := resolver.IssueToken(u)
	require.NoError(t, err)
	return resolver, tok
}

func authEngine(resolver *application.SessionResolver) *gin.Engine {
	r := gin.New()
	r.Use(Auth(resolver, helpers.NewNopLogger()))
	r.GET("/me", func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": u.ID, "user_id": c.GetInt64(CtxUserIDKey)})
	})
	return r
}

func TestAuth(t *testing.T) {
	resolver, tok := newResolver(t)
	r := authEngine(resolver)

	cases := []struct {
		name   string
		setup  func(req *http.Request)
		status int
	}{
		{"bearer header", func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+tok) }, http.StatusOK},
		{"lowercase scheme", func(req *http.Request) { req.Header.Set("Authorization", "bearer "+tok) }, http.StatusOK},
		{"cookie", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: helpers.AccessTokenCookie, Value: tok})
		}, http.StatusOK},
		{"missing", func(*http.Request) {}, http.StatusUnauthorized},
		{"wrong scheme", func(req *http.Request) { req.Header.Set("Authorization", "Basic "+tok) }, http.StatusUnauthorized},
		{"garbage", func(req *http.Request) { req.Header.Set("Authorization", "Bearer not.a.jwt") }, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tc.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.JSONEq(t, `{"id":1,"user_id":1}`, w.Body.String())
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(w.Body.String())
	require.NoError(t, err)
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Body.String())
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "203.0.113.7", w.Body.String())

	req.Header.Set("CF-Connecting-IP", "198.51.100.2")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "198.51.100.2", w.Body.String())
}

func TestAccessLog_OmitsCredentials(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	resolver, tok := newResolver(t)

	r := gin.New()
	r.Use(RequestID(), AccessLog(logger))
	r.Use(Auth(resolver, logger))
	r.GET("/me", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	r.ServeHTTP(httptest.NewRecorder(), req)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "/me", entry.Data["path"])
	assert.Equal(t, http.StatusNoContent, entry.Data["status"])
	assert.Equal(t, int64(1), entry.Data["user_id"])
	for _, v := range entry.Data {
		if s, ok := v.(string); ok {
			assert.NotContains(t, s, tok)
		}
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}
