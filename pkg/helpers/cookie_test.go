package helpers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCookieManager(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewCookie("example.com", true)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	m.SetToken(c, "tok", time.Time{})
	set := w.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(set, AccessTokenCookie+"=tok"))
	assert.Contains(t, set, "HttpOnly")
	assert.Contains(t, set, "Secure")
	assert.NotContains(t, set, "Max-Age")

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	m.SetToken(c, "tok", time.Now().Add(time.Hour))
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=")

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	m.Clear(c)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
	assert.Equal(t, http.StatusOK, w.Code)
}
