package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func cronServe(t *testing.T, secret, header string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/cron/sweep", RequireCronSecret(secret), func(c *gin.Context) {
		c.Status(200)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cron/sweep", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequireCronSecret(t *testing.T) {
	if w := cronServe(t, "s3cret", "Bearer s3cret"); w.Code != 200 {
		t.Fatalf("valid secret: expected 200, got %d", w.Code)
	}
	if w := cronServe(t, "s3cret", "Bearer wrong"); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong secret: expected 401, got %d", w.Code)
	}
	if w := cronServe(t, "s3cret", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: expected 401, got %d", w.Code)
	}
	if w := cronServe(t, "s3cret", "s3cret"); w.Code != http.StatusUnauthorized {
		t.Fatalf("non-bearer header: expected 401, got %d", w.Code)
	}
	if w := cronServe(t, "", "Bearer anything"); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("unconfigured: expected 503, got %d", w.Code)
	}
}
