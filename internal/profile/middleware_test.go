package profile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"studiovault/internal/auth"

	"github.com/gin-gonic/gin"
)

type fakeGetter struct {
	p   Profile
	err error
}

func (f fakeGetter) Get(ctx context.Context, id string) (Profile, error) {
	return f.p, f.err
}

func serve(t *testing.T, svc Getter, userID string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		if userID != "" {
			ctx := auth.WithIdentity(c.Request.Context(), userID, "customer")
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}, RequireActive(svc), func(c *gin.Context) {
		c.Status(200)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w
}

func TestRequireActive_BlocksSuspended(t *testing.T) {
	w := serve(t, fakeGetter{p: Profile{ID: "u1", IsSuspended: true}}, "u1")
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestRequireActive_AllowsActive(t *testing.T) {
	w := serve(t, fakeGetter{p: Profile{ID: "u1"}}, "u1")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRequireActive_MissingIdentity(t *testing.T) {
	w := serve(t, fakeGetter{p: Profile{ID: "u1"}}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireActive_UnknownProfile(t *testing.T) {
	w := serve(t, fakeGetter{err: ErrNotFound}, "u1")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
