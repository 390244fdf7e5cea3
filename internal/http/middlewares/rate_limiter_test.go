package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/attendly/attendly/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func limitedRouter(limit int, window time.Duration) *gin.Engine {
	r := gin.New()

	rl := middlewares.NewRateLimiter(limit, window)

	r.Use(rl.RateLimiterMiddleware(middlewares.KeyByIP))

	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return r
}

func doGet(r *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remoteAddr

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestRateLimiter_BlocksAboveLimit(t *testing.T) {
	r := limitedRouter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if w := doGet(r, "10.0.0.1:1234"); w.Code != http.StatusOK {
			t.Fatalf("request %d got %d, want 200", i+1, w.Code)
		}
	}

	w := doGet(r, "10.0.0.1:1234")

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("got %d, want 429", w.Code)
	}

	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	r := limitedRouter(1, time.Minute)

	if w := doGet(r, "10.0.0.1:1234"); w.Code != http.StatusOK {
		t.Fatalf("first client got %d", w.Code)
	}

	if w := doGet(r, "10.0.0.1:9999"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("same IP different port should share a bucket, got %d", w.Code)
	}

	if w := doGet(r, "10.0.0.2:1234"); w.Code != http.StatusOK {
		t.Fatalf("second client got %d, want 200", w.Code)
	}
}

func TestRateLimiter_WindowResets(t *testing.T) {
	r := limitedRouter(1, 20*time.Millisecond)

	if w := doGet(r, "10.0.0.1:1234"); w.Code != http.StatusOK {
		t.Fatalf("first request got %d", w.Code)
	}

	if w := doGet(r, "10.0.0.1:1234"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request got %d, want 429", w.Code)
	}

	time.Sleep(30 * time.Millisecond)

	if w := doGet(r, "10.0.0.1:1234"); w.Code != http.StatusOK {
		t.Fatalf("request after window got %d, want 200", w.Code)
	}
}
