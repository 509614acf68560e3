package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestWindowLimiter(t *testing.T) {
	t.Run("allows_up_to_max", func(t *testing.T) {
		l := NewWindowLimiter(time.Minute, 3)
		defer l.Stop()

		for i := 0; i < 3; i++ {
			allowed, _ := l.Allow("client")
			if !allowed {
				t.Fatalf("request %d should be allowed", i+1)
			}
		}

		allowed, retryAfter := l.Allow("client")
		if allowed {
			t.Fatal("fourth request should be denied")
		}
		if retryAfter <= 0 || retryAfter > time.Minute {
			t.Errorf("expected retry-after within the window, got %v", retryAfter)
		}
	})

	t.Run("keys_are_independent", func(t *testing.T) {
		l := NewWindowLimiter(time.Minute, 1)
		defer l.Stop()

		if allowed, _ := l.Allow("a"); !allowed {
			t.Fatal("first request for a should be allowed")
		}
		if allowed, _ := l.Allow("b"); !allowed {
			t.Fatal("first request for b should be allowed")
		}
		if allowed, _ := l.Allow("a"); allowed {
			t.Fatal("second request for a should be denied")
		}
	})

	t.Run("window_resets", func(t *testing.T) {
		l := NewWindowLimiter(20*time.Millisecond, 1)
		defer l.Stop()

		if allowed, _ := l.Allow("client"); !allowed {
			t.Fatal("first request should be allowed")
		}
		if allowed, _ := l.Allow("client"); allowed {
			t.Fatal("second request inside the window should be denied")
		}

		time.Sleep(30 * time.Millisecond)

		if allowed, _ := l.Allow("client"); !allowed {
			t.Fatal("request after window reset should be allowed")
		}
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	l := NewWindowLimiter(time.Minute, 2)
	defer l.Stop()

	r := gin.New()
	r.Use(RateLimit(l))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/ping", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := do(); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	rec := do()
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after budget exhausted, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "RATE_LIMITED") || !strings.Contains(body, "retry_after") {
		t.Errorf("expected error code and retry_after hint, got %s", body)
	}
}
