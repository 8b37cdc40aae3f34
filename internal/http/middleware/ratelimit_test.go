package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func TestKeyBySenderOrIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = net.JoinHostPort("203.0.113.9", "12345")

	c, _ := gin.CreateTestContext(w)
	c.Request = req

	// IP fallback when no sender header.
	key := KeyBySenderOrIP()(c)
	if !strings.HasPrefix(key, "ip:") || !strings.Contains(key, "203.0.113.9") {
		t.Fatalf("expected ip-based key; got %q", key)
	}

	// Prefer the sender identity when present.
	req.Header.Set("X-Sender-ID", "+593999999999")
	if key2 := KeyBySenderOrIP()(c); key2 != "sender:+593999999999" {
		t.Fatalf("expected sender-based key; got %q", key2)
	}
}

func TestNewRateLimiter_BurstCoercion_AndBucketReuse(t *testing.T) {
	rl := NewRateLimiter(2.0, 0, KeyBySenderOrIP()) // burst<=0 coerced to 1
	if rl.burst != 1 {
		t.Fatalf("burst coercion failed, got %d", rl.burst)
	}

	lim := rl.getBucket("k1")
	if lim == nil {
		t.Fatalf("expected limiter")
	}
	if got := rl.getBucket("k1"); got != lim {
		t.Fatalf("expected same limiter instance to be reused")
	}
}

func TestRateLimiter_getBucket_GC(t *testing.T) {
	rl := NewRateLimiter(1.0, 1, KeyBySenderOrIP())
	rl.ttl = 1 * time.Nanosecond

	rl.mu.Lock()
	rl.buckets["old"] = &bucket{
		limiter:  rate.NewLimiter(1, 1),
		lastSeen: time.Now().Add(-time.Hour),
	}
	// Force cleanup on the next lookup.
	rl.cleanupN = 4999
	rl.mu.Unlock()

	_ = rl.getBucket("new")

	rl.mu.Lock()
	_, existsOld := rl.buckets["old"]
	_, existsNew := rl.buckets["new"]
	rl.mu.Unlock()

	if existsOld {
		t.Fatalf("expected stale bucket to be evicted")
	}
	if !existsNew {
		t.Fatalf("expected fresh bucket to survive")
	}
}

func TestRateLimiter_Handler_AllowsThenRejects(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(0, 1, KeyBySenderOrIP()) // one token, no refill
	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	mk := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Sender-ID", "+593999999001")
		r.ServeHTTP(w, req)
		return w
	}

	if w := mk(); w.Code != http.StatusOK {
		t.Fatalf("first request -> %d; want 200", w.Code)
	}

	w := mk()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request -> %d; want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header on 429")
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid 429 body: %v", err)
	}
	if body["code"] != "rate_limited" {
		t.Fatalf("code = %v; want rate_limited", body["code"])
	}
}

func TestRateLimiter_Handler_IndependentSenders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(0, 1, KeyBySenderOrIP())
	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(sender string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Sender-ID", sender)
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := hit("+593999999002"); code != http.StatusOK {
		t.Fatalf("sender A first -> %d", code)
	}
	if code := hit("+593999999002"); code != http.StatusTooManyRequests {
		t.Fatalf("sender A second -> %d; want 429", code)
	}
	// A different sender has its own bucket.
	if code := hit("+593999999003"); code != http.StatusOK {
		t.Fatalf("sender B first -> %d; want 200", code)
	}
}

func TestRateLimiter_Handler_ReplayBypass(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(0, 1, KeyBySenderOrIP())
	r := gin.New()
	// Simulate DedupeValidator marking a replay before the limiter runs.
	r.Use(func(c *gin.Context) {
		c.Set(ctxKeyRateBypass, true)
		c.Next()
	})
	r.Use(rl.Handler())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	// With bypass set, even an exhausted bucket must not reject.
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Sender-ID", "+593999999004")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("replay %d -> %d; want 200", i, w.Code)
		}
	}
}
