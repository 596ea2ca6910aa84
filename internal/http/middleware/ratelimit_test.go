package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"task_manager/internal/db"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func limitedRouter(l *RateLimiter, max int, window time.Duration) *gin.Engine {
	r := gin.New()
	r.GET("/test", l.Limit("test", max, window), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	return r
}

func hit(r http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = ip + ":1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitInMemory(t *testing.T) {
	l := NewRateLimiter(nil)
	now := time.Now()
	l.now = func() time.Time { return now }
	r := limitedRouter(l, 2, time.Minute)

	for i := 0; i < 2; i++ {
		if w := hit(r, "10.0.0.1"); w.Code != 200 {
			t.Fatalf("request %d: expected 200 got %d", i, w.Code)
		}
	}
	w := hit(r, "10.0.0.1")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", w.Code)
	}
	if w.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("remaining = %q", w.Header().Get("X-RateLimit-Remaining"))
	}

	// other clients have their own window
	if w := hit(r, "10.0.0.2"); w.Code != 200 {
		t.Fatalf("other ip: expected 200 got %d", w.Code)
	}

	// window rolls over
	now = now.Add(2 * time.Minute)
	if w := hit(r, "10.0.0.1"); w.Code != 200 {
		t.Fatalf("after window: expected 200 got %d", w.Code)
	}
}

func TestRateLimitSweepsExpiredWindows(t *testing.T) {
	l := NewRateLimiter(nil)
	now := time.Now()
	l.now = func() time.Time { return now }
	r := limitedRouter(l, 5, time.Minute)

	for i := 0; i < 50; i++ {
		hit(r, "10.0.1."+strconv.Itoa(i))
	}
	if n := len(l.clients); n != 50 {
		t.Fatalf("expected 50 tracked clients, got %d", n)
	}

	now = now.Add(time.Minute)
	if w := hit(r, "10.0.2.1"); w.Code != 200 {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if n := len(l.clients); n != 1 {
		t.Fatalf("expired windows not swept: %d clients tracked", n)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	r := limitedRouter(NewRateLimiter(nil), 0, time.Minute)
	for i := 0; i < 5; i++ {
		if w := hit(r, "10.0.0.1"); w.Code != 200 {
			t.Fatalf("expected 200 got %d", w.Code)
		}
	}
}

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRedisRateLimitIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	pass := os.Getenv("REDIS_PASSWORD")
	dbIndex := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			dbIndex = n
		}
	}

	rdb, err := db.ConnectRedis(context.Background(), addr, pass, dbIndex)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	defer rdb.Close()

	// unique window so reruns do not share keys
	w := time.Duration(2+time.Now().UnixNano()%1000) * time.Second
	max := 2

	srv := httptest.NewServer(limitedRouter(NewRateLimiter(rdb), max, w))
	defer srv.Close()

	client := &http.Client{}

	// do max allowed requests
	for i := 0; i < max; i++ {
		res, err := client.Get(srv.URL + "/test")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		res.Body.Close()
		if res.StatusCode != 200 {
			t.Fatalf("expected 200 got %d", res.StatusCode)
		}
	}

	// next request should be blocked
	res, err := client.Get(srv.URL + "/test")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != 429 {
		t.Fatalf("expected 429 got %d", res.StatusCode)
	}

	key := "rl:test:" + strconv.FormatInt(int64(w.Seconds()), 10) + ":127.0.0.1"
	ttl, err := rdb.TTL(context.Background(), key).Result()
	if err != nil {
		t.Fatalf("ttl: %v", err)
	}
	if ttl <= 0 || ttl > w {
		t.Fatalf("expected key to expire within %s, ttl=%s", w, ttl)
	}
}
