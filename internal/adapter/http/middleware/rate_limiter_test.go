package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"eventsapp/pkg/tracing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func rateLimitedRouter(requests int, window time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)

	metrics := tracing.NewAppMetrics(prometheus.NewRegistry())
	rl := NewRateLimiter(requests, window, zap.NewNop(), metrics)

	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router
}

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	RegisterTestingT(t)

	router := rateLimitedRouter(5, time.Hour)

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(200))
		Expect(w.Header().Get("X-RateLimit-Limit")).To(Equal("5"))

		remaining, err := strconv.Atoi(w.Header().Get("X-RateLimit-Remaining"))
		Expect(err).ToNot(HaveOccurred())
		Expect(remaining).To(Equal(5 - i - 1))
	}
}

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	RegisterTestingT(t)

	router := rateLimitedRouter(3, time.Hour)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(200))
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(http.StatusTooManyRequests))
	Expect(w.Body.String()).To(ContainSubstring("Too many requests from this IP, please try again in an hour!"))
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	RegisterTestingT(t)

	router := rateLimitedRouter(1, 50*time.Millisecond)

	first := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(first, req)
	Expect(first.Code).To(Equal(200))

	second := httptest.NewRecorder()
	router.ServeHTTP(second, req)
	Expect(second.Code).To(Equal(http.StatusTooManyRequests))

	time.Sleep(60 * time.Millisecond)

	third := httptest.NewRecorder()
	router.ServeHTTP(third, req)
	Expect(third.Code).To(Equal(200))
}
