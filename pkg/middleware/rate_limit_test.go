package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/postboard/posts-service/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func request(r *gin.Engine, path, remoteAddr string) int {
	req := httptest.NewRequest("GET", path, nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitMiddleware_AllowsUnderLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(10, 2))
	r.GET("/ok", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	before := testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory"))
	require.Equal(t, http.StatusOK, request(r, "/ok", ""))
	require.Equal(t, http.StatusOK, request(r, "/ok", ""))
	require.Equal(t, before+2, testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory")))
}

func TestRateLimitMiddleware_BlocksWhenExceeded(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(0.5, 1))
	r.GET("/limited", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	rejected := testutil.ToFloat64(metrics.RateLimitRejected.WithLabelValues("memory"))
	require.Equal(t, http.StatusOK, request(r, "/limited", ""))
	require.Equal(t, http.StatusTooManyRequests, request(r, "/limited", ""))
	require.Equal(t, rejected+1, testutil.ToFloat64(metrics.RateLimitRejected.WithLabelValues("memory")))

	// 0.5 rps refills one token after two seconds
	time.Sleep(2100 * time.Millisecond)
	require.Equal(t, http.StatusOK, request(r, "/limited", ""))
}

func TestRateLimitMiddleware_KeysByClientIP(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(0.01, 1))
	r.GET("/u", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	require.Equal(t, http.StatusOK, request(r, "/u", "10.0.0.1:1234"))
	require.Equal(t, http.StatusTooManyRequests, request(r, "/u", "10.0.0.1:1234"))
	// another client has its own bucket
	require.Equal(t, http.StatusOK, request(r, "/u", "10.0.0.2:1234"))
}

func TestRateLimitMiddleware_InstancesDoNotShareBuckets(t *testing.T) {
	strict := gin.New()
	strict.Use(RateLimitMiddleware(0.01, 1))
	strict.GET("/s", func(c *gin.Context) { c.Status(http.StatusOK) })

	loose := gin.New()
	loose.Use(RateLimitMiddleware(100, 100))
	loose.GET("/l", func(c *gin.Context) { c.Status(http.StatusOK) })

	require.Equal(t, http.StatusOK, request(strict, "/s", "10.0.1.1:1"))
	require.Equal(t, http.StatusTooManyRequests, request(strict, "/s", "10.0.1.1:1"))
	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusOK, request(loose, "/l", "10.0.1.1:1"))
	}
}
