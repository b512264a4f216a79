package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nomadlink_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nomadlink_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	alertsTriggered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nomadlink_emergency_alerts_triggered_total",
		Help: "Emergency alerts created.",
	})

	alertsResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nomadlink_emergency_alerts_resolved_total",
		Help: "Emergency alerts resolved.",
	})

	walletLogins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nomadlink_wallet_signins_total",
		Help: "Wallet sign-in attempts by outcome.",
	}, []string{"outcome"})
)

// Middleware records request counts and latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) { h.ServeHTTP(c.Writer, c.Request) }
}

func AlertTriggered()             { alertsTriggered.Inc() }
func AlertResolved()              { alertsResolved.Inc() }
func WalletSignin(outcome string) { walletLogins.WithLabelValues(outcome).Inc() }
