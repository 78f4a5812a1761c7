package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SlotsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "scheduler", Name: "slots_created_total", Help: "Availability slots created",
	})
	Bookings = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scheduler", Name: "bookings_total", Help: "Booking attempts by outcome",
	}, []string{"outcome"})
	Cancellations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scheduler", Name: "cancellations_total", Help: "Session cancellations by actor",
	}, []string{"actor"})
	NoShows = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "scheduler", Name: "no_shows_total", Help: "Recorded student no-shows",
	})
	EmailsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scheduler", Name: "emails_total", Help: "Outbound e-mails by result",
	}, []string{"result"})
	HTTPRequests = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "scheduler", Name: "http_request_seconds", Help: "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	JobRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scheduler", Name: "job_runs_total", Help: "Total background job runs",
	}, []string{"job"})
	JobErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scheduler", Name: "job_errors_total", Help: "Total background job errors",
	}, []string{"job"})
	JobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "scheduler", Name: "job_duration_seconds", Help: "Background job duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
)

func init() {
	prometheus.MustRegister(SlotsCreated, Bookings, Cancellations, NoShows, EmailsSent,
		HTTPRequests, JobRuns, JobErrors, JobDuration)
}

// Handler exposes the default registry on a Fiber route.
func Handler() fiber.Handler { return adaptor.HTTPHandler(promhttp.Handler()) }

// Middleware records request latency labelled by the matched route pattern.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}
		HTTPRequests.WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
		return err
	}
}
