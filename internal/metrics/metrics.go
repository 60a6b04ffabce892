package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry contains every statehub collector.
var Registry = prometheus.NewRegistry()

var (
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "statehub",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Management API requests by method, route and status code",
		},
		[]string{"method", "route", "code"},
	)

	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "statehub",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Duration of management API requests in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~10s
		},
		[]string{"method", "route"},
	)

	locationPollsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "statehub",
			Subsystem: "reconciler",
			Name:      "location_polls_total",
			Help:      "Location status queries while waiting for provisioning",
		},
		[]string{"vendor", "status"},
	)

	locationWaitDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "statehub",
			Subsystem: "reconciler",
			Name:      "location_wait_duration_seconds",
			Help:      "Time spent waiting for a location to reach a final status",
			Buckets:   prometheus.ExponentialBuckets(5, 2, 9), // 5s to ~21min
		},
		[]string{"vendor", "result"},
	)

	registrationStepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "statehub",
			Subsystem: "registration",
			Name:      "steps_total",
			Help:      "Cluster registration steps by outcome",
		},
		[]string{"step", "status"},
	)
)

func init() {
	Registry.MustRegister(
		apiRequestsTotal,
		apiRequestDuration,
		locationPollsTotal,
		locationWaitDuration,
		registrationStepsTotal,
	)
}

// RecordAPIRequest records a finished management API request. A code of 0
// means the request never got a response.
func RecordAPIRequest(method, route string, code int, duration time.Duration) {
	apiRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	apiRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordLocationPoll records a single location status query.
func RecordLocationPoll(vendor, status string) {
	locationPollsTotal.WithLabelValues(vendor, status).Inc()
}

// RecordLocationWait records how long a wait for a location took.
func RecordLocationWait(vendor, result string, duration time.Duration) {
	locationWaitDuration.WithLabelValues(vendor, result).Observe(duration.Seconds())
}

// RecordRegistrationStep records the outcome of a registration step.
func RecordRegistrationStep(step, status string) {
	registrationStepsTotal.WithLabelValues(step, status).Inc()
}

// WriteFile writes the registry to path in the textfile collector format.
func WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
