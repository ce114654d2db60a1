package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func newRequestDuration() *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bracket",
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "A histogram of duration, in seconds, of requests made to the bracket API.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15),
	}, []string{"operation", "method", "status"})
}

type operationKey struct{}

// WithOperation returns a context that labels the requests made with it. The
// operation is a fixed name for an API call ("list_collaborators"), never a
// path that contains ids.
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, operationKey{}, operation)
}

func operationFrom(ctx context.Context) string {
	if op, ok := ctx.Value(operationKey{}).(string); ok {
		return op
	}
	return "unknown"
}

type transport struct {
	next     http.RoundTripper
	duration *prometheus.HistogramVec
}

// NewTransport registers the request_duration_seconds metric with promRegistry
// and returns a RoundTripper that observes it for every request sent through
// next. If next is nil http.DefaultTransport is used.
//
// Calling NewTransport more than once with the same registry shares a single
// metric.
func NewTransport(promRegistry prometheus.Registerer, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	duration := newRequestDuration()
	if err := promRegistry.Register(duration); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			panic(err)
		}
		duration = are.ExistingCollector.(*prometheus.HistogramVec)
	}

	return &transport{next: next, duration: duration}
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	begin := time.Now()
	resp, err := t.next.RoundTrip(req)

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}

	t.duration.With(prometheus.Labels{
		"operation": operationFrom(req.Context()),
		"method":    req.Method,
		"status":    status,
	}).Observe(time.Since(begin).Seconds())

	return resp, err
}

// WriteFile writes every metric gathered by gatherer to filename in the
// prometheus text format.
func WriteFile(filename string, gatherer prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(filename, gatherer)
}
