package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ObservabilityConfig controls request tracing and metrics for the
// read-only query API.
type ObservabilityConfig struct {
	ServiceName string
	Enabled     bool
}

// Observability wraps every route in an OpenTelemetry span and records a
// Prometheus request-duration histogram, mirroring the gateway's own
// per-route observability middleware for the query API's HTTP surface.
type Observability struct {
	cfg       ObservabilityConfig
	tracer    trace.Tracer
	durations *prometheus.HistogramVec
}

// NewObservability registers its collectors against reg. A nil registry
// leaves metrics unregistered. Middleware no-ops unless cfg.Enabled is set;
// NewServer sets it only when it is given a registry.
func NewObservability(cfg ObservabilityConfig, reg *prometheus.Registry) *Observability {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "guildchain-query-api"
	}
	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "guildchain",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of query API requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method", "status"})
	if reg != nil {
		reg.MustRegister(durations)
	}
	return &Observability{
		cfg:       cfg,
		tracer:    otel.Tracer(cfg.ServiceName),
		durations: durations,
	}
}

// Middleware starts a span for the request and, once chi has resolved the
// matched route pattern, records a duration observation labeled by route,
// method and status.
func (o *Observability) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if o == nil || !o.cfg.Enabled {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		ctx, span := o.tracer.Start(r.Context(), r.URL.Path, trace.WithAttributes(
			attribute.String("http.method", r.Method),
		))
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r.WithContext(ctx))

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.status_code", recorder.status),
		)
		span.End()

		o.durations.WithLabelValues(route, r.Method, http.StatusText(recorder.status)).
			Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
