package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "debtplanner_"

var (
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: metricPrefix + "http_request_duration_seconds",
			Help: "HTTP request latency by route",
		},
		[]string{"route", "method", "code"},
	)
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "http_requests_total",
			Help: "HTTP requests by route",
		},
		[]string{"route", "method", "code"},
	)
)

// RegisterMetrics instala los colectores HTTP en el registro default.
// Llamar una sola vez al arrancar.
func RegisterMetrics() {
	prometheus.MustRegister(requestDuration, requestsTotal)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware registra latencia y conteo de peticiones por ruta de mux.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if template, err := current.GetPathTemplate(); err == nil {
				route = template
			}
		}
		code := strconv.Itoa(recorder.status)
		requestDuration.WithLabelValues(route, r.Method, code).Observe(time.Since(start).Seconds())
		requestsTotal.WithLabelValues(route, r.Method, code).Inc()
	})
}
