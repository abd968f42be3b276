package filters

import (
	"net/http"
	"time"

	"github.com/jbchangelogs/gateway/pkg/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

// GatewayMetrics owns the collectors shared by every route's metrics filter
// instance, registered on a private registry exposed through Handler().
type GatewayMetrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func NewGatewayMetrics() *GatewayMetrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_http_requests_total",
			Help: "Total number of gateway requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_http_request_duration_seconds",
			Help:    "Gateway request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	registry.MustRegister(requestsTotal, requestDuration)

	return &GatewayMetrics{
		registry:        registry,
		requestsTotal:   requestsTotal,
		requestDuration: requestDuration,
	}
}

// Handler returns the scrape endpoint for the gateway registry.
func (metrics *GatewayMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{})
}

type MetricsFilterHandler struct {
	next    *common.RequestHandler
	Name    string
	metrics *GatewayMetrics
}

func CreateMetricsFilter(name string, metrics *GatewayMetrics) *MetricsFilterHandler {
	return &MetricsFilterHandler{
		next:    nil,
		Name:    name,
		metrics: metrics,
	}
}

func (filter *MetricsFilterHandler) SetNext(nextHandler common.RequestHandler) {
	filter.next = &nextHandler
}

func (filter *MetricsFilterHandler) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	if filter.next == nil {
		log.Debugf("Metrics filter error: %v. Next handler is empty", filter.Name)
		return
	}

	recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}
	started := time.Now()
	(*filter.next).Handle(log, recorder, request)

	route := request.URL.Path
	filter.metrics.requestsTotal.WithLabelValues(route, request.Method, cast.ToString(recorder.status)).Inc()
	filter.metrics.requestDuration.WithLabelValues(route, request.Method).Observe(time.Since(started).Seconds())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(status int) {
	recorder.status = status
	recorder.ResponseWriter.WriteHeader(status)
}
