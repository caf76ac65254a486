// Пакет metrics — Prometheus метрики сайта.
// HTTP метрики пишет middleware, доменные счетчики увеличивают сервисы.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal — общее количество HTTP-запросов.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metamorphosis_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration — длительность HTTP-запросов.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "metamorphosis_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// EnquiriesSubmitted — заявки, принятые с формы обратной связи.
	EnquiriesSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metamorphosis_enquiries_submitted_total",
		Help: "Number of enquiries submitted through the contact form",
	})

	// VideosUploaded — загрузки видео по результату (stored, rejected, failed).
	VideosUploaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metamorphosis_video_uploads_total",
			Help: "Video upload attempts by result",
		},
		[]string{"result"},
	)

	// LoginAttempts — попытки входа администратора по результату.
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metamorphosis_admin_login_attempts_total",
			Help: "Administrator login attempts by result",
		},
		[]string{"result"},
	)
)
