// Package metrics provides Prometheus metrics for the edandlinda client.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edandlinda_api_requests_total",
			Help: "Total number of API requests issued by the client",
		},
		[]string{"method", "path", "status"},
	)

	authAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edandlinda_auth_attempts_total",
			Help: "Total number of session login attempts",
		},
		[]string{"success"},
	)

	sessionTeardownsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "edandlinda_session_teardowns_total",
			Help: "Sessions torn down by a 401 response",
		},
	)

	downloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edandlinda_manual_downloads_total",
			Help: "Manual download operations by kind",
		},
		[]string{"kind"},
	)

	downloadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "edandlinda_manual_download_bytes_total",
			Help: "Total manual bytes saved to disk",
		},
	)
)

// RecordRequest records a completed API request. Status 0 means no response
// was received.
func RecordRequest(method, path string, status int) {
	apiRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// RecordAuthAttempt records a login attempt.
func RecordAuthAttempt(success bool) {
	authAttemptsTotal.WithLabelValues(strconv.FormatBool(success)).Inc()
}

// RecordSessionTeardown records a forced logout caused by a 401.
func RecordSessionTeardown() {
	sessionTeardownsTotal.Inc()
}

// RecordDownload records a manual download by kind (file, selected,
// directory, all, preview).
func RecordDownload(kind string) {
	downloadsTotal.WithLabelValues(kind).Inc()
}

// RecordDownloadBytes adds n to the downloaded byte counter.
func RecordDownloadBytes(n int64) {
	if n > 0 {
		downloadBytesTotal.Add(float64(n))
	}
}
