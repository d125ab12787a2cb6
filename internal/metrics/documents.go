package metrics

import "github.com/prometheus/client_golang/prometheus"

// Upload outcomes used as the "result" label.
const (
	UploadSucceeded        = "success"
	UploadRejected         = "rejected"
	UploadStorageFailed    = "storage_error"
	UploadExtractionFailed = "extraction_error"
	UploadSaveFailed       = "database_error"
)

var (
	uploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docmanager",
			Name:      "uploads_total",
			Help:      "Uploads by outcome",
		},
		[]string{"result"},
	)

	uploadBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "docmanager",
			Name:      "upload_size_bytes",
			Help:      "Size of accepted PDF uploads",
			Buckets:   prometheus.ExponentialBuckets(16*1024, 4, 8),
		},
	)
)

func init() {
	prometheus.MustRegister(uploadsTotal, uploadBytes)
}

// RecordUpload counts one upload attempt with the given outcome.
func RecordUpload(result string) {
	uploadsTotal.WithLabelValues(result).Inc()
}

// ObserveUploadSize records the size of an accepted upload.
func ObserveUploadSize(size int) {
	uploadBytes.Observe(float64(size))
}
