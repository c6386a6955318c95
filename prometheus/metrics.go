package prometheus

import (
	"time"

	"daleel-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Auth metrics
	RegistrationCounter prometheus.Counter
	LoginCounter        prometheus.Counter
	AuthErrorCounter    *prometheus.CounterVec

	// Search metrics
	SearchCounter              *prometheus.CounterVec
	HistoryWriteFailureCounter prometheus.Counter

	// Phone contact metrics
	ContactAddedCounter  prometheus.Counter
	ContactReportCounter *prometheus.CounterVec
	ContactVerifyCounter prometheus.Counter

	// Database operation metrics
	DBOperationHistogram *prometheus.HistogramVec

	// Namespace prefix for metrics
	namespace string
)

// InitMetrics initializes all Prometheus metrics
func InitMetrics(cfg *config.Config) {
	namespace = cfg.Metrics.Prefix

	RegistrationCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registration_total",
		Help:      "Total number of user registrations",
	})

	LoginCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_total",
		Help:      "Total number of login attempts",
	})

	AuthErrorCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_error_total",
			Help:      "Total number of authentication errors",
		},
		[]string{"error_type"},
	)

	SearchCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_total",
			Help:      "Total number of executed searches",
		},
		[]string{"search_type"},
	)

	HistoryWriteFailureCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "history_write_failure_total",
		Help:      "Total number of failed search history writes",
	})

	ContactAddedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "phone_contact_added_total",
		Help:      "Total number of phone contacts added",
	})

	ContactReportCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contact_report_total",
			Help:      "Total number of contact reports filed",
		},
		[]string{"report_type"},
	)

	ContactVerifyCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contact_verify_total",
		Help:      "Total number of contact verifications",
	})

	DBOperationHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_operation_duration_seconds",
			Help:      "Duration of database operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
}

// RecordRegistration increments the registration counter
func RecordRegistration() {
	if RegistrationCounter != nil {
		RegistrationCounter.Inc()
	}
}

// RecordLogin increments the login attempt counter
func RecordLogin() {
	if LoginCounter != nil {
		LoginCounter.Inc()
	}
}

// RecordContactsAdded increments the added contact counter by n
func RecordContactsAdded(n int) {
	if ContactAddedCounter != nil {
		ContactAddedCounter.Add(float64(n))
	}
}

// RecordContactVerify increments the verification counter
func RecordContactVerify() {
	if ContactVerifyCounter != nil {
		ContactVerifyCounter.Inc()
	}
}

// RecordSearch increments the search counter for the given search type
func RecordSearch(searchType string) {
	if SearchCounter != nil {
		SearchCounter.With(map[string]string{"search_type": searchType}).Inc()
	}
}

// RecordHistoryWriteFailure increments the failed history write counter
func RecordHistoryWriteFailure() {
	if HistoryWriteFailureCounter != nil {
		HistoryWriteFailureCounter.Inc()
	}
}

// RecordContactReport increments the report counter for the given report type
func RecordContactReport(reportType string) {
	if ContactReportCounter != nil {
		ContactReportCounter.With(map[string]string{"report_type": reportType}).Inc()
	}
}

// RecordAuthError increments the auth error counter for the given error type
func RecordAuthError(errorType string) {
	if AuthErrorCounter != nil {
		AuthErrorCounter.With(map[string]string{"error_type": errorType}).Inc()
	}
}

// TrackDBOperation returns a function that records the duration of a database
// operation when deferred: defer prometheus.TrackDBOperation("query")(time.Now())
func TrackDBOperation(operation string) func(time.Time) {
	return func(start time.Time) {
		if DBOperationHistogram != nil {
			DBOperationHistogram.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		}
	}
}
