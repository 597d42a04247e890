// Package metrics provides the Prometheus counters for blog activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels.
const (
	ResultSuccess         = "success"
	ResultConflict        = "conflict"
	ResultInvalidUser     = "invalid_user"
	ResultInvalidPassword = "invalid_password"
)

// Operation labels.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

var (
	// RegistrationsTotal counts registration attempts that reached the store.
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_registrations_total",
			Help: "Total number of registration attempts by result",
		},
		[]string{"result"},
	)

	// LoginsTotal counts login attempts by result.
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_logins_total",
			Help: "Total number of login attempts by result",
		},
		[]string{"result"},
	)

	// ArticleOperationsTotal counts successful article writes.
	ArticleOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_article_operations_total",
			Help: "Total number of article writes by operation",
		},
		[]string{"operation"},
	)
)

func RecordRegistration(result string) {
	RegistrationsTotal.WithLabelValues(result).Inc()
}

func RecordLogin(result string) {
	LoginsTotal.WithLabelValues(result).Inc()
}

func RecordArticleOperation(op string) {
	ArticleOperationsTotal.WithLabelValues(op).Inc()
}
