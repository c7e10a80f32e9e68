package services

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	authzDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "org",
		Subsystem: "authz",
		Name:      "decisions_total",
		Help:      "Authorization decisions broken down by operation and result.",
	}, []string{"operation", "result"})

	unitMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "org",
		Subsystem: "units",
		Name:      "mutations_total",
		Help:      "Structural unit mutations broken down by operation and result.",
	}, []string{"operation", "result"})
)

func recordDecision(operation string, err error) {
	result := "granted"
	if err != nil {
		result = "error"
		var se StatusError
		if errors.As(err, &se) && se.HTTPStatus() == http.StatusForbidden {
			result = "denied"
		}
	}
	authzDecisions.WithLabelValues(operation, result).Inc()
}

func recordMutation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	unitMutations.WithLabelValues(operation, result).Inc()
}
