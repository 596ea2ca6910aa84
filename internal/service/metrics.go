package service

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var taskOps = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "task_operations_total",
		Help: "Task access layer calls by operation and outcome",
	},
	[]string{"op", "result"},
)

func init() {
	prometheus.MustRegister(taskOps)
}

func observe(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrValidation):
		result = "invalid"
	case errors.Is(err, ErrNotAuthorized), errors.Is(err, ErrForbidden):
		result = "denied"
	default:
		result = "error"
	}
	taskOps.WithLabelValues(op, result).Inc()
}
