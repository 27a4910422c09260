package instrument

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/infiotinc/lmsgql/client"
)

// Metrics counts operations and observes their latency
type Metrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

// NewMetrics registers the operation collectors on reg, a nil reg registers nothing
func NewMetrics(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of GraphQL operations by outcome",
			},
			[]string{"operation", "kind", "outcome"},
		),

		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "GraphQL operation latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation", "kind"},
		),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.operationsTotal, m.operationDuration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

func (m *Metrics) Wrapper() client.Wrapper {
	return func(ctx context.Context, action client.Action, op client.OperationInfo) error {
		start := time.Now()

		err := action(ctx, nil)

		kind := string(op.Kind)
		m.operationDuration.WithLabelValues(op.Name, kind).Observe(time.Since(start).Seconds())
		m.operationsTotal.WithLabelValues(op.Name, kind, string(Classify(err))).Inc()

		return err
	}
}
