// Package metrics holds the Prometheus collectors for task activity.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Options configures where task collectors are registered.
type Options struct {
	Registerer prometheus.Registerer
	Namespace  string
}

// TaskMetrics counts task lifecycle activity. A nil *TaskMetrics is valid
// and records nothing.
type TaskMetrics struct {
	Created             prometheus.Counter
	Moved               *prometheus.CounterVec
	PersistenceFailures *prometheus.CounterVec
	SeedLoads           *prometheus.CounterVec
}

// NewTaskMetrics constructs the task collectors and registers them with the
// provided registerer. Collectors already registered under the same name are
// reused.
func NewTaskMetrics(opts Options) (*TaskMetrics, error) {
	namespace := opts.Namespace
	if namespace == "" {
		namespace = "taskflow"
	}

	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	created, err := Register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created by users.",
	}))
	if err != nil {
		return nil, err
	}

	moved, err := Register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_moved_total",
		Help:      "Total number of task moves partitioned by source and destination stage.",
	}, []string{"from", "to"}))
	if err != nil {
		return nil, err
	}

	failures, err := Register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "persistence_failures_total",
		Help:      "Total number of failed writes to the slot store partitioned by operation.",
	}, []string{"op"}))
	if err != nil {
		return nil, err
	}

	seeds, err := Register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "seed_loads_total",
		Help:      "Total number of first-run seed loads partitioned by source (remote or fallback).",
	}, []string{"source"}))
	if err != nil {
		return nil, err
	}

	return &TaskMetrics{
		Created:             created,
		Moved:               moved,
		PersistenceFailures: failures,
		SeedLoads:           seeds,
	}, nil
}

// Register registers c, returning the already registered collector of the
// same type when one exists.
func Register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
			return c, fmt.Errorf("existing collector has unexpected type %T", already.ExistingCollector)
		}
		return c, fmt.Errorf("register collector: %w", err)
	}
	return c, nil
}

// TaskCreated records a successful create
func (m *TaskMetrics) TaskCreated() {
	if m == nil {
		return
	}
	m.Created.Inc()
}

// TaskMoved records a successful move
func (m *TaskMetrics) TaskMoved(from, to string) {
	if m == nil {
		return
	}
	m.Moved.WithLabelValues(from, to).Inc()
}

// PersistenceFailed records a failed slot write
func (m *TaskMetrics) PersistenceFailed(op string) {
	if m == nil {
		return
	}
	m.PersistenceFailures.WithLabelValues(op).Inc()
}

// SeedLoaded records which source a first-run seed came from
func (m *TaskMetrics) SeedLoaded(source string) {
	if m == nil {
		return
	}
	m.SeedLoads.WithLabelValues(source).Inc()
}
