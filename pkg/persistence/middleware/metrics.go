package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/spiritual/pkg/domain"
	"github.com/aretw0/spiritual/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the profile store collectors.
type Metrics struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spiritual_profile_store_operations_total",
				Help: "Profile store operations by operation and result",
			},
			[]string{"op", "result"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spiritual_profile_store_duration_seconds",
				Help:    "Profile store operation latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}
	reg.MustRegister(m.Operations, m.Duration)
	return m
}

// Middleware returns a store middleware recording into m.
func (m *Metrics) Middleware() Middleware {
	return func(next ports.ProfileStore) ports.ProfileStore {
		return &metricsMiddleware{next: next, metrics: m}
	}
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrProfileNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidProfile):
		return "invalid"
	default:
		return "error"
	}
}

type metricsMiddleware struct {
	next    ports.ProfileStore
	metrics *Metrics
}

func (m *metricsMiddleware) observe(op string, start time.Time, err error) {
	m.metrics.Operations.WithLabelValues(op, result(err)).Inc()
	m.metrics.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (m *metricsMiddleware) Save(ctx context.Context, profile *domain.Profile) error {
	start := time.Now()
	err := m.next.Save(ctx, profile)
	m.observe("save", start, err)
	return err
}

func (m *metricsMiddleware) Load(ctx context.Context, playerName string) (*domain.Profile, error) {
	start := time.Now()
	profile, err := m.next.Load(ctx, playerName)
	m.observe("load", start, err)
	return profile, err
}

func (m *metricsMiddleware) Delete(ctx context.Context, playerName string) error {
	start := time.Now()
	err := m.next.Delete(ctx, playerName)
	m.observe("delete", start, err)
	return err
}

func (m *metricsMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := m.next.List(ctx)
	m.observe("list", start, err)
	return names, err
}
