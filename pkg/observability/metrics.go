package observability

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aretw0/stylist/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors fed by lifecycle hooks.
type Metrics struct {
	registry *prometheus.Registry

	stepEnters    *prometheus.CounterVec
	messages      *prometheus.CounterVec
	likeToggles   *prometheus.CounterVec
	replies       *prometheus.CounterVec
	replyDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on a dedicated registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stepEnters: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stylist_step_enter_total",
				Help: "Total number of step transitions, by target step",
			},
			[]string{"step"},
		),
		messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stylist_messages_total",
				Help: "Total number of messages appended to conversation logs",
			},
			[]string{"role", "kind"},
		),
		likeToggles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stylist_like_toggles_total",
				Help: "Total number of outfit like toggles",
			},
			[]string{"liked"},
		),
		replies: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stylist_replies_total",
				Help: "Total number of AI replies, by outcome",
			},
			[]string{"outcome"},
		),
		replyDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stylist_reply_duration_seconds",
				Help:    "Duration of AI collaborator calls",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	m.registry.MustRegister(m.stepEnters, m.messages, m.likeToggles, m.replies, m.replyDuration)
	return m
}

// Registry exposes the registry, e.g. for tests or extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(_ context.Context, e *domain.StepEvent) {
			m.stepEnters.WithLabelValues(e.To.String()).Inc()
		},
		OnMessageAppend: func(_ context.Context, e *domain.MessageEvent) {
			m.messages.WithLabelValues(string(e.Message.Role), string(e.Message.Kind)).Inc()
		},
		OnLikeToggle: func(_ context.Context, e *domain.LikeEvent) {
			m.likeToggles.WithLabelValues(strconv.FormatBool(e.Liked)).Inc()
		},
		OnReply: func(_ context.Context, e *domain.ReplyEvent) {
			outcome := "ok"
			if e.Fallback {
				outcome = "fallback"
			}
			m.replies.WithLabelValues(outcome).Inc()
			m.replyDuration.Observe(e.Duration.Seconds())
		},
	}
}
