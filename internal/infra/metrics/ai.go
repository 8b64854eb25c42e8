package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(aiTokens, aiCallSeconds, aiUnavailableTotal, aiFailoverTotal, aiPromptTokens, aiHistoryTrimmed)
}

var (
	aiTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "soulsync_ai_tokens_total",
			Help: "Tokens used by the companion chat, by provider, model and kind (prompt|completion).",
		},
		[]string{"provider", "model", "kind"},
	)

	aiCallSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "soulsync_ai_call_duration_seconds",
			Help:    "Latency of provider chat calls.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 15, 30, 60},
		},
		[]string{"provider", "outcome"},
	)

	aiUnavailableTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "soulsync_ai_unavailable_total",
		Help: "Chat requests refused because no provider is configured.",
	})

	aiFailoverTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "soulsync_ai_failover_total",
			Help: "Chat calls retried on another provider after the routed one failed.",
		},
		[]string{"from", "to"},
	)

	aiPromptTokens = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "soulsync_ai_prompt_tokens",
		Help:    "Counted size of companion prompts after history trimming.",
		Buckets: prometheus.ExponentialBuckets(64, 2, 8),
	})

	aiHistoryTrimmed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "soulsync_ai_history_turns_trimmed_total",
		Help: "History turns dropped to keep prompts within the token budget.",
	})
)

// ObserveChatUsage records one provider call. Token counts are only added on
// success; failed calls report zero usage anyway.
func ObserveChatUsage(provider, model string, promptTokens, completionTokens int, took time.Duration, err error) {
	p := norm(provider)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	aiCallSeconds.WithLabelValues(p, outcome).Observe(took.Seconds())
	if err != nil {
		return
	}
	m := norm(model)
	aiTokens.WithLabelValues(p, m, "prompt").Add(float64(promptTokens))
	aiTokens.WithLabelValues(p, m, "completion").Add(float64(completionTokens))
}

func IncAIUnavailable() { aiUnavailableTotal.Inc() }

func IncAIFailover(from, to string) { aiFailoverTotal.WithLabelValues(norm(from), norm(to)).Inc() }

// ObservePromptTokens records a prompt's size and how many history turns were
// dropped to reach it.
func ObservePromptTokens(tokens, trimmed int) {
	aiPromptTokens.Observe(float64(tokens))
	if trimmed > 0 {
		aiHistoryTrimmed.Add(float64(trimmed))
	}
}
