package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		counselorRepliesTotal,
		crisisDetectedTotal,
	)
}

var (
	counselorRepliesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "counselor_replies_total",
			Help: "Rule-based replies by topic and mood band.",
		},
		[]string{"topic", "mood"}, // topic="none" for mood-only replies
	)

	crisisDetectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "counselor_crisis_detected_total",
			Help: "Messages that triggered the crisis response.",
		},
	)
)

func IncCounselorReply(topic, mood string) {
	if topic == "" {
		topic = "none"
	}
	if mood == "" {
		mood = "unknown"
	}
	counselorRepliesTotal.WithLabelValues(norm(topic), norm(mood)).Inc()
}

func IncCrisisDetected() {
	crisisDetectedTotal.Inc()
}
