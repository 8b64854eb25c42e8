package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		communityPostsTotal,
		spamStrikesTotal,
		postsPurgedTotal,
	)
}

var (
	communityPostsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "community_posts_total",
			Help: "Posting attempts by policy verdict.",
		},
		[]string{"verdict"}, // 'admit', 'blocked', 'burst'
	)

	spamStrikesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "community_spam_strikes_total",
			Help: "Strikes issued, labeled by the resulting strike number (capped).",
		},
		[]string{"strike"},
	)

	postsPurgedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "community_posts_purged_total",
			Help: "Posts removed by the retention worker.",
		},
	)
)

func IncCommunityPost(verdict string) {
	communityPostsTotal.WithLabelValues(norm(verdict)).Inc()
}

func IncSpamStrike(strike int) {
	label := "6+"
	if strike < 6 {
		label = strconv.Itoa(strike)
	}
	spamStrikesTotal.WithLabelValues(label).Inc()
}

func AddPostsPurged(n int64) {
	postsPurgedTotal.Add(float64(n))
}
