package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		usersRegisteredTotal,
		moodsSubmittedTotal,
		bookingsTotal,
		notificationsTotal,
	)
}

var (
	usersRegisteredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "users_registered_total",
			Help: "Total number of new users registered.",
		},
	)

	moodsSubmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moods_submitted_total",
			Help: "Daily mood check-ins by mood.",
		},
		[]string{"mood"},
	)

	bookingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_bookings_total",
			Help: "Counseling session bookings by session type.",
		},
		[]string{"type"},
	)

	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "counselor_notifications_total",
			Help: "Counselor notifications by delivery status.",
		},
		[]string{"status"}, // 'sent', 'error', 'dropped'
	)
)

func IncUsersRegistered() {
	usersRegisteredTotal.Inc()
}

func IncMoodSubmitted(mood string) {
	moodsSubmittedTotal.WithLabelValues(norm(mood)).Inc()
}

func IncBooking(sessionType string) {
	bookingsTotal.WithLabelValues(norm(sessionType)).Inc()
}

func IncNotification(status string) {
	notificationsTotal.WithLabelValues(norm(status)).Inc()
}
