package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(dbConns, dbEmptyAcquires) }

var (
	dbConns = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "soulsync_db_pool_connections",
			Help: "Postgres pool connections by state.",
		},
		[]string{"state"}, // total | idle | in_use | max
	)
	dbEmptyAcquires = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "soulsync_db_pool_empty_acquires",
		Help: "Acquires that had to wait for a connection since the pool started.",
	})
)

// PoolSnapshot is one reading of pgxpool.Stat.
type PoolSnapshot struct {
	Total, Idle, InUse, Max int32
	EmptyAcquires           int64
}

func SetDBPoolStats(s PoolSnapshot) {
	dbConns.WithLabelValues("total").Set(float64(s.Total))
	dbConns.WithLabelValues("idle").Set(float64(s.Idle))
	dbConns.WithLabelValues("in_use").Set(float64(s.InUse))
	dbConns.WithLabelValues("max").Set(float64(s.Max))
	dbEmptyAcquires.Set(float64(s.EmptyAcquires))
}
