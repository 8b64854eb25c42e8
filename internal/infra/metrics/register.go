package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once       sync.Once
	collectors []prometheus.Collector
)

// register queues collectors from each file's init; nothing is exported
// until Register or MustRegister runs.
func register(cs ...prometheus.Collector) {
	collectors = append(collectors, cs...)
}

// Register adds every SoulSync collector to reg.
func Register(reg prometheus.Registerer) error {
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// MustRegister exports the collectors on the default registry, which backs
// /metrics. Safe to call more than once.
func MustRegister() {
	once.Do(func() {
		if err := Register(prometheus.DefaultRegisterer); err != nil {
			panic(err)
		}
	})
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
