package session

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	signIns             *prometheus.CounterVec
	signOuts            prometheus.Counter
	persistenceFailures *prometheus.CounterVec
	staleRefreshes      prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		signIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mindeducation",
			Subsystem: "session",
			Name:      "sign_ins_total",
			Help:      "Sign-in attempts by result.",
		}, []string{"result"}),
		signOuts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mindeducation",
			Subsystem: "session",
			Name:      "sign_outs_total",
			Help:      "Completed sign-outs.",
		}),
		persistenceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mindeducation",
			Subsystem: "session",
			Name:      "persistence_failures_total",
			Help:      "Credential store operations that failed, by operation.",
		}, []string{"op"}),
		staleRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mindeducation",
			Subsystem: "session",
			Name:      "stale_refreshes_total",
			Help:      "Profile refreshes discarded because the session changed.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.signIns, m.signOuts, m.persistenceFailures, m.staleRefreshes)
	}
	return m
}
