package metrics

import "github.com/prometheus/client_golang/prometheus"

// AuthMetrics tracks login outcomes and active session churn.
type AuthMetrics struct {
	logins  *prometheus.CounterVec
	logouts prometheus.Counter
}

// NewAuthMetrics registers the auth metrics on the provided registerer.
func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	if reg == nil {
		return &AuthMetrics{}
	}
	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_login_attempts_total",
		Help: "Login attempts partitioned by outcome.",
	}, []string{"outcome"})
	logouts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_logouts_total",
		Help: "Explicit logout calls.",
	})
	reg.MustRegister(logins, logouts)
	return &AuthMetrics{logins: logins, logouts: logouts}
}

// IncLogin increments the login counter for the given outcome
// (success, invalid_credentials, rate_limited, error).
func (a *AuthMetrics) IncLogin(outcome string) {
	if a == nil || a.logins == nil {
		return
	}
	a.logins.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncLogout increments the logout counter.
func (a *AuthMetrics) IncLogout() {
	if a == nil || a.logouts == nil {
		return
	}
	a.logouts.Inc()
}
