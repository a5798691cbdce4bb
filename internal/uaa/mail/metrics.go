package mail

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts what happens to queued mail.
type Metrics struct {
	Queued  prometheus.Counter
	Dropped prometheus.Counter
	Sent    prometheus.Counter
	Failed  prometheus.Counter
}

// NewMetrics registers the counters with reg. A nil reg leaves them
// unregistered, which tests use.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Queued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uaa_mail_queued_total",
			Help: "Mails accepted onto the queue.",
		}),
		Dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uaa_mail_dropped_total",
			Help: "Mails dropped because the queue was full or unavailable.",
		}),
		Sent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uaa_mail_sent_total",
			Help: "Mails accepted by the provider.",
		}),
		Failed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uaa_mail_failed_total",
			Help: "Mails that failed to render or were rejected by the provider.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Queued, m.Dropped, m.Sent, m.Failed)
	}
	return m
}
