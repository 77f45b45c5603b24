package metrics

import "github.com/prometheus/client_golang/prometheus"

// GreetingMetrics exposes counters for conversation and deck activity.
type GreetingMetrics struct {
	sessionsStarted *prometheus.CounterVec
	selections      *prometheus.CounterVec
	classifications *prometheus.CounterVec
	finished        prometheus.Counter
}

func NewGreetingMetrics(reg prometheus.Registerer) *GreetingMetrics {
	m := &GreetingMetrics{
		sessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "greeting",
			Subsystem: "session",
			Name:      "started_total",
			Help:      "Sessions started, by kind (chat or deck)",
		}, []string{"kind"}),
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "greeting",
			Subsystem: "chat",
			Name:      "selections_total",
			Help:      "Option selections, by prompt and whether they were accepted",
		}, []string{"prompt_id", "accepted"}),
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "greeting",
			Subsystem: "deck",
			Name:      "classifications_total",
			Help:      "Deck card classifications, by result and trigger",
		}, []string{"result", "trigger"}),
		finished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "greeting",
			Subsystem: "chat",
			Name:      "finished_total",
			Help:      "Conversations that reached the closing message",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.sessionsStarted, m.selections, m.classifications, m.finished)
	return m
}

func (m *GreetingMetrics) ObserveSessionStart(kind string) {
	if m == nil {
		return
	}
	m.sessionsStarted.WithLabelValues(kind).Inc()
}

func (m *GreetingMetrics) ObserveSelection(promptID string, accepted bool) {
	if m == nil {
		return
	}
	label := "false"
	if accepted {
		label = "true"
	}
	m.selections.WithLabelValues(promptID, label).Inc()
}

func (m *GreetingMetrics) ObserveClassification(read bool, trigger string) {
	if m == nil {
		return
	}
	result := "unread"
	if read {
		result = "read"
	}
	m.classifications.WithLabelValues(result, trigger).Inc()
}

func (m *GreetingMetrics) ObserveFinished() {
	if m == nil {
		return
	}
	m.finished.Inc()
}
