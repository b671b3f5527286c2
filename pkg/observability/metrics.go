package observability

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/switchboard/pkg/domain"
)

// Metrics holds the Prometheus collectors fed by lifecycle hooks.
type Metrics struct {
	NodeVisits      *prometheus.CounterVec
	Classifications *prometheus.CounterVec
	SlotPrompts     *prometheus.CounterVec
	SlotsExtracted  *prometheus.CounterVec
	Errors          *prometheus.CounterVec
	SessionsEnded   prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		NodeVisits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "switchboard_node_visits_total",
			Help: "Total number of node entries.",
		}, []string{"node_type"}),
		Classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "switchboard_classifications_total",
			Help: "Next-node decisions by basis and whether the first output was used as a default.",
		}, []string{"basis", "defaulted"}),
		SlotPrompts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "switchboard_slot_prompts_total",
			Help: "Prompts asking the caller for a missing slot.",
		}, []string{"slot"}),
		SlotsExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "switchboard_slots_extracted_total",
			Help: "Slot values captured from caller messages.",
		}, []string{"slot"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "switchboard_errors_total",
			Help: "Error signals returned to hosts, by kind.",
		}, []string{"kind"}),
		SessionsEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "switchboard_sessions_ended_total",
			Help: "Sessions that reached an end node.",
		}),
	}

	collectors := []prometheus.Collector{
		m.NodeVisits, m.Classifications, m.SlotPrompts, m.SlotsExtracted, m.Errors, m.SessionsEnded,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that update the collectors.
// Node IDs are not used as labels to keep cardinality bounded by the schema.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			m.NodeVisits.WithLabelValues(string(e.NodeType)).Inc()
		},
		OnClassified: func(ctx context.Context, e *domain.ClassificationEvent) {
			m.Classifications.WithLabelValues(e.Basis, strconv.FormatBool(e.Defaulted)).Inc()
		},
		OnSlotPrompt: func(ctx context.Context, e *domain.SlotEvent) {
			m.SlotPrompts.WithLabelValues(e.Missing).Inc()
		},
		OnSlotsExtracted: func(ctx context.Context, e *domain.SlotEvent) {
			for slot := range e.Extracted {
				m.SlotsExtracted.WithLabelValues(slot).Inc()
			}
		},
		OnError: func(ctx context.Context, e *domain.ErrorEvent) {
			m.Errors.WithLabelValues(string(e.Kind)).Inc()
		},
		OnSessionEnd: func(ctx context.Context, e *domain.NodeEvent) {
			m.SessionsEnded.Inc()
		},
	}
}
