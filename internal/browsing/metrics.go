package browsing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// readingEvents counts events appended to nodes by type
	readingEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "browsetree_reading_events_total",
		Help: "Reading events recorded on browsing nodes by type",
	}, []string{"type"})

	// navigations counts new nodes created by navigation kind
	navigations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "browsetree_navigations_total",
		Help: "Navigations that created a node, by kind",
	}, []string{"kind"})

	// timestampAnomalies counts out-of-order events and negative segments
	timestampAnomalies = promauto.NewCounter(prometheus.CounterOpts{
		Name: "browsetree_timestamp_anomalies_total",
		Help: "Events whose timestamp precedes the previous event of the node",
	})

	// documentDecodes counts tree reconstructions by form and result
	documentDecodes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "browsetree_document_decodes_total",
		Help: "Tree reconstructions from stored documents by form and result",
	}, []string{"form", "result"})
)
