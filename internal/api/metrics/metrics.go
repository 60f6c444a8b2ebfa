// Package metrics defines and registers the custom Prometheus metrics of the
// marketplace API. It is the single source of truth for metric names, labels
// and help strings.
//
// Metrics are registered with the default registry on package load; HTTP
// request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Lifecycle metrics ────────────────────────────────────────────────────────

// LifecycleEventsTotal counts delivered lifecycle events.
// Label:
//   - kind: e.g. "meal.donated", "meal.reserved", "campaign.toggled"
var LifecycleEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lifecycle_events_total",
		Help:      "Total number of marketplace lifecycle events, by kind.",
	},
	[]string{"kind"},
)

// PointsAwardedTotal sums reward points credited to users.
// Label:
//   - kind: "meal.donated" (donor credit) or "meal.completed" (pickup credit)
var PointsAwardedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "points_awarded_total",
		Help:      "Total reward points credited, by the event that earned them.",
	},
	[]string{"kind"},
)

// EventsDroppedTotal counts events rejected because a dispatcher shard was full.
var EventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dropped_total",
		Help:      "Total number of lifecycle events dropped by a full dispatcher queue.",
	},
)
