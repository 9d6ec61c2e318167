// Package metrics exposes prometheus counters for entry lifecycle events.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EntriesRecorded counts created entry records by provenance.
	EntriesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lateentry_entries_recorded_total",
		Help: "Late entries recorded, by entry type.",
	}, []string{"entry_type"})

	// Decisions counts admin decisions by outcome.
	Decisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lateentry_decisions_total",
		Help: "Verification decisions, by outcome.",
	}, []string{"decision"})

	// NotificationsEmitted counts mailbox writes from entry transitions.
	NotificationsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lateentry_notifications_emitted_total",
		Help: "Notifications emitted by entry transitions.",
	})
)
