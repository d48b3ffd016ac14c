// Package metrics exposes Prometheus collectors for the builder core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BuildsStarted counts successful build admissions.
	BuildsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "base43_builds_started_total",
		Help: "Number of build sessions started.",
	})

	// BuildsCompleted counts sessions reaching the completed state.
	BuildsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "base43_builds_completed_total",
		Help: "Number of build sessions that reached completion.",
	})

	// BuildsCancelled counts cancelled sessions.
	BuildsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "base43_builds_cancelled_total",
		Help: "Number of build sessions cancelled by the user.",
	})

	// BuildsRejected counts rejected admissions by reason
	// (quota, locked).
	BuildsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "base43_builds_rejected_total",
		Help: "Number of build requests rejected at admission.",
	}, []string{"reason"})

	// ChatRequests counts completion API calls by outcome.
	ChatRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "base43_chat_requests_total",
		Help: "Number of chat completion requests.",
	}, []string{"outcome"})
)
