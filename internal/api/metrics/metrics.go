// Package metrics defines and registers the custom Prometheus metrics of the
// campus API. It is the single source of truth for metric names, labels, and
// help strings. promauto registers everything with the default registry at
// package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "campus"

// ── Referral workflow ────────────────────────────────────────────────────────

// ReferralsPostedTotal counts referrals created by alumni.
var ReferralsPostedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "referrals_posted_total",
		Help:      "Total number of referrals posted.",
	},
)

// ApplicationsTotal counts application state changes.
// Label:
//   - status: "pending" on submission, "accepted" or "rejected" on decision
var ApplicationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_total",
		Help:      "Total number of applications submitted or decided, by resulting status.",
	},
	[]string{"status"},
)

// ── Communities ──────────────────────────────────────────────────────────────

// CommunityJoinsTotal counts successful joins.
var CommunityJoinsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "community_joins_total",
		Help:      "Total number of community joins.",
	},
)

// PostLikesTotal counts like toggles.
// Label:
//   - action: "liked" or "unliked"
var PostLikesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "post_likes_total",
		Help:      "Total number of like toggles, by action.",
	},
	[]string{"action"},
)

// ── Identity ─────────────────────────────────────────────────────────────────

// LoginsTotal counts issued sessions.
// Label:
//   - provider: "password" or "google"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of sessions issued, by sign-in provider.",
	},
	[]string{"provider"},
)

// RoleAssignmentsTotal counts admin role changes.
// Label:
//   - role: the role assigned
var RoleAssignmentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_assignments_total",
		Help:      "Total number of role assignments, by role.",
	},
	[]string{"role"},
)

// ── Errors ───────────────────────────────────────────────────────────────────

// ErrorsTotal counts error responses.
// Label:
//   - code: the stable error code rendered to the client
var ErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "errors_total",
		Help:      "Total number of error responses, by error code.",
	},
	[]string{"code"},
)
