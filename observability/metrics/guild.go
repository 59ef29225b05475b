// Package metrics exposes Prometheus collectors for the guild engine,
// registered once via sync.Once the way the rest of the observability
// stack guards its collector registration.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// GuildMetrics bundles the counters and gauges the node exposes for the
// proposal lifecycle and treasury.
type GuildMetrics struct {
	ProposalsSubmitted  prometheus.Counter
	ProposalsSponsored  prometheus.Counter
	ProposalsProcessed  *prometheus.CounterVec // label: passed={true,false}
	VotesCast           *prometheus.CounterVec // label: choice={yes,no}
	Ragequits           prometheus.Counter
	GuildBankBalance    prometheus.Gauge
	TotalShares         prometheus.Gauge
	TotalLoot           prometheus.Gauge
	DilutionBoundEvents prometheus.Counter
}

var (
	guildMetricsOnce sync.Once
	guildMetrics     *GuildMetrics
)

// NewGuildMetrics returns the process-wide GuildMetrics, registering its
// collectors with reg exactly once regardless of how many times it is
// called.
func NewGuildMetrics(reg prometheus.Registerer) *GuildMetrics {
	guildMetricsOnce.Do(func() {
		m := &GuildMetrics{
			ProposalsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "guildchain",
				Subsystem: "proposals",
				Name:      "submitted_total",
				Help:      "Total proposals submitted, standard and guild-kick.",
			}),
			ProposalsSponsored: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "guildchain",
				Subsystem: "proposals",
				Name:      "sponsored_total",
				Help:      "Total proposals moved into the voting queue.",
			}),
			ProposalsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "guildchain",
				Subsystem: "proposals",
				Name:      "processed_total",
				Help:      "Total proposals processed, labeled by pass/fail outcome.",
			}, []string{"passed"}),
			VotesCast: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "guildchain",
				Subsystem: "votes",
				Name:      "cast_total",
				Help:      "Total votes cast, labeled by choice.",
			}, []string{"choice"}),
			Ragequits: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "guildchain",
				Subsystem: "exit",
				Name:      "ragequits_total",
				Help:      "Total ragequit and rage-kick exits.",
			}),
			GuildBankBalance: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "guildchain",
				Subsystem: "treasury",
				Name:      "guild_bank_balance",
				Help:      "Current free balance of the guild_bank account.",
			}),
			TotalShares: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "guildchain",
				Subsystem: "supply",
				Name:      "total_shares",
				Help:      "Current total outstanding shares.",
			}),
			TotalLoot: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "guildchain",
				Subsystem: "supply",
				Name:      "total_loot",
				Help:      "Current total outstanding loot.",
			}),
			DilutionBoundEvents: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "guildchain",
				Subsystem: "proposals",
				Name:      "dilution_bound_exceeded_total",
				Help:      "Total times a passing vote was overridden by the dilution-bound check.",
			}),
		}
		reg.MustRegister(
			m.ProposalsSubmitted,
			m.ProposalsSponsored,
			m.ProposalsProcessed,
			m.VotesCast,
			m.Ragequits,
			m.GuildBankBalance,
			m.TotalShares,
			m.TotalLoot,
			m.DilutionBoundEvents,
		)
		guildMetrics = m
	})
	return guildMetrics
}
