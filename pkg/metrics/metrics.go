// Package metrics holds the Prometheus collectors updated by the relay:
//
//	relay_alerts_total{instrument,outcome}  alerts by decision outcome
//	relay_orders_total{kind,result}         broker submissions (entry|close|cancel)
//	relay_reconcile_clears_total            positions cleared after broker-side exits
//	relay_position_open                     1 while a position is tracked
//	relay_live_mode                         1 while live trading is enabled
//
// Collectors are registered in init() and served at /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	Alerts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_alerts_total",
			Help: "Webhook alerts split by instrument and outcome",
		},
		[]string{"instrument", "outcome"},
	)

	Orders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_orders_total",
			Help: "Broker submissions split by kind and result",
		},
		[]string{"kind", "result"},
	)

	ReconcileClears = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_reconcile_clears_total",
			Help: "Tracked positions cleared because the broker reported none",
		},
	)

	PositionOpen = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_position_open",
			Help: "1 while a position is tracked, 0 otherwise",
		},
	)

	LiveMode = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_live_mode",
			Help: "1 while live trading is enabled, 0 otherwise",
		},
	)
)

func init() {
	prometheus.MustRegister(Alerts, Orders, ReconcileClears, PositionOpen, LiveMode)
}

// BoolGauge converts a flag into a gauge value.
func BoolGauge(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
