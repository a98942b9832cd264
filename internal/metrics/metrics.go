package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fleetwatch/internal/events"
)

var (
	MachinesTracked = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleetwatch_machines_tracked",
		Help: "Number of machines known to the registry",
	})

	MachinesByStatus = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fleetwatch_machines_by_status",
		Help: "Number of machines currently in the given liveness status",
	}, []string{"status"})

	ReportsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fleetwatch_reports_total",
		Help: "Total full reports ingested",
	})

	DecodeErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetwatch_decode_errors_total",
		Help: "Messages dropped due to decode failure",
	}, []string{"kind"})

	OfflineTransitionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fleetwatch_offline_transitions_total",
		Help: "Machines transitioned to offline by sweep or status update",
	})

	OnlineTransitionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fleetwatch_online_transitions_total",
		Help: "Machines transitioned back to online",
	})
)

func init() {
	prometheus.MustRegister(
		MachinesTracked,
		MachinesByStatus,
		ReportsTotal,
		DecodeErrorsTotal,
		OfflineTransitionsTotal,
		OnlineTransitionsTotal,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Lister is the registry view the gauge refresher needs.
type Lister interface {
	Len() int
	StatusCounts() map[string]int
}

// RegisterEventHandler wires metric updates to the event emitter. Gauges are
// refreshed from the registry on every event, so they stay current as long
// as anything is happening; counters track the individual transitions.
func RegisterEventHandler(emitter *events.Emitter, reg Lister) {
	emitter.OnEvent(func(ev events.Event) {
		switch ev.Type {
		case events.MachineReported:
			ReportsTotal.Inc()
		case events.MachineOnline:
			OnlineTransitionsTotal.Inc()
		case events.MachineOffline:
			OfflineTransitionsTotal.Inc()
		case events.DecodeFailed:
			DecodeErrorsTotal.WithLabelValues(ev.Fields["kind"]).Inc()
		}

		MachinesTracked.Set(float64(reg.Len()))
		counts := reg.StatusCounts()
		for _, status := range []string{"online", "offline", "unknown"} {
			MachinesByStatus.WithLabelValues(status).Set(float64(counts[status]))
		}
	})
}
