package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	bookingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Total bookings created",
		},
	)

	bookingConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_slot_conflicts_total",
			Help: "Booking attempts rejected because the slot was already taken",
		},
	)

	sweepItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweep_items_total",
			Help: "Sweep job items by outcome",
		},
		[]string{"job", "outcome"},
	)

	sweepRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweep_runs_total",
			Help: "Sweep job runs",
		},
		[]string{"job"},
	)
)

func BookingCreated()  { bookingsCreated.Inc() }
func BookingConflict() { bookingConflicts.Inc() }

func SweepRun(job string)           { sweepRuns.WithLabelValues(job).Inc() }
func SweepItem(job, outcome string) { sweepItems.WithLabelValues(job, outcome).Inc() }

// Handler exposes the metrics endpoint.
func Handler() http.Handler { return promhttp.Handler() }
