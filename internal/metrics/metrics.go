package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var durationBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Metrics tracks membership and drop-off point activity.
type Metrics struct {
	InvitationsCreated   prometheus.Counter
	InvitationsAccepted  prometheus.Counter
	MembershipsRemoved   *prometheus.CounterVec
	DropOffPointsCreated prometheus.Counter
	DropOffPointsDeleted prometheus.Counter
	GeocodeFailures      prometheus.Counter
	GeocodeDuration      prometheus.Histogram
}

// New registers every metric with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		InvitationsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "dropoff_invitations_created_total",
			Help: "Total number of membership invitations sent",
		}),
		InvitationsAccepted: factory.NewCounter(prometheus.CounterOpts{
			Name: "dropoff_invitations_accepted_total",
			Help: "Total number of membership invitations accepted",
		}),
		MembershipsRemoved: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dropoff_memberships_removed_total",
			Help: "Total number of memberships removed, by the side that removed them",
		}, []string{"side"}),
		DropOffPointsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "dropoff_points_created_total",
			Help: "Total number of drop-off points created",
		}),
		DropOffPointsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "dropoff_points_deleted_total",
			Help: "Total number of drop-off points deleted",
		}),
		GeocodeFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "dropoff_geocode_failures_total",
			Help: "Total number of addresses that could not be geocoded",
		}),
		GeocodeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dropoff_geocode_duration_seconds",
			Help:    "Duration of address lookups against the geocoder",
			Buckets: durationBuckets,
		}),
	}
}

func (m *Metrics) IncrementInvitationsCreated() {
	if m == nil {
		return
	}
	m.InvitationsCreated.Inc()
}

func (m *Metrics) IncrementInvitationsAccepted() {
	if m == nil {
		return
	}
	m.InvitationsAccepted.Inc()
}

// IncrementMembershipsRemoved records a leave ("member") or revoke ("organization").
func (m *Metrics) IncrementMembershipsRemoved(side string) {
	if m == nil {
		return
	}
	m.MembershipsRemoved.WithLabelValues(side).Inc()
}

func (m *Metrics) IncrementDropOffPointsCreated() {
	if m == nil {
		return
	}
	m.DropOffPointsCreated.Inc()
}

func (m *Metrics) IncrementDropOffPointsDeleted() {
	if m == nil {
		return
	}
	m.DropOffPointsDeleted.Inc()
}

func (m *Metrics) IncrementGeocodeFailures() {
	if m == nil {
		return
	}
	m.GeocodeFailures.Inc()
}

// ObserveGeocode records the duration of a geocoder lookup.
// Call with time.Now() at the start of the lookup.
func (m *Metrics) ObserveGeocode(start time.Time) {
	if m == nil {
		return
	}
	m.GeocodeDuration.Observe(time.Since(start).Seconds())
}
