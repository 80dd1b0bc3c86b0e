package services

import (
	"github.com/charmbracelet/log"
	"github.com/yukikurage/dropoff-point-api/internal/logging"
	"github.com/yukikurage/dropoff-point-api/internal/metrics"
)

type options struct {
	logger  *log.Logger
	metrics *metrics.Metrics
}

// Option configures a service.
type Option func(o *options)

func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func newOptions(opts []Option) options {
	o := options{logger: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
