package events

import (
	"context"
	"sync"
	"time"

	"github.com/fdg312/nutrition-hub/internal/config"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Operation names used as the second part of the routing key.
const (
	OpCreate  = "create"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpRestore = "restore"
	OpRepair  = "repair"
)

// Event describes one persisted change of an entity.
type Event struct {
	Kind   string    `json:"kind"`
	ID     uuid.UUID `json:"id"`
	Op     string    `json:"op"`
	Totals any       `json:"totals,omitempty"`
	At     time.Time `json:"at"`
}

// RoutingKey is "<kind>.<op>".
func (e Event) RoutingKey() string {
	return e.Kind + "." + e.Op
}

// Publisher delivers change events. Implementations never fail the caller:
// delivery problems are logged and dropped.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// NopPublisher only logs at debug level.
type NopPublisher struct {
	Logger logrus.FieldLogger
}

func (p NopPublisher) Publish(ctx context.Context, event Event) {
	if p.Logger != nil {
		p.Logger.WithFields(logrus.Fields{
			"entity": event.Kind,
			"id":     event.ID,
			"op":     event.Op,
		}).Debug("event not published (amqp disabled)")
	}
}

// New returns an AMQP publisher when AMQP_URL is set and reachable and a
// NopPublisher otherwise.
func New(cfg *config.Config, logger logrus.FieldLogger) Publisher {
	if cfg.AMQPURL == "" {
		logger.Info("events: amqp disabled (AMQP_URL not set)")
		return NopPublisher{Logger: logger}
	}

	pub, err := NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
	if err != nil {
		logger.WithError(err).Warn("events: amqp unavailable, fallback to no-op publisher")
		return NopPublisher{Logger: logger}
	}
	logger.WithField("exchange", cfg.AMQPExchange).Info("events: amqp publisher ready")
	return pub
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(ctx context.Context, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
