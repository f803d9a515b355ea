// Package kafka publishes molecule lifecycle events.  Registration of a
// molecule emits one molecule.registered event; consumers downstream index
// or archive at their own pace.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/molgraph/internal/config"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/pkg/errors"
)

// EventMoleculeRegistered is the event type emitted after a successful
// Register.
const EventMoleculeRegistered = "molecule.registered"

// MoleculeEvent is the wire payload for molecule lifecycle events.
type MoleculeEvent struct {
	Type            string    `json:"type"`
	MoleculeID      string    `json:"molecule_id"`
	SMILES          string    `json:"smiles"`
	CanonicalSMILES string    `json:"canonical_smiles"`
	Formula         string    `json:"formula"`
	Weight          float64   `json:"weight"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// Publisher writes molecule events to a Kafka topic.
type Publisher struct {
	writer *kafka.Writer
	logger logging.Logger
}

// NewPublisher builds a Publisher from configuration.  The writer is lazy:
// no connection is made until the first publish.
func NewPublisher(cfg config.KafkaConfig, logger logging.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: cfg.BatchTimeout,
			WriteTimeout: cfg.WriteTimeout,
			RequiredAcks: kafka.RequireOne,
		},
		logger: logger.Named("kafka"),
	}
}

// Publish sends one event, keyed by molecule ID so per-molecule ordering is
// preserved across partitions.
func (p *Publisher) Publish(ctx context.Context, ev MoleculeEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "event encode failed")
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.MoleculeID),
		Value: data,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeMessagingError, "event publish failed").
			WithDetail("type=" + ev.Type)
	}
	p.logger.Debug("event published",
		logging.String("type", ev.Type),
		logging.String("molecule_id", ev.MoleculeID))
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
