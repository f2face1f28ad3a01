package kafka

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/covid-tracker-service/internal/config"
	"github.com/couchcryptid/covid-tracker-service/internal/domain"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
)

// NationalKey is the scope segment used in message keys for national records.
const NationalKey = "US"

// Writer publishes ingested daily records to a Kafka topic.
// It implements pipeline.RecordPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
	clock  clockwork.Clock
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &scopeBalancer{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger, clock: clockwork.NewRealClock()}
}

// Publish writes one message per record in a single WriteMessages call. Keys
// are "<scope>|<date>"; partitioning uses the scope alone, so a region's days
// land on one partition in order.
func (w *Writer) Publish(ctx context.Context, feed string, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}
	ingestedAt := w.clock.Now().UTC()
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i], ingestedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %s records: %w", feed, err)
	}
	w.logger.Debug("records published", "feed", feed, "count", len(msgs), "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// scopeBalancer hashes only the scope part of a "<scope>|<date>" key.
type scopeBalancer struct {
	hash kafkago.Hash
}

func (b *scopeBalancer) Balance(msg kafkago.Message, partitions ...int) int {
	if scope, _, ok := bytes.Cut(msg.Key, []byte("|")); ok {
		msg.Key = scope
	}
	return b.hash.Balance(msg, partitions...)
}

func messageScope(r domain.Record) string {
	if r.State == domain.NationalScope {
		return NationalKey
	}
	return r.State
}

// serializeToMessage marshals a Record into a Kafka message.
func serializeToMessage(r domain.Record, ingestedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize daily record: %w", err)
	}
	scope := messageScope(r)
	return kafkago.Message{
		Key:   []byte(scope + "|" + r.Date.Format(time.DateOnly)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "scope", Value: []byte(scope)},
			{Key: "ingested_at", Value: []byte(ingestedAt.Format(time.RFC3339))},
		},
	}, nil
}
