package changefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher is the publish side of the change feed.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Topic returns the Kafka topic carrying changes for a table.
func Topic(table string) string {
	return table + ".changes"
}

// KafkaPublisher writes one message per row change, keyed by row id so
// changes to the same row land on the same partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
			Async:        false,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("changefeed: marshal event: %w", err)
	}
	msg := kafka.Message{
		Topic: Topic(ev.Table),
		Key:   []byte(fmt.Sprint(ev.RowID)),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("changefeed: write message: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// HubPublisher dispatches straight into an in-process hub. Used when no
// broker is configured and by tests that inject a fake feed.
type HubPublisher struct {
	Hub *Hub
}

func (p *HubPublisher) Publish(_ context.Context, ev Event) error {
	p.Hub.Dispatch(ev)
	return nil
}

func (p *HubPublisher) Close() error { return nil }

// readRetryDelay paces retries while the broker is unreachable.
const readRetryDelay = time.Second

// Consumer reads change topics and dispatches events into the hub. The
// reader handles reconnection itself; missed events are not replayed.
type Consumer struct {
	readers []*kafka.Reader
	hub     *Hub
	log     *slog.Logger
}

func NewConsumer(brokers []string, groupID string, hub *Hub, log *slog.Logger, tables ...string) *Consumer {
	readers := make([]*kafka.Reader, 0, len(tables))
	for _, table := range tables {
		readers = append(readers, kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			GroupID:  groupID,
			Topic:    Topic(table),
			MinBytes: 1,
			MaxBytes: 10e6,
			MaxWait:  time.Second,
		}))
	}
	return &Consumer{readers: readers, hub: hub, log: log}
}

// Run blocks until ctx is cancelled, consuming every configured topic.
func (c *Consumer) Run(ctx context.Context) {
	for _, r := range c.readers {
		go c.consume(ctx, r.Config().Topic, r)
	}
	<-ctx.Done()
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

func (c *Consumer) consume(ctx context.Context, topic string, r messageReader) {
	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			c.log.Error("changefeed read failed", "topic", topic, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(readRetryDelay):
			}
			continue
		}

		var ev Event
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			c.log.Warn("changefeed: dropping malformed event", "topic", topic, "error", err)
			continue
		}
		c.hub.Dispatch(ev)
	}
}

func (c *Consumer) Close() error {
	var first error
	for _, r := range c.readers {
		if err := r.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
