package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// maxHandlerRetries is the maximum number of times a message handler will be
// attempted before the message is committed and skipped (poison pill protection).
const maxHandlerRetries = 3

// Handler is a function that processes a Kafka event.
type Handler func(ctx context.Context, event *Event) error

// ConsumerConfig holds Kafka consumer configuration.
type ConsumerConfig struct {
	Brokers  []string
	GroupID  string
	Topic    string
	MinBytes int
	MaxBytes int

	// EnableDLQ routes messages that exhaust all retries to a dead-letter
	// topic instead of silently dropping them.
	EnableDLQ bool
}

// Consumer wraps the kafka-go reader for consuming events.
type Consumer struct {
	reader    *kafka.Reader
	logger    *slog.Logger
	handler   Handler
	dlq       *DLQProducer
	closeOnce sync.Once
}

// NewConsumer creates a new Kafka consumer for a specific topic and group.
func NewConsumer(cfg ConsumerConfig, handler Handler, logger *slog.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: cfg.MinBytes,
		MaxBytes: cfg.MaxBytes,
	})

	var dlq *DLQProducer
	if cfg.EnableDLQ {
		dlq = NewDLQProducer(cfg.Brokers, logger)
	}

	return &Consumer{
		reader:  r,
		logger:  logger,
		handler: handler,
		dlq:     dlq,
	}
}

// Start begins consuming messages. It blocks until the context is canceled.
func (c *Consumer) Start(ctx context.Context) error {
	topic := c.reader.Config().Topic
	group := c.reader.Config().GroupID

	c.logger.Info("consumer started",
		slog.String("topic", topic),
		slog.String("group", group),
	)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer stopping", slog.String("topic", topic))
			return c.Close()
		default:
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				c.logger.Error("failed to fetch message", slog.String("error", err.Error()))
				continue
			}

			ConsumerMessagesReceived.WithLabelValues(topic, group).Inc()

			event, err := UnmarshalEvent(msg.Value)
			if err != nil {
				c.logger.Error("failed to unmarshal event",
					slog.String("error", err.Error()),
					slog.String("topic", msg.Topic),
				)
				c.publishToDLQ(ctx, msg, err, group)
				if commitErr := c.reader.CommitMessages(ctx, msg); commitErr != nil {
					c.logger.Error("failed to commit bad message", slog.String("error", commitErr.Error()))
				}
				continue
			}

			// Retry logic with exponential backoff.
			var lastErr error
			for attempt := 1; attempt <= maxHandlerRetries; attempt++ {
				start := time.Now()
				err := c.handler(ctx, event)
				ConsumerProcessingDuration.WithLabelValues(topic, group).Observe(time.Since(start).Seconds())
				if err == nil {
					lastErr = nil
					break
				}

				lastErr = err
				c.logger.Warn("handler failed, will retry",
					slog.String("event_type", event.EventType),
					slog.String("aggregate_id", event.AggregateID),
					slog.String("error", err.Error()),
					slog.String("topic", msg.Topic),
					slog.Int("partition", msg.Partition),
					slog.Int64("offset", msg.Offset),
					slog.Int("attempt", attempt),
					slog.Int("max_retries", maxHandlerRetries),
				)

				if attempt < maxHandlerRetries {
					backoff := time.Duration(attempt) * 100 * time.Millisecond
					select {
					case <-ctx.Done():
						return nil
					case <-time.After(backoff):
					}
				}
			}

			// If all retries failed, route to DLQ and commit so the
			// poison message does not block the partition.
			if lastErr != nil {
				ConsumerMessagesFailed.WithLabelValues(topic, group).Inc()
				c.logger.Error("handler failed after all retries, skipping poison message",
					slog.String("event_type", event.EventType),
					slog.String("aggregate_id", event.AggregateID),
					slog.String("error", lastErr.Error()),
					slog.String("topic", msg.Topic),
					slog.Int("partition", msg.Partition),
					slog.Int64("offset", msg.Offset),
					slog.Int("retries", maxHandlerRetries),
				)
				c.publishToDLQ(ctx, msg, lastErr, group)
				if commitErr := c.reader.CommitMessages(ctx, msg); commitErr != nil {
					c.logger.Error("failed to commit poison message", slog.String("error", commitErr.Error()))
				}
				continue
			}

			ConsumerMessagesProcessed.WithLabelValues(topic, group).Inc()

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("failed to commit message", slog.String("error", err.Error()))
			}
		}
	}
}

// publishToDLQ forwards a failed message to the dead-letter topic when DLQ
// routing is enabled. DLQ publish failures are logged but never block commit.
func (c *Consumer) publishToDLQ(ctx context.Context, msg kafka.Message, cause error, group string) {
	if c.dlq == nil {
		return
	}
	if err := c.dlq.Publish(ctx, msg, cause, group); err != nil {
		c.logger.Error("failed to publish to DLQ",
			slog.String("topic", msg.Topic),
			slog.String("error", err.Error()),
		)
		return
	}
	ConsumerDLQPublished.WithLabelValues(msg.Topic, group).Inc()
}

// Close closes the consumer. It is safe to call multiple times.
func (c *Consumer) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.reader.Close()
		if c.dlq != nil {
			if dlqErr := c.dlq.Close(); dlqErr != nil && err == nil {
				err = dlqErr
			}
		}
	})
	return err
}

// TopicPrefix is the standard prefix for all marketplace Kafka topics.
const TopicPrefix = "marketplace"

// Topic constructs a fully-qualified topic name.
func Topic(domain, action string) string {
	return fmt.Sprintf("%s.%s.%s", TopicPrefix, domain, action)
}
