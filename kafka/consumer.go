package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"mediaengine/config"

	"github.com/IBM/sarama"
)

// MessageHandler processes one message value.
// A false mark (or an error) leaves the offset uncommitted so the message is redelivered.
type MessageHandler interface {
	HandleMessage(ctx context.Context, message []byte) (mark bool, err error)
}

// ConsumerConfig holds Kafka consumer configuration
type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	Handler MessageHandler
}

// Consumer reads one topic as a member of a consumer group
type Consumer struct {
	group   sarama.ConsumerGroup
	handler MessageHandler
	topic   string
	groupID string

	// retryBackoff is the pause after a failed session before consuming again
	retryBackoff time.Duration
}

// NewConsumer joins the consumer group described by cfg
func NewConsumer(cfg ConsumerConfig) (*Consumer, error) {
	if cfg.Handler == nil {
		return nil, errors.New("kafka consumer requires a message handler")
	}

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, newSaramaConfig())
	if err != nil {
		return nil, err
	}

	return &Consumer{
		group:        group,
		handler:      cfg.Handler,
		topic:        cfg.Topic,
		groupID:      cfg.GroupID,
		retryBackoff: config.ConsumeRetryBackoff,
	}, nil
}

func newSaramaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V3_6_0_0
	cfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	cfg.Consumer.Return.Errors = true
	return cfg
}

// Run consumes until ctx is cancelled. Rebalances restart the session.
func (c *Consumer) Run(ctx context.Context) error {
	go func() {
		for err := range c.group.Errors() {
			log.Printf("❌ Kafka consumer error: %v", err)
		}
	}()

	log.Printf("✅ Kafka consumer started (group: %s, topic: %s)", c.groupID, c.topic)
	session := &groupHandler{handler: c.handler}
	for {
		if err := c.group.Consume(ctx, []string{c.topic}, session); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) || errors.Is(err, context.Canceled) {
				return nil
			}
			log.Printf("Error from Kafka consumer: %v", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.retryBackoff):
			}
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// Close leaves the consumer group
func (c *Consumer) Close() error {
	log.Println("Closing Kafka consumer...")
	return c.group.Close()
}

// groupHandler implements sarama.ConsumerGroupHandler
type groupHandler struct {
	handler MessageHandler
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim hands each message to the handler and marks it when asked to
func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok || message == nil {
				return nil
			}

			log.Printf("📥 Received Kafka message: partition=%d, offset=%d, key=%s",
				message.Partition, message.Offset, string(message.Key))

			mark, err := h.handler.HandleMessage(session.Context(), message.Value)
			if err != nil {
				log.Printf("❌ Failed to handle message: %v", err)
			}
			if mark {
				session.MarkMessage(message, "")
			}

		case <-session.Context().Done():
			return nil
		}
	}
}

// TypedMessageHandler decodes JSON messages into T before processing
type TypedMessageHandler[T any] struct {
	// Validate rejects messages that should not be processed
	Validate func(msg *T) bool
	Process  func(ctx context.Context, msg *T) error
	// SkipInvalid marks undecodable or rejected messages so they are not redelivered
	SkipInvalid bool
}

// HandleMessage implements MessageHandler
func (h *TypedMessageHandler[T]) HandleMessage(ctx context.Context, message []byte) (bool, error) {
	var msg T
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Printf("❌ Failed to unmarshal message: %v", err)
		return h.SkipInvalid, nil
	}

	if h.Validate != nil && !h.Validate(&msg) {
		return h.SkipInvalid, nil
	}

	if err := h.Process(ctx, &msg); err != nil {
		return false, err
	}
	return true, nil
}
