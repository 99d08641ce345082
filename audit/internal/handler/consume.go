package handler

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-ledger/pkg/kafka"
)

type storeEvent func(ctx context.Context, event kafka.LendingEvent) error

type Consumer struct {
	storeHandler storeEvent
	log          *zap.Logger
	ready        chan bool
}

func NewConsumer(store storeEvent, log *zap.Logger) *Consumer {
	return &Consumer{
		storeHandler: store,
		log:          log.Named("consumer"),
		ready:        make(chan bool),
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	// Mark the consumer as ready
	close(consumer.ready)
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			var event kafka.LendingEvent
			if err := json.Unmarshal(message.Value, &event); err != nil {
				consumer.log.Error("unmarshal lending event", zap.Error(err))
				session.MarkMessage(message, "")
				continue
			}

			// the message stays unmarked on a store failure so the broker
			// redelivers it; Store is idempotent on the event uid
			if err := consumer.storeHandler(context.Background(), event); err != nil {
				consumer.log.Error("consumer.storeHandler", zap.Error(err))
				continue
			}

			consumer.log.Debug("Message claimed:", zap.String("value", string(message.Value)), zap.Time("timestamp", message.Timestamp), zap.String("topic", message.Topic))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
