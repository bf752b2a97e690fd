package handler

import (
	"context"

	"encoding/json"

	"github.com/Astemirdum/lending-service/internal/model"
	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

type saveEvent func(ctx context.Context, eventType string, payload []byte) error

// Consumer writes every lending event from the topic into the audit table.
type Consumer struct {
	saveEventHandler saveEvent
	log              *zap.Logger
}

func NewConsumer(saveEvent saveEvent, log *zap.Logger) *Consumer {
	return &Consumer{
		saveEventHandler: saveEvent,
		log:              log.Named("consumer"),
	}
}

// Setup runs at the start of every session, including after a rebalance;
// it must stay safe to call repeatedly on the same handler.
func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
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
			var msg model.EventMsg
			if err := json.Unmarshal(message.Value, &msg); err != nil {
				consumer.log.Error("", zap.Error(err))
				session.MarkMessage(message, "")
				continue
			}

			if err := consumer.saveEventHandler(context.Background(), msg.EventType, message.Value); err != nil {
				consumer.log.Error("consumer.saveEventHandler", zap.Error(err))
				continue
			}

			consumer.log.Debug("Message claimed:", zap.String("value", string(message.Value)), zap.Time("timestamp", message.Timestamp), zap.String("topic", message.Topic))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
