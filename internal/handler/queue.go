package handler

import (
	"encoding/json"

	"github.com/Astemirdum/lending-service/internal/service"
	"github.com/Astemirdum/lending-service/pkg/circuit_breaker"
	"github.com/IBM/sarama"
)

// NewEnqueuer wraps the kafka producer behind the circuit breaker so a
// broker outage degrades event publishing instead of hammering it.
func NewEnqueuer(producer sarama.SyncProducer, cb circuit_breaker.CircuitBreaker) service.EventPublisher {
	return &enqueuerImpl{
		producer: producer,
		cb:       cb,
	}
}

type enqueuerImpl struct {
	producer sarama.SyncProducer
	cb       circuit_breaker.CircuitBreaker
}

func (q *enqueuerImpl) Enqueue(topic string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{Topic: topic, Value: sarama.StringEncoder(data)}
	return q.cb.Call(func() error {
		_, _, err := q.producer.SendMessage(msg)
		return err
	})
}
