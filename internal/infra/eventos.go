package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

const (
	EventoPedidoCreado            = "pedido_creado"
	EventoPedidoEstadoActualizado = "pedido_estado_actualizado"
	EventoPedidoEliminado         = "pedido_eliminado"
)

// Evento is the envelope written to the order topic. Key is the order id so
// every event of one order lands on the same partition.
type Evento struct {
	Tipo    string    `json:"tipo"`
	Key     string    `json:"-"`
	Emitido time.Time `json:"emitido"`
	Payload any       `json:"payload"`
}

// EventPublisher publishes domain events. Publishing is best effort: callers
// log failures and never roll back the business write.
type EventPublisher interface {
	Publicar(ctx context.Context, ev Evento) error
	Close() error
}

// NewEventPublisher returns a Kafka-backed publisher, or a log-only publisher
// when no brokers are configured.
func NewEventPublisher(brokers []string, topic string) EventPublisher {
	if len(brokers) == 0 {
		return logPublisher{}
	}
	return &kafkaPublisher{
		topic: topic,
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			WriteTimeout:           5 * time.Second,
			AllowAutoTopicCreation: true,
		},
	}
}

type kafkaPublisher struct {
	topic string
	w     *kafka.Writer
}

func (p *kafkaPublisher) Publicar(ctx context.Context, ev Evento) error {
	if ev.Emitido.IsZero() {
		ev.Emitido = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(ev.Key),
		Value: data,
		Headers: []kafka.Header{
			{Key: "tipo", Value: []byte(ev.Tipo)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write %s to %s: %w", ev.Tipo, p.topic, err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error { return p.w.Close() }

type logPublisher struct{}

func (logPublisher) Publicar(_ context.Context, ev Evento) error {
	log.Debug().Str("tipo", ev.Tipo).Str("key", ev.Key).Msg("evento (kafka deshabilitado)")
	return nil
}

func (logPublisher) Close() error { return nil }
