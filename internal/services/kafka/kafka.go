package kafka

import (
	"context"

	"github.com/iwtcode/bambuService/internal/config"
	"github.com/iwtcode/bambuService/internal/interfaces"

	"github.com/segmentio/kafka-go"
)

type KafkaProducer struct {
	writer *kafka.Writer
}

// NewKafkaProducer создает новый экземпляр продюсера Kafka
func NewKafkaProducer(cfg *config.AppConfig) (interfaces.TelemetryPublisher, error) {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Kafka.Broker),
		Topic:    cfg.Kafka.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &KafkaProducer{writer: writer}, nil
}

// Produce отправляет сообщение в Kafka
func (p *KafkaProducer) Produce(ctx context.Context, key, value []byte) error {
	return p.writer.WriteMessages(ctx,
		kafka.Message{
			Key:   key,
			Value: value,
		},
	)
}

// Close закрывает соединение с Kafka
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// NoopProducer используется при KAFKA_ENABLE=false.
type NoopProducer struct{}

func NewNoopProducer() interfaces.TelemetryPublisher {
	return &NoopProducer{}
}

func (p *NoopProducer) Produce(context.Context, []byte, []byte) error { return nil }

func (p *NoopProducer) Close() error { return nil }
