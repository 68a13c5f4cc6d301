package util

import (
	"context"
	"fmt"
	"time"

	"elpro/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

const serviceName = "elpro"

// KafkaProducer обертка над Kafka writer для отправки событий
// Используется для событий ORDER_CREATED и изменений каталога
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaProducer создает новый Kafka producer
// brokers - список брокеров Kafka в формате ["host:port"]
func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:  kafka.TCP(brokers...),
		Topic: topic,
		// Балансировка по наименьшему количеству байт для равномерного распределения
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Second,
	}

	return &KafkaProducer{writer: writer, topic: topic}
}

// PublishMessage отправляет сообщение в Kafka
// key - используется для партиционирования (ID заказа или сущности каталога,
// чтобы события по одной сущности сохраняли порядок)
func (p *KafkaProducer) PublishMessage(ctx context.Context, key string, value []byte) error {
	message := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}

	timer := metrics.NewKafkaProduceTimer(serviceName, p.topic)
	if err := p.writer.WriteMessages(ctx, message); err != nil {
		timer.Error()
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}
	timer.Success()

	return nil
}

// Close закрывает Kafka writer и освобождает ресурсы
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
