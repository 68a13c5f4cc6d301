package metrics

import (
	"time"
)

type MongoOperation string

const (
	MongoOpFind       MongoOperation = "find"
	MongoOpInsert     MongoOperation = "insert"
	MongoOpUpdate     MongoOperation = "update"
	MongoOpDelete     MongoOperation = "delete"
	MongoOpUpdateMany MongoOperation = "update_many"
	MongoOpCount      MongoOperation = "count"
)

// MongoTimer измеряет длительность одной операции MongoDB
type MongoTimer struct {
	service    string
	operation  MongoOperation
	collection string
	start      time.Time
}

func NewMongoTimer(service string, op MongoOperation, collection string) *MongoTimer {
	return &MongoTimer{
		service:    service,
		operation:  op,
		collection: collection,
		start:      time.Now(),
	}
}

func (mt *MongoTimer) ObserveDuration() {
	duration := time.Since(mt.start).Seconds()
	MongoOperationDuration.WithLabelValues(mt.service, string(mt.operation), mt.collection).Observe(duration)
}

func RecordMongoError(service string, op MongoOperation) {
	MongoErrors.WithLabelValues(service, string(op)).Inc()
}

func RecordCacheHit(service, keyPrefix string) {
	RedisCacheHits.WithLabelValues(service, keyPrefix).Inc()
}

func RecordCacheMiss(service, keyPrefix string) {
	RedisCacheMisses.WithLabelValues(service, keyPrefix).Inc()
}

func RecordRedisError(service, operation string) {
	RedisErrors.WithLabelValues(service, operation).Inc()
}

func RecordKafkaMessageProduced(service, topic string, duration time.Duration) {
	KafkaMessagesProduced.WithLabelValues(service, topic).Inc()
	KafkaProduceDuration.WithLabelValues(service, topic).Observe(duration.Seconds())
}

func RecordKafkaError(service, topic, operation string) {
	KafkaErrors.WithLabelValues(service, topic, operation).Inc()
}

// KafkaProduceTimer измеряет отправку одного сообщения
type KafkaProduceTimer struct {
	service string
	topic   string
	start   time.Time
}

func NewKafkaProduceTimer(service, topic string) *KafkaProduceTimer {
	return &KafkaProduceTimer{
		service: service,
		topic:   topic,
		start:   time.Now(),
	}
}

func (kt *KafkaProduceTimer) Success() {
	RecordKafkaMessageProduced(kt.service, kt.topic, time.Since(kt.start))
}

func (kt *KafkaProduceTimer) Error() {
	RecordKafkaError(kt.service, kt.topic, "produce")
}
