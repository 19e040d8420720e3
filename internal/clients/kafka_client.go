package clients

import (
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

// KafkaProducer is a thin fire-and-forget producer for digest records.
type KafkaProducer struct {
	producer *kafka.Producer
}

func NewKafkaProducer(broker string) (*KafkaProducer, error) {
	slog.Info("[KafkaClient] Connecting to Kafka", slog.String("broker", broker))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":   broker,
		"security.protocol":   "PLAINTEXT",
		"api.version.request": "true",
		"acks":                "all",
		"go.delivery.reports": false,
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	slog.Info("[KafkaClient] Kafka Producer initialized")
	return &KafkaProducer{producer: p}, nil
}

func (kp *KafkaProducer) Produce(topic string, key, value []byte) error {
	err := kp.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            key,
		Value:          value,
	}, nil)
	if err != nil {
		return fmt.Errorf("[KafkaClient] produce to %s: %w", topic, err)
	}
	return nil
}

// Flush waits up to timeoutMs for queued messages and returns how many are
// still undelivered.
func (kp *KafkaProducer) Flush(timeoutMs int) int {
	return kp.producer.Flush(timeoutMs)
}

func (kp *KafkaProducer) Close() {
	kp.producer.Close()
	slog.Info("[KafkaClient] Kafka producer shut down")
}
