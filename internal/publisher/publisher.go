// Package publisher sends closed blocks to Kafka for the downstream
// ingester.
package publisher

import (
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/sirupsen/logrus"
)

const (
	DefaultKafkaBroker = "localhost:9092"
	DefaultKafkaTopic  = "blockflow_blocks"
)

// Config holds the producer settings.
type Config struct {
	Broker string
	Topic  string
}

// Publisher wraps a Kafka producer. Delivery failures are reported
// asynchronously on the producer event channel.
type Publisher struct {
	producer *kafka.Producer
	topic    string
	logger   *logrus.Logger
}

// NewPublisher creates the producer and starts the delivery report loop.
func NewPublisher(cfg Config, logger *logrus.Logger) (*Publisher, error) {
	config := kafka.ConfigMap{
		"bootstrap.servers": cfg.Broker,
	}

	producer, err := kafka.NewProducer(&config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	p := &Publisher{
		producer: producer,
		topic:    cfg.Topic,
		logger:   logger,
	}
	p.startDeliveryReport()

	logger.Info("Kafka producer initialized successfully")
	return p, nil
}

// startDeliveryReport drains the producer event channel and logs failed
// deliveries.
func (p *Publisher) startDeliveryReport() {
	go func() {
		for e := range p.producer.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					p.logger.Errorf("Message delivery failed: %v", ev.TopicPartition.Error)
				}
			}
		}
	}()
}

// Publish sends one block message, keyed by symbol so a symbol's blocks stay
// ordered within a partition.
func (p *Publisher) Publish(msg BlockMessage) error {
	payload, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode block message: %w", err)
	}

	topic := p.topic
	return p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(msg.Symbol),
		Value:          payload,
	}, nil)
}

// Close flushes outstanding messages and shuts the producer down.
func (p *Publisher) Close() {
	if p.producer != nil {
		p.producer.Flush(5000)
		p.producer.Close()
		p.logger.Info("Kafka producer closed")
	}
}
