package pkg

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
)

type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func NewKafkaProducer(cfg KafkaConfig) (*KafkaProducer, error) {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	return &KafkaProducer{writer: w, topic: cfg.Topic}, nil
}

func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// Send writes one message, retrying transient broker errors with exponential
// backoff before giving up.
func (p *KafkaProducer) Send(ctx context.Context, key string, value []byte) error {
	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
	}
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 15 * time.Second
	return backoff.Retry(func() error {
		return p.writer.WriteMessages(ctx, msg)
	}, backoff.WithContext(b, ctx))
}

func MakeKeyFromID(id uint64) string {
	return fmt.Sprintf("%d", id)
}
