package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	interfaces "github.com/sheikh-saqib/commission-ledger/internal/interfaces"
)

const eventTypeHeader = "event_type"

type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic, compression string) (*Publisher, error) {
	codec, err := parseCompression(compression)
	if err != nil {
		return nil, err
	}

	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{}, // keeps every event of one sale on one partition
			Compression:  codec,
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 10 * time.Second,
		},
	}, nil
}

func (p *Publisher) Publish(ctx context.Context, key string, event any) error {
	msg, err := buildMessage(key, event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func buildMessage(key string, event any) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode event: %w", err)
	}

	msg := kafka.Message{
		Value: data,
		Headers: []kafka.Header{
			{Key: eventTypeHeader, Value: []byte(eventType(event))},
		},
	}
	if key != "" {
		msg.Key = []byte(key)
	}
	return msg, nil
}

// eventType turns events.SaleRegistered into "SaleRegistered".
func eventType(event any) string {
	name := fmt.Sprintf("%T", event)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimPrefix(name, "*")
}

func parseCompression(name string) (kafka.Compression, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return 0, nil
	case "gzip":
		return kafka.Gzip, nil
	case "snappy":
		return kafka.Snappy, nil
	case "lz4":
		return kafka.Lz4, nil
	case "zstd":
		return kafka.Zstd, nil
	default:
		return 0, fmt.Errorf("unsupported kafka compression %q", name)
	}
}

var _ interfaces.EventPublisher = (*Publisher)(nil)
