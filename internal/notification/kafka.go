package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	kafkaGo "github.com/segmentio/kafka-go"
)

// KafkaPublisher writes notification events to a Kafka topic, keyed by
// order number so retries for one order stay in partition order.
type KafkaPublisher struct {
	writer *kafkaGo.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafkaGo.Writer{
			Addr:     kafkaGo.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafkaGo.LeastBytes{},
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafkaGo.Message{
		Key:   []byte(key),
		Value: payload,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Consume reads events from the topic and feeds them to handler. Handler
// errors are logged and the message is skipped; the loop exits when ctx is
// cancelled.
func Consume(ctx context.Context, brokers []string, topic, groupID string, handler func(Event) error) {
	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})
	defer reader.Close()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Printf("notification consumer shutting down")
				return
			}
			log.Printf("error reading notification message: %v", err)
			continue
		}

		var event Event
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Printf("skipping malformed notification event: %v", err)
			continue
		}
		if err := handler(event); err != nil {
			log.Printf("error handling %s for %s: %v", event.Type, event.OrderNumber, err)
		}
	}
}
