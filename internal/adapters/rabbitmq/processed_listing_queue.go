package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/KvizadSaderah/bg-real-estate-finder/internal/core/domain"
	"github.com/KvizadSaderah/bg-real-estate-finder/pkg/rabbitmq/rabbitmq_producer"
)

// RabbitMQProcessedListingQueueAdapter публикует готовые записи в обменник,
// чтобы внешние потребители (например, сервис хранения) могли их подхватить.
// Реализует ListingSinkPort.
type RabbitMQProcessedListingQueueAdapter struct {
	producer   *rabbitmq_producer.Publisher
	routingKey string
}

// NewRabbitMQProcessedListingQueueAdapter создает новый экземпляр
func NewRabbitMQProcessedListingQueueAdapter(producer *rabbitmq_producer.Publisher, routingKey string) (*RabbitMQProcessedListingQueueAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("routingKey cannot be empty")
	}
	return &RabbitMQProcessedListingQueueAdapter{
		producer:   producer,
		routingKey: routingKey,
	}, nil
}

// Save отправляет ListingRecord в очередь
func (a *RabbitMQProcessedListingQueueAdapter) Save(ctx context.Context, record domain.ListingRecord) error {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal listing record to JSON for URL %s: %w", record.URL, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         recordJSON,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return a.producer.Publish(publishCtx, a.routingKey, msg)
}

// Close — producer принадлежит приложению и закрывается им.
func (a *RabbitMQProcessedListingQueueAdapter) Close() error {
	return nil
}
