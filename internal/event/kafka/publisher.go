package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/mattf196/henrylabs-takehome/internal/service"
)

// CheckoutEventPublisher реализует service.EventPublisher используя Kafka
type CheckoutEventPublisher struct {
	logger *zap.Logger
	writer *kafka.Writer
	topic  string
}

// NewCheckoutEventPublisher создаёт новый Kafka publisher событий checkout
func NewCheckoutEventPublisher(logger *zap.Logger, brokers []string, topic string) *CheckoutEventPublisher {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &CheckoutEventPublisher{
		logger: logger,
		writer: writer,
		topic:  topic,
	}
}

// Close закрывает Kafka writer
func (p *CheckoutEventPublisher) Close() error {
	return p.writer.Close()
}

// PublishCheckoutCompleted публикует событие успешно подтверждённого checkout
func (p *CheckoutEventPublisher) PublishCheckoutCompleted(ctx context.Context, event service.CheckoutCompletedEvent) error {
	payload := map[string]interface{}{
		"event_id":        uuid.New().String(),
		"event_type":      "checkout.completed",
		"event_version":   1,
		"occurred_at":     time.Now().UTC().Format(time.RFC3339),
		"checkout_id":     event.CheckoutID,
		"confirmation_id": event.ConfirmationID,
	}
	return p.publish(ctx, event.CheckoutID, payload)
}

// PublishCheckoutDeclined публикует событие терминально отклонённого checkout
// Reason - корзина таксономии, без деталей фрод-решения
func (p *CheckoutEventPublisher) PublishCheckoutDeclined(ctx context.Context, event service.CheckoutDeclinedEvent) error {
	payload := map[string]interface{}{
		"event_id":      uuid.New().String(),
		"event_type":    "checkout.declined",
		"event_version": 1,
		"occurred_at":   time.Now().UTC().Format(time.RFC3339),
		"checkout_id":   event.CheckoutID,
		"reason":        event.Reason,
	}
	return p.publish(ctx, event.CheckoutID, payload)
}

// publish сериализует payload и отправляет сообщение с ключом checkoutID
func (p *CheckoutEventPublisher) publish(ctx context.Context, checkoutID string, payload map[string]interface{}) error {
	valueBytes, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("failed to marshal checkout event",
			zap.Error(err),
			zap.String("checkout_id", checkoutID),
		)
		return err
	}

	message := kafka.Message{
		Key:   []byte(checkoutID),
		Value: valueBytes,
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		p.logger.Error("failed to publish checkout event",
			zap.Error(err),
			zap.String("topic", p.topic),
			zap.String("checkout_id", checkoutID),
		)
		return err
	}

	p.logger.Info("checkout event published",
		zap.String("topic", p.topic),
		zap.String("checkout_id", checkoutID),
		zap.String("event_type", payload["event_type"].(string)),
	)
	return nil
}
