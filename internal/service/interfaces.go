package service

import "context"

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=EventPublisher --dir=. --output=./mocks --outpkg=mocks

// EventPublisher определяет интерфейс публикации событий жизненного цикла checkout
// Service зависит от интерфейса, а не от конкретного брокера - в тестах его подменяет мок
type EventPublisher interface {
	// PublishCheckoutCompleted публикует событие успешно завершённого checkout
	PublishCheckoutCompleted(ctx context.Context, event CheckoutCompletedEvent) error

	// PublishCheckoutDeclined публикует событие отклонённого checkout
	PublishCheckoutDeclined(ctx context.Context, event CheckoutDeclinedEvent) error
}

// CheckoutCompletedEvent содержит данные успешно подтверждённого checkout
type CheckoutCompletedEvent struct {
	CheckoutID     string
	ConfirmationID string
}

// CheckoutDeclinedEvent содержит данные терминально отклонённого checkout
type CheckoutDeclinedEvent struct {
	CheckoutID string
	// Reason - корзина таксономии ошибок: "fraud" или "gateway_failure".
	// Детали фрод-решения наружу не публикуются.
	Reason string
}

// NoopEventPublisher - заглушка для окружений без брокера (KAFKA_BROKERS не задан)
type NoopEventPublisher struct{}

// PublishCheckoutCompleted ничего не делает
func (NoopEventPublisher) PublishCheckoutCompleted(ctx context.Context, event CheckoutCompletedEvent) error {
	return nil
}

// PublishCheckoutDeclined ничего не делает
func (NoopEventPublisher) PublishCheckoutDeclined(ctx context.Context, event CheckoutDeclinedEvent) error {
	return nil
}
