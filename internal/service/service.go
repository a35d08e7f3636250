package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mattf196/henrylabs-takehome/internal/correlation"
	"github.com/mattf196/henrylabs-takehome/internal/currency"
	"github.com/mattf196/henrylabs-takehome/internal/gateway"
)

// GenericDeclineMessage - фиксированный текст для fraud-отказов
// Детали фрод-решения наружу не раскрываются: это утечка безопасности, а не UX-пробел
const GenericDeclineMessage = "Your payment was declined. Please try a different payment method."

// Config содержит настройки оркестрации checkout
type Config struct {
	// WebhookWaitTimeout - бюджет ожидания deferred webhook (default 10s)
	WebhookWaitTimeout time.Duration
	// MaxAttempts - общий лимит попыток вызова шлюза (default 3)
	MaxAttempts int
	// BaseDelay - базовая задержка backoff: base * 2^(attempt-1) (default 500ms)
	BaseDelay time.Duration
}

// CheckoutService содержит бизнес-логику оркестрации checkout
// Превращает ненадёжный, иногда отложенный вызов шлюза в один когерентный
// request/response контракт с ограниченной задержкой и безопасными повторами
type CheckoutService struct {
	logger    *zap.Logger
	gw        gateway.Gateway
	registry  *correlation.Registry
	publisher EventPublisher

	webhookWait time.Duration
	maxAttempts int
	baseDelay   time.Duration
}

// NewCheckoutService создаёт новый экземпляр CheckoutService
// Принимает интерфейсы как зависимости - шлюз и publisher подменяются моками в тестах
func NewCheckoutService(
	logger *zap.Logger,
	gw gateway.Gateway,
	registry *correlation.Registry,
	publisher EventPublisher,
	cfg Config,
) *CheckoutService {
	if cfg.WebhookWaitTimeout <= 0 {
		cfg.WebhookWaitTimeout = 10 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 500 * time.Millisecond
	}
	return &CheckoutService{
		logger:      logger,
		gw:          gw,
		registry:    registry,
		publisher:   publisher,
		webhookWait: cfg.WebhookWaitTimeout,
		maxAttempts: cfg.MaxAttempts,
		baseDelay:   cfg.BaseDelay,
	}
}

// CreateCheckoutInput содержит входные данные для создания checkout
type CreateCheckoutInput struct {
	Amount     float64
	Currency   string
	CustomerID string
}

// CreateCheckout создаёт checkout в шлюзе
// Сумма приводится к settlement-валюте до вызова шлюза; ошибка возвращается
// только для невалидного входа, всё остальное выражается в Outcome
func (s *CheckoutService) CreateCheckout(ctx context.Context, input CreateCheckoutInput) (gateway.Outcome, error) {
	if input.Amount <= 0 {
		return gateway.Outcome{}, fmt.Errorf("invalid amount: must be greater than 0")
	}
	if input.CustomerID == "" {
		return gateway.Outcome{}, fmt.Errorf("customerId is required")
	}
	if !currency.Supported(input.Currency) {
		return gateway.Outcome{}, fmt.Errorf("unsupported currency: %s", input.Currency)
	}

	amount, err := currency.Convert(input.Amount, input.Currency, currency.SettlementCurrency)
	if err != nil {
		return gateway.Outcome{}, err
	}

	s.logger.Info("creating checkout",
		zap.String("customer_id", input.CustomerID),
		zap.Float64("amount", input.Amount),
		zap.String("currency", input.Currency),
		zap.Float64("settlement_amount", amount),
	)

	out := s.execute(ctx, correlation.KindCreate, func(ctx context.Context, requestID string) (gateway.Outcome, error) {
		return s.gw.Create(ctx, gateway.CreateRequest{
			RequestID:  requestID,
			Amount:     amount,
			Currency:   currency.SettlementCurrency,
			CustomerID: input.CustomerID,
		})
	})

	s.logger.Info("checkout create finished",
		zap.String("customer_id", input.CustomerID),
		zap.String("status", string(out.Status)),
		zap.String("substatus", string(out.Substatus)),
		zap.String("checkout_id", out.CheckoutID),
	)
	return out, nil
}

// ConfirmCheckoutInput содержит входные данные для подтверждения checkout
type ConfirmCheckoutInput struct {
	CheckoutID   string
	PaymentToken string
}

// ConfirmCheckout подтверждает checkout платёжным токеном
// Терминальный результат дополнительно публикуется как событие жизненного цикла;
// ошибка публикации логируется и никогда не влияет на ответ клиенту
func (s *CheckoutService) ConfirmCheckout(ctx context.Context, input ConfirmCheckoutInput) (gateway.Outcome, error) {
	if input.CheckoutID == "" {
		return gateway.Outcome{}, fmt.Errorf("checkoutId is required")
	}
	if input.PaymentToken == "" {
		return gateway.Outcome{}, fmt.Errorf("paymentToken is required")
	}

	s.logger.Info("confirming checkout", zap.String("checkout_id", input.CheckoutID))

	out := s.execute(ctx, correlation.KindConfirm, func(ctx context.Context, requestID string) (gateway.Outcome, error) {
		return s.gw.Confirm(ctx, gateway.ConfirmRequest{
			RequestID:    requestID,
			CheckoutID:   input.CheckoutID,
			PaymentToken: input.PaymentToken,
		})
	})

	s.publishConfirmOutcome(ctx, input.CheckoutID, out)

	s.logger.Info("checkout confirm finished",
		zap.String("checkout_id", input.CheckoutID),
		zap.String("status", string(out.Status)),
		zap.String("substatus", string(out.Substatus)),
		zap.String("confirmation_id", out.ConfirmationID),
	)
	return out, nil
}

// publishConfirmOutcome публикует событие по терминальному исходу подтверждения
func (s *CheckoutService) publishConfirmOutcome(ctx context.Context, checkoutID string, out gateway.Outcome) {
	var err error
	switch {
	case out.IsSuccess() && out.ConfirmationID != "":
		err = s.publisher.PublishCheckoutCompleted(ctx, CheckoutCompletedEvent{
			CheckoutID:     checkoutID,
			ConfirmationID: out.ConfirmationID,
		})
	case out.Substatus == gateway.SubstatusFraud:
		err = s.publisher.PublishCheckoutDeclined(ctx, CheckoutDeclinedEvent{
			CheckoutID: checkoutID,
			Reason:     "fraud",
		})
	case out.Status == gateway.StatusFailed:
		err = s.publisher.PublishCheckoutDeclined(ctx, CheckoutDeclinedEvent{
			CheckoutID: checkoutID,
			Reason:     "gateway_failure",
		})
	}
	if err != nil {
		s.logger.Error("failed to publish checkout event",
			zap.String("checkout_id", checkoutID),
			zap.Error(err),
		)
	}
}

// Shutdown дренирует реестр корреляций: все подвешенные запросы получают
// синтетический retry-результат вместо вечного ожидания
func (s *CheckoutService) Shutdown(ctx context.Context) error {
	drained := s.registry.Drain(gateway.TransientOutcome("service is shutting down"))
	if drained > 0 {
		s.logger.Info("pending correlations drained on shutdown", zap.Int("count", drained))
	}
	return nil
}
