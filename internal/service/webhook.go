package service

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/mattf196/henrylabs-takehome/internal/correlation"
	"github.com/mattf196/henrylabs-takehome/internal/gateway"
)

// HandleWebhook обрабатывает одно входящее событие шлюза
// События обрабатываются по одному; порядок между несвязанными сессиями не гарантирован.
// Первичное сопоставление - по _reqId события. Fallback - только для confirm-событий,
// чей id не совпал: шлюз чеканит новый id для успешных deferred confirm webhook'ов,
// поэтому выбирается первая pending confirm-запись (произвольная среди равных).
// Эвристика реализована ровно как задокументирована, вместе с её известной
// опасностью при двух одновременных подтверждениях.
// Несопоставленное событие - логируемый no-op, HTTP-слой всегда отвечает 200.
func (s *CheckoutService) HandleWebhook(ctx context.Context, event gateway.WebhookEvent) {
	out := outcomeFromEvent(event)

	if event.Data.ReqID != "" {
		if s.registry.Resolve(event.Data.ReqID, out) {
			s.logger.Info("webhook matched by correlation id",
				zap.String("type", event.Type),
				zap.String("correlation_id", event.Data.ReqID),
			)
			return
		}
	}

	if event.Type == gateway.EventCheckoutConfirmed {
		if id, ok := s.registry.ResolveFirst(correlation.KindConfirm, out); ok {
			s.logger.Info("webhook matched by confirm fallback",
				zap.String("type", event.Type),
				zap.String("event_req_id", event.Data.ReqID),
				zap.String("resolved_correlation_id", id),
			)
			return
		}
	}

	s.logger.Warn("webhook did not match any pending correlation",
		zap.String("type", event.Type),
		zap.String("req_id", event.Data.ReqID),
	)
}

// outcomeFromEvent нормализует полезную нагрузку webhook в Outcome
func outcomeFromEvent(event gateway.WebhookEvent) gateway.Outcome {
	out := gateway.Outcome{
		Status:         gateway.Status(event.Data.Status),
		Substatus:      gateway.Substatus(event.Data.Substatus),
		Message:        event.Data.Message,
		CheckoutID:     event.Data.CheckoutID,
		ConfirmationID: event.Data.ConfirmationID,
		RequestID:      event.Data.ReqID,
	}

	switch {
	case out.Substatus == gateway.SubstatusRetry:
		out.HTTPCode = http.StatusServiceUnavailable
	case out.Substatus == gateway.SubstatusFraud:
		out.HTTPCode = http.StatusPaymentRequired
	case out.IsSuccess():
		out.HTTPCode = http.StatusOK
	default:
		out.HTTPCode = http.StatusBadGateway
	}
	return out
}
