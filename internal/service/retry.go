package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mattf196/henrylabs-takehome/internal/correlation"
	"github.com/mattf196/henrylabs-takehome/internal/gateway"
)

// execute оборачивает одну логическую операцию шлюза (create или confirm)
// в ограниченный retry с экспоненциальным backoff и ожиданием deferred webhook.
// Всегда завершается ровно одним финальным Outcome:
//   - deferred: регистрация в реестре корреляций и ожидание webhook; его разрешение
//     (реальное или синтетический таймаут) возвращается в ту же точку принятия решения
//   - retry при оставшихся попытках: сон base*2^(attempt-1), затем повтор всего вызова
//   - fraud, успех или исчерпание попыток: финальный результат
//
// Fraud никогда не ретраится. Попытки строго последовательны.
func (s *CheckoutService) execute(
	ctx context.Context,
	kind correlation.Kind,
	call func(ctx context.Context, requestID string) (gateway.Outcome, error),
) gateway.Outcome {
	for attempt := 1; ; attempt++ {
		// Correlation id чеканится на каждую попытку и передаётся шлюзу:
		// deferred webhook вернётся с этим же id (кроме причуды confirm-success)
		requestID := uuid.NewString()

		out, err := call(ctx, requestID)
		if err != nil {
			// Транспортная ошибка сводится к временному сбою
			s.logger.Warn("gateway call failed",
				zap.String("kind", string(kind)),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			out = gateway.TransientOutcome("gateway call failed")
		}

		if out.Substatus == gateway.SubstatusDeferred {
			out = s.awaitWebhook(ctx, kind, requestID)
		}

		switch {
		case out.Substatus == gateway.SubstatusFraud:
			// Терминально и без повторов; сырой текст шлюза остаётся только в логах
			s.logger.Warn("gateway declined as fraud",
				zap.String("kind", string(kind)),
				zap.Int("attempt", attempt),
				zap.String("gateway_message", out.Message),
			)
			out.Message = GenericDeclineMessage
			return out

		case out.Substatus == gateway.SubstatusRetry && attempt < s.maxAttempts:
			delay := s.baseDelay * (1 << (attempt - 1))
			s.logger.Info("retrying gateway call",
				zap.String("kind", string(kind)),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
			)
			if !sleepCtx(ctx, delay) {
				return gateway.TransientOutcome("request cancelled")
			}

		default:
			if out.Substatus == gateway.SubstatusRetry {
				s.logger.Warn("retry budget exhausted",
					zap.String("kind", string(kind)),
					zap.Int("attempts", attempt),
				)
			}
			return out
		}
	}
}

// awaitWebhook регистрирует pending-корреляцию и блокируется до её разрешения
// Разрешение приходит либо от webhook-диспетчера, либо синтетическим
// retry-результатом по таймауту реестра
func (s *CheckoutService) awaitWebhook(ctx context.Context, kind correlation.Kind, requestID string) gateway.Outcome {
	ch, err := s.registry.Register(kind, requestID, s.webhookWait)
	if err != nil {
		s.logger.Error("failed to register correlation",
			zap.String("correlation_id", requestID),
			zap.Error(err),
		)
		return gateway.TransientOutcome("correlation registration failed")
	}

	s.logger.Info("awaiting webhook",
		zap.String("kind", string(kind)),
		zap.String("correlation_id", requestID),
	)

	select {
	case out := <-ch:
		return out
	case <-ctx.Done():
		// Запрос отменён клиентом: снимаем запись, чтобы не осталось висящего таймера
		s.registry.Resolve(requestID, gateway.TransientOutcome("request cancelled"))
		return gateway.TransientOutcome("request cancelled")
	}
}

// sleepCtx спит указанное время с учётом отмены контекста
// Возвращает false, если контекст отменён раньше
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
