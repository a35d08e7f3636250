package gateway

import (
	"context"
	"net/http"
)

// Status представляет итоговый статус вызова платёжного шлюза
type Status string

const (
	// StatusSuccess - вызов завершился успешно
	StatusSuccess Status = "success"
	// StatusFailed - вызов завершился неудачей
	StatusFailed Status = "failed"
)

// Substatus уточняет причину результата и управляет ветвлением оркестрации
type Substatus string

const (
	// SubstatusNone - уточнения нет (обычный success или терминальная ошибка)
	SubstatusNone Substatus = ""
	// SubstatusDeferred - шлюз ответит позже через webhook
	SubstatusDeferred Substatus = "deferred"
	// SubstatusRetry - временный сбой, вызов можно безопасно повторить
	SubstatusRetry Substatus = "retry"
	// SubstatusFraud - платёж заблокирован как подозрение на фрод, повторять нельзя
	SubstatusFraud Substatus = "fraud"
)

// Outcome представляет нормализованный результат любого вызова шлюза
// Одна и та же форма используется для синхронных ответов и для webhook событий
type Outcome struct {
	Status         Status
	Substatus      Substatus
	HTTPCode       int
	Message        string
	CheckoutID     string
	ConfirmationID string
	// RequestID - correlation id, который шлюз вернул для этого вызова.
	// Для deferred ответов по нему позже сопоставляется webhook.
	RequestID string
}

// IsSuccess возвращает true для успешного терминального результата
func (o Outcome) IsSuccess() bool {
	return o.Status == StatusSuccess
}

// TransientOutcome возвращает синтетический retry-результат
// Используется когда транспортная ошибка или таймаут webhook сводятся к временному сбою
func TransientOutcome(message string) Outcome {
	return Outcome{
		Status:    StatusFailed,
		Substatus: SubstatusRetry,
		HTTPCode:  http.StatusServiceUnavailable,
		Message:   message,
	}
}

// CreateRequest содержит входные данные для создания checkout в шлюзе
type CreateRequest struct {
	// RequestID - correlation id, который сервер чеканит на каждую попытку вызова.
	// Шлюз обязан вернуть его в Outcome.RequestID и в deferred webhook (_reqId).
	RequestID  string
	Amount     float64
	Currency   string
	CustomerID string
}

// ConfirmRequest содержит входные данные для подтверждения checkout в шлюзе
type ConfirmRequest struct {
	RequestID    string
	CheckoutID   string
	PaymentToken string
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=Gateway --dir=. --output=./mocks --outpkg=mocks

// Gateway определяет capability-интерфейс платёжного шлюза
// Оркестратор зависит от этого интерфейса, а не от конкретного SDK -
// в тестах его подменяет мок, детерминированно отдающий deferred/retry/fraud/success
type Gateway interface {
	// Create создаёт checkout для указанной суммы
	Create(ctx context.Context, req CreateRequest) (Outcome, error)

	// Confirm подтверждает checkout платёжным токеном
	Confirm(ctx context.Context, req ConfirmRequest) (Outcome, error)
}

// WebhookEvent представляет входящее событие из out-of-band канала шлюза
type WebhookEvent struct {
	Type string           `json:"type"`
	Data WebhookEventData `json:"data"`
}

// WebhookEventData содержит полезную нагрузку webhook события
// Форма повторяет Outcome, плюс correlation id исходного вызова
type WebhookEventData struct {
	Status         string `json:"status"`
	Substatus      string `json:"substatus,omitempty"`
	ReqID          string `json:"_reqId,omitempty"`
	CheckoutID     string `json:"checkoutId,omitempty"`
	ConfirmationID string `json:"confirmationId,omitempty"`
	Message        string `json:"message,omitempty"`
}

// Типы webhook событий, которые шлюз доставляет на /webhooks
const (
	// EventCheckoutCreated - итог deferred вызова Create
	EventCheckoutCreated = "checkout.created"
	// EventCheckoutConfirmed - итог deferred вызова Confirm
	EventCheckoutConfirmed = "checkout.confirmed"
)
