package session

import (
	"context"
	"errors"
)

// ErrNetwork - сентинел локального сетевого сбоя
// Транспортный клиент оборачивает им любые fetch-ошибки; машина состояний
// показывает по нему общий призыв повторить попытку
var ErrNetwork = errors.New("network error")

// CreateRequest содержит данные запроса на создание checkout
type CreateRequest struct {
	Amount     float64
	Currency   string
	CustomerID string
}

// ConfirmRequest содержит данные запроса на подтверждение checkout
type ConfirmRequest struct {
	CheckoutID   string
	PaymentToken string
}

// Result отражает envelope ответа checkout-эндпоинтов сервера
type Result struct {
	Status         string
	Code           int
	Substatus      string
	Message        string
	CheckoutID     string
	ConfirmationID string
}

// Succeeded возвращает true для успешного ответа
func (r Result) Succeeded() bool {
	return r.Status == "success"
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=CheckoutAPI --dir=. --output=./mocks --outpkg=mocks

// CheckoutAPI определяет интерфейс вызовов checkout-сервера
// Ошибка возвращается только для локальных сетевых сбоев (ErrNetwork);
// все исходы шлюза выражены в Result
type CheckoutAPI interface {
	// CreateCheckout вызывает POST /checkout
	CreateCheckout(ctx context.Context, req CreateRequest) (Result, error)

	// ConfirmCheckout вызывает POST /checkout/confirm
	ConfirmCheckout(ctx context.Context, req ConfirmRequest) (Result, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=PaymentForm --dir=. --output=./mocks --outpkg=mocks

// PaymentForm определяет интерфейс встраиваемой формы захвата платежа шлюза
// Форма монтируется не более одного раза на checkoutId; завершение формы
// отдаёт платёжный токен через onToken
type PaymentForm interface {
	// Mount монтирует форму для указанного checkout
	Mount(ctx context.Context, checkoutID string, onToken func(token string)) error
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=Notifier --dir=. --output=./mocks --outpkg=mocks

// Notifier уведомляет пользователя об итоге checkout
type Notifier interface {
	// Success показывает уведомление об успешной оплате
	Success(message string)
}
