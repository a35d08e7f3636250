package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mattf196/henrylabs-takehome/internal/currency"
)

// Step представляет шаг checkout-сессии
type Step string

const (
	// StepIdle - сессия открыта, оплата не начата
	StepIdle Step = "idle"
	// StepCreating - отправлен create, ждём финального исхода
	StepCreating Step = "creating"
	// StepAwaitingPayment - checkout создан, форма ещё не смонтирована
	StepAwaitingPayment Step = "awaiting_payment"
	// StepAwaitingPaymentMounted - форма захвата платежа смонтирована.
	// Отдельный шаг вместо out-of-band флага "rendered": повторное монтирование
	// для того же checkoutId исключено самой машиной состояний.
	StepAwaitingPaymentMounted Step = "awaiting_payment_mounted"
	// StepConfirming - отправлен confirm с токеном формы
	StepConfirming Step = "confirming"
	// StepSucceeded - терминальный успех сессии
	StepSucceeded Step = "succeeded"
	// StepFailed - терминальная ошибка; выход только через Reset
	StepFailed Step = "failed"
)

// GenericDeclineMessage - фиксированный текст fraud-отказа
// Сырой текст шлюза пользователю не показывается никогда
const GenericDeclineMessage = "Your payment was declined. Please try a different payment method."

// NetworkErrorMessage - общий текст локального сетевого сбоя
const NetworkErrorMessage = "Network error. Please check your connection and try again."

// CartSnapshot - позиции корзины, замороженные в момент открытия checkout
// Settlement-сумма выводится из снапшота, а не пересчитывается из живой корзины
type CartSnapshot struct {
	Items []currency.LineItem
}

// SettlementTotal возвращает сумму снапшота в settlement-валюте
// Использует тот же Normalizer, что и сервер - суммы совпадают до цента
func (c CartSnapshot) SettlementTotal() (float64, error) {
	return currency.NormalizeCart(c.Items, currency.SettlementCurrency)
}

// Machine - машина состояний одной checkout-сессии
// Одна активная сессия за раз; все переходы происходят под мьютексом.
// "Try again" из Failed - это новая сессия с новым checkoutId, не резюме.
type Machine struct {
	logger   *zap.Logger
	api      CheckoutAPI
	form     PaymentForm
	notifier Notifier

	customerID string

	mu             sync.Mutex
	step           Step
	cart           CartSnapshot
	checkoutID     string
	confirmationID string
	errorMessage   string
}

// NewMachine создаёт машину состояний для указанного покупателя
func NewMachine(logger *zap.Logger, api CheckoutAPI, form PaymentForm, notifier Notifier, customerID string) *Machine {
	return &Machine{
		logger:     logger,
		api:        api,
		form:       form,
		notifier:   notifier,
		customerID: customerID,
		step:       StepIdle,
	}
}

// Open замораживает корзину и начинает сессию
func (m *Machine) Open(cart CartSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cart = cart
	m.step = StepIdle
}

// Pay запускает оплату: Idle → Creating → AwaitingPayment(+Mounted) либо Failed
// Монтирует встраиваемую форму захвата ровно один раз для полученного checkoutId
func (m *Machine) Pay(ctx context.Context) error {
	m.mu.Lock()
	if m.step != StepIdle {
		step := m.step
		m.mu.Unlock()
		return fmt.Errorf("cannot pay from step %s", step)
	}
	m.step = StepCreating
	cart := m.cart
	m.mu.Unlock()

	total, err := cart.SettlementTotal()
	if err != nil {
		m.fail(err.Error())
		return nil
	}

	res, err := m.api.CreateCheckout(ctx, CreateRequest{
		Amount:     total,
		Currency:   currency.SettlementCurrency,
		CustomerID: m.customerID,
	})
	if err != nil {
		m.logger.Warn("create checkout request failed", zap.Error(err))
		m.fail(NetworkErrorMessage)
		return nil
	}

	if !res.Succeeded() || res.CheckoutID == "" {
		m.fail(failureMessage(res))
		return nil
	}

	m.mu.Lock()
	if m.step != StepCreating {
		m.mu.Unlock()
		return nil
	}
	m.checkoutID = res.CheckoutID
	m.step = StepAwaitingPayment
	m.mu.Unlock()

	return m.mountForm(ctx, res.CheckoutID)
}

// mountForm монтирует форму захвата: AwaitingPayment → AwaitingPaymentMounted
// Переход выполняется до вызова Mount - второго монтирования для этого
// checkoutId не случится даже при конкурентном вызове
func (m *Machine) mountForm(ctx context.Context, checkoutID string) error {
	m.mu.Lock()
	if m.step != StepAwaitingPayment || m.checkoutID != checkoutID {
		m.mu.Unlock()
		return nil
	}
	m.step = StepAwaitingPaymentMounted
	m.mu.Unlock()

	return m.form.Mount(ctx, checkoutID, func(token string) {
		m.SubmitToken(ctx, token)
	})
}

// SubmitToken подтверждает checkout токеном формы: Mounted → Confirming → {Succeeded|Failed}
func (m *Machine) SubmitToken(ctx context.Context, token string) {
	m.mu.Lock()
	if m.step != StepAwaitingPaymentMounted {
		step := m.step
		m.mu.Unlock()
		m.logger.Warn("token submitted in unexpected step", zap.String("step", string(step)))
		return
	}
	m.step = StepConfirming
	checkoutID := m.checkoutID
	m.mu.Unlock()

	res, err := m.api.ConfirmCheckout(ctx, ConfirmRequest{
		CheckoutID:   checkoutID,
		PaymentToken: token,
	})
	if err != nil {
		m.logger.Warn("confirm checkout request failed", zap.Error(err))
		m.fail(NetworkErrorMessage)
		return
	}

	switch {
	case res.Succeeded() && res.ConfirmationID != "":
		m.succeed(res.ConfirmationID)
	case res.Substatus == "fraud":
		// Никаких деталей фрод-решения пользователю
		m.fail(GenericDeclineMessage)
	default:
		m.fail(failureMessage(res))
	}
}

// Reset сбрасывает Failed → Idle: сессия начинается заново
// CheckoutId, confirmationId, ошибка и состояние монтирования отбрасываются целиком -
// испорченный checkoutId не переиспользуется
func (m *Machine) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.step != StepFailed {
		return fmt.Errorf("cannot reset from step %s", m.step)
	}
	m.step = StepIdle
	m.checkoutID = ""
	m.confirmationID = ""
	m.errorMessage = ""
	return nil
}

// succeed переводит сессию в терминальный успех: корзина очищается,
// пользователь получает уведомление
func (m *Machine) succeed(confirmationID string) {
	m.mu.Lock()
	m.step = StepSucceeded
	m.confirmationID = confirmationID
	m.cart = CartSnapshot{}
	m.mu.Unlock()

	m.notifier.Success("Payment completed. Thank you for your order!")
}

// fail переводит сессию в Failed с пользовательским текстом ошибки
func (m *Machine) fail(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.step = StepFailed
	m.errorMessage = message
}

// failureMessage выбирает текст для неуспешного ответа сервера
func failureMessage(res Result) string {
	if res.Message != "" {
		return res.Message
	}
	return "Payment failed. Please try again."
}

// Step возвращает текущий шаг сессии
func (m *Machine) Step() Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

// CheckoutID возвращает checkoutId текущей сессии
func (m *Machine) CheckoutID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checkoutID
}

// ConfirmationID возвращает confirmationId завершённой сессии
func (m *Machine) ConfirmationID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.confirmationID
}

// ErrorMessage возвращает пользовательский текст ошибки (только в Failed)
func (m *Machine) ErrorMessage() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errorMessage
}

// Cart возвращает текущий снапшот корзины
func (m *Machine) Cart() CartSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart
}
