package simulated

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mattf196/henrylabs-takehome/internal/gateway"
)

// WebhookSink принимает событие, которое шлюз доставляет out-of-band
// В проде это был бы HTTP POST на /webhooks сервера; in-process симуляция
// вызывает sink напрямую из отдельной горутины
type WebhookSink func(event gateway.WebhookEvent)

// Options настраивают поведение симулятора
type Options struct {
	// Seed для генератора случайных чисел; 0 = текущее время
	Seed int64
	// WebhookDelayMin/Max - границы задержки доставки deferred webhook
	WebhookDelayMin time.Duration
	WebhookDelayMax time.Duration
}

// Gateway симулирует платёжный шлюз с весами из payments SDK
// Create взвешивает исход по сумме и числу уже виденных одинаковых запросов,
// Confirm использует фиксированные веса. Deferred вызовы доставляют итог
// через WebhookSink после случайной задержки.
type Gateway struct {
	logger *zap.Logger
	sink   WebhookSink
	opts   Options

	mu  sync.Mutex
	rng *rand.Rand
	// sameRecords считает уже виденные create-запросы с тем же customer+amount.
	// С каждым повтором веса смещаются от immediate к retry/fraud.
	sameRecords map[string]int
}

// New создаёт симулятор шлюза
// sink обязателен: без него deferred вызовы никогда не разрешатся
func New(logger *zap.Logger, sink WebhookSink, opts Options) *Gateway {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.WebhookDelayMin <= 0 {
		opts.WebhookDelayMin = 200 * time.Millisecond
	}
	if opts.WebhookDelayMax < opts.WebhookDelayMin {
		opts.WebhookDelayMax = opts.WebhookDelayMin + 2*time.Second
	}
	return &Gateway{
		logger:      logger,
		sink:        sink,
		opts:        opts,
		rng:         rand.New(rand.NewSource(seed)),
		sameRecords: make(map[string]int),
	}
}

// outcomeCase - один из четырёх исходов вызова шлюза
type outcomeCase int

const (
	caseImmediate outcomeCase = iota
	caseDeferred
	caseRetry
	caseFraud
)

// createWeights возвращает сырые веса исходов для create
// Точная репликация determineResponseCase() из payments SDK:
// базовые веса сдвигаются числом одинаковых записей (s) и порогами суммы
func createWeights(amount float64, s int) (immediate, deferred, retry, fraud int) {
	immediate = 65 - s*10
	deferred = 20 + s*5
	retry = 10 + s*5
	fraud = s * 15

	if amount > 1_000 {
		deferred += s*5 + 10
		retry += s*5 + 10
	}
	if amount > 5_000 {
		immediate -= s*5 + 15
		retry += s*5 + 30
		fraud += s * 10
	}
	if amount > 10_000 {
		fraud += s * 30
	}

	immediate = max(0, immediate)
	deferred = max(0, deferred)
	retry = max(0, retry)
	fraud = max(0, fraud)
	return immediate, deferred, retry, fraud
}

// pick выбирает исход по весам
func (g *Gateway) pick(immediate, deferred, retry, fraud int) outcomeCase {
	total := immediate + deferred + retry + fraud
	n := g.rng.Intn(total)
	switch {
	case n < immediate:
		return caseImmediate
	case n < immediate+deferred:
		return caseDeferred
	case n < immediate+deferred+retry:
		return caseRetry
	default:
		return caseFraud
	}
}

// Create создаёт checkout; исход взвешен по сумме и истории одинаковых запросов
func (g *Gateway) Create(ctx context.Context, req gateway.CreateRequest) (gateway.Outcome, error) {
	g.mu.Lock()
	key := fmt.Sprintf("%s|%.2f", req.CustomerID, req.Amount)
	s := g.sameRecords[key]
	g.sameRecords[key] = s + 1

	im, de, re, fr := createWeights(req.Amount, s)
	c := g.pick(im, de, re, fr)
	g.mu.Unlock()

	g.logger.Info("simulated gateway: create",
		zap.String("request_id", req.RequestID),
		zap.Float64("amount", req.Amount),
		zap.Int("same_records", s),
		zap.Int("case", int(c)),
	)

	switch c {
	case caseImmediate:
		return gateway.Outcome{
			Status:     gateway.StatusSuccess,
			HTTPCode:   http.StatusCreated,
			CheckoutID: "chk_" + uuid.NewString(),
			RequestID:  req.RequestID,
		}, nil
	case caseDeferred:
		g.scheduleWebhook(gateway.EventCheckoutCreated, req.RequestID)
		return gateway.Outcome{
			Status:    gateway.StatusSuccess,
			Substatus: gateway.SubstatusDeferred,
			HTTPCode:  http.StatusAccepted,
			Message:   "checkout is being processed",
			RequestID: req.RequestID,
		}, nil
	case caseRetry:
		return gateway.Outcome{
			Status:    gateway.StatusFailed,
			Substatus: gateway.SubstatusRetry,
			HTTPCode:  http.StatusServiceUnavailable,
			Message:   "gateway temporarily unavailable",
			RequestID: req.RequestID,
		}, nil
	default:
		return gateway.Outcome{
			Status:    gateway.StatusFailed,
			Substatus: gateway.SubstatusFraud,
			HTTPCode:  http.StatusPaymentRequired,
			Message:   "transaction flagged by risk engine: velocity check failed",
			RequestID: req.RequestID,
		}, nil
	}
}

// confirmWeights - фиксированные веса processConfirmDecision() (не зависят от попытки)
const (
	confirmImmediate = 35
	confirmDeferred  = 30
	confirmRetry     = 30
	confirmFraud     = 5
)

// Confirm подтверждает checkout платёжным токеном
func (g *Gateway) Confirm(ctx context.Context, req gateway.ConfirmRequest) (gateway.Outcome, error) {
	g.mu.Lock()
	c := g.pick(confirmImmediate, confirmDeferred, confirmRetry, confirmFraud)
	g.mu.Unlock()

	g.logger.Info("simulated gateway: confirm",
		zap.String("request_id", req.RequestID),
		zap.String("checkout_id", req.CheckoutID),
		zap.Int("case", int(c)),
	)

	switch c {
	case caseImmediate:
		return gateway.Outcome{
			Status:         gateway.StatusSuccess,
			HTTPCode:       http.StatusOK,
			CheckoutID:     req.CheckoutID,
			ConfirmationID: "conf_" + uuid.NewString(),
			RequestID:      req.RequestID,
		}, nil
	case caseDeferred:
		g.scheduleWebhook(gateway.EventCheckoutConfirmed, req.RequestID)
		return gateway.Outcome{
			Status:    gateway.StatusSuccess,
			Substatus: gateway.SubstatusDeferred,
			HTTPCode:  http.StatusAccepted,
			Message:   "confirmation is being processed",
			RequestID: req.RequestID,
		}, nil
	case caseRetry:
		return gateway.Outcome{
			Status:    gateway.StatusFailed,
			Substatus: gateway.SubstatusRetry,
			HTTPCode:  http.StatusServiceUnavailable,
			Message:   "gateway temporarily unavailable",
			RequestID: req.RequestID,
		}, nil
	default:
		return gateway.Outcome{
			Status:    gateway.StatusFailed,
			Substatus: gateway.SubstatusFraud,
			HTTPCode:  http.StatusPaymentRequired,
			Message:   "transaction flagged by risk engine: token reuse detected",
			RequestID: req.RequestID,
		}, nil
	}
}

// scheduleWebhook планирует доставку итога deferred вызова через sink
// Разрешение deferred: rand > 0.2 → success (80%), иначе rand > 0.05 → retry (19%),
// иначе fraud (1%) - две последовательные выборки, как в SDK
func (g *Gateway) scheduleWebhook(eventType, reqID string) {
	g.mu.Lock()
	first := g.rng.Float64()
	second := g.rng.Float64()
	delay := g.opts.WebhookDelayMin
	if spread := g.opts.WebhookDelayMax - g.opts.WebhookDelayMin; spread > 0 {
		delay += time.Duration(g.rng.Int63n(int64(spread)))
	}
	g.mu.Unlock()

	var data gateway.WebhookEventData
	switch {
	case first > 0.2:
		data = gateway.WebhookEventData{
			Status: string(gateway.StatusSuccess),
			ReqID:  reqID,
		}
		if eventType == gateway.EventCheckoutCreated {
			data.CheckoutID = "chk_" + uuid.NewString()
		} else {
			data.ConfirmationID = "conf_" + uuid.NewString()
			// Причуда SDK: для успешного deferred confirm шлюз чеканит НОВЫЙ
			// correlation id, поэтому точное сопоставление по id невозможно
			data.ReqID = uuid.NewString()
		}
	case second > 0.05:
		data = gateway.WebhookEventData{
			Status:    string(gateway.StatusFailed),
			Substatus: string(gateway.SubstatusRetry),
			ReqID:     reqID,
			Message:   "gateway temporarily unavailable",
		}
	default:
		data = gateway.WebhookEventData{
			Status:    string(gateway.StatusFailed),
			Substatus: string(gateway.SubstatusFraud),
			ReqID:     reqID,
			Message:   "transaction flagged by risk engine: deferred review declined",
		}
	}

	event := gateway.WebhookEvent{Type: eventType, Data: data}
	time.AfterFunc(delay, func() {
		g.logger.Info("simulated gateway: delivering webhook",
			zap.String("type", event.Type),
			zap.String("req_id", event.Data.ReqID),
			zap.Duration("delay", delay),
		)
		g.sink(event)
	})
}
