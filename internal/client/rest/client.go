package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mattf196/henrylabs-takehome/internal/session"
)

// Client реализует session.CheckoutAPI поверх HTTP эндпоинтов checkout-сервера
// Транспортные сбои оборачиваются в session.ErrNetwork; envelope сервера
// декодируется в session.Result как есть
type Client struct {
	logger     *zap.Logger
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт HTTP клиент checkout-сервера
// Таймаут больше худшего пути оркестрации (3 попытки × ожидание webhook + backoff)
func NewClient(logger *zap.Logger, baseURL string) *Client {
	return &Client{
		logger:  logger,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// envelope повторяет форму JSON-ответа сервера
type envelope struct {
	Status    string `json:"status"`
	Code      int    `json:"code"`
	Substatus string `json:"substatus,omitempty"`
	Message   string `json:"message,omitempty"`
	Data      struct {
		CheckoutID     string `json:"checkoutId,omitempty"`
		ConfirmationID string `json:"confirmationId,omitempty"`
	} `json:"data,omitempty"`
}

// CreateCheckout вызывает POST /checkout
func (c *Client) CreateCheckout(ctx context.Context, req session.CreateRequest) (session.Result, error) {
	body := map[string]interface{}{
		"amount":     req.Amount,
		"currency":   req.Currency,
		"customerId": req.CustomerID,
	}
	return c.post(ctx, "/checkout", body)
}

// ConfirmCheckout вызывает POST /checkout/confirm
func (c *Client) ConfirmCheckout(ctx context.Context, req session.ConfirmRequest) (session.Result, error) {
	body := map[string]interface{}{
		"checkoutId": req.CheckoutID,
		"type":       "embedded",
		"data": map[string]string{
			"paymentToken": req.PaymentToken,
		},
	}
	return c.post(ctx, "/checkout/confirm", body)
}

// post отправляет JSON запрос и декодирует envelope ответа
func (c *Client) post(ctx context.Context, path string, body map[string]interface{}) (session.Result, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return session.Result{}, fmt.Errorf("%w: marshal request: %v", session.ErrNetwork, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return session.Result{}, fmt.Errorf("%w: build request: %v", session.ErrNetwork, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("checkout API request failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return session.Result{}, fmt.Errorf("%w: %v", session.ErrNetwork, err)
	}
	defer httpResp.Body.Close()

	var env envelope
	if err := json.NewDecoder(httpResp.Body).Decode(&env); err != nil {
		return session.Result{}, fmt.Errorf("%w: decode response: %v", session.ErrNetwork, err)
	}

	return session.Result{
		Status:         env.Status,
		Code:           env.Code,
		Substatus:      env.Substatus,
		Message:        env.Message,
		CheckoutID:     env.Data.CheckoutID,
		ConfirmationID: env.Data.ConfirmationID,
	}, nil
}
