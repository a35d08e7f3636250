package httpapi

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/mattf196/henrylabs-takehome/internal/gateway"
	"github.com/mattf196/henrylabs-takehome/internal/service"
)

// Handler содержит HTTP-обработчики checkout-сервиса
// Зависит от service слоя, но не знает о деталях оркестрации и шлюза
type Handler struct {
	checkoutService *service.CheckoutService
	logger          *zap.Logger
}

// NewHandler создаёт новый HTTP handler
func NewHandler(checkoutService *service.CheckoutService, logger *zap.Logger) *Handler {
	return &Handler{
		checkoutService: checkoutService,
		logger:          logger,
	}
}

// envelope - единая форма JSON-ответа checkout-эндпоинтов
type envelope struct {
	Status    string `json:"status"`
	Code      int    `json:"code"`
	Data      any    `json:"data,omitempty"`
	Substatus string `json:"substatus,omitempty"`
	Message   string `json:"message,omitempty"`
}

// checkoutData - полезная нагрузка успешного create
type checkoutData struct {
	CheckoutID string `json:"checkoutId"`
}

// confirmData - полезная нагрузка успешного confirm
type confirmData struct {
	ConfirmationID string `json:"confirmationId"`
}

// checkoutRequest представляет тело POST /checkout
type checkoutRequest struct {
	Amount     *float64 `json:"amount"`
	Currency   *string  `json:"currency"`
	CustomerID *string  `json:"customerId"`
}

// PostCheckout обрабатывает POST /checkout - создание checkout
func (h *Handler) PostCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var reqBody checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		h.logger.Warn("checkout: invalid JSON", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if reqBody.Amount == nil || reqBody.Currency == nil || reqBody.CustomerID == nil {
		h.writeError(w, http.StatusBadRequest, "amount, currency and customerId are required")
		return
	}

	out, err := h.checkoutService.CreateCheckout(ctx, service.CreateCheckoutInput{
		Amount:     *reqBody.Amount,
		Currency:   *reqBody.Currency,
		CustomerID: *reqBody.CustomerID,
	})
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := envelope{
		Status:    string(out.Status),
		Code:      out.HTTPCode,
		Substatus: string(out.Substatus),
		Message:   out.Message,
	}
	if out.CheckoutID != "" {
		resp.Data = checkoutData{CheckoutID: out.CheckoutID}
	}
	h.writeJSON(w, out.HTTPCode, resp)
}

// confirmRequest представляет тело POST /checkout/confirm
type confirmRequest struct {
	CheckoutID *string `json:"checkoutId"`
	Type       *string `json:"type"`
	Data       *struct {
		PaymentToken *string `json:"paymentToken"`
	} `json:"data"`
}

// PostConfirmCheckout обрабатывает POST /checkout/confirm - подтверждение checkout
func (h *Handler) PostConfirmCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var reqBody confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		h.logger.Warn("confirm: invalid JSON", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if reqBody.CheckoutID == nil || reqBody.Data == nil || reqBody.Data.PaymentToken == nil {
		h.writeError(w, http.StatusBadRequest, "checkoutId and data.paymentToken are required")
		return
	}
	if reqBody.Type == nil || *reqBody.Type != "embedded" {
		h.writeError(w, http.StatusBadRequest, "type must be \"embedded\"")
		return
	}

	out, err := h.checkoutService.ConfirmCheckout(ctx, service.ConfirmCheckoutInput{
		CheckoutID:   *reqBody.CheckoutID,
		PaymentToken: *reqBody.Data.PaymentToken,
	})
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := envelope{
		Status:    string(out.Status),
		Code:      out.HTTPCode,
		Substatus: string(out.Substatus),
		Message:   out.Message,
	}
	if out.ConfirmationID != "" {
		resp.Data = confirmData{ConfirmationID: out.ConfirmationID}
	}
	h.writeJSON(w, out.HTTPCode, resp)
}

// PostWebhooks обрабатывает POST /webhooks - события из out-of-band канала шлюза
// Всегда отвечает 200 независимо от исхода сопоставления: шлюзу незачем ретраить
func (h *Handler) PostWebhooks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var event gateway.WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		h.logger.Warn("webhook: invalid JSON", zap.Error(err))
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	h.checkoutService.HandleWebhook(ctx, event)
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NotFound возвращает структурированный JSON 404 для неизвестных маршрутов
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusNotFound, envelope{
		Status:  string(gateway.StatusFailed),
		Code:    http.StatusNotFound,
		Message: "route not found",
	})
}

// writeError отправляет envelope с ошибкой валидации
func (h *Handler) writeError(w http.ResponseWriter, code int, message string) {
	h.writeJSON(w, code, envelope{
		Status:  string(gateway.StatusFailed),
		Code:    code,
		Message: message,
	})
}

// writeJSON сериализует ответ с указанным HTTP-статусом
func (h *Handler) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}
