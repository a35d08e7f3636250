package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mattf196/henrylabs-takehome/internal/session"
)

func TestClient_CreateCheckout(t *testing.T) {
	t.Run("decodes the success envelope", func(t *testing.T) {
		// Arrange
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/checkout", r.URL.Path)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, 100.0, body["amount"])
			require.Equal(t, "USD", body["currency"])
			require.Equal(t, "cust-1", body["customerId"])

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "success",
				"code":   201,
				"data":   map[string]string{"checkoutId": "chk_1"},
			})
		}))
		defer srv.Close()

		client := NewClient(zap.NewNop(), srv.URL)

		// Act
		res, err := client.CreateCheckout(context.Background(), session.CreateRequest{
			Amount:     100,
			Currency:   "USD",
			CustomerID: "cust-1",
		})

		// Assert
		require.NoError(t, err)
		require.True(t, res.Succeeded())
		require.Equal(t, "chk_1", res.CheckoutID)
	})

	t.Run("decodes a failure envelope without error", func(t *testing.T) {
		// Arrange
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":    "failed",
				"code":      503,
				"substatus": "retry",
				"message":   "gateway temporarily unavailable",
			})
		}))
		defer srv.Close()

		client := NewClient(zap.NewNop(), srv.URL)

		// Act
		res, err := client.CreateCheckout(context.Background(), session.CreateRequest{
			Amount:     100,
			Currency:   "USD",
			CustomerID: "cust-1",
		})

		// Assert
		require.NoError(t, err, "gateway failures are carried in the result, not as errors")
		require.False(t, res.Succeeded())
		require.Equal(t, "retry", res.Substatus)
		require.Equal(t, 503, res.Code)
	})

	t.Run("unreachable server wraps ErrNetwork", func(t *testing.T) {
		client := NewClient(zap.NewNop(), "http://127.0.0.1:1")

		_, err := client.CreateCheckout(context.Background(), session.CreateRequest{
			Amount:     100,
			Currency:   "USD",
			CustomerID: "cust-1",
		})

		require.Error(t, err)
		require.True(t, errors.Is(err, session.ErrNetwork))
	})
}

func TestClient_ConfirmCheckout(t *testing.T) {
	t.Run("sends the embedded confirm body", func(t *testing.T) {
		// Arrange
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/checkout/confirm", r.URL.Path)

			var body struct {
				CheckoutID string `json:"checkoutId"`
				Type       string `json:"type"`
				Data       struct {
					PaymentToken string `json:"paymentToken"`
				} `json:"data"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "chk_1", body.CheckoutID)
			require.Equal(t, "embedded", body.Type)
			require.Equal(t, "tok-1", body.Data.PaymentToken)

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "success",
				"code":   200,
				"data":   map[string]string{"confirmationId": "conf_1"},
			})
		}))
		defer srv.Close()

		client := NewClient(zap.NewNop(), srv.URL)

		// Act
		res, err := client.ConfirmCheckout(context.Background(), session.ConfirmRequest{
			CheckoutID:   "chk_1",
			PaymentToken: "tok-1",
		})

		// Assert
		require.NoError(t, err)
		require.True(t, res.Succeeded())
		require.Equal(t, "conf_1", res.ConfirmationID)
	})

	t.Run("malformed response body wraps ErrNetwork", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()

		client := NewClient(zap.NewNop(), srv.URL)

		_, err := client.ConfirmCheckout(context.Background(), session.ConfirmRequest{
			CheckoutID:   "chk_1",
			PaymentToken: "tok-1",
		})

		require.Error(t, err)
		require.True(t, errors.Is(err, session.ErrNetwork))
	})
}
