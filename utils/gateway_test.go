package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bazargah/backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatewayTestConfig(t *testing.T, requestURL, verifyURL string) {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig = &config.Config{
		ZarinpalMerchantID: "test-merchant",
		ZarinpalRequestURL: requestURL,
		ZarinpalVerifyURL:  verifyURL,
		ZarinpalStartPay:   "https://gateway.example/StartPay/",
	}
	t.Cleanup(func() { config.AppConfig = prev })
}

func TestRequestPaymentSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"Status":100,"Authority":"A000123"}`))
	}))
	defer server.Close()
	gatewayTestConfig(t, server.URL, server.URL)

	authority, code, err := RequestPayment(15000, "09120000000", "https://shop.example/verify")
	require.NoError(t, err)
	assert.Equal(t, GatewayStatusOK, code)
	assert.Equal(t, "A000123", authority)
}

func TestRequestPaymentGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Status":-2,"Authority":""}`))
	}))
	defer server.Close()
	gatewayTestConfig(t, server.URL, server.URL)

	_, code, err := RequestPayment(15000, "", "https://shop.example/verify")
	require.Error(t, err)
	assert.Equal(t, -2, code)
	assert.Equal(t, GatewayErrorMessage(-2), err.Error())
}

func TestVerifyPaymentSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Status":100,"RefID":123456789}`))
	}))
	defer server.Close()
	gatewayTestConfig(t, server.URL, server.URL)

	refID, code, err := VerifyPayment(15000, "A000123")
	require.NoError(t, err)
	assert.Equal(t, GatewayStatusOK, code)
	assert.Equal(t, "123456789", refID)
}

func TestVerifyPaymentAlreadyVerified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Status":101,"RefID":123456789}`))
	}))
	defer server.Close()
	gatewayTestConfig(t, server.URL, server.URL)

	_, code, err := VerifyPayment(15000, "A000123")
	require.NoError(t, err)
	assert.Equal(t, GatewayStatusVerified, code)
}

func TestVerifyPaymentCancelByUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Status":-51,"RefID":0}`))
	}))
	defer server.Close()
	gatewayTestConfig(t, server.URL, server.URL)

	_, code, err := VerifyPayment(15000, "A000123")
	require.Error(t, err)
	assert.Equal(t, GatewayStatusCancelByUser, code)
	assert.Equal(t, MsgPaymentCancelByUser, err.Error())
}

func TestGatewayErrorMessageUnknownCode(t *testing.T) {
	assert.Equal(t, MsgGatewayUnknown, GatewayErrorMessage(-99))
	assert.Equal(t, MsgPaymentCancelByUser, GatewayErrorMessage(-51))
}

func TestRequestPaymentTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()
	gatewayTestConfig(t, server.URL, server.URL)

	prevClient := gatewayClient
	gatewayClient = &http.Client{Timeout: 50 * time.Millisecond}
	t.Cleanup(func() { gatewayClient = prevClient })

	_, _, err := RequestPayment(15000, "", "https://shop.example/verify")
	assert.ErrorIs(t, err, ErrGatewayTimeout)
}

func TestRequestPaymentNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()
	gatewayTestConfig(t, server.URL, server.URL)

	_, _, err := RequestPayment(15000, "", "https://shop.example/verify")
	assert.ErrorIs(t, err, ErrGatewayTimeout)
}

func TestStartPayURL(t *testing.T) {
	gatewayTestConfig(t, "unused", "unused")
	assert.Equal(t, "https://gateway.example/StartPay/A000123", StartPayURL("A000123"))
}
