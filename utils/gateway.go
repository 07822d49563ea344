package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/bazargah/backend/config"
)

// GatewayStatusOK is the gateway code for an accepted request/verification
const GatewayStatusOK = 100

// GatewayStatusVerified is returned when a payment was already verified
const GatewayStatusVerified = 101

// GatewayStatusCancelByUser is the code the gateway reports when the
// customer aborted the payment at the bank page
const GatewayStatusCancelByUser = -51

// ErrGatewayTimeout marks a timeout or connection failure towards the
// payment gateway
var ErrGatewayTimeout = errors.New("payment gateway connection failed")

// gatewayClient carries the fixed client-side timeout for all gateway
// calls; tests swap it out
var gatewayClient = &http.Client{Timeout: 10 * time.Second}

// gatewayErrorMessages maps gateway error codes to localized messages.
// Unmapped codes fall back to MsgGatewayUnknown.
var gatewayErrorMessages = map[int]string{
	-1:  "اطلاعات ارسال شده ناقص است",
	-2:  "پذیرنده معتبر نمیباشد",
	-3:  "با توجه به محدودیت های شاپرک امکان پرداخت با رقم درخواست شده میسر نمیباشد",
	-9:  "خطای اعتبار سنجی",
	-10: "ترمینال فعال نمیباشد",
	-11: "درخواست مورد نظر یافت نشد",
	-12: "امکان ویرایش درخواست میسر نمیباشد",
	-21: "هیچ نوع عملیات مالی برای این تراکنش یافت نشد",
	-22: "تراکنش ناموفق میباشد",
	-33: "رقم تراکنش با رقم پرداخت شده مطابقت ندارد",
	-34: "سقف تقسیم تراکنش از لحاظ تعداد یا رقم عبور نموده است",
	-40: "اجازه دسترسی به متد مربوطه وجود ندارد",
	-51: MsgPaymentCancelByUser,
	-54: "درخواست مورد نظر آرشیو شده است",
}

// MsgGatewayUnknown is the fallback for unmapped gateway error codes
const MsgGatewayUnknown = "خطای نامشخص، لطفا با پشتیبانی تماس بگیرید"

// GatewayErrorMessage resolves a gateway error code to a user message
func GatewayErrorMessage(code int) string {
	if msg, ok := gatewayErrorMessages[code]; ok {
		return msg
	}
	return MsgGatewayUnknown
}

type paymentRequestBody struct {
	MerchantID  string `json:"MerchantID"`
	Amount      int64  `json:"Amount"`
	Description string `json:"Description"`
	Phone       string `json:"Phone,omitempty"`
	CallbackURL string `json:"CallbackURL"`
}

type paymentRequestResponse struct {
	Status    int    `json:"Status"`
	Authority string `json:"Authority"`
}

type paymentVerifyBody struct {
	MerchantID string `json:"MerchantID"`
	Amount     int64  `json:"Amount"`
	Authority  string `json:"Authority"`
}

type paymentVerifyResponse struct {
	Status int         `json:"Status"`
	RefID  json.Number `json:"RefID"`
}

// RequestPayment asks the gateway for an authority token. It returns the
// token on acceptance, or the gateway status code with a non-nil error.
// Timeouts and connection failures return ErrGatewayTimeout.
func RequestPayment(amount int64, phone, callbackURL string) (authority string, code int, err error) {
	body := paymentRequestBody{
		MerchantID:  config.AppConfig.ZarinpalMerchantID,
		Amount:      amount,
		Description: "نهایی کردن خرید سفارش",
		Phone:       phone,
		CallbackURL: callbackURL,
	}
	var parsed paymentRequestResponse
	if err := postGateway(config.AppConfig.ZarinpalRequestURL, body, &parsed); err != nil {
		return "", 0, err
	}
	if parsed.Status != GatewayStatusOK {
		return "", parsed.Status, errors.New(GatewayErrorMessage(parsed.Status))
	}
	return parsed.Authority, parsed.Status, nil
}

// VerifyPayment confirms a returned payment with the gateway. On success
// it returns the bank reference ID; otherwise the gateway status code and
// an error carrying the localized message.
func VerifyPayment(amount int64, authority string) (refID string, code int, err error) {
	body := paymentVerifyBody{
		MerchantID: config.AppConfig.ZarinpalMerchantID,
		Amount:     amount,
		Authority:  authority,
	}
	var parsed paymentVerifyResponse
	if err := postGateway(config.AppConfig.ZarinpalVerifyURL, body, &parsed); err != nil {
		return "", 0, err
	}
	if parsed.Status != GatewayStatusOK && parsed.Status != GatewayStatusVerified {
		return "", parsed.Status, errors.New(GatewayErrorMessage(parsed.Status))
	}
	return parsed.RefID.String(), parsed.Status, nil
}

// StartPayURL builds the redirect URL the client follows to the bank page
func StartPayURL(authority string) string {
	return config.AppConfig.ZarinpalStartPay + authority
}

func postGateway(url string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := gatewayClient.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		// covers both client-side timeout and connection refusal
		return ErrGatewayTimeout
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ErrGatewayTimeout
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
