package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bazargah/backend/config"
)

var smsClient = &http.Client{Timeout: 10 * time.Second}

type smsPayload struct {
	Sender   string `json:"sender"`
	Receptor string `json:"receptor"`
	Message  string `json:"message"`
}

// SendSMS delivers a text message through the configured provider
func SendSMS(phone, message string) error {
	cfg := config.AppConfig
	if cfg.SMSProviderURL == "" {
		LogInfo("SMS provider not configured, skipping send to %s", phone)
		return nil
	}

	payload, err := json.Marshal(smsPayload{
		Sender:   cfg.SMSSender,
		Receptor: phone,
		Message:  message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, cfg.SMSProviderURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "ApiKey "+cfg.SMSAPIKey)

	resp, err := smsClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms provider returned status %d", resp.StatusCode)
	}
	return nil
}

// SendOTPSMS sends a login verification code, without blocking the caller
func SendOTPSMS(phone, otp string) {
	go func() {
		if err := SendSMS(phone, "کد تایید ورود "+AppName+": "+otp); err != nil {
			LogError("Failed to send OTP SMS to %s: %v", phone, err)
		}
	}()
}
