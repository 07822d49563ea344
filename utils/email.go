package utils

import (
	"fmt"
	"strconv"

	"github.com/bazargah/backend/config"
	"gopkg.in/gomail.v2"
)

// SendEmail sends an HTML email through the configured SMTP relay
func SendEmail(to, subject, body string) error {
	cfg := config.AppConfig

	port, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		port = 587
	}

	m := gomail.NewMessage()
	m.SetHeader("From", cfg.SMTPFrom)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(cfg.SMTPHost, port, cfg.SMTPUsername, cfg.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// SendOTPEmail sends a login verification code via email
func SendOTPEmail(to, otp string) error {
	body := fmt.Sprintf(`
		<div dir="rtl" style="font-family: Tahoma, sans-serif;">
			<h2>%s</h2>
			<p>کد تایید ورود شما:</p>
			<h1 style="letter-spacing: 5px;">%s</h1>
			<p>این کد تا ۲ دقیقه معتبر است.</p>
		</div>
	`, AppName, otp)
	return SendEmail(to, "کد تایید ورود "+AppName, body)
}
