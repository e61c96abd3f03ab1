package service

import (
	"fmt"
	"net/smtp"

	"ecommerce_api/internal/config"
	"ecommerce_api/internal/domain"
)

// Mailer sends transactional email. All sends in this codebase are
// best-effort: callers log failures and move on.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers mail through a plain SMTP relay configured via env.
type SMTPMailer struct {
	host string
	port string
	from string
}

// NewSMTPMailer builds a mailer from injected configuration
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{host: cfg.SMTPHost, port: cfg.SMTPPort, from: cfg.SMTPFrom}
}

// Send delivers one plain-text message
func (m *SMTPMailer) Send(to, subject, body string) error {
	addr := m.host + ":" + m.port
	msg := "From: " + m.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n" +
		body
	return smtp.SendMail(addr, nil, m.from, []string{to}, []byte(msg))
}

// WelcomeBody renders the registration greeting
func WelcomeBody(user *domain.User) string {
	return fmt.Sprintf("Hi %s,\n\nWelcome aboard! Your account is ready.\n\nHappy shopping.", user.Username)
}

// ResetBody renders the password-reset mail with the signed link
func ResetBody(baseURL, token string) string {
	return fmt.Sprintf("A password reset was requested for your account.\n\n"+
		"Follow this link within 15 minutes to choose a new password:\n%s/reset-password?token=%s\n\n"+
		"If you did not request this, you can ignore this mail.", baseURL, token)
}

// OrderConfirmationBody renders the checkout confirmation
func OrderConfirmationBody(order *domain.Order) string {
	return fmt.Sprintf("Thanks for your order!\n\nOrder number: %s\nTotal: %.2f\nEstimated delivery: %s\n",
		order.OrderNumber, order.TotalAmount, order.EstimatedDelivery.Format("2 Jan 2006"))
}
