package notification

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// MailConfig holds SMTP settings.
type MailConfig struct {
	Host     string
	Port     int64
	Username string
	Password string
	From     string
}

// MailSender delivers an assembled message. Abstracted so tests can capture
// outgoing mail without an SMTP server.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type MailNotification struct {
	cfg    MailConfig
	sender MailSender
}

func NewMailNotification(cfg MailConfig) *MailNotification {
	return &MailNotification{
		cfg:    cfg,
		sender: gomail.NewDialer(cfg.Host, int(cfg.Port), cfg.Username, cfg.Password),
	}
}

// NewMailNotificationWithSender injects a custom sender. Test helper.
func NewMailNotificationWithSender(cfg MailConfig, sender MailSender) *MailNotification {
	return &MailNotification{cfg: cfg, sender: sender}
}

func (m *MailNotification) send(to, subject, htmlBody string) error {
	if m.cfg.Host == "" {
		return fmt.Errorf("mail: no SMTP host configured")
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return m.sender.DialAndSend(msg)
}

// SendWelcomeEmail greets a newly registered user.
func (m *MailNotification) SendWelcomeEmail(to, displayName string) error {
	body := fmt.Sprintf("<p>Hi %s,</p><p>Welcome to NomadLink. Your account is ready.</p>", displayName)
	return m.send(to, "Welcome to NomadLink", body)
}

// SendAlertReceived confirms to the owner that their emergency alert was recorded.
func (m *MailNotification) SendAlertReceived(to, username, alertType string) error {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>We received your <b>%s</b> emergency alert and our team has been notified.</p>",
		username, alertType)
	return m.send(to, "Emergency Alert Received", body)
}

// SendAlertResolved notifies the administrative address that an alert was closed.
func (m *MailNotification) SendAlertResolved(adminTo, wallet string, alertID uint) error {
	body := fmt.Sprintf("<p>Emergency alert #%d for %s has been marked resolved.</p>", alertID, wallet)
	return m.send(adminTo, fmt.Sprintf("Emergency Resolved: %s", wallet), body)
}
