package notifications

import (
	"fmt"
	"net/smtp"

	"github.com/yeti47/vidfolio/server/core/config"
)

var sendMail = smtp.SendMail

// SmtpSender implements the EmailSender interface using SMTP.
type SmtpSender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func NewSmtpSender(host string, port int, username, password, from string) *SmtpSender {
	return &SmtpSender{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
	}
}

// NewEmailSender builds an SmtpSender from the smtp config section, or NopSender when it is not configured
func NewEmailSender(settings *config.SMTPSettings) EmailSender {
	if settings == nil || settings.Host == "" {
		return NopSender
	}
	return NewSmtpSender(settings.Host, settings.Port, settings.Username, settings.Password, settings.From)
}

func (s *SmtpSender) SendEmail(to, subject, body string) error {
	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}

	msg := []byte("To: " + to + "\r\n" +
		"From: " + s.From + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)

	return sendMail(addr, auth, s.From, []string{to}, msg)
}
