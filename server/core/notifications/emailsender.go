package notifications

// EmailSender delivers plain-text alerts to the portfolio owner
type EmailSender interface {
	SendEmail(to, subject, body string) error
}

type nopSender struct{}

// NopSender drops every message. NewEmailSender falls back to it when no smtp section is configured.
var NopSender EmailSender = nopSender{}

func (nopSender) SendEmail(to, subject, body string) error { return nil }
