// Package mailer sends rendered statements over authenticated SMTP and
// keeps the append-only audit trail of every attempt.
package mailer

import (
	"gopkg.in/gomail.v2"
)

type Message struct {
	From     string
	To       []string
	CC       []string
	Subject  string
	HTMLBody string
}

// Sender is the mail transport. The production implementation talks
// SMTP-over-TLS; tests substitute a fake.
type Sender interface {
	Send(msg Message) error
}

// SMTPSender submits one message per call with per-run credentials.
// Nothing is stored between runs.
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
}

func (s *SMTPSender) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To...)
	if len(msg.CC) > 0 {
		m.SetHeader("Cc", msg.CC...)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)

	d := gomail.NewDialer(s.Host, s.Port, s.Username, s.Password)
	return d.DialAndSend(m)
}
