// Package mail delivers confirmation codes. Delivery is fire-and-forget:
// callers log failures but never surface them to the registering user.
package mail

import (
	"fmt"
	"net/smtp"

	"github.com/scorebox/scorebox/logger"
)

// Dispatcher sends a single message to one recipient.
type Dispatcher interface {
	Send(to, subject, body string) error
}

// SMTPDispatcher sends through a plain SMTP relay.
type SMTPDispatcher struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTP(host string, port int, from, username, password string) *SMTPDispatcher {
	d := &SMTPDispatcher{
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
	}
	if username != "" {
		d.auth = smtp.PlainAuth("", username, password, host)
	}
	return d
}

func (d *SMTPDispatcher) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", d.from, to, subject, body)
	return smtp.SendMail(d.addr, d.auth, d.from, []string{to}, []byte(msg))
}

// LogDispatcher writes messages to the log instead of sending them.
// Used when no SMTP relay is configured (development, tests).
type LogDispatcher struct{}

func (LogDispatcher) Send(to, subject, body string) error {
	logger.Infof("mail to %s: %s: %s", to, subject, body)
	return nil
}
