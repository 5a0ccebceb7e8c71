package notifier

import (
	"fmt"
	"log"

	gomail "gopkg.in/gomail.v2"
)

// Notifier abstracts the delivery channel (email today, LINE/Slack/SMS later).
type Notifier interface {
	Notify(to, subject, message string) error
}

// ConsoleNotifier logs instead of sending, for local runs without SMTP.
type ConsoleNotifier struct{}

func NewConsole() *ConsoleNotifier {
	return &ConsoleNotifier{}
}

func (c *ConsoleNotifier) Notify(to, subject, message string) error {
	log.Printf("[notify] to=%s :: %s :: %s", to, subject, message)
	return nil
}

// SMTPNotifier sends mail through a plain SMTP relay.
type SMTPNotifier struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(host string, port int, username, password, from string) *SMTPNotifier {
	return &SMTPNotifier{dialer: gomail.NewDialer(host, port, username, password), from: from}
}

func (s *SMTPNotifier) Notify(to, subject, message string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", message)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
