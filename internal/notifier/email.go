package notifier

import (
	"medtrack/config"

	"github.com/sony/gobreaker"
	"gopkg.in/gomail.v2"
)

// SMTPSender sends HTML email over SMTP with implicit TLS.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	cb     *gobreaker.CircuitBreaker
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Email, cfg.Password)
	dialer.SSL = true

	return &SMTPSender{
		dialer: dialer,
		from:   cfg.Email,
		cb:     newCircuitBreaker("SMTP-Sender"),
	}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.dialer.DialAndSend(m)
	})
	return err
}
