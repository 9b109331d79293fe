package mail

import (
	"fmt"
	"io"

	"gopkg.in/gomail.v2"
)

// Config holds SMTP settings
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Attachment is an in-memory file attached to a message
type Attachment struct {
	Filename string
	Data     []byte
}

// Sender delivers email over SMTP
type Sender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSender creates an SMTP sender
func NewSender(cfg *Config) (*Sender, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mail config is required")
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("from address is required")
	}

	return &Sender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}, nil
}

// Send delivers an HTML message with optional attachments
func (s *Sender) Send(to, subject, htmlBody string, attachments ...Attachment) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	for _, a := range attachments {
		data := a.Data
		m.Attach(a.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
