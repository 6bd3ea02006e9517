// Package mail contains e-mail senders.
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"
)

//go:generate mockgen -destination=./mock/mail.go -package=mock -source=mail.go

var log = logrus.WithField("layer", "mail").WithField("package", "mail")

// Message ...
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender sends e-mails.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig ...
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// TLSMode is one of tls, starttls or none. starttls is used when empty.
	TLSMode  string
	From     string
	FromName string
}

type smtpSender struct {
	cfg SMTPConfig
}

// NewSMTP creates sender delivering messages through SMTP server.
func NewSMTP(cfg SMTPConfig) Sender {
	return smtpSender{cfg: cfg}
}

func (s smtpSender) Send(_ context.Context, msg Message) error {
	client, err := s.connect()
	if err != nil {
		return err
	}
	defer client.Close()

	if s.cfg.Username != "" {
		if err := client.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err := client.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data: %w", err)
	}

	from := s.cfg.From
	if s.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.From)
	}

	if _, err := w.Write([]byte(buildMessage(from, msg))); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data: %w", err)
	}
	if err := client.Quit(); err != nil && !strings.Contains(err.Error(), "use of closed network connection") {
		return fmt.Errorf("failed to quit: %w", err)
	}

	return nil
}

func (s smtpSender) connect() (*smtp.Client, error) {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	tlsConfig := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}

	if s.cfg.TLSMode == "tls" {
		conn, err := tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to dial: %w", err)
		}
		client, err := smtp.NewClient(conn, s.cfg.Host)
		if err != nil {
			return nil, fmt.Errorf("failed to create client: %w", err)
		}
		return client, nil
	}

	client, err := smtp.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial: %w", err)
	}

	if s.cfg.TLSMode == "" || s.cfg.TLSMode == "starttls" {
		if err := client.StartTLS(tlsConfig); err != nil {
			client.Close() // nolint
			return nil, fmt.Errorf("failed to start tls: %w", err)
		}
	}

	return client, nil
}

func buildMessage(from string, msg Message) string {
	return strings.Join([]string{
		"From: " + from,
		"To: " + msg.To,
		"Subject: " + msg.Subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		msg.Body,
	}, "\r\n")
}

type logSender struct{}

// NewLog creates sender which only logs messages. It is used when SMTP is not configured.
func NewLog() Sender {
	return logSender{}
}

func (logSender) Send(_ context.Context, msg Message) error {
	log.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info(msg.Body)

	return nil
}
