// Package mailer sends inquiry notifications over SMTP.
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/skylane/internal/common"
	"github.com/ternarybob/skylane/internal/models"
)

// Message is a plain text email
type Message struct {
	To      []string
	ReplyTo *mail.Address
	Subject string
	Body    string
}

// dialTimeout caps connection setup when ctx carries no deadline
const dialTimeout = 30 * time.Second

// sendFunc delivers a composed message; replaced in tests
type sendFunc func(ctx context.Context, addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// Service provides email sending functionality using the [mail] settings
type Service struct {
	config *common.MailConfig
	logger arbor.ILogger
	send   sendFunc
	now    func() time.Time
}

// NewService creates a new mailer service
func NewService(config *common.MailConfig, logger arbor.ILogger) *Service {
	s := &Service{
		config: config,
		logger: logger,
		now:    time.Now,
	}
	s.send = s.deliver
	return s
}

// IsConfigured checks if SMTP is enabled with the minimum required settings
func (s *Service) IsConfigured() bool {
	c := s.config
	return c.Enabled && c.Host != "" && c.From != "" && len(s.recipients()) > 0
}

func (s *Service) recipients() []string {
	var out []string
	for _, addr := range strings.Split(s.config.To, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// NotifyInquiry emails a new contact form submission to the configured recipients
func (s *Service) NotifyInquiry(ctx context.Context, inquiry *models.Inquiry) error {
	if !s.IsConfigured() {
		return fmt.Errorf("mail is not configured")
	}

	msg := &Message{
		To:      s.recipients(),
		Subject: fmt.Sprintf("New inquiry from %s", inquiry.DisplayCompany()),
		Body:    inquiryBody(inquiry),
	}
	if inquiry.Email != "" {
		msg.ReplyTo = &mail.Address{Name: inquiry.Name, Address: inquiry.Email}
	}

	if err := s.SendEmail(ctx, msg); err != nil {
		s.logger.Error().Err(err).Str("inquiry_id", inquiry.ID).Msg("Failed to send inquiry notification")
		return err
	}

	s.logger.Info().Str("inquiry_id", inquiry.ID).Int("recipients", len(msg.To)).Msg("Inquiry notification sent")
	return nil
}

func inquiryBody(inquiry *models.Inquiry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", inquiry.Name)
	fmt.Fprintf(&b, "Email: %s\n", inquiry.Email)
	fmt.Fprintf(&b, "Company: %s\n", inquiry.Company)
	fmt.Fprintf(&b, "Language: %s\n", inquiry.Lang)
	fmt.Fprintf(&b, "Received: %s\n", inquiry.CreatedAt.Format(time.RFC1123))
	fmt.Fprintf(&b, "Reference: %s\n\n", inquiry.ID)
	b.WriteString(inquiry.Message)
	b.WriteString("\n")
	return b.String()
}

// SendEmail composes and delivers msg
func (s *Service) SendEmail(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("no recipients")
	}

	raw, err := s.ComposeMessage(msg)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	return s.send(ctx, addr, auth, s.config.From, msg.To, raw)
}

// ComposeMessage renders msg as an RFC 5322 message with a UTF-8 text body
func (s *Service) ComposeMessage(msg *Message) ([]byte, error) {
	var h mail.Header
	h.SetDate(s.now())
	h.SetAddressList("From", []*mail.Address{{Name: s.config.FromName, Address: s.config.From}})

	to := make([]*mail.Address, 0, len(msg.To))
	for _, addr := range msg.To {
		to = append(to, &mail.Address{Address: addr})
	}
	h.SetAddressList("To", to)
	if msg.ReplyTo != nil {
		h.SetAddressList("Reply-To", []*mail.Address{msg.ReplyTo})
	}
	h.SetSubject(msg.Subject)
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("failed to generate message id: %w", err)
	}

	var buf bytes.Buffer
	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail writer: %w", err)
	}

	var th mail.InlineHeader
	th.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	w, err := mw.CreateSingleInline(th)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail body: %w", err)
	}
	if _, err := io.WriteString(w, msg.Body); err != nil {
		return nil, fmt.Errorf("failed to write mail body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close mail body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close mail writer: %w", err)
	}

	return buf.Bytes(), nil
}

// deliver sends over implicit TLS, STARTTLS, or plain SMTP per UseTLS.
// Every network step is bounded by ctx.
func (s *Service) deliver(ctx context.Context, addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	var err error
	if s.config.UseTLS {
		err = s.sendWithTLS(ctx, addr, auth, from, to, msg)
	} else {
		err = s.sendPlain(ctx, addr, auth, from, to, msg)
	}
	if err != nil {
		if ctxErr := contextDone(ctx); ctxErr != nil {
			return fmt.Errorf("smtp delivery to %s aborted: %w", addr, ctxErr)
		}
	}
	return err
}

// contextDone is ctx.Err, also reporting a passed deadline before ctx's own timer fires
func contextDone(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
		return context.DeadlineExceeded
	}
	return nil
}

// dial opens a TCP connection whose reads and writes stop when ctx ends.
// The returned release func must be called once the connection is done.
func (s *Service) dial(ctx context.Context, addr string) (net.Conn, func(), error) {
	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() {
		conn.SetDeadline(time.Now())
	})
	return conn, func() { stop() }, nil
}

// sendWithTLS sends email using a TLS connection, falling back to STARTTLS
func (s *Service) sendWithTLS(ctx context.Context, addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	host := s.config.Host

	raw, release, err := s.dial(ctx, addr)
	if err != nil {
		return err
	}
	defer release()

	conn := tls.Client(raw, &tls.Config{ServerName: host})
	if err := conn.HandshakeContext(ctx); err != nil {
		raw.Close()
		if contextDone(ctx) != nil {
			return fmt.Errorf("TLS handshake failed: %w", err)
		}
		return s.sendWithSTARTTLS(ctx, addr, auth, from, to, msg)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	return s.transmit(client, auth, from, to, msg)
}

// sendWithSTARTTLS sends email using STARTTLS upgrade
func (s *Service) sendWithSTARTTLS(ctx context.Context, addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	conn, release, err := s.dial(ctx, addr)
	if err != nil {
		return err
	}
	defer release()
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: s.config.Host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	return s.transmit(client, auth, from, to, msg)
}

// sendPlain upgrades with STARTTLS only when the server offers it
func (s *Service) sendPlain(ctx context.Context, addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	conn, release, err := s.dial(ctx, addr)
	if err != nil {
		return err
	}
	defer release()
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.config.Host}); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	return s.transmit(client, auth, from, to, msg)
}

func (s *Service) transmit(client *smtp.Client, auth smtp.Auth, from string, to []string, msg []byte) error {
	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("failed to set mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set mail recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to start data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}
