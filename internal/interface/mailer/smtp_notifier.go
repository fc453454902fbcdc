package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"farewatch/internal/domain/entity"
	"farewatch/internal/domain/repository"
	"farewatch/pkg/logger"
	"farewatch/templates"
)

// SMTPNotifier implements the Notifier interface over SMTP with implicit TLS
// (the smtps style used by Zoho and most providers on port 465).
type SMTPNotifier struct {
	host     string
	port     int
	user     string
	password string
	to       string
	logger   logger.Logger
}

// NewSMTPNotifier creates a notifier that delivers to a single recipient.
func NewSMTPNotifier(host string, port int, user, password, to string, log logger.Logger) repository.Notifier {
	return &SMTPNotifier{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		to:       to,
		logger:   log,
	}
}

// SendAnalysis renders the run's result and delivers it. Errors are returned
// for the caller to log; they are never fatal to the pipeline.
func (n *SMTPNotifier) SendAnalysis(ctx context.Context, criteria entity.SearchCriteria, offers []entity.Offer, analysis *entity.AnalysisEntry) error {
	content, err := templates.RenderAnalysisEmail(criteria, offers, analysis)
	if err != nil {
		return err
	}
	msg, err := buildMIMEMessage(n.user, n.to, content)
	if err != nil {
		return err
	}

	if err := n.send(ctx, msg); err != nil {
		return fmt.Errorf("sending mail via %s: %w", n.host, err)
	}
	n.logger.Info("Email sent", "to", n.to, "subject", content.Subject)
	return nil
}

func (n *SMTPNotifier) send(ctx context.Context, msg []byte) error {
	addr := net.JoinHostPort(n.host, strconv.Itoa(n.port))

	dialer := &tls.Dialer{NetDialer: &net.Dialer{}}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dialing: %w", err)
	}

	client, err := smtp.NewClient(conn, n.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", n.user, n.password, n.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("authenticating: %w", err)
	}
	if err := client.Mail(n.user); err != nil {
		return fmt.Errorf("MAIL FROM: %w", err)
	}
	if err := client.Rcpt(n.to); err != nil {
		return fmt.Errorf("RCPT TO: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return fmt.Errorf("writing message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finishing message: %w", err)
	}
	return client.Quit()
}
