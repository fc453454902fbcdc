package mailer

import (
	"context"
	"encoding/base64"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"farewatch/internal/domain/entity"
	"farewatch/internal/domain/repository"
	"farewatch/pkg/logger"
	"farewatch/templates"
)

// GmailNotifier implements the Notifier interface through the Gmail API,
// sending as the authenticated account.
type GmailNotifier struct {
	service *gmail.Service
	to      string
	logger  logger.Logger
}

// NewGmailNotifier creates a notifier backed by the Gmail send API.
func NewGmailNotifier(ctx context.Context, tokenSource oauth2.TokenSource, to string, log logger.Logger) (repository.Notifier, error) {
	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("creating gmail service: %w", err)
	}
	return &GmailNotifier{
		service: service,
		to:      to,
		logger:  log,
	}, nil
}

// SendAnalysis renders the run's result and sends it through Gmail.
func (n *GmailNotifier) SendAnalysis(ctx context.Context, criteria entity.SearchCriteria, offers []entity.Offer, analysis *entity.AnalysisEntry) error {
	content, err := templates.RenderAnalysisEmail(criteria, offers, analysis)
	if err != nil {
		return err
	}
	msg, err := buildMIMEMessage("me", n.to, content)
	if err != nil {
		return err
	}

	_, err = n.service.Users.Messages.Send("me", &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(msg),
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sending gmail message: %w", err)
	}
	n.logger.Info("Email sent via Gmail", "to", n.to, "subject", content.Subject)
	return nil
}
