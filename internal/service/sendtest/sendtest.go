// Package sendtest sends an email to a list of test recipients.
package sendtest

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ignite/newsletter-api/internal/domain"
	"github.com/ignite/newsletter-api/internal/pkg/logger"
)

// Input validation errors.
var (
	ErrMissingEmailID    = domain.Validation("The request must contain a valid Email ID")
	ErrMissingRecipients = domain.Validation("The request must contain at least a recipient")
)

// EmailGetter loads an email by id, returning InvalidID or NotFound errors.
type EmailGetter interface {
	Get(ctx context.Context, id string) (*domain.Email, error)
}

// TemplateGetter loads the template an email references.
type TemplateGetter interface {
	Get(ctx context.Context, id string) (*domain.Template, error)
}

// Sender delivers one message to one recipient.
type Sender interface {
	Send(ctx context.Context, msg domain.OutboundMessage) (*domain.SendResult, error)
}

// Request is the body of POST /send-test-email.
type Request struct {
	Email      string   `json:"email"`
	Recipients []string `json:"recipients"`
}

// Result is returned when every recipient was accepted.
type Result struct {
	MessagesDelivered int `json:"messages_delivered"`
}

// Service fans a test send out to every recipient.
type Service struct {
	emails    EmailGetter
	templates TemplateGetter
	sender    Sender
}

// NewService creates a test-send service.
func NewService(emails EmailGetter, templates TemplateGetter, sender Sender) *Service {
	return &Service{emails: emails, templates: templates, sender: sender}
}

// Send issues one send per recipient concurrently and waits for all of them.
// Any failure fails the whole request with the first error's message; sends
// already in flight are not cancelled.
func (s *Service) Send(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Email) == "" {
		return nil, ErrMissingEmailID
	}
	if len(req.Recipients) == 0 {
		return nil, ErrMissingRecipients
	}

	e, err := s.emails.Get(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	tpl, err := s.templates.Get(ctx, e.Template)
	if err != nil {
		return nil, err
	}

	var html, plain string
	if e.Body != nil {
		html, plain = e.Body.HTML, e.Body.Plain
	}

	// Detached from the request so a client disconnect does not abort
	// sends that have already been dispatched.
	sendCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	for _, to := range req.Recipients {
		msg := domain.OutboundMessage{
			EmailID: e.ID,
			From:    tpl.From,
			To:      to,
			Subject: e.Subject,
			HTML:    html,
			Plain:   plain,
		}
		g.Go(func() error {
			_, err := s.sender.Send(sendCtx, msg)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		logger.Warn("test send failed", "email_id", e.ID, "recipients", len(req.Recipients), "error", err)
		return nil, domain.UpstreamSend(err)
	}

	logger.Info("test send complete", "email_id", e.ID, "recipients", len(req.Recipients))
	return &Result{MessagesDelivered: len(req.Recipients)}, nil
}
