// Package sender delivers test sends to an outbound email provider.
package sender

import (
	"context"
	"fmt"
	"time"

	"github.com/ignite/newsletter-api/internal/config"
	"github.com/ignite/newsletter-api/internal/domain"
)

// Sender delivers one message to one recipient.
type Sender interface {
	Send(ctx context.Context, msg domain.OutboundMessage) (*domain.SendResult, error)
}

// New returns the sender selected by cfg.Driver.
func New(ctx context.Context, cfg config.SendConfig, creds config.StorageConfig) (Sender, error) {
	switch cfg.Driver {
	case "", "http":
		return NewHTTPSender(cfg.Endpoint, cfg.Key, cfg.Timeout()), nil
	case "ses":
		s, err := NewSESSender(ctx, cfg.SESRegion, creds.AWSAccessKey, creds.AWSSecretKey)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown send driver %q", cfg.Driver)
}

func sentNow() time.Time { return time.Now().UTC() }
