package sender

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/ignite/newsletter-api/internal/domain"
	"github.com/ignite/newsletter-api/internal/pkg/awsconf"
	"github.com/ignite/newsletter-api/internal/pkg/logger"
)

// SESAPI is the subset of the SES v2 client used for sending.
type SESAPI interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender sends test emails through AWS SES.
type SESSender struct {
	client SESAPI
}

// NewSESSender creates an SES sender for region.
func NewSESSender(ctx context.Context, region, accessKey, secretKey string) (*SESSender, error) {
	cfg, err := awsconf.Load(ctx, region, accessKey, secretKey)
	if err != nil {
		return nil, err
	}
	return NewSESSenderWithClient(sesv2.NewFromConfig(cfg)), nil
}

// NewSESSenderWithClient wraps an existing client.
func NewSESSenderWithClient(client SESAPI) *SESSender {
	return &SESSender{client: client}
}

// Send delivers a single email through AWS SES.
func (s *SESSender) Send(ctx context.Context, msg domain.OutboundMessage) (*domain.SendResult, error) {
	from := msg.From.Address
	if msg.From.Name != "" {
		from = fmt.Sprintf("%s <%s>", msg.From.Name, msg.From.Address)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination:      &types.Destination{ToAddresses: []string{msg.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(msg.HTML), Charset: aws.String("UTF-8")},
				},
			},
		},
		EmailTags: []types.MessageTag{
			{Name: aws.String("email_id"), Value: aws.String(msg.EmailID)},
			{Name: aws.String("test"), Value: aws.String("true")},
		},
	}
	if msg.Plain != "" {
		input.Content.Simple.Body.Text = &types.Content{Data: aws.String(msg.Plain), Charset: aws.String("UTF-8")}
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		logger.Warn("ses send failed", "recipient", msg.To, "error", err)
		return nil, err
	}

	messageID := aws.ToString(result.MessageId)
	logger.Info("test email sent", "email_id", msg.EmailID, "recipient", msg.To, "message_id", messageID)
	return &domain.SendResult{
		MessageID: messageID,
		Provider:  "ses",
		SentAt:    sentNow(),
	}, nil
}
