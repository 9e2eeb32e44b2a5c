package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ignite/newsletter-api/internal/domain"
	"github.com/ignite/newsletter-api/internal/pkg/logger"
)

type transmissionHeader struct {
	ReturnPath string               `json:"returnPath"`
	Metadata   transmissionMetadata `json:"metadata"`
}

type transmissionMetadata struct {
	EmailID string `json:"emailId"`
	Test    bool   `json:"test"`
}

type recipient struct {
	Address string `json:"address"`
}

// sendByAddressRequest is the body of POST {endpoint}/send-by-address.
type sendByAddressRequest struct {
	TransmissionHeader transmissionHeader `json:"transmissionHeader"`
	From               domain.Address     `json:"from"`
	To                 recipient          `json:"to"`
	Subject            string             `json:"subject"`
	HTMLContent        string             `json:"htmlContent"`
	PlainTextContent   string             `json:"plainTextContent"`
}

type sendByAddressResponse struct {
	Results struct {
		ID                      string `json:"id"`
		TotalAcceptedRecipients int    `json:"total_accepted_recipients"`
		TotalRejectedRecipients int    `json:"total_rejected_recipients"`
	} `json:"results"`
}

// HTTPSender posts messages to the email service's send-by-address endpoint.
// The key is sent as the Authorization header value.
type HTTPSender struct {
	endpoint string
	key      string
	client   *http.Client
}

// NewHTTPSender creates an HTTP sender.
func NewHTTPSender(endpoint, key string, timeout time.Duration) *HTTPSender {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPSender{
		endpoint: strings.TrimRight(endpoint, "/"),
		key:      key,
		client:   &http.Client{Timeout: timeout},
	}
}

// Send delivers msg. A non-2xx response is an error whose message is the
// HTTP status text.
func (s *HTTPSender) Send(ctx context.Context, msg domain.OutboundMessage) (*domain.SendResult, error) {
	if s.endpoint == "" {
		return nil, errors.New("send endpoint not configured")
	}

	payload := sendByAddressRequest{
		TransmissionHeader: transmissionHeader{
			ReturnPath: msg.From.Address,
			Metadata:   transmissionMetadata{EmailID: msg.EmailID, Test: true},
		},
		From:             msg.From,
		To:               recipient{Address: msg.To},
		Subject:          msg.Subject,
		HTMLContent:      msg.HTML,
		PlainTextContent: msg.Plain,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/send-by-address", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", s.key)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("send-by-address rejected", "status", resp.StatusCode, "recipient", msg.To, "body", string(body))
		return nil, errors.New(http.StatusText(resp.StatusCode))
	}

	var parsed sendByAddressResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode send response: %w", err)
	}

	logger.Info("test email sent", "email_id", msg.EmailID, "recipient", msg.To, "message_id", parsed.Results.ID)
	return &domain.SendResult{
		MessageID: parsed.Results.ID,
		Provider:  "http",
		SentAt:    sentNow(),
	}, nil
}
