package domain

import "time"

// OutboundMessage is one fully-resolved test send for a single recipient.
type OutboundMessage struct {
	EmailID string  `json:"email_id"`
	From    Address `json:"from"`
	To      string  `json:"to"`
	Subject string  `json:"subject"`
	HTML    string  `json:"html"`
	Plain   string  `json:"plain"`
}

// SendResult is returned by a sender after the provider accepted a message.
type SendResult struct {
	MessageID string    `json:"message_id"`
	Provider  string    `json:"provider"`
	SentAt    time.Time `json:"sent_at"`
}
