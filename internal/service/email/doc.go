// Package email implements the newsletter email lifecycle.
//
// Patches are decoded into a typed Patch that remembers which keys the client
// sent, then run through the lifecycle rules in lifecycle.go before the merged
// email is persisted. Sent emails are immutable and scheduled emails only
// accept a single-key sendTime, sent or failed patch. The plain-text body is
// always derived from the HTML body.
//
// Repository implementations live in repository/postgres/ and repository/memory/.
package email
