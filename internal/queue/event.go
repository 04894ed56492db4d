// Package queue defines the token lifecycle events exchanged over RabbitMQ
// and the consumer that writes them to an audit log.
package queue

import "time"

// TokenQueueName is the durable queue token events are published to.
const TokenQueueName = "oauth.tokens"

const (
	EventTokenIssued  = "token.issued"
	EventTokenRevoked = "token.revoked"
)

// TokenEvent is published after a successful grant. It never carries
// token values, only who the token was issued to and when it expires.
type TokenEvent struct {
	Event                string    `json:"event"`
	ClientID             string    `json:"client_id"`
	SubjectID            string    `json:"subject_id"`
	GrantType            string    `json:"grant_type"`
	AccessTokenExpiresAt time.Time `json:"access_token_expires_at,omitempty"`
	OccurredAt           time.Time `json:"occurred_at"`
}
