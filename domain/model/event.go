package model

import "time"

const (
	EventUserRegistered      = "user.registered"
	EventSubscriptionToggled = "subscription.toggled"
)

// DomainEvent is published best-effort after a state change has been persisted.
type DomainEvent struct {
	Type       string            `json:"type"`
	OccurredAt time.Time         `json:"occurredAt"`
	Attributes map[string]string `json:"attributes"`
}
