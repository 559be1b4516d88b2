// Package notify delivers transactional email on behalf of the auth service.
// Delivery is best-effort everywhere it is used: a failed send is logged and
// reported, but never rolls back the operation that triggered it.
package notify

import "context"

// Message is a rendered email ready for delivery.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Notifier sends rendered messages. Implementations: Client (HTTP to the
// email service) and Log (development fallback).
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
