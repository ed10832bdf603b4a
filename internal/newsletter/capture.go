package newsletter

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/abhisek/fluentplan/internal/store"
)

// NormalizeEmail trims and validates an address. It accepts a bare
// "local@domain" address only; display names are rejected.
func NormalizeEmail(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "@") {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return "", ErrInvalidEmail
	}
	at := strings.LastIndex(s, "@")
	if at == 0 || !strings.Contains(s[at+1:], ".") {
		return "", ErrInvalidEmail
	}
	return s, nil
}

// CaptureEmail attaches the contact details to assessment id and queues a
// newsletter subscription for it. The subscription is delivered by the
// Outbox, so capture succeeds even when the newsletter is not configured.
func CaptureEmail(ctx context.Context, assessments store.AssessmentRepo, deliveries store.DeliveryRepo, id, email, name string) (*store.Delivery, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)

	if err := assessments.AttachContact(ctx, id, email, name); err != nil {
		return nil, fmt.Errorf("attach contact: %w", err)
	}
	d := &store.Delivery{AssessmentID: id, Email: email}
	if err := deliveries.Enqueue(ctx, d); err != nil {
		return nil, fmt.Errorf("queue subscription: %w", err)
	}
	return d, nil
}
