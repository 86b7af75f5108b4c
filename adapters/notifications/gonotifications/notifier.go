package gonotifications

import (
	"context"
	"time"

	"github.com/goliatone/go-invoicedesk/books"
	"github.com/goliatone/go-invoicedesk/books/notify"
	"github.com/goliatone/go-notifications/pkg/onready"
)

// DefaultLinkTTL is advertised as the link expiry of saved documents.
const DefaultLinkTTL = 30 * time.Minute

// Notifier adapts the go-notifications OnReadyNotifier to document-ready
// events.
type Notifier struct {
	delegate onready.OnReadyNotifier
	LinkTTL  time.Duration
	Now      func() time.Time
}

// NewNotifier wraps a go-notifications notifier.
func NewNotifier(delegate onready.OnReadyNotifier) *Notifier {
	return &Notifier{delegate: delegate, LinkTTL: DefaultLinkTTL, Now: time.Now}
}

// Send forwards the event to the underlying go-notifications notifier.
func (n *Notifier) Send(ctx context.Context, evt notify.DocumentReadyEvent) error {
	if n == nil || n.delegate == nil {
		return books.NewError(books.KindNotImpl, "go-notifications notifier not configured", nil)
	}
	if len(evt.Recipients) == 0 {
		return books.NewError(books.KindValidation, "notification recipients are required", nil)
	}

	channels := evt.Channels
	if len(channels) == 0 {
		channels = []string{"email"}
	}
	locale := evt.Locale
	if locale == "" {
		locale = "en"
	}

	payload := onready.OnReadyEvent{
		Recipients: evt.Recipients,
		Locale:     locale,
		ActorID:    evt.ActorID,
		Channels:   channels,
		FileName:   evt.FileName,
		Format:     evt.Format,
		URL:        evt.URL,
		ExpiresAt:  n.expiresAt(),
		Rows:       1,
		Parts:      1,
		Message:    evt.Message,
	}
	return n.delegate.Send(ctx, payload)
}

func (n *Notifier) expiresAt() string {
	now := time.Now()
	if n.Now != nil {
		now = n.Now()
	}
	ttl := n.LinkTTL
	if ttl <= 0 {
		ttl = DefaultLinkTTL
	}
	return now.Add(ttl).UTC().Format(time.RFC3339)
}
