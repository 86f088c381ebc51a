// Package mailbox is the boundary to the mail transport: fetching
// unread messages over IMAP and sending replies over SMTP.
package mailbox

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Message is one inbound email, already parsed down to plain text.
type Message struct {
	// UID is the IMAP UID within the selected mailbox, used for
	// flag updates.
	UID uint32
	// MessageID is the globally unique Message-Id header, used for
	// deduplication.
	MessageID string
	From      string
	Subject   string
	Body      string
	Date      time.Time
}

// Gateway is the mail transport the pipeline depends on.
type Gateway interface {
	// FetchUnread returns the unread messages in the inbox, oldest
	// first. Transport failures are retried with backoff internally;
	// an error here is fatal for the current cycle only.
	FetchUnread(ctx context.Context) ([]Message, error)

	// Send delivers a plain-text email.
	Send(ctx context.Context, to, subject, body string) error

	// MarkRead flags a fetched message as seen.
	MarkRead(ctx context.Context, uid uint32) error
}

// TransportError wraps a mail transport failure. Recoverable: the
// caller skips the cycle and retries on the next one.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("mail transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err is a transport failure.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
