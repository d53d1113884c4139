// Package notify delivers out-of-band messages: OTP codes, security alerts
// and password-reset links.
package notify

import "context"

// Sink delivers a message to a recipient. Implementations must be safe for
// concurrent use; callers treat delivery failures as non-fatal.
type Sink interface {
	Send(ctx context.Context, to, subject, body string) error
}
