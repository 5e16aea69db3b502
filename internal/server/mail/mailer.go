// Package mail delivers outbound transactional email. The only message the
// server sends today is the password-reset link.
package mail

import "context"

// Mailer is the narrow contract the auth flow depends on.
type Mailer interface {
	// SendPasswordReset mails the reset link to the given address.
	SendPasswordReset(ctx context.Context, email, resetLink string) error
}
