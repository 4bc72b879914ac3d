// Package guard holds the precondition predicates gating mutations on
// account moderation state. Predicates are pure: a single error outcome, no
// side effects.
package guard

import (
	"fmt"

	"github.com/inkpost/server/internal/models"
)

// CheckNotBlocked fails when the account is blocked. The login path exempts
// admins; that exemption lives in the user service, not here.
func CheckNotBlocked(user *models.User) error {
	if user == nil {
		return fmt.Errorf("%w: user", models.ErrNotFound)
	}
	if user.IsBlocked {
		return fmt.Errorf("%w: %s", models.ErrAccessBlocked, user.FirstName)
	}
	return nil
}

// CheckVerified fails when the account has not completed email
// verification. Required before content submission.
func CheckVerified(user *models.User) error {
	if user == nil {
		return fmt.Errorf("%w: user", models.ErrNotFound)
	}
	if !user.IsAccountVerified {
		return fmt.Errorf("%w: %s", models.ErrAccessUnverified, user.FirstName)
	}
	return nil
}
