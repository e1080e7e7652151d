package auth

import "github.com/farekit/transit-service/internal/domain"

// Identity is the request-scoped authenticated caller, derived from a
// verified token or from a trusted internal call. It is threaded through
// request state, never held in process-wide storage.
type Identity struct {
	Subject string
	Role    domain.Role
}

// CanAct is the self-or-admin authorization decision: true iff the caller is
// an admin or owns the target resource.
func (i Identity) CanAct(resourceOwnerID string) bool {
	if i.Role.IsAdmin() {
		return true
	}
	return i.Subject != "" && i.Subject == resourceOwnerID
}
