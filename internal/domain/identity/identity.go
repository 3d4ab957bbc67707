package identity

import "context"

// Identity is the authenticated caller of a request. It is resolved once by
// the auth middleware and carried through the request context.
type Identity struct {
	UserID    uint
	Email     string
	Superuser bool
}

// CanActFor reports whether the identity may act on resources owned by userID.
func (i Identity) CanActFor(userID uint) bool {
	return i.Superuser || i.UserID == userID
}

type contextKey struct{}

// WithIdentity attaches the identity to the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext extracts the identity from the context.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
