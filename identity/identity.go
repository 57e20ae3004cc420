// Package identity is the boundary to the external identity provider.
// The engagement layer only ever asks "who is acting right now"; token
// issuance lives elsewhere.
package identity

import "context"

// User is the authenticated identity snapshot.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// Provider resolves the acting user. A nil result means anonymous.
type Provider interface {
	Current(ctx context.Context) *User
}

type ctxKey struct{}

// WithUser attaches the acting user to the context.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext returns the user attached by WithUser, or nil.
func FromContext(ctx context.Context) *User {
	u, _ := ctx.Value(ctxKey{}).(*User)
	return u
}

// ContextProvider resolves the user from the request context, where the
// auth middleware put it.
type ContextProvider struct{}

func (ContextProvider) Current(ctx context.Context) *User {
	return FromContext(ctx)
}

// Static always returns the same user. Test helper.
type Static struct {
	User *User
}

func (s Static) Current(context.Context) *User {
	return s.User
}
