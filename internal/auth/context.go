// Package auth verifies bearer tokens and carries the caller identity
// through request contexts.
package auth

import (
	"context"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// claimsContextKey is the context key for storing Claims.
	claimsContextKey contextKey = "auth_claims"
)

// ContextWithClaims adds verified claims to the context.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ContextWithSubject adds claims carrying only a subject. Used when an
// upstream authorizer has already verified the caller.
func ContextWithSubject(ctx context.Context, subject string) context.Context {
	claims := &Claims{}
	claims.Subject = subject
	return ContextWithClaims(ctx, claims)
}

// ClaimsFromContext retrieves Claims from the context.
// Returns nil if not present.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	if !ok {
		return nil
	}
	return claims
}

// SubjectFromContext returns the authenticated subject, or "" when the
// request is not authenticated.
func SubjectFromContext(ctx context.Context) string {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return ""
	}
	return claims.Subject
}
