// Package identity threads the authenticated owner through request contexts.
package identity

import "context"

type ctxKey string

const ownerKey ctxKey = "leadhub.owner_id"

// WithOwnerID stores the owner id in context.
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerKey, ownerID)
}

// OwnerIDFromContext extracts the owner id if present.
func OwnerIDFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(ownerKey)
	if val == nil {
		return "", false
	}
	ownerID, ok := val.(string)
	return ownerID, ok && ownerID != ""
}
