// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// BatchKey is the context key for the batch ID.
type BatchKey struct{}

// RecipientKey is the context key for the recipient email being processed.
type RecipientKey struct{}

// WithBatchID returns a context with the batch ID embedded.
func WithBatchID(ctx context.Context, batchID string) context.Context {
	return context.WithValue(ctx, BatchKey{}, batchID)
}

// BatchIDFromContext returns the batch ID from context, or empty string if not set.
func BatchIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(BatchKey{}).(string); ok {
		return v
	}
	return ""
}

// WithRecipient returns a context carrying the recipient email.
func WithRecipient(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, RecipientKey{}, email)
}

// RecipientFromContext returns the recipient email from context, or empty string if not set.
func RecipientFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(RecipientKey{}).(string); ok {
		return v
	}
	return ""
}
