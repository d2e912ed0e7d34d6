package services

import "context"

type contextKey string

const (
	runIDKey      contextKey = "run_id"
	identifierKey contextKey = "identifier"
)

// WithRunID annotates context with the run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithIdentifier annotates context with the product identifier being fetched.
func WithIdentifier(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, identifierKey, id)
}

// IdentifierFromContext returns the product identifier if present.
func IdentifierFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(identifierKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
