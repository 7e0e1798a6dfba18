package services

import "context"

type contextKey string

const (
	operationIDKey   contextKey = "operation_id"
	operationKindKey contextKey = "operation_kind"
)

// WithOperationID annotates context with the runner invocation identifier.
func WithOperationID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, operationIDKey, id)
}

// OperationIDFromContext extracts the runner invocation identifier if present.
func OperationIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(operationIDKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithOperationKind annotates context with the operation kind name.
func WithOperationKind(ctx context.Context, kind string) context.Context {
	if kind == "" {
		return ctx
	}
	return context.WithValue(ctx, operationKindKey, kind)
}

// OperationKindFromContext returns the operation kind if present.
func OperationKindFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(operationKindKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
