package core

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const ctxKeyExecutionID ctxKey = "execution_id"

// WithExecutionID tags ctx with the id of the tool execution it serves.
func WithExecutionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyExecutionID, id)
}

// ExecutionID returns the id set by WithExecutionID, or a fresh one.
func ExecutionID(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKeyExecutionID).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
