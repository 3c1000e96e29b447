package logtrace

import (
	"context"

	"github.com/google/uuid"
)

type operationIDKey struct{}

// WithOperationID tags ctx with a fresh operation id used to correlate the
// log lines of one client call. Ids are UUIDv7 so they sort by start time.
func WithOperationID(ctx context.Context) (context.Context, string) {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return context.WithValue(ctx, operationIDKey{}, id.String()), id.String()
}

func OperationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	r, ok := ctx.Value(operationIDKey{}).(string)
	if !ok {
		return ""
	}
	return r
}
