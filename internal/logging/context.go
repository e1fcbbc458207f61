package logging

import "context"

type requestIDKey struct{}

// WithRequestID returns a ctx whose log entries carry request_id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// contextArgs appends the request-scoped fields found in ctx to args.
func contextArgs(ctx context.Context, args []any) []any {
	if id := RequestID(ctx); id != "" {
		return append(args[:len(args):len(args)], "request_id", id)
	}
	return args
}
