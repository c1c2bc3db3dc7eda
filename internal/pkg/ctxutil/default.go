package ctxutil

import "context"

// Default substitutes context.Background for a nil ctx, for callers that
// build job and row contexts by hand.
func Default(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}
