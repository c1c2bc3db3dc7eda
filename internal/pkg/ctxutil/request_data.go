package ctxutil

import "context"

type requestDataKey struct{}

// RequestData carries caller identity as asserted by the fronting gateway.
// Nothing in this service verifies it.
type RequestData struct {
	Actor string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// Actor returns the caller name or "anonymous".
func Actor(ctx context.Context) string {
	if rd := GetRequestData(ctx); rd != nil && rd.Actor != "" {
		return rd.Actor
	}
	return "anonymous"
}
