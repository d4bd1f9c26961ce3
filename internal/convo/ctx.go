package convo

import "context"

type ctxKey struct{}

// IntoContext attaches the per-turn conversation context so that nested tool
// handlers (the booking lane invoked as a sub-tool) can reach it without
// widening every handler signature.
func IntoContext(ctx context.Context, cc *Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, cc)
}

// FromContext returns the attached conversation context, or an empty one if
// the caller never attached any.
func FromContext(ctx context.Context) *Context {
	if cc, ok := ctx.Value(ctxKey{}).(*Context); ok {
		return cc
	}
	return &Context{}
}
