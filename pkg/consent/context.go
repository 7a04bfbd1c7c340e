package consent

import "context"

type resultKey struct{}

// WithResult stores the enforcement result in ctx.
func WithResult(ctx context.Context, res Result) context.Context {
	return context.WithValue(ctx, resultKey{}, res)
}

// FromContext returns the enforcement result stored by Middleware.
func FromContext(ctx context.Context) (Result, bool) {
	if ctx == nil {
		return Result{}, false
	}
	res, ok := ctx.Value(resultKey{}).(Result)
	return res, ok
}

// BannerVisibleFromContext reports whether the banner should be shown for
// the current request. Without a stored result the banner is shown.
func BannerVisibleFromContext(ctx context.Context) bool {
	res, ok := FromContext(ctx)
	if !ok {
		return true
	}
	return res.BannerVisible
}

// RecordFromContext returns the consent record read for the current request.
func RecordFromContext(ctx context.Context) Record {
	res, _ := FromContext(ctx)
	return res.Record
}

type storeKey struct{}

func withStore(ctx context.Context, s *HTTPStore) context.Context {
	return context.WithValue(ctx, storeKey{}, s)
}

func storeFromContext(ctx context.Context) (*HTTPStore, bool) {
	s, ok := ctx.Value(storeKey{}).(*HTTPStore)
	return s, ok
}
