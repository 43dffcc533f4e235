package apiclient

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/feedbackhub/portal/internal/core/ports"
	"github.com/feedbackhub/portal/internal/pkg/metrics"
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to Doer.
type DoerFunc func(req *http.Request) (*http.Response, error)

func (f DoerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

// Middleware wraps a Doer with request or response handling.
type Middleware func(next Doer) Doer

// Chain applies middleware so that the first one listed sees the request
// first and the response last.
func Chain(d Doer, middleware ...Middleware) Doer {
	for i := len(middleware) - 1; i >= 0; i-- {
		d = middleware[i](d)
	}
	return d
}

// Bearer attaches "Authorization: Bearer <token>" when tokens has one.
// Requests go out unauthenticated when it does not.
func Bearer(tokens ports.TokenSource) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			if tokens != nil {
				token, ok, err := tokens.Get(req.Context())
				if err != nil {
					return nil, err
				}
				if ok {
					req.Header.Set("Authorization", "Bearer "+token)
				}
			}
			return next.Do(req)
		})
	}
}

// Invalidation reports 401 responses to listener. The response itself is
// passed through untouched; turning it into an error is left to the caller.
func Invalidation(listener ports.InvalidationListener) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.Do(req)
			if err != nil || resp.StatusCode != http.StatusUnauthorized || listener == nil {
				return resp, err
			}
			listener(req.Context(), ports.SessionInvalidated{
				Method:   req.Method,
				Endpoint: endpointFrom(req.Context()),
				At:       time.Now().UTC(),
			})
			return resp, nil
		})
	}
}

// Instrument records backend call counts and latency.
func Instrument() Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			endpoint := endpointFrom(req.Context())
			start := time.Now()
			resp, err := next.Do(req)
			metrics.BackendRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

			status := "error"
			if err == nil {
				status = strconv.Itoa(resp.StatusCode)
			}
			metrics.BackendRequestsTotal.WithLabelValues(endpoint, status).Inc()
			return resp, err
		})
	}
}

type endpointKey struct{}

// withEndpoint tags ctx with the route template used for logs and metrics.
func withEndpoint(ctx context.Context, endpoint string) context.Context {
	return context.WithValue(ctx, endpointKey{}, endpoint)
}

func endpointFrom(ctx context.Context) string {
	if v, ok := ctx.Value(endpointKey{}).(string); ok {
		return v
	}
	return "unknown"
}
