// Package credentials provides pluggable sources of per-call
// authentication metadata. Every variant is stateless per fetch; token
// refresh and caching policy stay with the underlying token source.
package credentials

import (
	"context"
	"fmt"

	"github.com/louisbranch/callauth"
)

// AuthorizationHeader is the metadata name bearer tokens travel under.
const AuthorizationHeader = "Authorization"

// ProviderFunc adapts a function to the callauth.Provider interface.
type ProviderFunc func(ctx context.Context, uri callauth.ServiceURI) (callauth.Headers, error)

// FetchMetadata implements callauth.Provider for ProviderFunc.
func (fn ProviderFunc) FetchMetadata(ctx context.Context, uri callauth.ServiceURI) (callauth.Headers, error) {
	return fn(ctx, uri)
}

// Static sends the same header set with every call. Each fetch returns
// a copy so concurrent calls never share value slices.
type Static struct {
	Headers callauth.Headers
}

// FetchMetadata implements callauth.Provider.
func (s Static) FetchMetadata(context.Context, callauth.ServiceURI) (callauth.Headers, error) {
	out := make(callauth.Headers, 0, len(s.Headers))
	for _, entry := range s.Headers {
		out = append(out, callauth.Header{
			Name:   entry.Name,
			Values: append([]string(nil), entry.Values...),
		})
	}
	return out, nil
}

// Bearer returns a provider sending a fixed bearer token.
func Bearer(token string) callauth.Provider {
	return ProviderFunc(func(context.Context, callauth.ServiceURI) (callauth.Headers, error) {
		return bearerHeaders(token), nil
	})
}

// TokenFunc adapts a token source into a bearer provider. The source is
// consulted on every fetch; whether it refreshes, caches, or fails is
// its own business.
func TokenFunc(source func(ctx context.Context) (string, error)) callauth.Provider {
	return ProviderFunc(func(ctx context.Context, _ callauth.ServiceURI) (callauth.Headers, error) {
		token, err := source(ctx)
		if err != nil {
			return nil, fmt.Errorf("obtain token: %w", err)
		}
		return bearerHeaders(token), nil
	})
}

// Anonymous attaches no metadata at all.
func Anonymous() callauth.Provider {
	return ProviderFunc(func(context.Context, callauth.ServiceURI) (callauth.Headers, error) {
		return nil, nil
	})
}

func bearerHeaders(token string) callauth.Headers {
	return callauth.Headers{{Name: AuthorizationHeader, Values: []string{"Bearer " + token}}}
}
