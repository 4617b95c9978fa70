// Package grpccreds bridges callauth providers onto grpc-go
// connections, as per-RPC credentials or as client interceptors.
package grpccreds

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/metadata"

	"github.com/louisbranch/callauth"
	apperrors "github.com/louisbranch/callauth/errors"
)

// PerRPC adapts a provider to grpc-go per-RPC credentials. The
// transport supplies the audience URI, so the provider sees the same
// scope the interceptor core would compute. Set AllowInsecure to permit
// use on connections without transport security.
//
// grpc-go carries a single value per metadata name on this path;
// providers returning multi-value headers should be attached through
// the client interceptors instead.
type PerRPC struct {
	Provider      callauth.Provider
	AllowInsecure bool
}

var _ credentials.PerRPCCredentials = PerRPC{}

// GetRequestMetadata implements credentials.PerRPCCredentials.
func (p PerRPC) GetRequestMetadata(ctx context.Context, uris ...string) (map[string]string, error) {
	if p.Provider == nil {
		return nil, apperrors.New(apperrors.CodeProviderMissing, "credential provider is required")
	}
	uri, err := audienceURI(uris)
	if err != nil {
		return nil, err
	}
	fetched, err := p.Provider.FetchMetadata(ctx, uri)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFetchFailed, "fetch auth metadata", err)
	}

	out := make(map[string]string, len(fetched))
	for _, entry := range fetched {
		if len(entry.Values) == 0 {
			continue
		}
		// The transport downcases keys regardless.
		out[strings.ToLower(entry.Name)] = entry.Values[0]
	}
	return out, nil
}

// RequireTransportSecurity implements credentials.PerRPCCredentials.
func (p PerRPC) RequireTransportSecurity() bool {
	return !p.AllowInsecure
}

// audienceURI parses the transport-supplied audience into a ServiceURI.
func audienceURI(uris []string) (callauth.ServiceURI, error) {
	if len(uris) == 0 {
		return callauth.ServiceURI{}, apperrors.New(apperrors.CodeAuthorityMalformed, "no audience URI supplied")
	}
	parsed, err := url.Parse(uris[0])
	if err != nil {
		return callauth.ServiceURI{}, apperrors.Wrap(apperrors.CodeAuthorityMalformed, "parse audience URI", err)
	}
	port := 0
	if raw := parsed.Port(); raw != "" {
		port, err = strconv.Atoi(raw)
		if err != nil {
			return callauth.ServiceURI{}, apperrors.Wrap(apperrors.CodeAuthorityMalformed, "parse audience port", err)
		}
	}
	return callauth.ServiceURI{
		Host:    parsed.Hostname(),
		Port:    port,
		Service: strings.TrimPrefix(parsed.Path, "/"),
	}, nil
}

// UnaryClientInterceptor fetches credential metadata for each unary
// call and appends it to the outgoing context before invoking.
func UnaryClientInterceptor(provider callauth.Provider) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req any,
		reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		ctx, err := withProviderMetadata(ctx, provider, cc, method)
		if err != nil {
			return err
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// StreamClientInterceptor fetches credential metadata for each stream
// and appends it to the outgoing context before opening it.
func StreamClientInterceptor(provider callauth.Provider) grpc.StreamClientInterceptor {
	return func(
		ctx context.Context,
		desc *grpc.StreamDesc,
		cc *grpc.ClientConn,
		method string,
		streamer grpc.Streamer,
		opts ...grpc.CallOption,
	) (grpc.ClientStream, error) {
		ctx, err := withProviderMetadata(ctx, provider, cc, method)
		if err != nil {
			return nil, err
		}
		return streamer(ctx, desc, cc, method, opts...)
	}
}

// withProviderMetadata scopes a fetch to the connection target and
// method, then appends every fetched value to the outgoing metadata in
// provider order.
func withProviderMetadata(ctx context.Context, provider callauth.Provider, cc *grpc.ClientConn, method string) (context.Context, error) {
	if provider == nil {
		return nil, apperrors.New(apperrors.CodeProviderMissing, "credential provider is required")
	}
	uri, err := callauth.BuildServiceURI(targetAuthority(cc), method)
	if err != nil {
		return nil, err
	}
	fetched, err := provider.FetchMetadata(ctx, uri)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFetchFailed, "fetch auth metadata", err)
	}
	if len(fetched) == 0 {
		return ctx, nil
	}

	pairs := make([]string, 0, len(fetched)*2)
	for _, entry := range fetched {
		for _, value := range entry.Values {
			pairs = append(pairs, entry.Name, value)
		}
	}
	return metadata.AppendToOutgoingContext(ctx, pairs...), nil
}

// targetAuthority strips the resolver scheme from the canonical target,
// leaving the "host[:port]" authority.
func targetAuthority(cc *grpc.ClientConn) string {
	if cc == nil {
		return ""
	}
	target := cc.CanonicalTarget()
	if idx := strings.LastIndex(target, "/"); idx >= 0 {
		target = target[idx+1:]
	}
	return target
}
