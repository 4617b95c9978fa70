package callauth

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Listener receives terminal notifications for a call. Only the
// credential failure path is driven by this package; everything else is
// between the listener and the underlying call.
type Listener interface {
	// OnClose reports call termination. On credential failure the error
	// carries a gRPC status with code Unauthenticated and the fetch
	// error as its cause.
	OnClose(err error, trailers metadata.MD)
}

// ClientCall is one RPC invocation's control surface, supporting a
// deferred start and cancellation.
type ClientCall interface {
	Start(listener Listener, headers metadata.MD)
	Cancel(reason error)
}

// Channel creates calls toward a target authority.
type Channel interface {
	// Authority reports the "host[:port]" the channel connects to.
	Authority() string
	// NewCall creates an unstarted call for the full method name.
	NewCall(ctx context.Context, fullMethod string, opts ...grpc.CallOption) ClientCall
}

// Provider produces authentication metadata scoped to a service URI.
// It is invoked synchronously from within an executor's unit of work
// and must be safe for concurrent use across calls. Caching and
// refresh policy belong to the implementation, not to this package.
type Provider interface {
	FetchMetadata(ctx context.Context, uri ServiceURI) (Headers, error)
}
