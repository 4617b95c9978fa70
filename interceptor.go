package callauth

import (
	"context"

	"google.golang.org/grpc"

	"github.com/louisbranch/callauth/errors"
)

// Interceptor decorates every new call with credential metadata from a
// provider. The provider and executor are shared across all calls the
// interceptor creates; both must tolerate concurrent use.
type Interceptor struct {
	provider Provider
	executor Executor
}

// New builds an Interceptor. Both the provider and the executor are
// required.
func New(provider Provider, executor Executor) (*Interceptor, error) {
	if provider == nil {
		return nil, errors.New(errors.CodeProviderMissing, "credential provider is required")
	}
	if executor == nil {
		return nil, errors.New(errors.CodeExecutorMissing, "executor is required")
	}
	return &Interceptor{provider: provider, executor: executor}, nil
}

// InterceptCall creates a call on channel whose start waits for
// credential metadata scoped to the channel's authority and the
// method's service. Malformed authorities and method names fail here,
// synchronously, before any call is created. Each intercepted call
// triggers a fresh fetch; caching belongs to the provider.
func (i *Interceptor) InterceptCall(ctx context.Context, fullMethod string, channel Channel, opts ...grpc.CallOption) (*DeferredCall, error) {
	uri, err := BuildServiceURI(channel.Authority(), fullMethod)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return &DeferredCall{
		ctx:      ctx,
		call:     channel.NewCall(ctx, fullMethod, opts...),
		uri:      uri,
		provider: i.provider,
		executor: i.executor,
	}, nil
}
