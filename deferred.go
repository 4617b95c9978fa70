package callauth

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/grpc/metadata"

	"github.com/louisbranch/callauth/errors"
)

// callState tracks where a deferred call is in its lifecycle.
type callState int

const (
	stateIdle callState = iota
	statePending
	stateStarted
	stateCancelled
	stateFailed
)

// DeferredCall wraps an underlying call and delays its start until
// credential metadata resolves. The underlying call's Start runs at
// most once, and only with merged headers; a failed fetch closes the
// listener with an Unauthenticated status instead.
//
// All transitions are decided under one mutex; side effects run outside
// it, so the machine behaves the same whether the executor runs tasks
// inline or concurrently.
type DeferredCall struct {
	ctx      context.Context
	call     ClientCall
	uri      ServiceURI
	provider Provider
	executor Executor

	mu       sync.Mutex
	state    callState
	listener Listener
	headers  metadata.MD
}

// Start schedules the credential fetch and returns without blocking.
// It is valid exactly once, before any cancellation; later invocations
// are rejected without scheduling a second fetch.
func (c *DeferredCall) Start(listener Listener, headers metadata.MD) error {
	if listener == nil {
		return fmt.Errorf("listener is required")
	}

	c.mu.Lock()
	if c.state != stateIdle {
		c.mu.Unlock()
		return fmt.Errorf("deferred call already started or cancelled")
	}
	c.state = statePending
	c.listener = listener
	c.headers = headers
	c.mu.Unlock()

	c.executor.Execute(func() {
		fetched, err := c.provider.FetchMetadata(c.ctx, c.uri)
		if err != nil {
			c.failFetch(err)
			return
		}
		c.completeFetch(fetched)
	})
	return nil
}

// Cancel abandons the call. Before the fetch resolves, the eventual
// result is discarded and neither the underlying call nor the listener
// hears anything. Once the call has resolved, cancellation is forwarded
// to the underlying call.
func (c *DeferredCall) Cancel(reason error) {
	c.mu.Lock()
	switch c.state {
	case stateIdle, statePending, stateCancelled:
		c.state = stateCancelled
		c.mu.Unlock()
	default:
		c.mu.Unlock()
		c.call.Cancel(reason)
	}
}

// completeFetch delivers a successful fetch. A call cancelled while the
// fetch was in flight discards the result.
func (c *DeferredCall) completeFetch(fetched Headers) {
	c.mu.Lock()
	if c.state != statePending {
		c.mu.Unlock()
		return
	}
	c.state = stateStarted
	listener := c.listener
	merged := MergeHeaders(fetched, c.headers)
	c.mu.Unlock()

	c.call.Start(listener, merged)
}

// failFetch delivers a failed fetch. The underlying call is never
// started; the listener observes the same shape of closure a server
// rejection would produce.
func (c *DeferredCall) failFetch(cause error) {
	c.mu.Lock()
	if c.state != statePending {
		c.mu.Unlock()
		return
	}
	c.state = stateFailed
	listener := c.listener
	c.mu.Unlock()

	listener.OnClose(errors.Wrap(errors.CodeFetchFailed, "fetch auth metadata", cause), metadata.MD{})
}
