// Package upstreamtest provides a scripted completion gateway for tests.
package upstreamtest

import (
	"context"
	"sync"

	"metaweb/console/pkg/upstream"
)

// Gateway is a test double for upstream.Gateway. It records every request
// and returns the scripted completion or error.
type Gateway struct {
	mu sync.Mutex

	// Requests holds every request received, in order.
	Requests []*upstream.Request

	// Completion is returned on success. A nil Completion yields a
	// completion echoing the request message.
	Completion *upstream.Completion

	// Err, when set, is returned instead of a completion.
	Err error
}

// Complete implements upstream.Gateway.
func (g *Gateway) Complete(ctx context.Context, req *upstream.Request) (*upstream.Completion, error) {
	g.mu.Lock()
	reqCopy := *req
	g.Requests = append(g.Requests, &reqCopy)
	completion := g.Completion
	err := g.Err
	g.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if completion == nil {
		return &upstream.Completion{
			Content: "echo: " + req.Message,
			Model:   req.Model,
		}, nil
	}
	out := *completion
	return &out, nil
}

// LastRequest returns the most recent request, or nil when none was made.
func (g *Gateway) LastRequest() *upstream.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.Requests) == 0 {
		return nil
	}
	return g.Requests[len(g.Requests)-1]
}
