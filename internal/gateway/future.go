package gateway

import (
	"context"

	"luedit/internal/lufile"
)

// Future is the pending result of one submission.
type Future struct {
	id   string
	done chan struct{}
	resp Response
}

func newFuture(id string) *Future {
	return &Future{id: id, done: make(chan struct{})}
}

// ID returns the correlation id of the submission.
func (f *Future) ID() string { return f.id }

// Done is closed once the response has arrived.
func (f *Future) Done() <-chan struct{} { return f.done }

// Wait blocks until the response arrives or ctx is done. It may be called
// any number of times. A failed request yields an *ErrorInfo.
func (f *Future) Wait(ctx context.Context) (*lufile.Document, error) {
	select {
	case <-f.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if f.resp.Error != nil {
		return nil, f.resp.Error
	}
	return f.resp.Payload, nil
}

func (f *Future) resolve(resp Response) {
	f.resp = resp
	close(f.done)
}
