package gateway

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"luedit/internal/lufile"
)

// DefaultQueueSize bounds the queue when Options.QueueSize is not set.
const DefaultQueueSize = 64

// Options configures a Gateway; zero values pick the defaults.
type Options struct {
	QueueSize int
	Logger    *zap.Logger
	// NewID generates correlation ids; uuid.NewString by default.
	NewID func() string
}

type job struct {
	ctx context.Context
	req Request
}

// Gateway serialises parses of one grammar kind on a single worker.
type Gateway struct {
	kind    string
	handler Handler
	log     *zap.Logger
	newID   func() string

	queue chan job
	done  chan struct{}

	mu      sync.Mutex
	pending map[string]*Future

	sendMu sync.RWMutex // Submit: RLock, Close: Lock
	closed bool
}

// New starts the worker goroutine. Close must be called to stop it.
func New(kind string, handler Handler, opts Options) *Gateway {
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	g := &Gateway{
		kind:    kind,
		handler: handler,
		log:     opts.Logger.With(zap.String("gateway", kind)),
		newID:   opts.NewID,
		queue:   make(chan job, opts.QueueSize),
		done:    make(chan struct{}),
		pending: make(map[string]*Future),
	}
	go g.run()
	return g
}

// Kind returns the grammar kind this gateway serves.
func (g *Gateway) Kind() string { return g.kind }

// Submit queues a parse of content and returns its Future. It blocks while
// the queue is full, until ctx is done.
func (g *Gateway) Submit(ctx context.Context, docID, content string) (*Future, error) {
	g.sendMu.RLock()
	defer g.sendMu.RUnlock()
	if g.closed {
		return nil, ErrClosed
	}

	req := Request{
		ID:      g.newID(),
		Type:    TypeParse,
		Payload: Payload{ID: docID, Content: content},
	}
	f := newFuture(req.ID)

	g.mu.Lock()
	g.pending[req.ID] = f
	g.mu.Unlock()

	select {
	case g.queue <- job{ctx: context.WithoutCancel(ctx), req: req}:
		g.log.Debug("submitted", zap.String("id", req.ID), zap.String("doc", docID))
		return f, nil
	case <-ctx.Done():
		g.mu.Lock()
		delete(g.pending, req.ID)
		g.mu.Unlock()
		return nil, ctx.Err()
	}
}

// Parse submits content and waits for the document.
func (g *Gateway) Parse(ctx context.Context, docID, content string) (*lufile.Document, error) {
	f, err := g.Submit(ctx, docID, content)
	if err != nil {
		return nil, err
	}
	return f.Wait(ctx)
}

// Pending returns the number of submissions without a response yet.
func (g *Gateway) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pending)
}

// Close stops accepting submissions, lets the worker finish everything
// already queued and waits for it to exit.
func (g *Gateway) Close() error {
	g.sendMu.Lock()
	if !g.closed {
		g.closed = true
		close(g.queue)
	}
	g.sendMu.Unlock()
	<-g.done
	return nil
}

func (g *Gateway) run() {
	defer close(g.done)
	for j := range g.queue {
		resp := HandleMessage(j.ctx, g.handler, j.req)
		if resp.Error != nil {
			g.log.Warn("request failed",
				zap.String("id", resp.ID),
				zap.String("doc", j.req.Payload.ID),
				zap.Bool("panic", resp.Error.Panic),
				zap.String("error", resp.Error.Message))
		}
		g.resolve(resp)
	}
}

func (g *Gateway) resolve(resp Response) {
	g.mu.Lock()
	f, ok := g.pending[resp.ID]
	delete(g.pending, resp.ID)
	g.mu.Unlock()
	if !ok {
		g.log.Warn("response without pending request", zap.String("id", resp.ID))
		return
	}
	f.resolve(resp)
}
