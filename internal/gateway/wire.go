package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"luedit/internal/lufile"
)

func newEncoder(w io.Writer) *msgpack.Encoder {
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	return enc
}

func newDecoder(r io.Reader) *msgpack.Decoder {
	dec := msgpack.NewDecoder(r)
	dec.SetCustomStructTag("json")
	return dec
}

// Serve reads msgpack Requests from r and writes one Response per request
// to w until r is exhausted or ctx is done. Requests are handled one at a
// time in arrival order.
func Serve(ctx context.Context, r io.Reader, w io.Writer, h Handler, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	dec := newDecoder(r)
	enc := newEncoder(w)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var req Request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("gateway: decode request: %w", err)
		}
		log.Debug("request", zap.String("id", req.ID), zap.String("type", req.Type))
		resp := HandleMessage(ctx, h, req)
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("gateway: encode response %s: %w", req.ID, err)
		}
	}
}

// StreamHandler forwards requests to a worker speaking the Serve protocol
// on the other end of r and w. Calls are serialised.
func StreamHandler(r io.Reader, w io.Writer) Handler {
	var mu sync.Mutex
	dec := newDecoder(r)
	enc := newEncoder(w)
	return func(_ context.Context, req Request) (*lufile.Document, error) {
		mu.Lock()
		defer mu.Unlock()
		if err := enc.Encode(req); err != nil {
			return nil, fmt.Errorf("gateway: send %s: %w", req.ID, err)
		}
		var resp Response
		if err := dec.Decode(&resp); err != nil {
			return nil, fmt.Errorf("gateway: receive %s: %w", req.ID, err)
		}
		if resp.ID != req.ID {
			return nil, fmt.Errorf("gateway: response id %q does not match request %q", resp.ID, req.ID)
		}
		if resp.Error != nil {
			return nil, resp.Error
		}
		return resp.Payload, nil
	}
}
