package gateway

import (
	"context"
	"errors"
	"fmt"

	"luedit/internal/lufile"
	"luedit/internal/parser"
	"luedit/internal/trace"
)

// TypeParse is the only request type the LU worker understands.
const TypeParse = "parse"

var (
	ErrUnknownType = errors.New("gateway: unknown request type")
	ErrClosed      = errors.New("gateway: closed")
)

// Payload is the document to parse.
type Payload struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// Request is a message sent to the worker.
type Request struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"`
	Payload Payload `json:"payload"`
}

// ErrorInfo describes a failed request. It travels on the wire, so it
// carries text rather than an error value.
type ErrorInfo struct {
	Message string `json:"message"`
	Panic   bool   `json:"panic,omitempty"`
}

func (e *ErrorInfo) Error() string {
	if e.Panic {
		return "gateway: handler panicked: " + e.Message
	}
	return e.Message
}

// Response answers the Request with the same ID. Exactly one of Payload
// and Error is set.
type Response struct {
	ID      string           `json:"id"`
	Payload *lufile.Document `json:"payload,omitempty"`
	Error   *ErrorInfo       `json:"error,omitempty"`
}

// Handler turns a request into a parsed document.
type Handler func(ctx context.Context, req Request) (*lufile.Document, error)

// ParseHandler handles TypeParse with the given parser options.
// opts.Path is replaced by the document id of every request.
func ParseHandler(opts parser.Options) Handler {
	return func(ctx context.Context, req Request) (*lufile.Document, error) {
		if req.Type != TypeParse {
			return nil, fmt.Errorf("%w: %q", ErrUnknownType, req.Type)
		}
		span, _ := trace.StartSpan(ctx, trace.ScopeEdit, "parse")
		o := opts
		o.Path = req.Payload.ID
		doc := lufile.ParseWith(req.Payload.ID, req.Payload.Content, o)
		span.WithExtra("intents", fmt.Sprint(len(doc.Intents))).End(req.Payload.ID)
		return doc, nil
	}
}

// HandleMessage runs h for req and packs the outcome into a Response.
// A panic in h becomes an ErrorInfo; it never escapes.
func HandleMessage(ctx context.Context, h Handler, req Request) (resp Response) {
	resp.ID = req.ID
	span, ctx := trace.StartSpan(ctx, trace.ScopeRequest, "gateway:"+req.Type)
	defer func() {
		if r := recover(); r != nil {
			resp.Payload = nil
			resp.Error = &ErrorInfo{Message: fmt.Sprint(r), Panic: true}
		}
		detail := "ok"
		if resp.Error != nil {
			detail = "error"
		}
		span.End(detail)
	}()

	doc, err := h(ctx, req)
	if err != nil {
		var info *ErrorInfo
		if !errors.As(err, &info) {
			info = &ErrorInfo{Message: err.Error()}
		}
		resp.Error = info
		return resp
	}
	resp.Payload = doc
	return resp
}
