// Package gateway runs LU parses off the caller's goroutine.
//
// A Gateway owns one worker goroutine and a bounded FIFO queue. Every
// submission gets a correlation id and a Future; the worker answers with a
// Response carrying the same id and the pending Future is resolved from it.
// Requests are handled strictly in submission order. There is no priority,
// cancellation or timeout: cancelling the context passed to Submit or Wait
// stops waiting, never the parse.
//
// The same Request/Response envelope is used by the out-of-process worker
// (`luedit worker`), which speaks msgpack over stdio through Serve.
package gateway
