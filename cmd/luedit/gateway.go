package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"luedit/internal/gateway"
	"luedit/internal/logging"
	"luedit/internal/lufile"
	"luedit/internal/parser"
)

// parseOptions are the parser options implied by the environment.
func (e *env) parseOptions() parser.Options {
	return parser.Options{MaxErrors: uint(e.maxDiags)}
}

// newGateway starts an in-process parse gateway.
func (e *env) newGateway() *gateway.Gateway {
	return gateway.New("lu", gateway.ParseHandler(e.parseOptions()), gateway.Options{
		QueueSize: e.cfg.Gateway.QueueSize,
		Logger:    logging.Named(e.log, "gateway"),
	})
}

// workerGateway starts `luedit worker` as a child process and returns a
// gateway whose handler talks to it over the child's stdio.
func (e *env) workerGateway(ctx context.Context) (*gateway.Gateway, func() error, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to locate luedit binary: %w", err)
	}
	// #nosec G204 -- runs this very binary
	child := exec.CommandContext(ctx, exe, "worker", "--quiet", "--max-diagnostics", strconv.Itoa(e.maxDiags))
	child.Stderr = os.Stderr
	stdin, err := child.StdinPipe()
	if err != nil {
		return nil, nil, err
	}
	stdout, err := child.StdoutPipe()
	if err != nil {
		return nil, nil, err
	}
	if err := child.Start(); err != nil {
		return nil, nil, fmt.Errorf("failed to start worker: %w", err)
	}
	gw := gateway.New("lu", gateway.StreamHandler(stdout, stdin), gateway.Options{
		QueueSize: e.cfg.Gateway.QueueSize,
		Logger:    logging.Named(e.log, "gateway"),
	})
	stop := func() error {
		closeErr := gw.Close()
		// EOF на stdin завершает worker
		stdinErr := stdin.Close()
		return errors.Join(closeErr, stdinErr, child.Wait())
	}
	return gw, stop, nil
}

// parseDocument parses content through a gateway: in process, or in a
// worker child when viaWorker is set.
func (e *env) parseDocument(ctx context.Context, id, content string, viaWorker bool) (*lufile.Document, error) {
	if !viaWorker {
		gw := e.newGateway()
		defer func() { _ = gw.Close() }()
		return gw.Parse(ctx, id, content)
	}
	gw, stop, err := e.workerGateway(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := gw.Parse(ctx, id, content)
	if stopErr := stop(); err == nil && stopErr != nil {
		e.log.Sugar().Warnf("worker shutdown: %v", stopErr)
	}
	return doc, err
}
