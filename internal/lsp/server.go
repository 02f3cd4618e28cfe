// Package lsp is a language server for LU documents over stdio JSON-RPC.
// Every open document is parsed through a gateway; diagnostics are
// published per URI and the lu/* requests expose intent edits.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"luedit/internal/gateway"
	"luedit/internal/lufile"
	"luedit/internal/parser"
	"luedit/internal/trace"
	"luedit/internal/version"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// DefaultDebounce delays parsing after the last change of a document.
const DefaultDebounce = 150 * time.Millisecond

// ServerOptions configures LSP server behavior.
type ServerOptions struct {
	Debounce time.Duration
	// MaxDiagnostics caps published diagnostics per document; 0 takes
	// the workspace luedit.toml value, or no cap.
	MaxDiagnostics int
	// Gateway parses documents. When nil the server starts and owns one.
	Gateway *gateway.Gateway
	Logger  *zap.Logger
}

type docState struct {
	text      string
	version   int
	seq       uint64
	parsed    *lufile.Document
	parsedSeq uint64
	timer     *time.Timer
}

// Server handles stdio JSON-RPC for LU documents.
type Server struct {
	in        *bufio.Reader
	out       *bufio.Writer
	sendMu    sync.Mutex
	publishMu sync.Mutex
	mu        sync.Mutex

	docs      map[string]*docState
	published map[string]struct{}

	workspaceRoot     string
	shutdownRequested bool
	debounce          time.Duration
	maxDiagnostics    int
	explicitMax       bool
	traceLSP          bool

	gw       *gateway.Gateway
	ownsGW   bool
	log      *zap.Logger
	baseCtx  context.Context
	seq      atomic.Uint64
	inflight sync.WaitGroup
}

// NewServer constructs a new LSP server.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	s := &Server{
		in:             bufio.NewReader(in),
		out:            bufio.NewWriter(out),
		docs:           make(map[string]*docState),
		published:      make(map[string]struct{}),
		debounce:       debounce,
		maxDiagnostics: opts.MaxDiagnostics,
		explicitMax:    opts.MaxDiagnostics > 0,
		gw:             opts.Gateway,
		log:            log,
		baseCtx:        context.Background(),
	}
	if s.gw == nil {
		s.gw = gateway.New("lu", gateway.ParseHandler(parser.Options{}), gateway.Options{Logger: log})
		s.ownsGW = true
	}
	return s
}

// Run serves LSP requests until exit or end of input.
func (s *Server) Run(ctx context.Context) error {
	s.baseCtx = ctx
	defer s.stop()
	for {
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.log.Warn("failed to parse message", zap.Error(err))
			if sendErr := s.sendError(nil, codeParseError, "parse error"); sendErr != nil {
				return sendErr
			}
			continue
		}
		if msg.Method == "" {
			continue
		}
		if err := s.dispatch(&msg); err != nil {
			return err
		}
	}
}

// stop cancels pending debounce timers, waits for running parses and
// closes an owned gateway.
func (s *Server) stop() {
	s.mu.Lock()
	for _, doc := range s.docs {
		s.stopTimerLocked(doc)
	}
	s.mu.Unlock()
	s.inflight.Wait()
	if s.ownsGW {
		_ = s.gw.Close()
	}
}

func (s *Server) dispatch(msg *rpcMessage) error {
	span, _ := trace.StartSpan(s.baseCtx, trace.ScopeRequest, "lsp:"+msg.Method)
	err := s.handleMessage(msg)
	detail := "ok"
	if err != nil {
		detail = err.Error()
	}
	span.End(detail)
	if s.currentTrace() {
		s.log.Debug("handled", zap.String("method", msg.Method), zap.Error(err))
	}
	return err
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	s.mu.Lock()
	shutdown := s.shutdownRequested
	s.mu.Unlock()
	if shutdown && msg.Method != "exit" {
		if msg.isRequest() {
			return s.sendError(msg.ID, codeInvalidRequest, "server is shutting down")
		}
		return nil
	}

	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		if shutdown {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	case "workspace/didChangeConfiguration":
		return s.handleDidChangeConfiguration(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return s.handleDidSave(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/documentSymbol":
		return s.handleDocumentSymbol(msg)
	case "textDocument/foldingRange":
		return s.handleFoldingRange(msg)
	case "lu/addIntent":
		return s.handleAddIntent(msg)
	case "lu/updateIntent":
		return s.handleUpdateIntent(msg)
	case "lu/replaceIntent":
		return s.handleReplaceIntent(msg)
	case "lu/removeIntent":
		return s.handleRemoveIntent(msg)
	default:
		if msg.isRequest() {
			return s.sendError(msg.ID, codeMethodNotFound, "method not found")
		}
		return nil
	}
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	root := ""
	if params.RootURI != "" {
		root = uriToPath(params.RootURI)
	}
	if root == "" && params.RootPath != "" {
		root = params.RootPath
	}
	if root == "" && len(params.WorkspaceFolders) > 0 {
		root = uriToPath(params.WorkspaceFolders[0].URI)
	}
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
		s.loadWorkspaceConfig(root)
	}
	s.mu.Lock()
	s.workspaceRoot = root
	s.mu.Unlock()

	return s.sendResponse(msg.ID, initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync: textDocumentSyncOptions{
				OpenClose: true,
				Change:    2,
				Save:      saveOptions{IncludeText: true},
			},
			DocumentSymbolProvider: true,
			FoldingRangeProvider:   true,
		},
		ServerInfo: serverInfo{Name: "luedit", Version: version.Version},
	})
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.mu.Lock()
	s.shutdownRequested = true
	for _, doc := range s.docs {
		s.stopTimerLocked(doc)
	}
	s.mu.Unlock()
	s.clearPublishedDiagnostics()
	return s.sendResponse(msg.ID, nil)
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	if old := s.docs[uri]; old != nil {
		s.stopTimerLocked(old)
	}
	s.docs[uri] = &docState{text: params.TextDocument.Text, version: params.TextDocument.Version}
	s.mu.Unlock()
	s.scheduleDiagnostics(uri)
	return nil
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	s.mu.Lock()
	doc := s.docs[uri]
	if doc == nil {
		s.mu.Unlock()
		s.log.Warn("didChange for a document that is not open", zap.String("uri", uri))
		return nil
	}
	doc.text = applyChanges(doc.text, params.ContentChanges)
	doc.version = params.TextDocument.Version
	s.mu.Unlock()
	s.scheduleDiagnostics(uri)
	return nil
}

func (s *Server) handleDidSave(msg *rpcMessage) error {
	var params didSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	s.mu.Lock()
	doc := s.docs[uri]
	if doc == nil {
		s.mu.Unlock()
		return nil
	}
	if params.Text != nil {
		doc.text = *params.Text
	}
	s.mu.Unlock()
	s.scheduleDiagnostics(uri)
	return nil
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params didCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	s.mu.Lock()
	if doc := s.docs[uri]; doc != nil {
		s.stopTimerLocked(doc)
	}
	delete(s.docs, uri)
	s.mu.Unlock()

	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	s.mu.Lock()
	_, hadDiagnostics := s.published[uri]
	delete(s.published, uri)
	s.mu.Unlock()
	if hadDiagnostics {
		if err := s.sendPublish(uri, nil, nil); err != nil {
			s.log.Warn("failed to clear diagnostics", zap.Error(err))
		}
	}
	return nil
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	})
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	if id == nil {
		id = json.RawMessage("null")
	}
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error":   rpcError{Code: code, Message: message},
	})
}

func (s *Server) sendPublish(uri string, version *int, list []lspDiagnostic) error {
	if list == nil {
		list = []lspDiagnostic{}
	}
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"method":  "textDocument/publishDiagnostics",
		"params": publishDiagnosticsParams{
			URI:         uri,
			Version:     version,
			Diagnostics: list,
		},
	})
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}

func (s *Server) currentTrace() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.traceLSP
}
