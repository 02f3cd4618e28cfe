package lsp

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"luedit/internal/diag"
	"luedit/internal/lufile"
	"luedit/internal/source"
)

// scheduleDiagnostics (re)starts the debounce timer of uri.
func (s *Server) scheduleDiagnostics(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.docs[uri]
	if doc == nil || s.shutdownRequested {
		return
	}
	s.stopTimerLocked(doc)
	seq := s.seq.Add(1)
	doc.seq = seq
	s.inflight.Add(1)
	doc.timer = time.AfterFunc(s.debounce, func() {
		defer s.inflight.Done()
		s.runDiagnostics(uri, seq)
	})
}

// stopTimerLocked cancels a pending run. A run that already started is
// left alone; its result is discarded by the seq check.
func (s *Server) stopTimerLocked(doc *docState) {
	if doc.timer != nil && doc.timer.Stop() {
		s.inflight.Done()
	}
	doc.timer = nil
}

// runDiagnostics parses the text uri had at seq and publishes the result
// unless the document changed meanwhile.
func (s *Server) runDiagnostics(uri string, seq uint64) {
	s.mu.Lock()
	doc := s.docs[uri]
	if doc == nil || doc.seq != seq {
		s.mu.Unlock()
		return
	}
	text := doc.text
	s.mu.Unlock()

	parsed, err := s.gw.Parse(s.baseCtx, documentID(uri), text)
	if err != nil {
		s.log.Warn("parse failed", zap.String("uri", uri), zap.Error(err))
		return
	}

	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	s.mu.Lock()
	doc = s.docs[uri]
	if doc == nil || doc.seq != seq {
		s.mu.Unlock()
		return
	}
	doc.parsed = parsed
	doc.parsedSeq = seq
	version := doc.version
	limit := s.maxDiagnostics
	s.published[uri] = struct{}{}
	s.mu.Unlock()

	list := toLSPDiagnostics(text, parsed.Diagnostics, limit)
	if err := s.sendPublish(uri, &version, list); err != nil {
		s.log.Warn("failed to publish diagnostics", zap.String("uri", uri), zap.Error(err))
	}
}

func (s *Server) clearPublishedDiagnostics() {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	s.mu.Lock()
	uris := make([]string, 0, len(s.published))
	for uri := range s.published {
		uris = append(uris, uri)
	}
	s.published = make(map[string]struct{})
	s.mu.Unlock()
	sort.Strings(uris)
	for _, uri := range uris {
		if err := s.sendPublish(uri, nil, nil); err != nil {
			s.log.Warn("failed to clear diagnostics", zap.String("uri", uri), zap.Error(err))
		}
	}
}

// documentFor returns the parsed current text of an open document,
// parsing it now when the last diagnostics run is stale.
func (s *Server) documentFor(uri string) (*lufile.Document, string, bool) {
	s.mu.Lock()
	doc := s.docs[uri]
	if doc == nil {
		s.mu.Unlock()
		return nil, "", false
	}
	text, seq := doc.text, doc.seq
	if doc.parsed != nil && doc.parsedSeq == seq {
		parsed := doc.parsed
		s.mu.Unlock()
		return parsed, text, true
	}
	s.mu.Unlock()

	parsed, err := s.gw.Parse(s.baseCtx, documentID(uri), text)
	if err != nil {
		s.log.Warn("parse failed", zap.String("uri", uri), zap.Error(err))
		return nil, "", false
	}
	s.mu.Lock()
	if doc := s.docs[uri]; doc != nil && doc.seq == seq {
		doc.parsed = parsed
		doc.parsedSeq = seq
	}
	s.mu.Unlock()
	return parsed, text, true
}

func (s *Server) openText(uri string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.docs[uri]
	if doc == nil {
		return "", false
	}
	return doc.text, true
}

// toLSPDiagnostics converts diagnostics of text, sorted, at most limit
// of them when limit > 0.
func toLSPDiagnostics(text string, diags []diag.Diagnostic, limit int) []lspDiagnostic {
	sorted := append([]diag.Diagnostic(nil), diags...)
	sort.SliceStable(sorted, func(i, j int) bool { return diag.Less(sorted[i], sorted[j]) })
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]lspDiagnostic, 0, len(sorted))
	for _, d := range sorted {
		ld := lspDiagnostic{
			Range:    toLSPRange(text, d.Range),
			Severity: int(d.Severity),
			Source:   d.Source,
			Message:  d.Message,
		}
		if d.Code != 0 {
			ld.Code = d.Code.ID()
		}
		out = append(out, ld)
	}
	return out
}

// toLSPRange maps 1-based lines and byte columns to zero-based lines and
// UTF-16 columns. The zero range stays at the top of the document.
func toLSPRange(text string, r source.Range) lspRange {
	if r.IsZero() {
		return lspRange{}
	}
	return lspRange{Start: toLSPPosition(text, r.Start), End: toLSPPosition(text, r.End)}
}

func toLSPPosition(text string, p source.Position) position {
	line := max(p.Line-1, 0)
	return position{Line: line, Character: utf16Col(lineText(text, line), p.Character)}
}
