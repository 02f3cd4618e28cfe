package lsp

import (
	"encoding/json"
	"strings"

	"luedit/internal/lufile"
)

func (s *Server) handleDocumentSymbol(msg *rpcMessage) error {
	var params documentSymbolParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	doc, text, ok := s.documentFor(canonicalURI(params.TextDocument.URI))
	if !ok {
		return s.sendResponse(msg.ID, []documentSymbol{})
	}
	return s.sendResponse(msg.ID, buildDocumentSymbols(text, doc))
}

func (s *Server) handleFoldingRange(msg *rpcMessage) error {
	var params foldingRangeParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	doc, _, ok := s.documentFor(canonicalURI(params.TextDocument.URI))
	if !ok {
		return s.sendResponse(msg.ID, []foldingRange{})
	}
	return s.sendResponse(msg.ID, buildFoldingRanges(doc))
}

func buildDocumentSymbols(text string, doc *lufile.Document) []documentSymbol {
	intents := doc.TopLevel()
	out := make([]documentSymbol, 0, len(intents))
	for _, it := range intents {
		out = append(out, intentSymbol(text, it))
	}
	return out
}

func intentSymbol(text string, it lufile.IntentSection) documentSymbol {
	heading := max(it.Range.StartLine-1, 0)
	last := max(it.Range.EndLine-1, heading)
	lastText := lineText(text, last)
	headText := lineText(text, heading)

	sym := documentSymbol{
		Name: it.Name,
		Kind: symbolKindFunction,
		Range: lspRange{
			Start: position{Line: heading},
			End:   position{Line: last, Character: utf16Col(lastText, len(lastText))},
		},
		SelectionRange: lspRange{
			Start: position{Line: heading},
			End:   position{Line: heading, Character: utf16Col(headText, len(headText))},
		},
	}
	if len(it.Entities) > 0 {
		sym.Detail = "@ " + strings.Join(it.Entities, ", ")
	}
	if len(it.Children) > 0 {
		sym.Kind = symbolKindNamespace
		for _, c := range it.Children {
			sym.Children = append(sym.Children, intentSymbol(text, c))
		}
	}
	return sym
}

func buildFoldingRanges(doc *lufile.Document) []foldingRange {
	out := make([]foldingRange, 0)
	var walk func(it lufile.IntentSection)
	walk = func(it lufile.IntentSection) {
		if it.Range.EndLine > it.Range.StartLine {
			out = append(out, foldingRange{
				StartLine: it.Range.StartLine - 1,
				EndLine:   it.Range.EndLine - 1,
				Kind:      "region",
			})
		}
		for _, c := range it.Children {
			walk(c)
		}
	}
	for _, it := range doc.TopLevel() {
		walk(it)
	}
	return out
}
