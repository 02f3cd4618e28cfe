package lsp

import (
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"luedit/internal/lufile"
)

func (s *Server) handleAddIntent(msg *rpcMessage) error {
	var params addIntentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	uri := canonicalURI(params.TextDocument.URI)
	text, ok := s.openText(uri)
	if !ok {
		return s.sendError(msg.ID, codeInvalidParams, "document is not open: "+uri)
	}
	doc, err := lufile.AddIntent(documentID(uri), text, params.Intent)
	return s.replyEdit(msg, text, doc, err)
}

func (s *Server) handleUpdateIntent(msg *rpcMessage) error {
	var params updateIntentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	uri := canonicalURI(params.TextDocument.URI)
	text, ok := s.openText(uri)
	if !ok {
		return s.sendError(msg.ID, codeInvalidParams, "document is not open: "+uri)
	}
	doc, err := lufile.UpdateIntent(documentID(uri), text, params.Name, params.Intent)
	return s.replyEdit(msg, text, doc, err)
}

func (s *Server) handleReplaceIntent(msg *rpcMessage) error {
	var params updateIntentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil || params.Intent == nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	uri := canonicalURI(params.TextDocument.URI)
	text, ok := s.openText(uri)
	if !ok {
		return s.sendError(msg.ID, codeInvalidParams, "document is not open: "+uri)
	}
	doc, err := lufile.ReplaceIntent(documentID(uri), text, params.Name, *params.Intent)
	return s.replyEdit(msg, text, doc, err)
}

func (s *Server) handleRemoveIntent(msg *rpcMessage) error {
	var params removeIntentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	uri := canonicalURI(params.TextDocument.URI)
	text, ok := s.openText(uri)
	if !ok {
		return s.sendError(msg.ID, codeInvalidParams, "document is not open: "+uri)
	}
	doc, err := lufile.RemoveIntent(documentID(uri), text, params.Name)
	return s.replyEdit(msg, text, doc, err)
}

// replyEdit answers an lu/* request. The server does not change its copy
// of the text: the client applies the returned edit and sends didChange.
func (s *Server) replyEdit(msg *rpcMessage, oldText string, doc *lufile.Document, err error) error {
	if err != nil {
		if errors.Is(err, lufile.ErrUnsupportedName) || errors.Is(err, lufile.ErrIntentNotFound) ||
			errors.Is(err, lufile.ErrNotGroup) {
			return s.sendError(msg.ID, codeInvalidParams, err.Error())
		}
		s.log.Error("intent edit failed", zap.String("method", msg.Method), zap.Error(err))
		return s.sendError(msg.ID, codeInternalError, err.Error())
	}
	return s.sendResponse(msg.ID, intentEditResult{
		Document: doc,
		Edits: []textEdit{{
			Range:   lspRange{End: endPosition(oldText)},
			NewText: doc.Content,
		}},
	})
}
