package lsp

import (
	"encoding/json"

	"go.uber.org/zap"
)

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	if len(msg.Params) == 0 {
		return nil
	}
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.log.Debug("bad configuration params", zap.Error(err))
		return nil
	}
	s.applySettings(params.Settings)
	return nil
}

func (s *Server) applySettings(raw json.RawMessage) {
	if len(raw) == 0 {
		return
	}
	var settings lspSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if v := settings.Luedit.MaxDiagnostics; v != nil && *v >= 0 {
		s.maxDiagnostics = *v
		s.explicitMax = true
	}
	if v := settings.Luedit.Trace; v != nil {
		s.traceLSP = *v
	}
}
