package lsp

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"luedit/internal/config"
)

// loadWorkspaceConfig applies the luedit.toml nearest to root. Explicit
// server options win over the file.
func (s *Server) loadWorkspaceConfig(root string) {
	dir := resolveStartDir(root)
	if dir == "" {
		return
	}
	cfg, err := config.LoadNearest(dir)
	if err != nil {
		s.log.Warn("ignoring workspace config", zap.Error(err))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.explicitMax && cfg.Diagnostics.Max > 0 {
		s.maxDiagnostics = cfg.Diagnostics.Max
	}
	if cfg.Path != "" {
		s.log.Info("workspace config", zap.String("path", cfg.Path))
	}
}

func resolveStartDir(path string) string {
	if path == "" {
		return ""
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path
	}
	return filepath.Dir(path)
}
