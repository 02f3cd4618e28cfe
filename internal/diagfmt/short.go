package diagfmt

import (
	"io"

	"luedit/internal/diag"
	"luedit/internal/source"
)

// Short writes one line per diagnostic, see diag.FormatShort.
func Short(w io.Writer, file *source.File, diags []diag.Diagnostic, mode PathMode, baseDir string) error {
	text := diag.FormatShort(diags, file.FormatPath(mode.String(), baseDir))
	if text == "" {
		return nil
	}
	_, err := io.WriteString(w, text+"\n")
	return err
}
