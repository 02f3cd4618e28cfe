package source

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet manages a collection of source files loaded by one command or
// language-server session.
type FileSet struct {
	files   []File
	index   map[string]FileID // path -> id
	baseDir string            // базовая директория для относительных путей
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// NewFileSetWithBase создаёт FileSet с заданной базовой директорией.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

// SetBaseDir устанавливает базовую директорию для относительных путей.
func (fileSet *FileSet) SetBaseDir(dir string) {
	fileSet.baseDir = dir
}

// BaseDir возвращает текущую базовую директорию.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// NewFile builds a standalone File (ID 0) without registering it anywhere.
// Parsers use it for in-memory content.
func NewFile(path string, content []byte, flags FileFlags) *File {
	if bytes.Contains(content, []byte("\r\n")) {
		flags |= FileHasCRLF
	}
	return &File{
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}
}

// Add stores a file, computes LineIdx and Hash, and returns a new FileID.
// It always creates a new FileID even if a file with the same path already exists.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	f := NewFile(path, content, flags)
	f.ID = FileID(lenFiles)
	fileSet.files = append(fileSet.files, *f)
	// Всегда обновляем индекс на последнюю версию файла
	fileSet.index[f.Path] = f.ID
	return f.ID
}

// Load reads a file from disk and calls Add. A UTF-8 BOM is stripped and
// recorded in the flags; line breaks are kept as they are.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	content, hadBOM := removeBOM(content)
	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	return fileSet.Add(path, content, flags), nil
}

// AddVirtual adds a virtual file (stdin, test, or editor buffer) with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// Len returns the number of stored file versions.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// GetLatest returns the latest file ID for the given path, if it exists.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// GetByPath возвращает *File по пути, если был загружен в этот FileSet.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	if id, ok := fileSet.index[normalizePath(path)]; ok {
		return &fileSet.files[id], true
	}
	return nil, false
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// LineCount returns the number of lines in the file. A trailing newline does
// not open an extra line.
func (f *File) LineCount() int {
	n := len(f.LineIdx)
	if len(f.Content) > 0 && (n == 0 || int(f.LineIdx[n-1]) != len(f.Content)-1) {
		n++
	}
	return n
}

// LineBounds returns the byte offsets of a 1-based line: start of the line,
// end of its text (before "\r\n" or "\n") and the offset right after its
// terminator. ok is false for lines outside the file.
func (f *File) LineBounds(lineNum int) (start, textEnd, next uint32, ok bool) {
	if lineNum < 1 || lineNum > f.LineCount() {
		return 0, 0, 0, false
	}
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	if lineNum > 1 {
		start = f.LineIdx[lineNum-2] + 1
	}
	if lineNum-1 < len(f.LineIdx) {
		textEnd = f.LineIdx[lineNum-1]
		next = textEnd + 1
	} else {
		textEnd = lenContent
		next = lenContent
	}
	if textEnd > start && f.Content[textEnd-1] == '\r' && next != textEnd {
		textEnd--
	}
	return start, textEnd, next, true
}

// GetLine возвращает строку с заданным номером (1-based) без перевода строки.
// Если строка не существует, возвращает пустую строку.
func (f *File) GetLine(lineNum uint32) string {
	n, err := safecast.Conv[int](lineNum)
	if err != nil {
		return ""
	}
	start, end, _, ok := f.LineBounds(n)
	if !ok {
		return ""
	}
	return string(f.Content[start:end])
}

// PositionAt converts a byte offset into a Position (1-based line, 0-based column).
func (f *File) PositionAt(off uint32) Position {
	lc := toLineCol(f.LineIdx, off)
	return Position{Line: int(lc.Line), Character: int(lc.Col) - 1}
}

// OffsetAt is the inverse of PositionAt. Positions past the end of a line
// clamp to the end of its text; positions past the file clamp to its length.
func (f *File) OffsetAt(pos Position) uint32 {
	if pos.Line < 1 {
		return 0
	}
	start, textEnd, _, ok := f.LineBounds(pos.Line)
	if !ok {
		return uint32(len(f.Content))
	}
	col, err := safecast.Conv[uint32](max(pos.Character, 0))
	if err != nil || start+col > textEnd {
		return textEnd
	}
	return start + col
}

// FormatPath форматирует путь к файлу в зависимости от режима.
// mode: "absolute", "relative", "basename", "auto"
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
		return f.Path

	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
		return f.Path

	case "basename":
		return BaseName(f.Path)

	case "auto":
		// короткие и относительные пути печатаем как есть
		if len(f.Path) < 40 || !filepath.IsAbs(f.Path) {
			return f.Path
		}
		return BaseName(f.Path)

	default:
		return f.Path
	}
}
