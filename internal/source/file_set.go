package source

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"strings"
)

// FileSet holds every source file of one compilation and resolves the
// byte-offset spans the transformer emits into line/column positions.
// TSL sources and JSON data modules share the set; the JSON flag decides
// which frontend the host applies.
type FileSet struct {
	files   []*File
	index   map[string]FileID // normalised path -> latest version
	baseDir string
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{index: make(map[string]FileID)}
}

// NewFileSetWithBase creates a FileSet whose relative path rendering is
// anchored at baseDir (usually the project manifest's directory).
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

// BaseDir returns the path-rendering anchor, falling back to the process
// working directory.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir != "" {
		return fs.baseDir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// Add stores already-normalised content under path and returns a fresh
// FileID. Re-adding a path is allowed; Lookup always answers with the
// latest version while old spans keep resolving against their snapshot.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	id := FileID(len(fs.files))
	normalized := normalizePath(path)
	fs.files = append(fs.files, &File{
		ID:      id,
		Path:    normalized,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.index[normalized] = id
	return id
}

// Load reads path from disk, strips a BOM, normalises CRLF and classifies
// the file: a .json extension marks it as a JSON data module that lowers
// to a single `return <expr>` chunk.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var flags FileFlags
	if stripped, had := removeBOM(content); had {
		content = stripped
		flags |= FileHadBOM
	}
	if normalized, had := normalizeCRLF(content); had {
		content = normalized
		flags |= FileNormalizedCRLF
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		flags |= FileJSON
	}
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds an in-memory file (stdin, test, generated).
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get returns the file for id, or nil when id was never issued.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) >= len(fs.files) {
		return nil
	}
	return fs.files[id]
}

// Lookup returns the latest version recorded for path.
func (fs *FileSet) Lookup(path string) (*File, bool) {
	id, ok := fs.index[normalizePath(path)]
	if !ok {
		return nil, false
	}
	return fs.files[id], true
}

// Len returns the number of file versions in the set.
func (fs *FileSet) Len() int {
	return len(fs.files)
}

// Resolve converts a span into start/end line-column positions.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	if f == nil {
		return LineCol{Line: 1, Col: 1}, LineCol{Line: 1, Col: 1}
	}
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// IsJSON reports whether the file is a JSON data module.
func (f *File) IsJSON() bool {
	return f.Flags&FileJSON != 0
}

// lineBounds returns the [start, end) content range of the 1-based line,
// excluding its newline.
func (f *File) lineBounds(line uint32) (start, end uint32, ok bool) {
	if line == 0 || line > uint32(len(f.LineIdx))+1 {
		return 0, 0, false
	}
	if line > 1 {
		start = f.LineIdx[line-2] + 1
	}
	if int(line-1) < len(f.LineIdx) {
		end = f.LineIdx[line-1]
	} else {
		end = uint32(len(f.Content))
	}
	if start > end {
		return 0, 0, false
	}
	return start, end, true
}

// GetLine returns the 1-based line without its trailing newline, or ""
// when the line does not exist. Diagnostic frames quote lines through it.
func (f *File) GetLine(line uint32) string {
	start, end, ok := f.lineBounds(line)
	if !ok || start >= uint32(len(f.Content)) {
		return ""
	}
	return string(f.Content[start:end])
}

// FormatPath renders the file path for diagnostics.
// mode: "absolute", "relative", "basename" or "auto".
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := filepath.Abs(f.Path); err == nil {
			return abs
		}
	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := filepath.Rel(baseDir, f.Path); err == nil {
			return filepath.ToSlash(rel)
		}
	case "basename":
		return filepath.Base(f.Path)
	case "auto":
		// long absolute paths collapse to their basename
		if len(f.Path) >= 40 && filepath.IsAbs(f.Path) {
			return filepath.Base(f.Path)
		}
	}
	return f.Path
}
