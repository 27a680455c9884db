package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about how a source file was loaded.
	FileFlags uint8
)

const (
	// FileVirtual marks a file added from memory (test, stdin, generated).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM marks a file whose UTF-8 BOM was stripped on load.
	FileHadBOM
	// FileNormalizedCRLF marks a file whose CRLF line endings were normalised.
	FileNormalizedCRLF
	// FileJSON marks a file the host flagged as a JSON module rather than
	// TSL source. JSON modules compile to a single `return <expr>` chunk.
	FileJSON
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // byte offsets of '\n' separators
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a human-readable position in a source file (both 1-based).
type LineCol struct {
	Line uint32
	Col  uint32
}
