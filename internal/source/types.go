package source

type (
	// FileID uniquely identifies a unit file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a unit file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	FileGzip
)

// File captures metadata and content for a single unit file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}
