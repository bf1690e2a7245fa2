package source

import (
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
	"lukechampine.com/blake3"
)

// FileSet manages the corpus files of one analysis run and resolves spans
// into line/column positions. Files are keyed by corpus-relative path; the
// loader owns the text, everything downstream references it by FileID.
type FileSet struct {
	files []File
	index map[string]FileID // relative path -> id
	root  string            // корень корпуса; только для Load()
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// NewFileSetWithRoot создаёт FileSet с заданным корнем корпуса.
func NewFileSetWithRoot(root string) *FileSet {
	fs := NewFileSet()
	fs.root = root
	return fs
}

// Root returns the corpus root directory ("" for purely virtual sets).
func (fs *FileSet) Root() string {
	return fs.root
}

// Add stores a file from normalized bytes, computes LineIdx and Hash, and
// returns its FileID. Re-adding a known path returns the existing ID: a
// corpus file is loaded exactly once per run.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	rel := normalizePath(path)
	if id, ok := fs.index[rel]; ok {
		return id
	}

	lenFiles, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    rel,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    blake3.Sum256(content),
		Flags:   flags,
	})
	fs.index[rel] = id
	return id
}

// Load reads a corpus-relative file from disk, normalizes CRLF/BOM, and
// calls Add.
func (fs *FileSet) Load(rel string) (FileID, error) {
	// #nosec G304 -- path comes from the corpus walker
	content, err := os.ReadFile(filepath.Join(fs.root, filepath.FromSlash(rel)))
	if err != nil {
		return 0, err
	}
	return fs.AddBytes(rel, content), nil
}

// AddBytes normalizes raw bytes (BOM, CRLF) and stores them under rel.
// Позволяет читать файлы параллельно, а регистрировать последовательно.
func (fs *FileSet) AddBytes(rel string, raw []byte) FileID {
	content, hadBOM := removeBOM(raw)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fs.Add(rel, content, flags)
}

// AddVirtual adds a virtual file (test or generated) with the FileVirtual flag.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get returns the file metadata for the given ID.
func (fs *FileSet) Get(id FileID) *File {
	return &fs.files[id]
}

// GetByPath возвращает *File по относительному пути, если он был загружен.
func (fs *FileSet) GetByPath(path string) (*File, bool) {
	if id, ok := fs.index[normalizePath(path)]; ok {
		return &fs.files[id], true
	}
	return nil, false
}

// Len returns the number of files in the set.
func (fs *FileSet) Len() int {
	return len(fs.files)
}

// Paths returns the relative paths of all files in insertion order.
func (fs *FileSet) Paths() []string {
	out := make([]string, 0, len(fs.files))
	for i := range fs.files {
		out = append(out, fs.files[i].Path)
	}
	return out
}

// Resolve converts a span into line and column positions.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// GetLine возвращает строку с заданным номером (1-based) из файла.
// Если строка не существует, возвращает пустую строку.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}

	var start, end uint32
	lenLineIdx, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index length overflow: %w", err))
	}
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}

	switch {
	case lineNum == 1:
		start = 0
	case (lineNum - 2) < lenLineIdx:
		start = f.LineIdx[lineNum-2] + 1
	default:
		return ""
	}

	if (lineNum - 1) < lenLineIdx {
		end = f.LineIdx[lineNum-1]
	} else {
		end = lenContent
	}

	if start >= lenContent {
		return ""
	}
	if end > lenContent {
		end = lenContent
	}
	return string(f.Content[start:end])
}
