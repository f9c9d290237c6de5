package generation

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"idlgen/errors"
)

// Output opens the files an emitter writes. Paths use forward slashes and are
// relative to the output root. A failed Create returns an error and no writer;
// callers must not assume the file exists.
type Output interface {
	Create(path string) (io.WriteCloser, error)
}

// DirOutput writes below a directory, creating parent directories as needed.
type DirOutput struct {
	Root string
}

func (o DirOutput) Create(path string) (io.WriteCloser, error) {
	full := filepath.Join(o.Root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), os.ModePerm); err != nil {
		return nil, errors.IO(errors.PhaseWrite, full, err)
	}
	f, err := os.Create(full)
	if err != nil {
		return nil, errors.IO(errors.PhaseWrite, full, err)
	}
	return f, nil
}

// MemoryOutput keeps rendered files in memory. It is safe for concurrent use.
type MemoryOutput struct {
	mu    sync.Mutex
	files map[string]string
}

func NewMemoryOutput() *MemoryOutput {
	return &MemoryOutput{files: make(map[string]string)}
}

func (o *MemoryOutput) Create(path string) (io.WriteCloser, error) {
	return &memoryFile{output: o, path: path}, nil
}

// File returns the content written to path. Files are visible once closed.
func (o *MemoryOutput) File(path string) (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	content, ok := o.files[path]
	return content, ok
}

// Paths lists every closed file in lexical order.
func (o *MemoryOutput) Paths() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	paths := make([]string, 0, len(o.files))
	for p := range o.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

type memoryFile struct {
	bytes.Buffer
	output *MemoryOutput
	path   string
}

func (f *memoryFile) Close() error {
	f.output.mu.Lock()
	defer f.output.mu.Unlock()
	f.output.files[f.path] = f.String()
	return nil
}
