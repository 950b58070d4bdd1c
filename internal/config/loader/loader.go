// Package loader reads gapseq configuration layers into generic maps.
//
// A File layer parses TOML or YAML; the Env layer maps GAPSEQ_* variables
// onto dotted configuration paths. Layers are combined with DeepMerge,
// later layers overriding earlier ones.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for config files with an unknown
// extension.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Loader produces one configuration layer.
type Loader interface {
	// Load returns the layer, or nil, nil when its source does not exist.
	Load() (map[string]any, error)
}

// FileSystem is the file access a File layer needs.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFS reads from the real file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// DefaultFS returns the OS file system.
func DefaultFS() FileSystem {
	return OSFS{}
}

// Format parses one file syntax. source names the input in errors.
type Format struct {
	Name  string
	Parse func(source string, data []byte) (map[string]any, error)
}

// Supported file formats.
var (
	TOML = Format{Name: "toml", Parse: parseTOML}
	YAML = Format{Name: "yaml", Parse: parseYAML}
)

// formats maps file extensions to formats.
var formats = map[string]Format{
	".toml": TOML,
	".yaml": YAML,
	".yml":  YAML,
}

// File is a layer read from one configuration file.
type File struct {
	fs     FileSystem
	path   string
	format Format
}

var (
	_ Loader = (*File)(nil)
	_ Loader = (*EnvLoader)(nil)
)

// NewFile creates a layer that parses path with format.
func NewFile(fsys FileSystem, path string, format Format) *File {
	if fsys == nil {
		fsys = DefaultFS()
	}
	return &File{fs: fsys, path: path, format: format}
}

// ForPath returns the layer for path, choosing the format by extension.
func ForPath(fsys FileSystem, path string) (*File, error) {
	format, ok := formats[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return NewFile(fsys, path, format), nil
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// Format returns the file format.
func (f *File) Format() Format {
	return f.format
}

// Load reads and parses the file. A missing file yields nil, nil.
func (f *File) Load() (map[string]any, error) {
	data, err := f.fs.ReadFile(f.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("reading config file %s: %w", f.path, err)
	}

	layer, err := f.format.Parse(f.path, data)
	if err != nil {
		return nil, err
	}
	if layer == nil {
		layer = make(map[string]any)
	}
	return layer, nil
}

// ParseError reports malformed configuration text. Line and Column are
// 1-based and zero when unknown.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	pos := e.Path
	if e.Line > 0 {
		pos = fmt.Sprintf("%s line %d", pos, e.Line)
		if e.Column > 0 {
			pos = fmt.Sprintf("%s col %d", pos, e.Column)
		}
	}
	return fmt.Sprintf("parse %s: %s", pos, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DeepMerge merges src into dst and returns dst. Nested maps merge key by
// key; any other src value replaces the dst value.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			if into, ok := dst[k].(map[string]any); ok {
				dst[k] = DeepMerge(into, sub)
				continue
			}
		}
		dst[k] = v
	}
	return dst
}

// GetPath returns the value at a dotted path such as "buffer.capacity".
func GetPath(data map[string]any, path string) (any, bool) {
	keys := strings.Split(path, ".")
	node := data
	for _, k := range keys[:len(keys)-1] {
		next, ok := node[k].(map[string]any)
		if !ok {
			return nil, false
		}
		node = next
	}
	v, ok := node[keys[len(keys)-1]]
	return v, ok
}

// SetPath stores value at a dotted path, creating intermediate maps.
func SetPath(data map[string]any, path string, value any) {
	keys := strings.Split(path, ".")
	node := data
	for _, k := range keys[:len(keys)-1] {
		next, ok := node[k].(map[string]any)
		if !ok {
			next = make(map[string]any)
			node[k] = next
		}
		node = next
	}
	node[keys[len(keys)-1]] = value
}
