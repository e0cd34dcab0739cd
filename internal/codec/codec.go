package codec

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"forcemap/internal/domain"
)

// Supported format identifiers
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnsupportedFormat is returned for unknown format identifiers
var ErrUnsupportedFormat = errors.New("unsupported format")

// DefaultBaseName is used when an export is requested without a name
const DefaultBaseName = "graph"

// Importer interface for importing snapshots from various formats
type Importer interface {
	Parse(r io.Reader) (domain.Snapshot, error)
	Format() string
}

// Exporter interface for exporting snapshots to various formats
type Exporter interface {
	Export(snap domain.Snapshot, w io.Writer) error
	Format() string
}

// Codec both imports and exports one format
type Codec interface {
	Importer
	Exporter
}

// ForFormat returns the codec for a format identifier ("yml" is accepted)
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "", FormatJSON:
		return NewJSONCodec(), nil
	case FormatYAML, "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, format)
	}
}

// ForPath picks a codec from a file extension, defaulting to JSON
func ForPath(path string) Codec {
	c, err := ForFormat(filepath.Ext(path))
	if err != nil {
		return NewJSONCodec()
	}
	return c
}

// FileName returns the export file name for a base name: base + ".json"
func FileName(base string) string {
	return FileNameFor(base, FormatJSON)
}

// FileNameFor appends the format's extension unless base already has it
func FileNameFor(base, format string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = DefaultBaseName
	}
	ext := "." + format
	if strings.HasSuffix(strings.ToLower(base), ext) {
		return base
	}
	return base + ext
}
