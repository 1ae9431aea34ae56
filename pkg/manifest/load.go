package manifest

import (
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Format is a manifest encoding.
type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatText
	FormatHTML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatText:
		return "text"
	case FormatHTML:
		return "html"
	default:
		return "unknown"
	}
}

// FormatByPath picks the manifest format from the file extension.
func FormatByPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".txt", ".list", ".lst":
		return FormatText
	case ".html", ".htm":
		return FormatHTML
	default:
		return FormatUnknown
	}
}

// Parse decodes r in the given format, resolving relative URLs against base
// when base is not empty.
func Parse(r io.Reader, format Format, base string) ([]Resource, error) {
	var bu *url.URL
	if base != "" {
		var err error
		bu, err = url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid base url %q: %w", base, err)
		}
	}
	switch format {
	case FormatJSON:
		return ParseJSON(r, bu)
	case FormatText:
		return ParseText(r, bu)
	case FormatHTML:
		return ParseHTML(r, bu)
	default:
		return nil, ErrUnknownFormat
	}
}

// Load reads the manifest at path from fs.
func Load(fs afero.Fs, path, base string) ([]Resource, error) {
	format := FormatByPath(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	res, err := Parse(f, format, base)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Path = path
		}
		return nil, err
	}
	return res, nil
}
