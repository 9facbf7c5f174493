// Package render encodes parsed docblocks for tools and humans.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	docblock "github.com/dpotapov/go-docblock"
)

// Format is an output encoding.
type Format string

const (
	JSON    Format = "json"
	XML     Format = "xml"
	HTML    Format = "html"
	MsgPack Format = "msgpack"
)

var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists every supported format.
var Formats = []Format{JSON, XML, HTML, MsgPack}

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownFormat, s)
}

// ContentType returns the MIME type of the format.
func ContentType(f Format) string {
	switch f {
	case XML:
		return "application/xml; charset=utf-8"
	case HTML:
		return "text/html; charset=utf-8"
	case MsgPack:
		return "application/msgpack"
	default:
		return "application/json"
	}
}

// Write encodes v in the given format. v is a *docblock.Document or a []*docblock.Document.
func Write(w io.Writer, f Format, v any) error {
	docs, list, err := documents(v)
	if err != nil {
		return err
	}

	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case MsgPack:
		return msgpack.NewEncoder(w).Encode(v)
	case XML:
		return writeXML(w, docs, list)
	case HTML:
		return writeHTML(w, docs)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, f)
	}
}

// documents normalises v to a slice and reports whether v was a list.
func documents(v any) ([]*docblock.Document, bool, error) {
	switch d := v.(type) {
	case *docblock.Document:
		return []*docblock.Document{d}, false, nil
	case []*docblock.Document:
		return d, true, nil
	default:
		return nil, false, fmt.Errorf("render: unsupported value %T", v)
	}
}
