// Package reader defines the interface for message readers and selects
// among the registered implementations by media type, file suffix or
// content sniffing.
package reader

import (
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gosdmx/sdmx/message"
	"github.com/gosdmx/sdmx/model"
)

// Reader decodes one message serialization format.
type Reader interface {
	// MediaTypes lists the HTTP content types the reader handles.
	MediaTypes() []string

	// Suffixes lists the file name suffixes the reader handles.
	Suffixes() []string

	// Detect reports whether the reader recognizes the leading bytes
	// of a payload.
	Detect(head []byte) bool

	// Read decodes a message. The optional DSD aids decoding of
	// structure-specific data.
	Read(r io.Reader, dsd *model.DataStructureDefinition) (message.Message, error)
}

// The registered readers, in registration order. Reader implementations
// register themselves at init; the slice is read-only afterwards.
var registered []Reader

// Register adds a reader to the selection table.
func Register(r Reader) {
	registered = append(registered, r)
}

// normalize strips parameters and case from a media type, e.g.
// "application/vnd.sdmx.structure+xml;version=2.1" -> the bare type.
func normalize(ct string) string {
	base, _, err := mime.ParseMediaType(ct)
	if err != nil {
		base = strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
	}
	return base
}

// ForMediaType returns the reader handling the content type, comparing
// the bare media types with parameters stripped.
func ForMediaType(ct string) (Reader, bool) {
	want := normalize(ct)
	if want == "" {
		return nil, false
	}
	for _, r := range registered {
		for _, mt := range r.MediaTypes() {
			if normalize(mt) == want {
				return r, true
			}
		}
	}
	return nil, false
}

// ForPath returns the reader handling the path's file suffix.
func ForPath(path string) (Reader, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return nil, false
	}
	for _, r := range registered {
		for _, s := range r.Suffixes() {
			if s == ext {
				return r, true
			}
		}
	}
	return nil, false
}

// Detect returns the first reader that recognizes the payload head.
func Detect(head []byte) (Reader, bool) {
	for _, r := range registered {
		if r.Detect(head) {
			return r, true
		}
	}
	return nil, false
}
