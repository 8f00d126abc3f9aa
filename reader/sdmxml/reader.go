// Package sdmxml reads SDMX-ML 2.1 messages: structure messages, generic
// and structure-specific data messages, and error messages.
//
// The reader walks the XML token stream and consults the tag registry
// (format/sdmxml) per element to decide which model object to
// instantiate.
package sdmxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"reflect"

	"github.com/gosdmx/sdmx/format/sdmxml"
	"github.com/gosdmx/sdmx/message"
	"github.com/gosdmx/sdmx/model"
	"github.com/gosdmx/sdmx/reader"
)

func init() {
	reader.Register(Reader{})
}

// Reader decodes SDMX-ML 2.1.
type Reader struct{}

// MediaTypes implements reader.Reader.
func (Reader) MediaTypes() []string { return sdmxml.ContentTypes }

// Suffixes implements reader.Reader.
func (Reader) Suffixes() []string { return []string{".xml"} }

// Detect implements reader.Reader.
func (Reader) Detect(head []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(head, " \t\r\n"), []byte("<"))
}

// ParseError reports a malformed or unexpected SDMX-ML document.
type ParseError struct {
	Msg  string
	Line int64
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("sdmxml: %s (input offset %d)", e.Msg, e.Line)
	}
	return "sdmxml: " + e.Msg
}

func (e *ParseError) Unwrap() error { return e.Err }

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Read implements reader.Reader. The message kind is decided by
// resolving the root element through the tag registry.
func (r Reader) Read(src io.Reader, dsd *model.DataStructureDefinition) (message.Message, error) {
	p := &parser{dec: xml.NewDecoder(src)}

	root, err := p.firstStart()
	if err != nil {
		return nil, &ParseError{Msg: "no root element", Err: err}
	}

	typ, ok := sdmxml.TypeFor(root.Name)
	if !ok {
		return nil, &ParseError{Msg: fmt.Sprintf("unsupported root element <%s>", root.Name.Local), Line: p.dec.InputOffset()}
	}

	switch typ {
	case typeOf[message.StructureMessage]():
		return p.readStructureMessage(root)
	case typeOf[message.DataMessage]():
		return p.readDataMessage(root, dsd)
	case typeOf[message.ErrorMessage]():
		return p.readErrorMessage(root)
	default:
		return nil, &ParseError{Msg: fmt.Sprintf("element <%s> is not a message root", root.Name.Local), Line: p.dec.InputOffset()}
	}
}

// parser wraps the token stream with the small set of moves the message
// readers need.
type parser struct {
	dec *xml.Decoder
}

// firstStart returns the document's root start element.
func (p *parser) firstStart() (xml.StartElement, error) {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se, nil
		}
	}
}

// eachChild invokes fn for every child start element of the element se,
// consuming se's end element. fn must consume the child completely.
func (p *parser) eachChild(se xml.StartElement, fn func(child xml.StartElement) error) error {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := fn(t); err != nil {
				return err
			}
		case xml.EndElement:
			if t.Name == se.Name {
				return nil
			}
		}
	}
}

// text reads the character data content of se up to its end element.
func (p *parser) text(se xml.StartElement) (string, error) {
	var buf bytes.Buffer
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.EndElement:
			if t.Name == se.Name {
				return buf.String(), nil
			}
		case xml.StartElement:
			if err := p.dec.Skip(); err != nil {
				return "", err
			}
		}
	}
}

// skip consumes the remainder of the current element.
func (p *parser) skip() error { return p.dec.Skip() }

// attr returns the value of the attribute with the given local name.
func attr(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// langOf returns the xml:lang of the element, defaulting to "en".
func langOf(se xml.StartElement) string {
	for _, a := range se.Attr {
		if a.Name.Local == "lang" {
			return a.Value
		}
	}
	return "en"
}
