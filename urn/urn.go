// Package urn parses and constructs the URN identifiers used to
// reference maintained SDMX artefacts, e.g.
//
//	urn:sdmx:org.sdmx.infomodel.codelist.Code=BAZ:FOO(1.2.3).BAR
//
// Parsing is strict: text that does not match the grammar fails with a
// MalformedError, never with a partial result. Construction fails loudly
// when the owning agency (or, in strict mode, the version) of the
// maintainable parent is unknown.
package urn

import (
	"regexp"
	"strings"

	"github.com/gosdmx/sdmx/model"
)

// Prefix is the fixed leading segment of every SDMX URN.
const Prefix = "urn:sdmx:org.sdmx.infomodel"

// Grammar:
// urn:sdmx:org.sdmx.infomodel.<package>.<Class>=[<Agency>:]<ID>[(<Version>)][.<ItemID>]
var urnRE = regexp.MustCompile(
	`^urn:sdmx:org\.sdmx\.infomodel` +
		`\.([^.]*)` + // package
		`\.([^=]*)` + // class
		`=` +
		`(?:([^:]*):)?` + // agency
		`([^(]*)` + // id
		`(?:\(([0-9.]*)\))?` + // version
		`(?:\.(.+))?` + // item id
		`$`)

// Reference is a parsed SDMX URN.
type Reference struct {
	Package string
	Class   string
	Agency  string
	ID      string
	Version string
	ItemID  string
}

// Parse matches text against the URN grammar. It returns a
// MalformedError when the text is not a valid SDMX URN.
func Parse(text string) (*Reference, error) {
	m := urnRE.FindStringSubmatch(text)
	if m == nil {
		return nil, &MalformedError{Text: text}
	}
	return &Reference{
		Package: m[1],
		Class:   m[2],
		Agency:  m[3],
		ID:      m[4],
		Version: m[5],
		ItemID:  m[6],
	}, nil
}

// IsURN reports whether text matches the URN grammar.
func IsURN(text string) bool {
	return urnRE.MatchString(text)
}

// String renders the reference back in canonical URN form.
func (r *Reference) String() string {
	var b strings.Builder
	b.WriteString(Prefix)
	b.WriteByte('.')
	b.WriteString(r.Package)
	b.WriteByte('.')
	b.WriteString(r.Class)
	b.WriteByte('=')
	if r.Agency != "" {
		b.WriteString(r.Agency)
		b.WriteByte(':')
	}
	b.WriteString(r.ID)
	if r.Version != "" {
		b.WriteByte('(')
		b.WriteString(r.Version)
		b.WriteByte(')')
	}
	if r.ItemID != "" {
		b.WriteByte('.')
		b.WriteString(r.ItemID)
	}
	return b.String()
}

// Make constructs the canonical URN for obj, which is either a
// maintainable artefact or an item nested in one. For an item, the
// enclosing scheme recorded on the item is used as the maintainable
// parent. With strict true, a parent without a version is an error;
// otherwise the version segment is simply omitted.
func Make(obj any, strict bool) (string, error) {
	return MakeWithParent(obj, nil, strict)
}

// MakeWithParent is Make with an explicit maintainable parent, for items
// that do not carry a scheme back-reference.
func MakeWithParent(obj, parent any, strict bool) (string, error) {
	var (
		maintainable model.Maintainable
		itemID       string
	)

	if m, ok := obj.(model.Maintainable); ok {
		maintainable = m
	} else {
		if item, ok := obj.(model.SchemeItem); ok {
			itemID = item.Nameable().ID
			if parent == nil {
				if s := item.Scheme(); s != nil {
					maintainable = s
				}
			}
		}
		if maintainable == nil && parent != nil {
			maintainable, _ = parent.(model.Maintainable)
		}
		if maintainable == nil {
			return "", &NotMaintainableError{Obj: obj, Parent: parent}
		}
	}

	ma := maintainable.Maintainable()
	if ma.Maintainer == nil {
		return "", &MissingMaintainerError{Artefact: maintainable}
	}
	if strict && ma.Version == "" {
		return "", &MissingVersionError{Artefact: maintainable}
	}

	pkg, class, err := PackageClassFor(obj)
	if err != nil {
		return "", err
	}

	ref := Reference{
		Package: pkg,
		Class:   class,
		Agency:  ma.Maintainer.ID,
		ID:      ma.ID,
		Version: ma.Version,
		ItemID:  itemID,
	}
	return ref.String(), nil
}
