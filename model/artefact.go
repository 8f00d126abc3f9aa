package model

import "fmt"

// InternationalString holds localized text keyed by locale (e.g. "en").
type InternationalString map[string]string

// Localized returns the text for the first locale that has one, falling
// back to "en" and then to any available localization.
func (is InternationalString) Localized(locales ...string) string {
	for _, loc := range locales {
		if s, ok := is[loc]; ok {
			return s
		}
	}
	if s, ok := is["en"]; ok {
		return s
	}
	for _, s := range is {
		return s
	}
	return ""
}

// String returns the English localization when present.
func (is InternationalString) String() string {
	return is.Localized()
}

// Annotation carries non-normative information attached to an artefact.
type Annotation struct {
	ID    string
	Title string
	Type  string
	URL   string
	Text  InternationalString
}

// IdentifiableArtefact is the root of the artefact hierarchy: anything
// with a unique ID within its container.
type IdentifiableArtefact struct {
	ID          string
	URI         string
	URN         string
	Annotations []Annotation
}

// Identifiable returns the embedded IdentifiableArtefact. It is promoted
// through the whole artefact hierarchy.
func (a *IdentifiableArtefact) Identifiable() *IdentifiableArtefact { return a }

// NameableArtefact adds multilingual name and description.
type NameableArtefact struct {
	IdentifiableArtefact
	Name        InternationalString
	Description InternationalString
}

// Nameable returns the embedded NameableArtefact.
func (a *NameableArtefact) Nameable() *NameableArtefact { return a }

// VersionableArtefact adds a version and a validity window.
type VersionableArtefact struct {
	NameableArtefact
	Version   string
	ValidFrom string
	ValidTo   string
}

// MaintainableArtefact is an artefact owned by a maintenance agency and
// addressable on its own via URN.
type MaintainableArtefact struct {
	VersionableArtefact
	Maintainer          *Agency
	IsFinal             bool
	IsExternalReference bool
	ServiceURL          string
	StructureURL        string
}

// Maintainable returns the embedded MaintainableArtefact. Any type that
// embeds MaintainableArtefact satisfies the Maintainable interface
// through this promoted method.
func (a *MaintainableArtefact) Maintainable() *MaintainableArtefact { return a }

// MaintainedID returns "AGENCY:ID" when the maintainer is known, else "ID".
func (a *MaintainableArtefact) MaintainedID() string {
	if a.Maintainer != nil {
		return a.Maintainer.ID + ":" + a.ID
	}
	return a.ID
}

// Maintainable is satisfied by every artefact that embeds
// MaintainableArtefact: item schemes, structures, dataflows, constraints.
type Maintainable interface {
	Maintainable() *MaintainableArtefact
	String() string
}

// SchemeItem is an item nested inside a maintainable item scheme, such as
// a Code within a Codelist. Scheme returns the enclosing scheme, or nil
// for an item that has not been appended to one.
type SchemeItem interface {
	Nameable() *NameableArtefact
	Scheme() Maintainable
	String() string
}

// displayArtefact renders the display form used in error messages and
// logs, e.g. "<Dataflow ECB:EXR>".
func displayArtefact(kind string, a *MaintainableArtefact) string {
	return fmt.Sprintf("<%s %s>", kind, a.MaintainedID())
}

// displayScheme renders the display form of an item scheme, including the
// item count, e.g. "<Codelist BAZ:FOO (1 items)>".
func displayScheme(kind string, a *MaintainableArtefact, items int) string {
	return fmt.Sprintf("<%s %s (%d items)>", kind, a.MaintainedID(), items)
}

// displayItem renders the display form of a scheme item, e.g. "<Code BAR>".
func displayItem(kind, id string) string {
	return fmt.Sprintf("<%s %s>", kind, id)
}
