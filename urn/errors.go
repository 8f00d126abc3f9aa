package urn

import (
	"fmt"
	"reflect"
)

// MalformedError is returned by Parse for text that does not match the
// URN grammar.
type MalformedError struct {
	Text string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("not a valid SDMX URN: %s", e.Text)
}

// NotMaintainableError is returned by Make when the object is not itself
// maintainable and no maintainable parent could be found.
type NotMaintainableError struct {
	Obj    any
	Parent any
}

func (e *NotMaintainableError) Error() string {
	return fmt.Sprintf("neither %s nor %s are maintainable",
		display(e.Obj), display(e.Parent))
}

// MissingMaintainerError is returned by Make when the maintainable
// parent has no owning agency.
type MissingMaintainerError struct {
	Artefact fmt.Stringer
}

func (e *MissingMaintainerError) Error() string {
	return fmt.Sprintf("cannot construct URN for %s without maintainer", e.Artefact)
}

// MissingVersionError is returned by Make in strict mode when the
// maintainable parent has no version.
type MissingVersionError struct {
	Artefact fmt.Stringer
}

func (e *MissingVersionError) Error() string {
	return fmt.Sprintf("cannot construct URN for %s without version", e.Artefact)
}

// UnknownClassError is returned by Make for objects whose type has no
// entry in the URN class table.
type UnknownClassError struct {
	Type reflect.Type
}

func (e *UnknownClassError) Error() string {
	if e.Type == nil {
		return "no URN package defined for <nil>"
	}
	return fmt.Sprintf("no URN package defined for %s", e.Type)
}

func display(v any) string {
	if v == nil {
		return "<nil>"
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v)
}
