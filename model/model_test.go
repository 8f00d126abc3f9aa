package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCodelist_AppendGet(t *testing.T) {
	cl := &Codelist{}
	cl.ID = "CL_FREQ"

	a := &Code{}
	a.ID = "A"
	cl.Append(a)

	m := &Code{}
	m.ID = "M"
	cl.Append(m)

	if cl.Len() != 2 {
		t.Fatalf("Len() = %d; want 2", cl.Len())
	}
	if got := cl.Get("M"); got != m {
		t.Errorf("Get(M) = %v; want %v", got, m)
	}
	if cl.Get("Q") != nil {
		t.Error("Get(Q) should be nil")
	}
	if a.Codelist != cl {
		t.Error("Append did not set the scheme back-reference")
	}
	if a.Scheme() != Maintainable(cl) {
		t.Error("Scheme() did not return the enclosing codelist")
	}
}

func TestCode_DetachedScheme(t *testing.T) {
	c := &Code{}
	c.ID = "BAR"
	if c.Scheme() != nil {
		t.Error("detached code should have a nil scheme")
	}
}

func TestDisplayStrings(t *testing.T) {
	cl := &Codelist{}
	cl.ID = "FOO"
	c := &Code{}
	c.ID = "BAR"
	cl.Append(c)

	if got, want := cl.String(), "<Codelist FOO (1 items)>"; got != want {
		t.Errorf("Codelist.String() = %q; want %q", got, want)
	}
	if got, want := c.String(), "<Code BAR>"; got != want {
		t.Errorf("Code.String() = %q; want %q", got, want)
	}

	cl.Maintainer = &Agency{}
	cl.Maintainer.ID = "BAZ"
	if got, want := cl.String(), "<Codelist BAZ:FOO (1 items)>"; got != want {
		t.Errorf("Codelist.String() with maintainer = %q; want %q", got, want)
	}
}

func TestCategoryScheme_Hierarchy(t *testing.T) {
	cs := &CategoryScheme{}
	cs.ID = "CAT"

	parent := &Category{}
	parent.ID = "ECO"
	child := &Category{}
	child.ID = "ECO.PRICES"
	parent.Children = append(parent.Children, child)
	cs.Append(parent)

	if got := cs.Get("ECO.PRICES"); got != child {
		t.Errorf("Get(ECO.PRICES) = %v; want nested child", got)
	}
	if child.CategoryScheme != cs {
		t.Error("Append did not adopt nested categories")
	}
}

func TestInternationalString_Localized(t *testing.T) {
	is := InternationalString{"en": "Frequency", "fr": "Fréquence"}

	if got := is.Localized("fr"); got != "Fréquence" {
		t.Errorf("Localized(fr) = %q", got)
	}
	if got := is.Localized("de"); got != "Frequency" {
		t.Errorf("Localized(de) = %q; want English fallback", got)
	}
	if got := is.String(); got != "Frequency" {
		t.Errorf("String() = %q", got)
	}
	if got := (InternationalString{}).String(); got != "" {
		t.Errorf("empty String() = %q; want empty", got)
	}
}

func TestObservation_SetValue(t *testing.T) {
	var o Observation
	o.SetValue("3.1400")
	if !o.Valid {
		t.Fatal("numeric value should be valid")
	}
	if !o.Value.Equal(decimal.RequireFromString("3.14")) {
		t.Errorf("Value = %s; want 3.14", o.Value)
	}
	if o.RawValue != "3.1400" {
		t.Errorf("RawValue = %q; want original text", o.RawValue)
	}

	var na Observation
	na.SetValue("NaN-ish")
	if na.Valid {
		t.Error("non-numeric value should not be valid")
	}
	if na.RawValue != "NaN-ish" {
		t.Errorf("RawValue = %q", na.RawValue)
	}
}

func TestDataSet_AddSeries(t *testing.T) {
	ds := &DataSet{}
	sk := &SeriesKey{Key: Key{Values: []KeyValue{{ID: "FREQ", Value: "A"}}}}
	o1 := &Observation{Dimension: KeyValue{ID: "TIME_PERIOD", Value: "2020"}}
	o2 := &Observation{Dimension: KeyValue{ID: "TIME_PERIOD", Value: "2021"}}
	ds.AddSeries(&Series{Key: sk, Obs: []*Observation{o1, o2}})

	if len(ds.Obs) != 2 {
		t.Fatalf("flat obs count = %d; want 2", len(ds.Obs))
	}
	if ds.Obs[0].Series != sk {
		t.Error("observation not linked back to series key")
	}
}

func TestKey_String(t *testing.T) {
	k := Key{Values: []KeyValue{{ID: "REF_AREA", Value: "DE"}, {ID: "FREQ", Value: "M"}}}
	if got, want := k.String(), "M.DE"; got != want {
		t.Errorf("Key.String() = %q; want %q", got, want)
	}
	if v, ok := k.Get("FREQ"); !ok || v != "M" {
		t.Errorf("Get(FREQ) = %q, %v", v, ok)
	}
}

func TestComponent_Representation(t *testing.T) {
	enum := &Codelist{}
	enum.ID = "CL_UNIT"

	concept := &Concept{}
	concept.ID = "UNIT"
	concept.CoreRepresentation = &Representation{Enumerated: enum}

	dim := &Dimension{}
	dim.ID = "UNIT"
	dim.ConceptIdentity = concept

	if rep := dim.Representation(); rep == nil || rep.Enumerated != enum {
		t.Error("core representation not inherited from concept")
	}

	local := &Representation{Facets: []Facet{{Type: "textType", Value: "String"}}}
	dim.LocalRepresentation = local
	if rep := dim.Representation(); rep != local {
		t.Error("local representation should win over core representation")
	}
}

func TestDimensionDescriptor_Get(t *testing.T) {
	dd := &DimensionDescriptor{}
	freq := &Dimension{}
	freq.ID = "FREQ"
	dd.Dimensions = append(dd.Dimensions, freq)
	td := &TimeDimension{}
	td.ID = "TIME_PERIOD"
	dd.TimeDimension = td

	if got := dd.Get("FREQ"); got != freq {
		t.Errorf("Get(FREQ) = %v", got)
	}
	if got := dd.Get("TIME_PERIOD"); got == nil || got.ID != "TIME_PERIOD" {
		t.Errorf("Get(TIME_PERIOD) = %v", got)
	}
	if dd.Get("NOPE") != nil {
		t.Error("Get(NOPE) should be nil")
	}
	if got := dd.IDs(); len(got) != 1 || got[0] != "FREQ" {
		t.Errorf("IDs() = %v", got)
	}
}
