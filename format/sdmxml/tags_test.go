package sdmxml

import (
	"encoding/xml"
	"reflect"
	"testing"

	"github.com/gosdmx/sdmx/message"
	"github.com/gosdmx/sdmx/model"
)

func TestContentTypes(t *testing.T) {
	if len(ContentTypes) != 10 {
		t.Errorf("len(ContentTypes) = %d; want 10", len(ContentTypes))
	}
}

func TestQName(t *testing.T) {
	got := QName("mes:Structure")
	want := xml.Name{Space: baseNS + "/message", Local: "Structure"}
	if got != want {
		t.Errorf("QName(mes:Structure) = %v; want %v", got, want)
	}

	if got := QName("Unqualified"); got != (xml.Name{Local: "Unqualified"}) {
		t.Errorf("QName without prefix = %v", got)
	}
	if got, want := QNameNS("str", "Codelist"), QName("str:Codelist"); got != want {
		t.Errorf("QNameNS = %v; want %v", got, want)
	}
}

func TestQName_UnknownPrefix(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("QName with unknown prefix should panic")
		}
	}()
	QName("bogus:Thing")
}

func TestTypeFor(t *testing.T) {
	tests := []struct {
		tag  string
		want reflect.Type
	}{
		{"mes:GenericData", typeOf[message.DataMessage]()},
		{"mes:StructureSpecificData", typeOf[message.DataMessage]()},
		{"mes:Error", typeOf[message.ErrorMessage]()},
		{"mes:Structure", typeOf[message.StructureMessage]()},
		{"str:Agency", typeOf[model.Agency]()},
		{"mes:Sender", typeOf[model.Agency]()},
		{"mes:Receiver", typeOf[model.Agency]()},
		{"str:Codelist", typeOf[model.Codelist]()},
		{"str:Code", typeOf[model.Code]()},
		{"str:Dimension", typeOf[model.Dimension]()},
		{"str:DimensionReference", typeOf[model.Dimension]()},
		{"str:GroupDimension", typeOf[model.Dimension]()},
		{"str:TimeDimension", typeOf[model.TimeDimension]()},
		{"com:Structure", typeOf[model.DataStructureDefinition]()},
		{"gen:SeriesKey", typeOf[model.SeriesKey]()},
	}
	for _, tt := range tests {
		got, ok := TypeFor(QName(tt.tag))
		if !ok || got != tt.want {
			t.Errorf("TypeFor(%s) = %v, %v; want %v", tt.tag, got, ok, tt.want)
		}
	}
}

func TestTypeFor_ContainerTag(t *testing.T) {
	// mes:Codelists is a structural container with no model type.
	if _, ok := TypeFor(QName("mes:Codelists")); ok {
		t.Error("TypeFor(mes:Codelists) should report not found")
	}
}

func TestNameFor_FirstDeclaredWins(t *testing.T) {
	// Agency has three tags; the canonical one is str:Agency.
	got, ok := NameFor(typeOf[model.Agency]())
	if !ok || got != QName("str:Agency") {
		t.Errorf("NameFor(Agency) = %v, %v; want str:Agency", got, ok)
	}

	// Dimension has three tags; the canonical one is str:Dimension.
	got, ok = NameFor(typeOf[model.Dimension]())
	if !ok || got != QName("str:Dimension") {
		t.Errorf("NameFor(Dimension) = %v, %v; want str:Dimension", got, ok)
	}

	// DataStructureDefinition: str:DataStructure comes first.
	got, ok = NameFor(typeOf[model.DataStructureDefinition]())
	if !ok || got != QName("str:DataStructure") {
		t.Errorf("NameFor(DataStructureDefinition) = %v, %v; want str:DataStructure", got, ok)
	}
}

func TestNameFor_NeverSerialized(t *testing.T) {
	// The item-scheme core has no element name of its own.
	if _, ok := NameFor(typeOf[model.ItemScheme]()); ok {
		t.Error("NameFor(ItemScheme) should report not found")
	}
}

func TestRoundTrip(t *testing.T) {
	// Every type in the table resolves back to itself through its
	// canonical tag.
	seen := make(map[reflect.Type]bool)
	for _, e := range typeTag {
		if seen[e.typ] {
			continue
		}
		seen[e.typ] = true

		name, ok := NameFor(e.typ)
		if !ok {
			t.Errorf("NameFor(%v) not found", e.typ)
			continue
		}
		got, ok := TypeFor(name)
		if !ok || got != e.typ {
			t.Errorf("TypeFor(NameFor(%v)) = %v, %v; want the type itself", e.typ, got, ok)
		}
	}
}

func TestNameForValue(t *testing.T) {
	if got, ok := NameForValue(&model.Codelist{}); !ok || got != QName("str:Codelist") {
		t.Errorf("NameForValue(*Codelist) = %v, %v", got, ok)
	}
	if _, ok := NameForValue(nil); ok {
		t.Error("NameForValue(nil) should report not found")
	}
}

func BenchmarkTypeFor(b *testing.B) {
	name := QName("str:Codelist")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		TypeFor(name)
	}
}

func BenchmarkNameFor(b *testing.B) {
	typ := typeOf[model.Agency]()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		NameFor(typ)
	}
}
