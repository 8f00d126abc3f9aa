package urn

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gosdmx/sdmx/model"
)

func TestMake(t *testing.T) {
	c := &model.Code{}
	c.ID = "BAR"

	// A detached code has no maintainable parent.
	_, err := Make(c, false)
	var notMaintainable *NotMaintainableError
	if !errors.As(err, &notMaintainable) {
		t.Fatalf("Make(detached code) error = %v; want NotMaintainableError", err)
	}
	if !strings.Contains(err.Error(), "neither <Code BAR> nor <nil> are maintainable") {
		t.Errorf("error = %q", err)
	}

	cl := &model.Codelist{}
	cl.ID = "FOO"
	cl.Append(c)

	_, err = Make(c, false)
	var missingMaintainer *MissingMaintainerError
	if !errors.As(err, &missingMaintainer) {
		t.Fatalf("Make without maintainer error = %v; want MissingMaintainerError", err)
	}
	if got, want := err.Error(), "cannot construct URN for <Codelist FOO (1 items)> without maintainer"; got != want {
		t.Errorf("error = %q; want %q", got, want)
	}

	cl.Maintainer = &model.Agency{}
	cl.Maintainer.ID = "BAZ"

	_, err = Make(c, true)
	var missingVersion *MissingVersionError
	if !errors.As(err, &missingVersion) {
		t.Fatalf("strict Make without version error = %v; want MissingVersionError", err)
	}
	if got, want := err.Error(), "cannot construct URN for <Codelist BAZ:FOO (1 items)> without version"; got != want {
		t.Errorf("error = %q; want %q", got, want)
	}

	// Non-strict mode omits the version segment instead of failing.
	got, err := Make(c, false)
	if err != nil {
		t.Fatalf("Make without version (non-strict) failed: %v", err)
	}
	if want := "urn:sdmx:org.sdmx.infomodel.codelist.Code=BAZ:FOO.BAR"; got != want {
		t.Errorf("Make = %q; want %q", got, want)
	}

	cl.Version = "1.2.3"

	got, err = Make(c, false)
	if err != nil {
		t.Fatalf("Make(code) failed: %v", err)
	}
	if want := "urn:sdmx:org.sdmx.infomodel.codelist.Code=BAZ:FOO(1.2.3).BAR"; got != want {
		t.Errorf("Make(code) = %q; want %q", got, want)
	}

	got, err = Make(cl, false)
	if err != nil {
		t.Fatalf("Make(codelist) failed: %v", err)
	}
	if want := "urn:sdmx:org.sdmx.infomodel.codelist.Codelist=BAZ:FOO(1.2.3)"; got != want {
		t.Errorf("Make(codelist) = %q; want %q", got, want)
	}
}

func TestMakeWithParent(t *testing.T) {
	c := &model.Code{}
	c.ID = "BAR"

	cl := &model.Codelist{}
	cl.ID = "FOO"
	cl.Version = "1.0"
	cl.Maintainer = &model.Agency{}
	cl.Maintainer.ID = "BAZ"

	got, err := MakeWithParent(c, cl, true)
	if err != nil {
		t.Fatalf("MakeWithParent failed: %v", err)
	}
	if want := "urn:sdmx:org.sdmx.infomodel.codelist.Code=BAZ:FOO(1.0).BAR"; got != want {
		t.Errorf("MakeWithParent = %q; want %q", got, want)
	}

	// A non-maintainable explicit parent is rejected.
	_, err = MakeWithParent(c, "not an artefact", false)
	var notMaintainable *NotMaintainableError
	if !errors.As(err, &notMaintainable) {
		t.Errorf("error = %v; want NotMaintainableError", err)
	}
}

func TestMake_UnknownType(t *testing.T) {
	_, err := Make("a string", false)
	var notMaintainable *NotMaintainableError
	if !errors.As(err, &notMaintainable) {
		t.Errorf("Make(string) error = %v; want NotMaintainableError", err)
	}
}

func TestMake_Dataflow(t *testing.T) {
	df := &model.DataflowDefinition{}
	df.ID = "EXR"
	df.Version = "1.0"
	df.Maintainer = &model.Agency{}
	df.Maintainer.ID = "ECB"

	got, err := Make(df, true)
	if err != nil {
		t.Fatalf("Make(dataflow) failed: %v", err)
	}
	if want := "urn:sdmx:org.sdmx.infomodel.datastructure.Dataflow=ECB:EXR(1.0)"; got != want {
		t.Errorf("Make(dataflow) = %q; want %q", got, want)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		text string
		want Reference
	}{
		{
			"urn:sdmx:org.sdmx.infomodel.codelist.Code=BAZ:FOO(1.2.3).BAR",
			Reference{Package: "codelist", Class: "Code", Agency: "BAZ", ID: "FOO", Version: "1.2.3", ItemID: "BAR"},
		},
		{
			"urn:sdmx:org.sdmx.infomodel.codelist.Codelist=BAZ:FOO(1.2.3)",
			Reference{Package: "codelist", Class: "Codelist", Agency: "BAZ", ID: "FOO", Version: "1.2.3"},
		},
		{
			"urn:sdmx:org.sdmx.infomodel.datastructure.DataStructure=ECB:ECB_EXR1(1.0)",
			Reference{Package: "datastructure", Class: "DataStructure", Agency: "ECB", ID: "ECB_EXR1", Version: "1.0"},
		},
		{
			// Agency and version are both optional.
			"urn:sdmx:org.sdmx.infomodel.codelist.Codelist=FOO",
			Reference{Package: "codelist", Class: "Codelist", ID: "FOO"},
		},
	}
	for _, tt := range tests {
		got, err := Parse(tt.text)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", tt.text, err)
			continue
		}
		if diff := cmp.Diff(tt.want, *got); diff != "" {
			t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.text, diff)
		}
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []string{
		// Missing class-name segment after the package.
		"urn:sdmx:org.sdmx.infomodel.codelist=BBK:CLA_BBK_COLLECTION(1.0)",
		"urn:sdmx:something.else",
		"not a urn at all",
		"",
	}
	for _, text := range tests {
		_, err := Parse(text)
		var malformed *MalformedError
		if !errors.As(err, &malformed) {
			t.Errorf("Parse(%q) error = %v; want MalformedError", text, err)
			continue
		}
		if !strings.Contains(err.Error(), "not a valid SDMX URN: "+text) {
			t.Errorf("Parse(%q) error = %q", text, err)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	cl := &model.Codelist{}
	cl.ID = "CL_UNIT"
	cl.Version = "2.1"
	cl.Maintainer = &model.Agency{}
	cl.Maintainer.ID = "ESTAT"

	c := &model.Code{}
	c.ID = "KG"
	cl.Append(c)

	for _, obj := range []any{cl, c} {
		text, err := Make(obj, true)
		if err != nil {
			t.Fatalf("Make(%v) failed: %v", obj, err)
		}
		ref, err := Parse(text)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", text, err)
		}
		if ref.Agency != "ESTAT" || ref.ID != "CL_UNIT" || ref.Version != "2.1" {
			t.Errorf("round trip of %q lost fields: %+v", text, ref)
		}
	}

	text, _ := Make(c, true)
	ref, _ := Parse(text)
	if ref.ItemID != "KG" {
		t.Errorf("item round trip lost item ID: %+v", ref)
	}
}

func TestReference_String(t *testing.T) {
	r := Reference{Package: "codelist", Class: "Codelist", Agency: "BAZ", ID: "FOO", Version: "1.2.3"}
	want := "urn:sdmx:org.sdmx.infomodel.codelist.Codelist=BAZ:FOO(1.2.3)"
	if got := r.String(); got != want {
		t.Errorf("String() = %q; want %q", got, want)
	}

	// No agency, no version.
	r = Reference{Package: "codelist", Class: "Codelist", ID: "FOO"}
	if got, want := r.String(), "urn:sdmx:org.sdmx.infomodel.codelist.Codelist=FOO"; got != want {
		t.Errorf("String() = %q; want %q", got, want)
	}
}

func TestIsURN(t *testing.T) {
	if !IsURN("urn:sdmx:org.sdmx.infomodel.codelist.Codelist=BAZ:FOO(1.0)") {
		t.Error("valid URN not recognized")
	}
	if IsURN("CL_FREQ") {
		t.Error("plain ID recognized as URN")
	}
}

func TestPackageClassFor(t *testing.T) {
	tests := []struct {
		obj   any
		pkg   string
		class string
	}{
		{&model.Code{}, "codelist", "Code"},
		{&model.Codelist{}, "codelist", "Codelist"},
		{&model.ConceptScheme{}, "conceptscheme", "ConceptScheme"},
		{&model.AgencyScheme{}, "base", "AgencyScheme"},
		{&model.DataflowDefinition{}, "datastructure", "Dataflow"},
		{&model.ContentConstraint{}, "registry", "ContentConstraint"},
	}
	for _, tt := range tests {
		pkg, class, err := PackageClassFor(tt.obj)
		if err != nil {
			t.Errorf("PackageClassFor(%T) failed: %v", tt.obj, err)
			continue
		}
		if pkg != tt.pkg || class != tt.class {
			t.Errorf("PackageClassFor(%T) = %s.%s; want %s.%s", tt.obj, pkg, class, tt.pkg, tt.class)
		}
	}

	// A type outside the information model has no URN package.
	if _, _, err := PackageClassFor(42); err == nil {
		t.Error("PackageClassFor(int) should fail")
	}
}

func BenchmarkParse(b *testing.B) {
	const text = "urn:sdmx:org.sdmx.infomodel.codelist.Code=BAZ:FOO(1.2.3).BAR"
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Parse(text); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMake(b *testing.B) {
	cl := &model.Codelist{}
	cl.ID = "FOO"
	cl.Version = "1.2.3"
	cl.Maintainer = &model.Agency{}
	cl.Maintainer.ID = "BAZ"
	c := &model.Code{}
	c.ID = "BAR"
	cl.Append(c)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Make(c, true); err != nil {
			b.Fatal(err)
		}
	}
}
