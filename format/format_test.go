package format

import "testing"

func TestListContentTypes(t *testing.T) {
	xml := ListContentTypes("xml")
	if len(xml) != 8 {
		t.Errorf("xml content types = %d; want 8", len(xml))
	}
	json := ListContentTypes("json")
	if len(json) != 2 {
		t.Errorf("json content types = %d; want 2", len(json))
	}
}

func TestMediaType_String(t *testing.T) {
	m := MediaType{Kind: "genericdata", Base: "xml", Version: "2.1"}
	want := "application/vnd.sdmx.genericdata+xml;version=2.1"
	if got := m.String(); got != want {
		t.Errorf("String() = %q; want %q", got, want)
	}
}
