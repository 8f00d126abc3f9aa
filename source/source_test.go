package source

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gosdmx/sdmx/message"
	"github.com/gosdmx/sdmx/model"
	"github.com/gosdmx/sdmx/rest"
)

func dsdFixture() *model.DataStructureDefinition {
	dsd := &model.DataStructureDefinition{}
	dsd.ID = "TEST_DSD"
	return dsd
}

func TestPackagedSources(t *testing.T) {
	ids := IDs()
	if len(ids) == 0 {
		t.Fatal("no packaged sources loaded")
	}

	// Sorted order.
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Errorf("IDs not sorted: %q before %q", ids[i-1], ids[i])
		}
	}

	for _, id := range []string{"ECB", "ESTAT", "OECD", "SGR", "UNSD"} {
		if _, err := Lookup(id); err != nil {
			t.Errorf("Lookup(%s) failed: %v", id, err)
		}
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("NO_SUCH_AGENCY")
	var unknown *UnknownError
	if !errors.As(err, &unknown) {
		t.Fatalf("Lookup error = %v; want UnknownError", err)
	}
	if unknown.ID != "NO_SUCH_AGENCY" {
		t.Errorf("UnknownError.ID = %q", unknown.ID)
	}
}

func TestRegister_DuplicateAndOverride(t *testing.T) {
	cfg := &Source{ID: "X_TEST", URL: "https://one.example.org", Name: "One"}
	if err := Register(cfg, "X_TEST", false); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	cfg2 := &Source{ID: "X_TEST", URL: "https://two.example.org", Name: "Two"}
	err := Register(cfg2, "X_TEST", false)
	var dup *DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("duplicate Register error = %v; want DuplicateError", err)
	}

	if err := Register(cfg2, "X_TEST", true); err != nil {
		t.Fatalf("Register with override failed: %v", err)
	}
	got, err := Lookup("X_TEST")
	if err != nil {
		t.Fatalf("Lookup after override failed: %v", err)
	}
	if got.URL != "https://two.example.org" {
		t.Errorf("Lookup returned %q; want the overriding config", got.URL)
	}
}

func TestRegister_IDDefaultsToConfig(t *testing.T) {
	cfg := &Source{ID: "X_DEFAULT_ID", URL: "https://example.org", Name: "Test"}
	if err := Register(cfg, "", false); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := Lookup("X_DEFAULT_ID"); err != nil {
		t.Errorf("Lookup(X_DEFAULT_ID) failed: %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	if err := Register(&Source{}, "", false); err == nil {
		t.Error("Register without id should fail")
	}
	bad := &Source{ID: "X_BAD_CT", ContentType: ContentType(7)}
	if err := Register(bad, "", false); err == nil {
		t.Error("Register with invalid content type should fail")
	}
}

func TestCapabilityDefaults_XML(t *testing.T) {
	cfg := &Source{ID: "X_CAPS_XML", URL: "https://example.org", Name: "Caps"}
	if err := Register(cfg, "", false); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if !cfg.SupportsResource(rest.Data) {
		t.Error("data should be supported")
	}
	// XML default for unlisted endpoints.
	if !cfg.SupportsResource(rest.Codelist) {
		t.Error("codelist should default to supported on an XML source")
	}
	// The shared default table wins over the XML default.
	if cfg.SupportsResource(rest.HierarchicalCodelist) {
		t.Error("hierarchicalcodelist should default to unsupported")
	}
	if !cfg.Supports[CapabilityPreview] || !cfg.Supports[CapabilityStructureSpecific] {
		t.Error("synthetic capabilities should default to supported on an XML source")
	}
}

func TestCapabilityDefaults_JSON(t *testing.T) {
	cfg := &Source{
		ID: "X_CAPS_JSON", URL: "https://example.org", Name: "Caps",
		ContentType: ContentTypeJSON,
		Supports:    map[string]bool{"categoryscheme": true},
	}
	if err := Register(cfg, "", false); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if !cfg.SupportsResource(rest.Data) {
		t.Error("data should be supported")
	}
	if cfg.SupportsResource(rest.Codelist) {
		t.Error("codelist should default to unsupported on a JSON source")
	}
	// Explicit catalog values win over every default.
	if !cfg.SupportsResource(rest.CategoryScheme) {
		t.Error("explicit categoryscheme: true should win")
	}
	if cfg.Supports[CapabilityPreview] {
		t.Error("preview should default to unsupported on a JSON source")
	}
}

func TestFromJSON(t *testing.T) {
	cfg, err := FromJSON([]byte(`{
		"id": "TEST",
		"url": "https://example.org/rest",
		"name": "Test Source",
		"supports": {"codelist": false, "preview": true}
	}`))
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}
	if cfg.ID != "TEST" || cfg.ContentType != ContentTypeXML {
		t.Errorf("FromJSON = %+v", cfg)
	}

	if _, err := FromJSON([]byte(`{"id": "T", "data_content_type": "CSV"}`)); err == nil {
		t.Error("unknown content type should fail")
	}
	if _, err := FromJSON([]byte(`not json`)); err == nil {
		t.Error("malformed JSON should fail")
	}
}

func TestParseContentType(t *testing.T) {
	tests := []struct {
		in   string
		want ContentType
		ok   bool
	}{
		{"", ContentTypeXML, true},
		{"XML", ContentTypeXML, true},
		{"JSON", ContentTypeJSON, true},
		{"CSV", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseContentType(tt.in)
		if (err == nil) != tt.ok || (tt.ok && got != tt.want) {
			t.Errorf("ParseContentType(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestDefaultModifyRequestArgs(t *testing.T) {
	xmlSrc := &Source{ID: "X", ContentType: ContentTypeXML}
	args := &rest.RequestArgs{Resource: rest.Data, ID: "FLOW", DSD: dsdFixture()}
	if err := xmlSrc.ModifyRequestArgs(args); err != nil {
		t.Fatalf("ModifyRequestArgs failed: %v", err)
	}
	if got := args.Headers.Get("Accept"); !strings.Contains(got, "structurespecificdata+xml") {
		t.Errorf("Accept = %q; want structure-specific media type", got)
	}

	// JSON sources leave the headers alone.
	jsonSrc := &Source{ID: "J", ContentType: ContentTypeJSON}
	args = &rest.RequestArgs{Resource: rest.Data, ID: "FLOW", DSD: dsdFixture()}
	if err := jsonSrc.ModifyRequestArgs(args); err != nil {
		t.Fatalf("ModifyRequestArgs failed: %v", err)
	}
	if args.HasHeader("Accept") {
		t.Error("JSON source should not set the structure-specific Accept header")
	}

	// An existing Accept header is preserved.
	args = &rest.RequestArgs{Resource: rest.Data, ID: "FLOW", DSD: dsdFixture()}
	args.SetHeader("Accept", "text/plain")
	_ = xmlSrc.ModifyRequestArgs(args)
	if got := args.Headers.Get("Accept"); got != "text/plain" {
		t.Errorf("Accept = %q; caller header should win", got)
	}
}

func TestABSHook(t *testing.T) {
	abs, err := Lookup("ABS")
	if err != nil {
		t.Fatalf("Lookup(ABS) failed: %v", err)
	}
	err = abs.ModifyRequestArgs(&rest.RequestArgs{Resource: rest.Codelist, ID: "CL"})
	if err == nil {
		t.Error("ABS structure query should fail before any I/O")
	}
	if err := abs.ModifyRequestArgs(&rest.RequestArgs{Resource: rest.Data, ID: "FLOW"}); err != nil {
		t.Errorf("ABS data query rejected: %v", err)
	}
}

func TestSGRHook(t *testing.T) {
	sgr, err := Lookup("SGR")
	if err != nil {
		t.Fatalf("Lookup(SGR) failed: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte(`<?xml version="1.0"?><mes:Structure/>`))
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	body := []byte(`<?xml version="1.0"?><mes:Structure/>`)
	resp, body, err = sgr.HandleResponse(resp, body)
	if err != nil {
		t.Fatalf("HandleResponse failed: %v", err)
	}
	if got := resp.Header.Get("Content-Type"); got != "application/xml" {
		t.Errorf("Content-Type after hook = %q; want application/xml", got)
	}
	if len(body) == 0 {
		t.Error("body lost by hook")
	}
}

func TestESTATHook(t *testing.T) {
	estat, err := Lookup("ESTAT")
	if err != nil {
		t.Fatalf("Lookup(ESTAT) failed: %v", err)
	}

	// A footer pointing at a prepared file surfaces as DelayedResponseError.
	msg := &message.DataMessage{
		Header: &message.Header{},
		Footer: &message.Footer{
			Code:     413,
			Severity: message.SeverityInfo,
			Texts:    []string{"Due to the large query the response will be written to a file", "https://ec.europa.eu/estat/async/file.zip"},
		},
	}
	_, err = estat.FinishMessage(msg, nil)
	var delayed *DelayedResponseError
	if !errors.As(err, &delayed) {
		t.Fatalf("FinishMessage error = %v; want DelayedResponseError", err)
	}
	if delayed.URL != "https://ec.europa.eu/estat/async/file.zip" || delayed.Code != 413 {
		t.Errorf("DelayedResponseError = %+v", delayed)
	}

	// No footer: nothing to do.
	plain := &message.DataMessage{Header: &message.Header{}}
	if _, err := estat.FinishMessage(plain, nil); err != nil {
		t.Errorf("FinishMessage without footer failed: %v", err)
	}
}

func TestNoSource(t *testing.T) {
	if NoSource.ID != "" || NoSource.URL != "" {
		t.Errorf("NoSource = %+v; want zero-valued", NoSource)
	}
}
