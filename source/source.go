// Package source describes SDMX data sources: the location and REST
// capabilities of each agency's web service, plus hooks that adapt the
// generic client to the quirks of individual services.
//
// A catalog of well-known sources ships embedded in the package and is
// loaded into a process-wide registry on first use. Additional sources
// may be registered programmatically.
package source

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/gosdmx/sdmx/message"
	"github.com/gosdmx/sdmx/rest"
)

// ContentType is the kind of payload a source returns.
type ContentType int

// Supported payload kinds. XML is the zero value: the standard's
// heritage is XML-first, and the catalog omits the field for XML sources.
const (
	ContentTypeXML ContentType = iota
	ContentTypeJSON
)

// String returns "XML" or "JSON".
func (c ContentType) String() string {
	switch c {
	case ContentTypeXML:
		return "XML"
	case ContentTypeJSON:
		return "JSON"
	default:
		return fmt.Sprintf("ContentType(%d)", int(c))
	}
}

// ParseContentType converts the catalog representation of a content
// type. The empty string means XML.
func ParseContentType(s string) (ContentType, error) {
	switch s {
	case "", "XML":
		return ContentTypeXML, nil
	case "JSON":
		return ContentTypeJSON, nil
	default:
		return 0, fmt.Errorf("unknown data content type %q", s)
	}
}

// Synthetic capability keys, valid in Supports alongside the endpoint
// names of rest.Resources.
const (
	// CapabilityPreview marks sources answering ?detail=serieskeysonly.
	CapabilityPreview = "preview"

	// CapabilityStructureSpecific marks sources able to return
	// structure-specific data messages.
	CapabilityStructureSpecific = "structure-specific data"
)

// defaultSupports holds the capability defaults shared by all sources:
// every source supports the data endpoint, and a fixed list of endpoints
// described in the standard but implemented by no cataloged service
// defaults to unsupported. Capabilities absent from this table default
// to supported on XML sources and unsupported otherwise.
var defaultSupports = map[rest.Resource]bool{
	rest.Data:                      true,
	rest.ActualConstraint:          false,
	rest.AllowedConstraint:         false,
	rest.AttachementConstraint:     false,
	rest.CustomTypeScheme:          false,
	rest.DataConsumerScheme:        false,
	rest.DataProviderScheme:        false,
	rest.HierarchicalCodelist:      false,
	rest.Metadata:                  false,
	rest.Metadataflow:              false,
	rest.MetadataStructure:         false,
	rest.NamePersonalisationScheme: false,
	rest.OrganisationUnitScheme:    false,
	rest.Process:                   false,
	rest.ReportingTaxonomy:         false,
	rest.RulesetScheme:             false,
	rest.Schema:                    false,
	rest.TransformationScheme:      false,
	rest.UserDefinedOperatorScheme: false,
	rest.VTLMappingScheme:          false,
}

// Hooks adapt the generic request lifecycle to one source. Nil fields
// fall back to the default behavior.
type Hooks struct {
	// ModifyRequestArgs runs before the query URL is built.
	ModifyRequestArgs func(s *Source, args *rest.RequestArgs) error

	// HandleResponse runs only when the payload cannot be matched to
	// any reader, and may repair the response or the body.
	HandleResponse func(s *Source, resp *http.Response, body []byte) (*http.Response, []byte, error)

	// FinishMessage runs after a message has been successfully parsed.
	FinishMessage func(s *Source, msg message.Message, req *http.Request) (message.Message, error)
}

// Source describes the location and features of an SDMX data source.
type Source struct {
	// ID of the data source, e.g. "ECB".
	ID string

	// URL is the base URL for queries.
	URL string

	// Name is the human-readable name of the source.
	Name string

	// Documentation optionally points at the service documentation.
	Documentation string

	// Headers are sent with every request to this source.
	Headers map[string]string

	// ContentType is the payload kind the source returns.
	ContentType ContentType

	// Supports maps endpoint names (and the synthetic capability keys)
	// to whether the source implements them. Filled with defaults at
	// registration; see defaultSupports.
	Supports map[string]bool

	// Hooks carries the source-specific overrides, if any.
	Hooks Hooks
}

// SupportsResource reports whether the source implements the endpoint.
func (s *Source) SupportsResource(r rest.Resource) bool {
	return s.Supports[string(r)]
}

// ModifyRequestArgs applies the source's request-argument hook, or the
// default behavior: XML sources asked for data with a known DSD get the
// structure-specific Accept header.
func (s *Source) ModifyRequestArgs(args *rest.RequestArgs) error {
	if s.Hooks.ModifyRequestArgs != nil {
		return s.Hooks.ModifyRequestArgs(s, args)
	}
	return s.DefaultModifyRequestArgs(args)
}

// DefaultModifyRequestArgs is the generic request-argument behavior.
// Hook overrides that extend rather than replace it call it directly.
func (s *Source) DefaultModifyRequestArgs(args *rest.RequestArgs) error {
	if s.ContentType == ContentTypeXML && args.DSD != nil && !args.HasHeader("Accept") {
		args.SetHeader("Accept", "application/vnd.sdmx.structurespecificdata+xml;version=2.1")
	}
	return nil
}

// HandleResponse applies the source's response hook. It is called only
// for payloads no reader recognizes; the default leaves the response
// untouched, so the caller reports the unknown content type.
func (s *Source) HandleResponse(resp *http.Response, body []byte) (*http.Response, []byte, error) {
	if s.Hooks.HandleResponse != nil {
		return s.Hooks.HandleResponse(s, resp, body)
	}
	return resp, body, nil
}

// FinishMessage applies the source's message post-processing hook.
func (s *Source) FinishMessage(msg message.Message, req *http.Request) (message.Message, error) {
	if s.Hooks.FinishMessage != nil {
		return s.Hooks.FinishMessage(s, msg, req)
	}
	return msg, nil
}

// validate checks a source before registration.
func (s *Source) validate() error {
	if s.ID == "" {
		return fmt.Errorf("source configuration requires an id")
	}
	if s.ContentType != ContentTypeXML && s.ContentType != ContentTypeJSON {
		return fmt.Errorf("source %s: invalid content type %d", s.ID, int(s.ContentType))
	}
	return nil
}

// applyDefaults fills the capability map: explicit values win, then the
// shared default table, then the XML-first default for everything else
// including the synthetic capability keys.
func (s *Source) applyDefaults() {
	if s.Supports == nil {
		s.Supports = make(map[string]bool, len(rest.Resources)+2)
	}
	for r, v := range defaultSupports {
		if _, ok := s.Supports[string(r)]; !ok {
			s.Supports[string(r)] = v
		}
	}
	xmlDefault := s.ContentType == ContentTypeXML
	for _, r := range rest.Resources {
		if _, ok := s.Supports[string(r)]; !ok {
			s.Supports[string(r)] = xmlDefault
		}
	}
	for _, cap := range []string{CapabilityPreview, CapabilityStructureSpecific} {
		if _, ok := s.Supports[cap]; !ok {
			s.Supports[cap] = xmlDefault
		}
	}
}

// sourceInfo is the catalog representation of a source.
type sourceInfo struct {
	ID              string            `json:"id"`
	URL             string            `json:"url"`
	Name            string            `json:"name"`
	Documentation   string            `json:"documentation,omitempty"`
	Headers         map[string]string `json:"headers,omitempty"`
	DataContentType string            `json:"data_content_type,omitempty"`
	Supports        map[string]bool   `json:"supports,omitempty"`
}

func (info *sourceInfo) toSource() (*Source, error) {
	ct, err := ParseContentType(info.DataContentType)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", info.ID, err)
	}
	supports := make(map[string]bool, len(info.Supports))
	for k, v := range info.Supports {
		supports[k] = v
	}
	return &Source{
		ID:            info.ID,
		URL:           info.URL,
		Name:          info.Name,
		Documentation: info.Documentation,
		Headers:       info.Headers,
		ContentType:   ct,
		Supports:      supports,
	}, nil
}

// FromJSON decodes a single source configuration from its catalog
// representation.
func FromJSON(data []byte) (*Source, error) {
	var info sourceInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("decoding source configuration: %w", err)
	}
	return info.toSource()
}
