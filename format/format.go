// Package format catalogs the media types used by SDMX web services.
package format

import "fmt"

// MediaType identifies one SDMX media type, e.g.
// "application/vnd.sdmx.genericdata+xml;version=2.1".
type MediaType struct {
	Kind    string // genericdata, structure, data, ...
	Base    string // "xml" or "json"
	Version string
}

// String renders the full media type string.
func (m MediaType) String() string {
	return fmt.Sprintf("application/vnd.sdmx.%s+%s;version=%s", m.Kind, m.Base, m.Version)
}

// All lists the registered SDMX media types.
var All = []MediaType{
	{Kind: "genericdata", Base: "xml", Version: "2.1"},
	{Kind: "generictimeseriesdata", Base: "xml", Version: "2.1"},
	{Kind: "structurespecificdata", Base: "xml", Version: "2.1"},
	{Kind: "structurespecifictimeseriesdata", Base: "xml", Version: "2.1"},
	{Kind: "structure", Base: "xml", Version: "2.1"},
	{Kind: "schema", Base: "xml", Version: "2.1"},
	{Kind: "genericmetadata", Base: "xml", Version: "2.1"},
	{Kind: "structurespecificmetadata", Base: "xml", Version: "2.1"},
	{Kind: "data", Base: "json", Version: "1.0.0"},
	{Kind: "structure", Base: "json", Version: "1.0.0"},
}

// ListContentTypes returns the media type strings with the given base
// ("xml" or "json"), in registration order.
func ListContentTypes(base string) []string {
	var out []string
	for _, m := range All {
		if m.Base == base {
			out = append(out, m.String())
		}
	}
	return out
}
