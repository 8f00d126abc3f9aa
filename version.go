package sdmx

// Version is the library version, sent in the default User-Agent.
const Version = "0.9.0"

// Versions of the SDMX standards the library speaks.
const (
	// SDMXMLVersion is the supported SDMX-ML schema version.
	SDMXMLVersion = "2.1"

	// SDMXJSONVersion is the supported SDMX-JSON specification version.
	SDMXJSONVersion = "1.0.0"

	// SDMXRESTVersion is the SDMX-REST API version the request builder
	// targets.
	SDMXRESTVersion = "1.5.0"
)
