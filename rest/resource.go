// Package rest enumerates the SDMX-REST v1.5 endpoints and builds query
// URLs for them. The resource names double as capability keys in source
// configurations and as path segments in query URLs.
package rest

import "fmt"

// Resource is an SDMX-REST endpoint name.
type Resource string

// The SDMX-REST v1.5 endpoints.
const (
	ActualConstraint          Resource = "actualconstraint"
	AgencyScheme              Resource = "agencyscheme"
	AllowedConstraint         Resource = "allowedconstraint"
	AttachementConstraint     Resource = "attachementconstraint"
	Categorisation            Resource = "categorisation"
	CategoryScheme            Resource = "categoryscheme"
	Codelist                  Resource = "codelist"
	ConceptScheme             Resource = "conceptscheme"
	ContentConstraint         Resource = "contentconstraint"
	CustomTypeScheme          Resource = "customtypescheme"
	Data                      Resource = "data"
	DataConsumerScheme        Resource = "dataconsumerscheme"
	Dataflow                  Resource = "dataflow"
	DataProviderScheme        Resource = "dataproviderscheme"
	DataStructure             Resource = "datastructure"
	HierarchicalCodelist      Resource = "hierarchicalcodelist"
	Metadata                  Resource = "metadata"
	Metadataflow              Resource = "metadataflow"
	MetadataStructure         Resource = "metadatastructure"
	NamePersonalisationScheme Resource = "namepersonalisationscheme"
	OrganisationScheme        Resource = "organisationscheme"
	OrganisationUnitScheme    Resource = "organisationunitscheme"
	Process                   Resource = "process"
	ProvisionAgreement        Resource = "provisionagreement"
	ReportingTaxonomy         Resource = "reportingtaxonomy"
	RulesetScheme             Resource = "rulesetscheme"
	Schema                    Resource = "schema"
	Structure                 Resource = "structure"
	StructureSet              Resource = "structureset"
	TransformationScheme      Resource = "transformationscheme"
	UserDefinedOperatorScheme Resource = "userdefinedoperatorscheme"
	VTLMappingScheme          Resource = "vtlmappingscheme"
)

// Resources lists every endpoint in canonical order.
var Resources = []Resource{
	ActualConstraint,
	AgencyScheme,
	AllowedConstraint,
	AttachementConstraint,
	Categorisation,
	CategoryScheme,
	Codelist,
	ConceptScheme,
	ContentConstraint,
	CustomTypeScheme,
	Data,
	DataConsumerScheme,
	Dataflow,
	DataProviderScheme,
	DataStructure,
	HierarchicalCodelist,
	Metadata,
	Metadataflow,
	MetadataStructure,
	NamePersonalisationScheme,
	OrganisationScheme,
	OrganisationUnitScheme,
	Process,
	ProvisionAgreement,
	ReportingTaxonomy,
	RulesetScheme,
	Schema,
	Structure,
	StructureSet,
	TransformationScheme,
	UserDefinedOperatorScheme,
	VTLMappingScheme,
}

var resourceSet = func() map[Resource]bool {
	m := make(map[Resource]bool, len(Resources))
	for _, r := range Resources {
		m[r] = true
	}
	return m
}()

// Valid reports whether r names a known endpoint.
func (r Resource) Valid() bool { return resourceSet[r] }

// ParseResource converts s into a Resource, failing for unknown names.
func ParseResource(s string) (Resource, error) {
	r := Resource(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown SDMX-REST resource %q", s)
	}
	return r, nil
}
