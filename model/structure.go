package model

// Facet constrains the values a non-enumerated representation may take,
// e.g. textType=String or maxLength=12.
type Facet struct {
	Type  string
	Value string
}

// Representation describes how component values are expressed: either an
// enumeration (a Codelist) or a set of facets. EnumeratedRef keeps the
// textual reference from the message until it is resolved.
type Representation struct {
	Enumerated    *Codelist
	EnumeratedRef string
	Facets        []Facet
}

// Component is the common core of DSD components: a reference to the
// concept giving the component its meaning, plus an optional local
// representation overriding the concept's core representation.
type Component struct {
	IdentifiableArtefact
	ConceptIdentity     *Concept
	ConceptRef          string
	LocalRepresentation *Representation
}

// Representation returns the effective representation of the component:
// the local one when present, else the concept's core representation.
func (c *Component) Representation() *Representation {
	if c.LocalRepresentation != nil {
		return c.LocalRepresentation
	}
	if c.ConceptIdentity != nil {
		return c.ConceptIdentity.CoreRepresentation
	}
	return nil
}

// Dimension is a component whose values form part of the series key.
type Dimension struct {
	Component
	Position int
}

// TimeDimension is the dimension holding the time period of observations.
type TimeDimension struct {
	Dimension
}

// MeasureDimension is a dimension enumerating the measures of a dataset.
type MeasureDimension struct {
	Dimension
}

// PrimaryMeasure is the component holding the observation value.
type PrimaryMeasure struct {
	Component
}

// AttributeRelationship states what an attribute value attaches to.
type AttributeRelationship struct {
	Dimensions     []string
	Groups         []string
	PrimaryMeasure bool
	None           bool
}

// DataAttribute is a component qualifying observations or keys.
type DataAttribute struct {
	Component
	UsageStatus  string
	Relationship *AttributeRelationship
}

// DimensionDescriptor is the ordered list of dimensions of a DSD.
type DimensionDescriptor struct {
	IdentifiableArtefact
	Dimensions       []*Dimension
	TimeDimension    *TimeDimension
	MeasureDimension *MeasureDimension
}

// IDs returns the IDs of the ordinary dimensions in declared order.
func (d *DimensionDescriptor) IDs() []string {
	ids := make([]string, len(d.Dimensions))
	for i, dim := range d.Dimensions {
		ids[i] = dim.ID
	}
	return ids
}

// Get returns the dimension with the given ID, including the time and
// measure dimensions, or nil.
func (d *DimensionDescriptor) Get(id string) *Dimension {
	for _, dim := range d.Dimensions {
		if dim.ID == id {
			return dim
		}
	}
	if d.TimeDimension != nil && d.TimeDimension.ID == id {
		return &d.TimeDimension.Dimension
	}
	if d.MeasureDimension != nil && d.MeasureDimension.ID == id {
		return &d.MeasureDimension.Dimension
	}
	return nil
}

// GroupDimensionDescriptor names a group of dimensions to which
// attributes may be attached.
type GroupDimensionDescriptor struct {
	IdentifiableArtefact
	Dimensions []string
}

// AttributeDescriptor is the list of attributes of a DSD.
type AttributeDescriptor struct {
	IdentifiableArtefact
	Attributes []*DataAttribute
}

// Get returns the attribute with the given ID, or nil.
func (a *AttributeDescriptor) Get(id string) *DataAttribute {
	for _, att := range a.Attributes {
		if att.ID == id {
			return att
		}
	}
	return nil
}

// MeasureDescriptor holds the primary measure of a DSD.
type MeasureDescriptor struct {
	IdentifiableArtefact
	PrimaryMeasure *PrimaryMeasure
}

// DataStructureDefinition describes the dimensions, attributes and
// measures of datasets reported against it.
type DataStructureDefinition struct {
	MaintainableArtefact
	Dimensions *DimensionDescriptor
	Attributes *AttributeDescriptor
	Measures   *MeasureDescriptor
	Groups     map[string]*GroupDimensionDescriptor
}

func (d *DataStructureDefinition) String() string {
	return displayArtefact("DataStructureDefinition", &d.MaintainableArtefact)
}

// StructureUsage is an artefact defined against a data structure, such as
// a dataflow. StructureRef keeps the textual reference until resolved.
type StructureUsage struct {
	MaintainableArtefact
	Structure    *DataStructureDefinition
	StructureRef string
}

func (u *StructureUsage) String() string {
	return displayArtefact("StructureUsage", &u.MaintainableArtefact)
}

// DataflowDefinition identifies a flow of data reported against a DSD.
type DataflowDefinition struct {
	StructureUsage
}

func (d *DataflowDefinition) String() string {
	return displayArtefact("DataflowDefinition", &d.MaintainableArtefact)
}

// Categorisation links an artefact (usually a dataflow) to a category.
type Categorisation struct {
	MaintainableArtefact
	Artefact    *DataflowDefinition
	ArtefactRef string
	Category    *Category
	CategoryRef string
}

func (c *Categorisation) String() string {
	return displayArtefact("Categorisation", &c.MaintainableArtefact)
}

// CubeRegion selects a slice of a data cube by dimension values.
type CubeRegion struct {
	Included bool
	Members  map[string][]string
}

// ContentConstraint restricts the content reported against a dataflow or
// DSD, e.g. the valid codes per dimension.
type ContentConstraint struct {
	MaintainableArtefact
	Role        string
	DataContent []CubeRegion
}

func (c *ContentConstraint) String() string {
	return displayArtefact("ContentConstraint", &c.MaintainableArtefact)
}

// ProvisionAgreement links a data provider to a structure usage.
type ProvisionAgreement struct {
	MaintainableArtefact
	StructureUsageRef string
	DataProviderRef   string
}

func (p *ProvisionAgreement) String() string {
	return displayArtefact("ProvisionAgreement", &p.MaintainableArtefact)
}
