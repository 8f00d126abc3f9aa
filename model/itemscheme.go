package model

// Item is the common core of objects nested in an item scheme. Items may
// form a hierarchy within their scheme.
type Item[T any] struct {
	NameableArtefact
	Parent   *T
	Children []*T
}

// ItemScheme is the common core of all item schemes. The core itself is
// never serialized to SDMX-ML; only the concrete schemes (Codelist,
// ConceptScheme, ...) have element names.
type ItemScheme struct {
	MaintainableArtefact
	IsPartial bool
}

// --- Codelist ---

// Code is a single enumerated value within a Codelist.
type Code struct {
	Item[Code]
	Codelist *Codelist
}

// Scheme returns the enclosing Codelist, or nil for a detached Code.
func (c *Code) Scheme() Maintainable {
	if c.Codelist == nil {
		return nil
	}
	return c.Codelist
}

func (c *Code) String() string { return displayItem("Code", c.ID) }

// Codelist is an enumerated list of Codes.
type Codelist struct {
	ItemScheme
	Items []*Code
}

// Append adds a code to the list and records the back-reference.
func (cl *Codelist) Append(c *Code) {
	c.Codelist = cl
	cl.Items = append(cl.Items, c)
}

// Get returns the code with the given ID, or nil.
func (cl *Codelist) Get(id string) *Code {
	for _, c := range cl.Items {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Len returns the number of codes.
func (cl *Codelist) Len() int { return len(cl.Items) }

func (cl *Codelist) String() string {
	return displayScheme("Codelist", &cl.MaintainableArtefact, len(cl.Items))
}

// --- ConceptScheme ---

// Concept is a unit of statistical meaning, optionally carrying a core
// representation shared by components that reference it.
type Concept struct {
	Item[Concept]
	ConceptScheme      *ConceptScheme
	CoreRepresentation *Representation
}

// Scheme returns the enclosing ConceptScheme, or nil.
func (c *Concept) Scheme() Maintainable {
	if c.ConceptScheme == nil {
		return nil
	}
	return c.ConceptScheme
}

func (c *Concept) String() string { return displayItem("Concept", c.ID) }

// ConceptScheme groups related Concepts.
type ConceptScheme struct {
	ItemScheme
	Items []*Concept
}

// Append adds a concept to the scheme and records the back-reference.
func (cs *ConceptScheme) Append(c *Concept) {
	c.ConceptScheme = cs
	cs.Items = append(cs.Items, c)
}

// Get returns the concept with the given ID, or nil.
func (cs *ConceptScheme) Get(id string) *Concept {
	for _, c := range cs.Items {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Len returns the number of concepts.
func (cs *ConceptScheme) Len() int { return len(cs.Items) }

func (cs *ConceptScheme) String() string {
	return displayScheme("ConceptScheme", &cs.MaintainableArtefact, len(cs.Items))
}

// --- CategoryScheme ---

// Category is a node in a classification hierarchy.
type Category struct {
	Item[Category]
	CategoryScheme *CategoryScheme
}

// Scheme returns the enclosing CategoryScheme, or nil.
func (c *Category) Scheme() Maintainable {
	if c.CategoryScheme == nil {
		return nil
	}
	return c.CategoryScheme
}

func (c *Category) String() string { return displayItem("Category", c.ID) }

// CategoryScheme is a hierarchical classification of Categories.
type CategoryScheme struct {
	ItemScheme
	Items []*Category
}

// Append adds a top-level category and records the back-reference on it
// and on all of its descendants.
func (cs *CategoryScheme) Append(c *Category) {
	cs.adopt(c)
	cs.Items = append(cs.Items, c)
}

func (cs *CategoryScheme) adopt(c *Category) {
	c.CategoryScheme = cs
	for _, child := range c.Children {
		cs.adopt(child)
	}
}

// Get returns the category with the given ID, searching the hierarchy
// depth-first, or nil.
func (cs *CategoryScheme) Get(id string) *Category {
	var find func([]*Category) *Category
	find = func(items []*Category) *Category {
		for _, c := range items {
			if c.ID == id {
				return c
			}
			if found := find(c.Children); found != nil {
				return found
			}
		}
		return nil
	}
	return find(cs.Items)
}

// Len returns the number of top-level categories.
func (cs *CategoryScheme) Len() int { return len(cs.Items) }

func (cs *CategoryScheme) String() string {
	return displayScheme("CategoryScheme", &cs.MaintainableArtefact, len(cs.Items))
}

// --- Organisation schemes ---

// Agency is an organisation that maintains artefacts. It also appears in
// message headers as sender and receiver.
type Agency struct {
	Item[Agency]
	AgencyScheme *AgencyScheme
	Contact      []Contact
}

// Scheme returns the enclosing AgencyScheme, or nil.
func (a *Agency) Scheme() Maintainable {
	if a.AgencyScheme == nil {
		return nil
	}
	return a.AgencyScheme
}

func (a *Agency) String() string { return displayItem("Agency", a.ID) }

// Contact holds contact details of an organisation.
type Contact struct {
	Name      InternationalString
	Org       InternationalString
	Telephone string
	URI       []string
	Email     []string
}

// AgencyScheme is the scheme of maintenance agencies.
type AgencyScheme struct {
	ItemScheme
	Items []*Agency
}

// Append adds an agency to the scheme and records the back-reference.
func (as *AgencyScheme) Append(a *Agency) {
	a.AgencyScheme = as
	as.Items = append(as.Items, a)
}

// Get returns the agency with the given ID, or nil.
func (as *AgencyScheme) Get(id string) *Agency {
	for _, a := range as.Items {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Len returns the number of agencies.
func (as *AgencyScheme) Len() int { return len(as.Items) }

func (as *AgencyScheme) String() string {
	return displayScheme("AgencyScheme", &as.MaintainableArtefact, len(as.Items))
}

// DataProvider is an organisation that provides data.
type DataProvider struct {
	Item[DataProvider]
	DataProviderScheme *DataProviderScheme
}

// Scheme returns the enclosing DataProviderScheme, or nil.
func (p *DataProvider) Scheme() Maintainable {
	if p.DataProviderScheme == nil {
		return nil
	}
	return p.DataProviderScheme
}

func (p *DataProvider) String() string { return displayItem("DataProvider", p.ID) }

// DataProviderScheme is the scheme of data providers.
type DataProviderScheme struct {
	ItemScheme
	Items []*DataProvider
}

// Append adds a provider to the scheme and records the back-reference.
func (ps *DataProviderScheme) Append(p *DataProvider) {
	p.DataProviderScheme = ps
	ps.Items = append(ps.Items, p)
}

// Len returns the number of providers.
func (ps *DataProviderScheme) Len() int { return len(ps.Items) }

func (ps *DataProviderScheme) String() string {
	return displayScheme("DataProviderScheme", &ps.MaintainableArtefact, len(ps.Items))
}

// DataConsumer is an organisation that consumes data.
type DataConsumer struct {
	Item[DataConsumer]
	DataConsumerScheme *DataConsumerScheme
}

// Scheme returns the enclosing DataConsumerScheme, or nil.
func (c *DataConsumer) Scheme() Maintainable {
	if c.DataConsumerScheme == nil {
		return nil
	}
	return c.DataConsumerScheme
}

func (c *DataConsumer) String() string { return displayItem("DataConsumer", c.ID) }

// DataConsumerScheme is the scheme of data consumers.
type DataConsumerScheme struct {
	ItemScheme
	Items []*DataConsumer
}

// Append adds a consumer to the scheme and records the back-reference.
func (cs *DataConsumerScheme) Append(c *DataConsumer) {
	c.DataConsumerScheme = cs
	cs.Items = append(cs.Items, c)
}

// Len returns the number of consumers.
func (cs *DataConsumerScheme) Len() int { return len(cs.Items) }

func (cs *DataConsumerScheme) String() string {
	return displayScheme("DataConsumerScheme", &cs.MaintainableArtefact, len(cs.Items))
}
