package sdmxml

import (
	"encoding/xml"
	"regexp"
	"strconv"
	"strings"

	"github.com/gosdmx/sdmx/format/sdmxml"
	"github.com/gosdmx/sdmx/message"
	"github.com/gosdmx/sdmx/model"
)

// readStructureMessage consumes a mes:Structure document.
func (p *parser) readStructureMessage(root xml.StartElement) (*message.StructureMessage, error) {
	msg := message.NewStructureMessage()
	err := p.eachChild(root, func(child xml.StartElement) error {
		switch child.Name.Local {
		case "Header":
			info, err := p.readHeader(child)
			if err != nil {
				return err
			}
			msg.Header = info.header
		case "Footer":
			footer, err := p.readFooter(child)
			if err != nil {
				return err
			}
			msg.Footer = footer
		case "Structures":
			return p.readStructures(child, msg)
		default:
			return p.skip()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	resolveStructureRefs(msg)
	return msg, nil
}

// readStructures walks the container elements under mes:Structures and
// dispatches each artefact through the tag registry. Elements the
// registry does not know (including nested containers) are descended
// into or skipped.
func (p *parser) readStructures(se xml.StartElement, msg *message.StructureMessage) error {
	return p.eachChild(se, func(container xml.StartElement) error {
		return p.eachChild(container, func(art xml.StartElement) error {
			typ, ok := sdmxml.TypeFor(art.Name)
			if !ok {
				return p.skip()
			}
			switch typ {
			case typeOf[model.Codelist]():
				cl, err := p.readCodelist(art)
				if err != nil {
					return err
				}
				msg.Codelists[cl.ID] = cl
			case typeOf[model.ConceptScheme]():
				cs, err := p.readConceptScheme(art)
				if err != nil {
					return err
				}
				msg.ConceptSchemes[cs.ID] = cs
			case typeOf[model.CategoryScheme]():
				cs, err := p.readCategoryScheme(art)
				if err != nil {
					return err
				}
				msg.CategorySchemes[cs.ID] = cs
			case typeOf[model.AgencyScheme]():
				as, err := p.readAgencyScheme(art)
				if err != nil {
					return err
				}
				msg.AgencySchemes[as.ID] = as
			case typeOf[model.DataProviderScheme]():
				ps, err := p.readDataProviderScheme(art)
				if err != nil {
					return err
				}
				msg.DataProviderSchemes[ps.ID] = ps
			case typeOf[model.DataConsumerScheme]():
				cs, err := p.readDataConsumerScheme(art)
				if err != nil {
					return err
				}
				msg.DataConsumerSchemes[cs.ID] = cs
			case typeOf[model.DataflowDefinition]():
				df, err := p.readDataflow(art)
				if err != nil {
					return err
				}
				msg.Dataflows[df.ID] = df
			case typeOf[model.DataStructureDefinition]():
				dsd, err := p.readDataStructure(art)
				if err != nil {
					return err
				}
				msg.DataStructures[dsd.ID] = dsd
			case typeOf[model.Categorisation]():
				cat, err := p.readCategorisation(art)
				if err != nil {
					return err
				}
				msg.Categorisations[cat.ID] = cat
			case typeOf[model.ContentConstraint]():
				cc, err := p.readContentConstraint(art)
				if err != nil {
					return err
				}
				msg.Constraints[cc.ID] = cc
			case typeOf[model.ProvisionAgreement]():
				pa, err := p.readProvisionAgreement(art)
				if err != nil {
					return err
				}
				msg.ProvisionAgreements[pa.ID] = pa
			default:
				return p.skip()
			}
			return nil
		})
	})
}

// fillMaintainable copies the common attributes of a maintainable
// artefact element.
func fillMaintainable(ma *model.MaintainableArtefact, se xml.StartElement) {
	ma.ID = attr(se, "id")
	ma.URN = attr(se, "urn")
	ma.Version = attr(se, "version")
	ma.ValidFrom = attr(se, "validFrom")
	ma.ValidTo = attr(se, "validTo")
	ma.IsFinal = attr(se, "isFinal") == "true"
	ma.IsExternalReference = attr(se, "isExternalReference") == "true"
	if agency := attr(se, "agencyID"); agency != "" {
		a := &model.Agency{}
		a.ID = agency
		ma.Maintainer = a
	}
}

// readNameable consumes com:Name and com:Description children,
// dispatching anything else to fn (or skipping when fn is nil).
func (p *parser) readNameable(se xml.StartElement, na *model.NameableArtefact, fn func(child xml.StartElement) error) error {
	return p.eachChild(se, func(child xml.StartElement) error {
		switch child.Name.Local {
		case "Name":
			lang := langOf(child)
			s, err := p.text(child)
			if err != nil {
				return err
			}
			if na.Name == nil {
				na.Name = make(model.InternationalString)
			}
			na.Name[lang] = s
		case "Description":
			lang := langOf(child)
			s, err := p.text(child)
			if err != nil {
				return err
			}
			if na.Description == nil {
				na.Description = make(model.InternationalString)
			}
			na.Description[lang] = s
		default:
			if fn != nil {
				return fn(child)
			}
			return p.skip()
		}
		return nil
	})
}

// readRef consumes an element wrapping a Ref (or URN) child and returns
// the reference in "AGENCY:ID(VERSION)" or "AGENCY:PARENT(VERSION).ID"
// textual form.
func (p *parser) readRef(se xml.StartElement) (string, error) {
	var ref string
	err := p.eachChild(se, func(child xml.StartElement) error {
		switch child.Name.Local {
		case "Ref":
			ref = composeRef(child)
			return p.skip()
		case "URN":
			s, err := p.text(child)
			if err != nil {
				return err
			}
			ref = s
			return nil
		default:
			return p.skip()
		}
	})
	return ref, err
}

func composeRef(se xml.StartElement) string {
	id := attr(se, "id")
	agency := attr(se, "agencyID")
	version := attr(se, "version")
	parent := attr(se, "maintainableParentID")
	if parent != "" {
		if v := attr(se, "maintainableParentVersion"); v != "" {
			version = v
		}
		return buildRef(agency, parent, version, id)
	}
	return buildRef(agency, id, version, "")
}

func buildRef(agency, id, version, item string) string {
	s := id
	if agency != "" {
		s = agency + ":" + id
	}
	if version != "" {
		s += "(" + version + ")"
	}
	if item != "" {
		s += "." + item
	}
	return s
}

var refRE = regexp.MustCompile(`^(?:([^:(.]+):)?([^(.]+)(?:\(([0-9.]+)\))?(?:\.(.+))?$`)

// splitRef breaks a textual reference into its maintainable ID and item
// ID parts. URN-form references are handled by stripping up to "=".
func splitRef(ref string) (id, item string) {
	if i := strings.IndexByte(ref, '='); i >= 0 {
		ref = ref[i+1:]
	}
	m := refRE.FindStringSubmatch(ref)
	if m == nil {
		return ref, ""
	}
	return m[2], m[4]
}

// --- Item schemes ---

func (p *parser) readCodelist(se xml.StartElement) (*model.Codelist, error) {
	cl := &model.Codelist{}
	fillMaintainable(&cl.MaintainableArtefact, se)
	err := p.readNameable(se, &cl.NameableArtefact, func(child xml.StartElement) error {
		typ, ok := sdmxml.TypeFor(child.Name)
		if !ok || typ != typeOf[model.Code]() {
			return p.skip()
		}
		code := &model.Code{}
		code.ID = attr(child, "id")
		code.URN = attr(child, "urn")
		if err := p.readNameable(child, &code.NameableArtefact, nil); err != nil {
			return err
		}
		cl.Append(code)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cl, nil
}

func (p *parser) readConceptScheme(se xml.StartElement) (*model.ConceptScheme, error) {
	cs := &model.ConceptScheme{}
	fillMaintainable(&cs.MaintainableArtefact, se)
	err := p.readNameable(se, &cs.NameableArtefact, func(child xml.StartElement) error {
		typ, ok := sdmxml.TypeFor(child.Name)
		if !ok || typ != typeOf[model.Concept]() {
			return p.skip()
		}
		concept := &model.Concept{}
		concept.ID = attr(child, "id")
		concept.URN = attr(child, "urn")
		err := p.readNameable(child, &concept.NameableArtefact, func(inner xml.StartElement) error {
			if inner.Name.Local == "CoreRepresentation" {
				rep, err := p.readRepresentation(inner)
				if err != nil {
					return err
				}
				concept.CoreRepresentation = rep
				return nil
			}
			return p.skip()
		})
		if err != nil {
			return err
		}
		cs.Append(concept)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cs, nil
}

func (p *parser) readCategoryScheme(se xml.StartElement) (*model.CategoryScheme, error) {
	cs := &model.CategoryScheme{}
	fillMaintainable(&cs.MaintainableArtefact, se)
	err := p.readNameable(se, &cs.NameableArtefact, func(child xml.StartElement) error {
		typ, ok := sdmxml.TypeFor(child.Name)
		if !ok || typ != typeOf[model.Category]() {
			return p.skip()
		}
		cat, err := p.readCategory(child)
		if err != nil {
			return err
		}
		cs.Append(cat)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cs, nil
}

// readCategory reads a category and its nested sub-categories.
func (p *parser) readCategory(se xml.StartElement) (*model.Category, error) {
	cat := &model.Category{}
	cat.ID = attr(se, "id")
	cat.URN = attr(se, "urn")
	err := p.readNameable(se, &cat.NameableArtefact, func(child xml.StartElement) error {
		typ, ok := sdmxml.TypeFor(child.Name)
		if !ok || typ != typeOf[model.Category]() {
			return p.skip()
		}
		sub, err := p.readCategory(child)
		if err != nil {
			return err
		}
		sub.Parent = cat
		cat.Children = append(cat.Children, sub)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func (p *parser) readAgencyScheme(se xml.StartElement) (*model.AgencyScheme, error) {
	as := &model.AgencyScheme{}
	fillMaintainable(&as.MaintainableArtefact, se)
	err := p.readNameable(se, &as.NameableArtefact, func(child xml.StartElement) error {
		typ, ok := sdmxml.TypeFor(child.Name)
		if !ok || typ != typeOf[model.Agency]() {
			return p.skip()
		}
		a := &model.Agency{}
		a.ID = attr(child, "id")
		a.URN = attr(child, "urn")
		if err := p.readNameable(child, &a.NameableArtefact, nil); err != nil {
			return err
		}
		as.Append(a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return as, nil
}

func (p *parser) readDataProviderScheme(se xml.StartElement) (*model.DataProviderScheme, error) {
	ps := &model.DataProviderScheme{}
	fillMaintainable(&ps.MaintainableArtefact, se)
	err := p.readNameable(se, &ps.NameableArtefact, func(child xml.StartElement) error {
		typ, ok := sdmxml.TypeFor(child.Name)
		if !ok || typ != typeOf[model.DataProvider]() {
			return p.skip()
		}
		dp := &model.DataProvider{}
		dp.ID = attr(child, "id")
		if err := p.readNameable(child, &dp.NameableArtefact, nil); err != nil {
			return err
		}
		ps.Append(dp)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ps, nil
}

func (p *parser) readDataConsumerScheme(se xml.StartElement) (*model.DataConsumerScheme, error) {
	cs := &model.DataConsumerScheme{}
	fillMaintainable(&cs.MaintainableArtefact, se)
	err := p.readNameable(se, &cs.NameableArtefact, func(child xml.StartElement) error {
		typ, ok := sdmxml.TypeFor(child.Name)
		if !ok || typ != typeOf[model.DataConsumer]() {
			return p.skip()
		}
		dc := &model.DataConsumer{}
		dc.ID = attr(child, "id")
		if err := p.readNameable(child, &dc.NameableArtefact, nil); err != nil {
			return err
		}
		cs.Append(dc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cs, nil
}

// --- Structures ---

func (p *parser) readRepresentation(se xml.StartElement) (*model.Representation, error) {
	rep := &model.Representation{}
	err := p.eachChild(se, func(child xml.StartElement) error {
		switch child.Name.Local {
		case "Enumeration":
			ref, err := p.readRef(child)
			if err != nil {
				return err
			}
			rep.EnumeratedRef = ref
		case "TextFormat", "EnumerationFormat":
			for _, a := range child.Attr {
				rep.Facets = append(rep.Facets, model.Facet{Type: a.Name.Local, Value: a.Value})
			}
			return p.skip()
		default:
			return p.skip()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}

// fillComponent reads the children shared by all DSD components.
func (p *parser) fillComponent(se xml.StartElement, c *model.Component) error {
	c.ID = attr(se, "id")
	c.URN = attr(se, "urn")
	return p.eachChild(se, func(child xml.StartElement) error {
		switch child.Name.Local {
		case "ConceptIdentity":
			ref, err := p.readRef(child)
			if err != nil {
				return err
			}
			c.ConceptRef = ref
		case "LocalRepresentation":
			rep, err := p.readRepresentation(child)
			if err != nil {
				return err
			}
			c.LocalRepresentation = rep
		default:
			return p.skip()
		}
		return nil
	})
}

func (p *parser) readDataStructure(se xml.StartElement) (*model.DataStructureDefinition, error) {
	dsd := &model.DataStructureDefinition{Groups: make(map[string]*model.GroupDimensionDescriptor)}
	fillMaintainable(&dsd.MaintainableArtefact, se)
	err := p.readNameable(se, &dsd.NameableArtefact, func(child xml.StartElement) error {
		if child.Name.Local != "DataStructureComponents" {
			return p.skip()
		}
		return p.eachChild(child, func(list xml.StartElement) error {
			typ, ok := sdmxml.TypeFor(list.Name)
			if !ok {
				return p.skip()
			}
			switch typ {
			case typeOf[model.DimensionDescriptor]():
				return p.readDimensionList(list, dsd)
			case typeOf[model.AttributeDescriptor]():
				return p.readAttributeList(list, dsd)
			case typeOf[model.MeasureDescriptor]():
				return p.readMeasureList(list, dsd)
			case typeOf[model.GroupDimensionDescriptor]():
				return p.readGroup(list, dsd)
			default:
				return p.skip()
			}
		})
	})
	if err != nil {
		return nil, err
	}
	return dsd, nil
}

func (p *parser) readDimensionList(se xml.StartElement, dsd *model.DataStructureDefinition) error {
	dd := &model.DimensionDescriptor{}
	dd.ID = attr(se, "id")
	err := p.eachChild(se, func(child xml.StartElement) error {
		typ, ok := sdmxml.TypeFor(child.Name)
		if !ok {
			return p.skip()
		}
		switch typ {
		case typeOf[model.TimeDimension]():
			td := &model.TimeDimension{}
			if err := p.fillComponent(child, &td.Component); err != nil {
				return err
			}
			td.Position = posAttr(child)
			dd.TimeDimension = td
		case typeOf[model.MeasureDimension]():
			md := &model.MeasureDimension{}
			if err := p.fillComponent(child, &md.Component); err != nil {
				return err
			}
			md.Position = posAttr(child)
			dd.MeasureDimension = md
		case typeOf[model.Dimension]():
			dim := &model.Dimension{}
			if err := p.fillComponent(child, &dim.Component); err != nil {
				return err
			}
			dim.Position = posAttr(child)
			dd.Dimensions = append(dd.Dimensions, dim)
		default:
			return p.skip()
		}
		return nil
	})
	if err != nil {
		return err
	}
	dsd.Dimensions = dd
	return nil
}

func posAttr(se xml.StartElement) int {
	n, _ := strconv.Atoi(attr(se, "position"))
	return n
}

func (p *parser) readAttributeList(se xml.StartElement, dsd *model.DataStructureDefinition) error {
	ad := &model.AttributeDescriptor{}
	ad.ID = attr(se, "id")
	err := p.eachChild(se, func(child xml.StartElement) error {
		typ, ok := sdmxml.TypeFor(child.Name)
		if !ok || typ != typeOf[model.DataAttribute]() {
			return p.skip()
		}
		att := &model.DataAttribute{}
		att.UsageStatus = attr(child, "assignmentStatus")
		att.ID = attr(child, "id")
		att.URN = attr(child, "urn")
		err := p.eachChild(child, func(inner xml.StartElement) error {
			switch inner.Name.Local {
			case "ConceptIdentity":
				ref, err := p.readRef(inner)
				if err != nil {
					return err
				}
				att.ConceptRef = ref
			case "LocalRepresentation":
				rep, err := p.readRepresentation(inner)
				if err != nil {
					return err
				}
				att.LocalRepresentation = rep
			case "AttributeRelationship":
				rel, err := p.readAttributeRelationship(inner)
				if err != nil {
					return err
				}
				att.Relationship = rel
			default:
				return p.skip()
			}
			return nil
		})
		if err != nil {
			return err
		}
		ad.Attributes = append(ad.Attributes, att)
		return nil
	})
	if err != nil {
		return err
	}
	dsd.Attributes = ad
	return nil
}

func (p *parser) readAttributeRelationship(se xml.StartElement) (*model.AttributeRelationship, error) {
	rel := &model.AttributeRelationship{}
	err := p.eachChild(se, func(child xml.StartElement) error {
		switch child.Name.Local {
		case "Dimension":
			ref, err := p.readRef(child)
			if err != nil {
				return err
			}
			id, _ := splitRef(ref)
			rel.Dimensions = append(rel.Dimensions, id)
		case "AttachmentGroup", "Group":
			ref, err := p.readRef(child)
			if err != nil {
				return err
			}
			id, _ := splitRef(ref)
			rel.Groups = append(rel.Groups, id)
		case "PrimaryMeasure":
			rel.PrimaryMeasure = true
			return p.skip()
		case "None":
			rel.None = true
			return p.skip()
		default:
			return p.skip()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rel, nil
}

func (p *parser) readMeasureList(se xml.StartElement, dsd *model.DataStructureDefinition) error {
	md := &model.MeasureDescriptor{}
	md.ID = attr(se, "id")
	err := p.eachChild(se, func(child xml.StartElement) error {
		typ, ok := sdmxml.TypeFor(child.Name)
		if !ok || typ != typeOf[model.PrimaryMeasure]() {
			return p.skip()
		}
		pm := &model.PrimaryMeasure{}
		if err := p.fillComponent(child, &pm.Component); err != nil {
			return err
		}
		md.PrimaryMeasure = pm
		return nil
	})
	if err != nil {
		return err
	}
	dsd.Measures = md
	return nil
}

func (p *parser) readGroup(se xml.StartElement, dsd *model.DataStructureDefinition) error {
	group := &model.GroupDimensionDescriptor{}
	group.ID = attr(se, "id")
	err := p.eachChild(se, func(child xml.StartElement) error {
		// str:GroupDimension wraps a str:DimensionReference.
		if child.Name.Local != "GroupDimension" {
			return p.skip()
		}
		return p.eachChild(child, func(inner xml.StartElement) error {
			if inner.Name.Local != "DimensionReference" {
				return p.skip()
			}
			ref, err := p.readRef(inner)
			if err != nil {
				return err
			}
			id, _ := splitRef(ref)
			group.Dimensions = append(group.Dimensions, id)
			return nil
		})
	})
	if err != nil {
		return err
	}
	dsd.Groups[group.ID] = group
	return nil
}

func (p *parser) readDataflow(se xml.StartElement) (*model.DataflowDefinition, error) {
	df := &model.DataflowDefinition{}
	fillMaintainable(&df.MaintainableArtefact, se)
	err := p.readNameable(se, &df.NameableArtefact, func(child xml.StartElement) error {
		if child.Name.Local == "Structure" {
			ref, err := p.readRef(child)
			if err != nil {
				return err
			}
			df.StructureRef = ref
			return nil
		}
		return p.skip()
	})
	if err != nil {
		return nil, err
	}
	return df, nil
}

func (p *parser) readCategorisation(se xml.StartElement) (*model.Categorisation, error) {
	cat := &model.Categorisation{}
	fillMaintainable(&cat.MaintainableArtefact, se)
	err := p.readNameable(se, &cat.NameableArtefact, func(child xml.StartElement) error {
		switch child.Name.Local {
		case "Source":
			ref, err := p.readRef(child)
			if err != nil {
				return err
			}
			cat.ArtefactRef = ref
		case "Target":
			ref, err := p.readRef(child)
			if err != nil {
				return err
			}
			cat.CategoryRef = ref
		default:
			return p.skip()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func (p *parser) readContentConstraint(se xml.StartElement) (*model.ContentConstraint, error) {
	cc := &model.ContentConstraint{}
	cc.Role = attr(se, "type")
	fillMaintainable(&cc.MaintainableArtefact, se)
	err := p.readNameable(se, &cc.NameableArtefact, func(child xml.StartElement) error {
		if child.Name.Local != "CubeRegion" {
			return p.skip()
		}
		region := model.CubeRegion{
			Included: attr(child, "include") != "false",
			Members:  make(map[string][]string),
		}
		err := p.eachChild(child, func(kv xml.StartElement) error {
			if kv.Name.Local != "KeyValue" {
				return p.skip()
			}
			id := attr(kv, "id")
			return p.eachChild(kv, func(val xml.StartElement) error {
				if val.Name.Local != "Value" {
					return p.skip()
				}
				s, err := p.text(val)
				if err != nil {
					return err
				}
				region.Members[id] = append(region.Members[id], s)
				return nil
			})
		})
		if err != nil {
			return err
		}
		cc.DataContent = append(cc.DataContent, region)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cc, nil
}

func (p *parser) readProvisionAgreement(se xml.StartElement) (*model.ProvisionAgreement, error) {
	pa := &model.ProvisionAgreement{}
	fillMaintainable(&pa.MaintainableArtefact, se)
	err := p.readNameable(se, &pa.NameableArtefact, func(child xml.StartElement) error {
		switch child.Name.Local {
		case "StructureUsage":
			ref, err := p.readRef(child)
			if err != nil {
				return err
			}
			pa.StructureUsageRef = ref
		case "DataProvider":
			ref, err := p.readRef(child)
			if err != nil {
				return err
			}
			pa.DataProviderRef = ref
		default:
			return p.skip()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pa, nil
}

// resolveStructureRefs links references between artefacts delivered in
// the same message: dataflows to their DSD, components to their concept
// and enumeration.
func resolveStructureRefs(msg *message.StructureMessage) {
	for _, df := range msg.Dataflows {
		if df.Structure == nil && df.StructureRef != "" {
			id, _ := splitRef(df.StructureRef)
			df.Structure = msg.DataStructures[id]
		}
	}
	for _, dsd := range msg.DataStructures {
		if dsd.Dimensions != nil {
			for _, dim := range dsd.Dimensions.Dimensions {
				resolveComponent(&dim.Component, msg)
			}
			if dsd.Dimensions.TimeDimension != nil {
				resolveComponent(&dsd.Dimensions.TimeDimension.Component, msg)
			}
			if dsd.Dimensions.MeasureDimension != nil {
				resolveComponent(&dsd.Dimensions.MeasureDimension.Component, msg)
			}
		}
		if dsd.Attributes != nil {
			for _, att := range dsd.Attributes.Attributes {
				resolveComponent(&att.Component, msg)
			}
		}
		if dsd.Measures != nil && dsd.Measures.PrimaryMeasure != nil {
			resolveComponent(&dsd.Measures.PrimaryMeasure.Component, msg)
		}
	}
}

func resolveComponent(c *model.Component, msg *message.StructureMessage) {
	if c.ConceptIdentity == nil && c.ConceptRef != "" {
		schemeID, itemID := splitRef(c.ConceptRef)
		if cs, ok := msg.ConceptSchemes[schemeID]; ok && itemID != "" {
			c.ConceptIdentity = cs.Get(itemID)
		}
	}
	if c.LocalRepresentation != nil && c.LocalRepresentation.Enumerated == nil && c.LocalRepresentation.EnumeratedRef != "" {
		id, _ := splitRef(c.LocalRepresentation.EnumeratedRef)
		c.LocalRepresentation.Enumerated = msg.Codelists[id]
	}
}
