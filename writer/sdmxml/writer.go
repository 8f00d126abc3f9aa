// Package sdmxml writes structure messages as SDMX-ML 2.1. Element names
// come from the tag registry (format/sdmxml), so the writer and the
// reader stay in agreement about the correspondence between model types
// and tags.
package sdmxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gosdmx/sdmx/format/sdmxml"
	"github.com/gosdmx/sdmx/message"
	"github.com/gosdmx/sdmx/model"
)

// Marshal renders the structure message as an SDMX-ML document.
func Marshal(msg *message.StructureMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, msg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders the structure message as an SDMX-ML document to w.
func Write(w io.Writer, msg *message.StructureMessage) error {
	e := &encoder{enc: xml.NewEncoder(w)}
	e.enc.Indent("", "  ")

	e.start("mes:Structure",
		attrOf("xmlns:mes", sdmxml.NS["mes"]),
		attrOf("xmlns:str", sdmxml.NS["str"]),
		attrOf("xmlns:com", sdmxml.NS["com"]),
	)
	e.writeHeader(msg.Header)
	e.start("mes:Structures")

	e.writeContainer("str:OrganisationSchemes", len(msg.AgencySchemes)+len(msg.DataProviderSchemes)+len(msg.DataConsumerSchemes), func() {
		for _, as := range sorted(msg.AgencySchemes) {
			e.writeItemScheme(as, &as.MaintainableArtefact, len(as.Items), func() {
				for _, item := range as.Items {
					e.writeItem(item, &item.NameableArtefact, nil)
				}
			})
		}
		for _, ps := range sorted(msg.DataProviderSchemes) {
			e.writeItemScheme(ps, &ps.MaintainableArtefact, len(ps.Items), func() {
				for _, item := range ps.Items {
					e.writeItem(item, &item.NameableArtefact, nil)
				}
			})
		}
		for _, cs := range sorted(msg.DataConsumerSchemes) {
			e.writeItemScheme(cs, &cs.MaintainableArtefact, len(cs.Items), func() {
				for _, item := range cs.Items {
					e.writeItem(item, &item.NameableArtefact, nil)
				}
			})
		}
	})

	e.writeContainer("str:Dataflows", len(msg.Dataflows), func() {
		for _, df := range sorted(msg.Dataflows) {
			e.writeDataflow(df)
		}
	})

	e.writeContainer("str:CategorySchemes", len(msg.CategorySchemes), func() {
		for _, cs := range sorted(msg.CategorySchemes) {
			e.writeItemScheme(cs, &cs.MaintainableArtefact, len(cs.Items), func() {
				for _, cat := range cs.Items {
					e.writeCategory(cat)
				}
			})
		}
	})

	e.writeContainer("str:Categorisations", len(msg.Categorisations), func() {
		for _, cat := range sorted(msg.Categorisations) {
			e.writeCategorisation(cat)
		}
	})

	e.writeContainer("str:Codelists", len(msg.Codelists), func() {
		for _, cl := range sorted(msg.Codelists) {
			e.writeItemScheme(cl, &cl.MaintainableArtefact, len(cl.Items), func() {
				for _, code := range cl.Items {
					e.writeItem(code, &code.NameableArtefact, nil)
				}
			})
		}
	})

	e.writeContainer("str:Concepts", len(msg.ConceptSchemes), func() {
		for _, cs := range sorted(msg.ConceptSchemes) {
			e.writeItemScheme(cs, &cs.MaintainableArtefact, len(cs.Items), func() {
				for _, concept := range cs.Items {
					e.writeItem(concept, &concept.NameableArtefact, func() {
						if concept.CoreRepresentation != nil {
							e.writeRepresentation("str:CoreRepresentation", concept.CoreRepresentation)
						}
					})
				}
			})
		}
	})

	e.writeContainer("str:Constraints", len(msg.Constraints), func() {
		for _, cc := range sorted(msg.Constraints) {
			e.writeConstraint(cc)
		}
	})

	e.writeContainer("str:DataStructures", len(msg.DataStructures), func() {
		for _, dsd := range sorted(msg.DataStructures) {
			e.writeDataStructure(dsd)
		}
	})

	e.writeContainer("str:ProvisionAgreements", len(msg.ProvisionAgreements), func() {
		for _, pa := range sorted(msg.ProvisionAgreements) {
			e.writeProvisionAgreement(pa)
		}
	})

	e.end("mes:Structures")
	e.end("mes:Structure")
	if e.err != nil {
		return e.err
	}
	return e.enc.Flush()
}

// sorted returns the map's values ordered by key, for stable output.
func sorted[V any](m map[string]V) []V {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]V, len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out
}

// --- Encoder ---

// encoder wraps xml.Encoder with prefixed-name helpers and sticky error
// handling.
type encoder struct {
	enc *xml.Encoder
	err error
}

func attrOf(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func (e *encoder) token(t xml.Token) {
	if e.err == nil {
		e.err = e.enc.EncodeToken(t)
	}
}

func (e *encoder) start(name string, attrs ...xml.Attr) {
	e.token(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
}

func (e *encoder) end(name string) {
	e.token(xml.EndElement{Name: xml.Name{Local: name}})
}

func (e *encoder) leaf(name, text string, attrs ...xml.Attr) {
	e.start(name, attrs...)
	e.token(xml.CharData(text))
	e.end(name)
}

func (e *encoder) empty(name string, attrs ...xml.Attr) {
	e.start(name, attrs...)
	e.end(name)
}

// writeContainer writes a container element only when it has content.
func (e *encoder) writeContainer(name string, n int, body func()) {
	if n == 0 {
		return
	}
	e.start(name)
	body()
	e.end(name)
}

// tagOf returns the "prefix:local" element name the tag registry assigns
// to the value's type.
func tagOf(v any) string {
	name, ok := sdmxml.NameForValue(v)
	if !ok {
		panic(fmt.Sprintf("sdmxml: no element name for %s", reflect.TypeOf(v)))
	}
	for prefix, uri := range sdmxml.NS {
		if prefix != "" && uri == name.Space {
			return prefix + ":" + name.Local
		}
	}
	return name.Local
}

// --- Header ---

// NewMessageID returns a fresh header ID in the conventional IREF form.
func NewMessageID() string {
	return "IREF" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (e *encoder) writeHeader(h *message.Header) {
	if h == nil {
		h = &message.Header{}
	}
	id := h.ID
	if id == "" {
		id = NewMessageID()
	}
	prepared := h.Prepared
	if prepared.IsZero() {
		prepared = time.Now().UTC().Truncate(time.Second)
	}

	e.start("mes:Header")
	e.leaf("mes:ID", id)
	e.leaf("mes:Test", fmt.Sprintf("%t", h.Test))
	e.leaf("mes:Prepared", prepared.Format(time.RFC3339))
	e.writeParty("mes:Sender", h.Sender, "none")
	e.writeParty("mes:Receiver", h.Receiver, "")
	if h.Source != "" {
		e.leaf("mes:Source", h.Source)
	}
	e.end("mes:Header")
}

// writeParty writes a sender or receiver; fallback supplies the id when
// the party is absent but the element is mandatory.
func (e *encoder) writeParty(name string, a *model.Agency, fallback string) {
	switch {
	case a != nil:
		e.start(name, attrOf("id", a.ID))
		e.writeNames(a.Name, "com:Name")
		e.end(name)
	case fallback != "":
		e.empty(name, attrOf("id", fallback))
	}
}

// --- Common pieces ---

func (e *encoder) writeNames(is model.InternationalString, tag string) {
	for _, lang := range sortedLocales(is) {
		e.leaf(tag, is[lang], attrOf("xml:lang", lang))
	}
}

func sortedLocales(is model.InternationalString) []string {
	locales := make([]string, 0, len(is))
	for lang := range is {
		locales = append(locales, lang)
	}
	sort.Strings(locales)
	return locales
}

// maintainableAttrs builds the attribute list common to maintainable
// artefact elements.
func maintainableAttrs(ma *model.MaintainableArtefact) []xml.Attr {
	attrs := []xml.Attr{attrOf("id", ma.ID)}
	if ma.URN != "" {
		attrs = append(attrs, attrOf("urn", ma.URN))
	}
	if ma.Maintainer != nil {
		attrs = append(attrs, attrOf("agencyID", ma.Maintainer.ID))
	}
	if ma.Version != "" {
		attrs = append(attrs, attrOf("version", ma.Version))
	}
	if ma.IsFinal {
		attrs = append(attrs, attrOf("isFinal", "true"))
	}
	if ma.IsExternalReference {
		attrs = append(attrs, attrOf("isExternalReference", "true"))
	}
	if ma.ValidFrom != "" {
		attrs = append(attrs, attrOf("validFrom", ma.ValidFrom))
	}
	if ma.ValidTo != "" {
		attrs = append(attrs, attrOf("validTo", ma.ValidTo))
	}
	return attrs
}

func (e *encoder) writeItemScheme(scheme any, ma *model.MaintainableArtefact, n int, items func()) {
	tag := tagOf(scheme)
	e.start(tag, maintainableAttrs(ma)...)
	e.writeNames(ma.Name, "com:Name")
	e.writeNames(ma.Description, "com:Description")
	if n > 0 {
		items()
	}
	e.end(tag)
}

// writeItem writes a scheme item; extra, when non-nil, emits the item's
// type-specific children.
func (e *encoder) writeItem(item any, na *model.NameableArtefact, extra func()) {
	tag := tagOf(item)
	attrs := []xml.Attr{attrOf("id", na.ID)}
	if na.URN != "" {
		attrs = append(attrs, attrOf("urn", na.URN))
	}
	e.start(tag, attrs...)
	e.writeNames(na.Name, "com:Name")
	e.writeNames(na.Description, "com:Description")
	if extra != nil {
		extra()
	}
	e.end(tag)
}

func (e *encoder) writeCategory(cat *model.Category) {
	e.writeItem(cat, &cat.NameableArtefact, func() {
		for _, child := range cat.Children {
			e.writeCategory(child)
		}
	})
}

// --- References ---

var refPartsRE = regexp.MustCompile(`^(?:([^:(.]+):)?([^(.]+)(?:\(([0-9.]+)\))?(?:\.(.+))?$`)

// writeRef writes a wrapper element containing a Ref child, decomposing
// the textual "AGENCY:ID(VERSION)[.ITEM]" reference into Ref attributes.
func (e *encoder) writeRef(wrapper, ref, class string) {
	if ref == "" {
		return
	}
	m := refPartsRE.FindStringSubmatch(ref)
	if m == nil {
		e.start(wrapper)
		e.leaf("URN", ref)
		e.end(wrapper)
		return
	}
	agency, id, version, item := m[1], m[2], m[3], m[4]

	var attrs []xml.Attr
	if item != "" {
		attrs = append(attrs, attrOf("id", item), attrOf("maintainableParentID", id))
		if version != "" {
			attrs = append(attrs, attrOf("maintainableParentVersion", version))
		}
	} else {
		attrs = append(attrs, attrOf("id", id))
		if version != "" {
			attrs = append(attrs, attrOf("version", version))
		}
	}
	if agency != "" {
		attrs = append(attrs, attrOf("agencyID", agency))
	}
	if class != "" {
		attrs = append(attrs, attrOf("class", class))
	}

	e.start(wrapper)
	e.empty("Ref", attrs...)
	e.end(wrapper)
}

// refOf renders a maintainable as its textual reference.
func refOf(ma *model.MaintainableArtefact) string {
	s := ma.MaintainedID()
	if ma.Version != "" {
		s += "(" + ma.Version + ")"
	}
	return s
}

// --- Structures ---

func (e *encoder) writeRepresentation(wrapper string, rep *model.Representation) {
	e.start(wrapper)
	switch {
	case rep.Enumerated != nil:
		e.writeRef("str:Enumeration", refOf(&rep.Enumerated.MaintainableArtefact), "Codelist")
	case rep.EnumeratedRef != "":
		e.writeRef("str:Enumeration", rep.EnumeratedRef, "Codelist")
	case len(rep.Facets) > 0:
		attrs := make([]xml.Attr, len(rep.Facets))
		for i, f := range rep.Facets {
			attrs[i] = attrOf(f.Type, f.Value)
		}
		e.empty("str:TextFormat", attrs...)
	}
	e.end(wrapper)
}

// conceptRefOf renders the component's concept reference, preferring the
// resolved concept over the textual one.
func conceptRefOf(c *model.Component) string {
	if c.ConceptIdentity != nil {
		if cs, ok := c.ConceptIdentity.Scheme().(*model.ConceptScheme); ok {
			return refOf(&cs.MaintainableArtefact) + "." + c.ConceptIdentity.ID
		}
		return c.ConceptIdentity.ID
	}
	return c.ConceptRef
}

func (e *encoder) writeComponent(v any, c *model.Component, attrs ...xml.Attr) {
	tag := tagOf(v)
	attrs = append([]xml.Attr{attrOf("id", c.ID)}, attrs...)
	e.start(tag, attrs...)
	if ref := conceptRefOf(c); ref != "" {
		e.writeRef("str:ConceptIdentity", ref, "Concept")
	}
	if c.LocalRepresentation != nil {
		e.writeRepresentation("str:LocalRepresentation", c.LocalRepresentation)
	}
	e.end(tag)
}

func positionAttrs(pos int) []xml.Attr {
	if pos == 0 {
		return nil
	}
	return []xml.Attr{attrOf("position", fmt.Sprint(pos))}
}

func (e *encoder) writeDataStructure(dsd *model.DataStructureDefinition) {
	tag := tagOf(dsd)
	e.start(tag, maintainableAttrs(&dsd.MaintainableArtefact)...)
	e.writeNames(dsd.Name, "com:Name")
	e.writeNames(dsd.Description, "com:Description")

	e.start("str:DataStructureComponents")

	if dd := dsd.Dimensions; dd != nil {
		e.start("str:DimensionList", attrOf("id", orDefault(dd.ID, "DimensionDescriptor")))
		for _, dim := range dd.Dimensions {
			e.writeComponent(dim, &dim.Component, positionAttrs(dim.Position)...)
		}
		if td := dd.TimeDimension; td != nil {
			e.writeComponent(td, &td.Component, positionAttrs(td.Position)...)
		}
		if md := dd.MeasureDimension; md != nil {
			e.writeComponent(md, &md.Component, positionAttrs(md.Position)...)
		}
		e.end("str:DimensionList")
	}

	for _, group := range sorted(dsd.Groups) {
		e.start("str:Group", attrOf("id", group.ID))
		for _, dim := range group.Dimensions {
			e.start("str:GroupDimension")
			e.writeRef("str:DimensionReference", dim, "")
			e.end("str:GroupDimension")
		}
		e.end("str:Group")
	}

	if ad := dsd.Attributes; ad != nil {
		e.start("str:AttributeList", attrOf("id", orDefault(ad.ID, "AttributeDescriptor")))
		for _, att := range ad.Attributes {
			e.writeAttribute(att)
		}
		e.end("str:AttributeList")
	}

	if md := dsd.Measures; md != nil {
		e.start("str:MeasureList", attrOf("id", orDefault(md.ID, "MeasureDescriptor")))
		if md.PrimaryMeasure != nil {
			e.writeComponent(md.PrimaryMeasure, &md.PrimaryMeasure.Component)
		}
		e.end("str:MeasureList")
	}

	e.end("str:DataStructureComponents")
	e.end(tag)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func (e *encoder) writeAttribute(att *model.DataAttribute) {
	tag := tagOf(att)
	attrs := []xml.Attr{attrOf("id", att.ID)}
	if att.UsageStatus != "" {
		attrs = append(attrs, attrOf("assignmentStatus", att.UsageStatus))
	}
	e.start(tag, attrs...)
	if ref := conceptRefOf(&att.Component); ref != "" {
		e.writeRef("str:ConceptIdentity", ref, "Concept")
	}
	if att.LocalRepresentation != nil {
		e.writeRepresentation("str:LocalRepresentation", att.LocalRepresentation)
	}
	if rel := att.Relationship; rel != nil {
		e.start("str:AttributeRelationship")
		switch {
		case rel.None:
			e.empty("str:None")
		case rel.PrimaryMeasure:
			e.writeRef("str:PrimaryMeasure", "OBS_VALUE", "")
		default:
			for _, dim := range rel.Dimensions {
				e.writeRef("str:Dimension", dim, "")
			}
			for _, group := range rel.Groups {
				e.writeRef("str:AttachmentGroup", group, "")
			}
		}
		e.end("str:AttributeRelationship")
	}
	e.end(tag)
}

func (e *encoder) writeDataflow(df *model.DataflowDefinition) {
	tag := tagOf(df)
	e.start(tag, maintainableAttrs(&df.MaintainableArtefact)...)
	e.writeNames(df.Name, "com:Name")
	e.writeNames(df.Description, "com:Description")
	switch {
	case df.Structure != nil:
		e.writeRef("str:Structure", refOf(&df.Structure.MaintainableArtefact), "DataStructure")
	case df.StructureRef != "":
		e.writeRef("str:Structure", df.StructureRef, "DataStructure")
	}
	e.end(tag)
}

func (e *encoder) writeCategorisation(cat *model.Categorisation) {
	tag := tagOf(cat)
	e.start(tag, maintainableAttrs(&cat.MaintainableArtefact)...)
	e.writeNames(cat.Name, "com:Name")
	artefact := cat.ArtefactRef
	if cat.Artefact != nil {
		artefact = refOf(&cat.Artefact.MaintainableArtefact)
	}
	e.writeRef("str:Source", artefact, "Dataflow")
	e.writeRef("str:Target", cat.CategoryRef, "Category")
	e.end(tag)
}

func (e *encoder) writeConstraint(cc *model.ContentConstraint) {
	tag := tagOf(cc)
	attrs := maintainableAttrs(&cc.MaintainableArtefact)
	if cc.Role != "" {
		attrs = append(attrs, attrOf("type", cc.Role))
	}
	e.start(tag, attrs...)
	e.writeNames(cc.Name, "com:Name")
	for _, region := range cc.DataContent {
		e.start("str:CubeRegion", attrOf("include", fmt.Sprintf("%t", region.Included)))
		for _, id := range sortedKeys(region.Members) {
			e.start("com:KeyValue", attrOf("id", id))
			for _, v := range region.Members[id] {
				e.leaf("com:Value", v)
			}
			e.end("com:KeyValue")
		}
		e.end("str:CubeRegion")
	}
	e.end(tag)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (e *encoder) writeProvisionAgreement(pa *model.ProvisionAgreement) {
	tag := tagOf(pa)
	e.start(tag, maintainableAttrs(&pa.MaintainableArtefact)...)
	e.writeNames(pa.Name, "com:Name")
	e.writeRef("str:StructureUsage", pa.StructureUsageRef, "Dataflow")
	e.writeRef("str:DataProvider", pa.DataProviderRef, "DataProvider")
	e.end(tag)
}
