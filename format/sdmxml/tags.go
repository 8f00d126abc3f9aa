package sdmxml

import (
	"encoding/xml"
	"reflect"

	"github.com/gosdmx/sdmx/cache"
	"github.com/gosdmx/sdmx/message"
	"github.com/gosdmx/sdmx/model"
)

// tagEntry pairs a model or message type with one of its qualified
// element names.
type tagEntry struct {
	typ  reflect.Type
	name xml.Name
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// typeTag is the ordered correspondence table between types and element
// names. The order is load-bearing in both directions: several types have
// more than one tag (the first declared is the canonical one returned by
// NameFor), and several tags are near-duplicates of others (str:Dimension
// vs str:DimensionReference), so the first exact match must win.
var typeTag = buildTypeTag()

func buildTypeTag() []tagEntry {
	entries := []tagEntry{
		{typeOf[message.DataMessage](), QName("mes:GenericData")},
		{typeOf[message.DataMessage](), QName("mes:GenericTimeSeriesData")},
		{typeOf[message.DataMessage](), QName("mes:StructureSpecificData")},
		{typeOf[message.DataMessage](), QName("mes:StructureSpecificTimeSeriesData")},
		{typeOf[message.ErrorMessage](), QName("mes:Error")},
		{typeOf[message.StructureMessage](), QName("mes:Structure")},
		{typeOf[model.Agency](), QName("str:Agency")}, // Order matters
		{typeOf[model.Agency](), QName("mes:Receiver")},
		{typeOf[model.Agency](), QName("mes:Sender")},
		{typeOf[model.AttributeDescriptor](), QName("str:AttributeList")},
		{typeOf[model.DataAttribute](), QName("str:Attribute")},
		{typeOf[model.DataflowDefinition](), QName("str:Dataflow")},
		{typeOf[model.DataStructureDefinition](), QName("str:DataStructure")},
		{typeOf[model.DataStructureDefinition](), QName("com:Structure")},
		{typeOf[model.DataStructureDefinition](), QName("str:Structure")},
		{typeOf[model.Dimension](), QName("str:Dimension")}, // Order matters
		{typeOf[model.Dimension](), QName("str:DimensionReference")},
		{typeOf[model.Dimension](), QName("str:GroupDimension")},
		{typeOf[model.DimensionDescriptor](), QName("str:DimensionList")},
		{typeOf[model.GroupDimensionDescriptor](), QName("str:Group")},
		{typeOf[model.GroupDimensionDescriptor](), QName("str:AttachmentGroup")},
		{typeOf[model.GroupKey](), QName("gen:GroupKey")},
		{typeOf[model.Key](), QName("gen:ObsKey")},
		{typeOf[model.MeasureDescriptor](), QName("str:MeasureList")},
		{typeOf[model.SeriesKey](), QName("gen:SeriesKey")},
		{typeOf[model.StructureUsage](), QName("com:StructureUsage")},
	}

	for _, t := range []reflect.Type{
		typeOf[model.AgencyScheme](),
		typeOf[model.Categorisation](),
		typeOf[model.Category](),
		typeOf[model.CategoryScheme](),
		typeOf[model.Code](),
		typeOf[model.Codelist](),
		typeOf[model.Concept](),
		typeOf[model.ConceptScheme](),
		typeOf[model.ContentConstraint](),
		typeOf[model.DataConsumer](),
		typeOf[model.DataConsumerScheme](),
		typeOf[model.DataProvider](),
		typeOf[model.DataProviderScheme](),
		typeOf[model.PrimaryMeasure](),
		typeOf[model.MeasureDimension](),
		typeOf[model.TimeDimension](),
	} {
		entries = append(entries, tagEntry{t, QNameNS("str", t.Name())})
	}
	return entries
}

type typeResult struct {
	typ reflect.Type
	ok  bool
}

type nameResult struct {
	name xml.Name
	ok   bool
}

var (
	typeForCache = cache.New[xml.Name, typeResult](len(typeTag) * 2)
	nameForCache = cache.New[reflect.Type, nameResult](len(typeTag) * 2)
)

// TypeFor returns the model or message type for an XML element name.
// The second result is false for elements that are structural containers
// only, with no corresponding type.
func TypeFor(name xml.Name) (reflect.Type, bool) {
	r := typeForCache.GetOrSet(name, func() typeResult {
		for _, e := range typeTag {
			if e.name == name {
				return typeResult{e.typ, true}
			}
		}
		return typeResult{}
	})
	return r.typ, r.ok
}

// NameFor returns the canonical element name for a model or message
// type: the first one declared when the type has several tags. The
// second result is false for types that are never directly serialized.
func NameFor(typ reflect.Type) (xml.Name, bool) {
	r := nameForCache.GetOrSet(typ, func() nameResult {
		for _, e := range typeTag {
			if e.typ == typ {
				return nameResult{e.name, true}
			}
		}
		return nameResult{}
	})
	return r.name, r.ok
}

// NameForValue returns the canonical element name for the dynamic type
// of v, unwrapping a pointer.
func NameForValue(v any) (xml.Name, bool) {
	t := reflect.TypeOf(v)
	if t == nil {
		return xml.Name{}, false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return NameFor(t)
}
