package urn

import (
	"reflect"

	"github.com/gosdmx/sdmx/cache"
	"github.com/gosdmx/sdmx/model"
)

// packageEntry pairs a model type with the URN package and class name
// used in its identifier. The table mirrors the structure of the tag
// registry: an ordered association list scanned first-match-first.
type packageEntry struct {
	typ   reflect.Type
	pkg   string
	class string
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

var classPackage = []packageEntry{
	{typeOf[model.Agency](), "base", "Agency"},
	{typeOf[model.AgencyScheme](), "base", "AgencyScheme"},
	{typeOf[model.DataConsumer](), "base", "DataConsumer"},
	{typeOf[model.DataConsumerScheme](), "base", "DataConsumerScheme"},
	{typeOf[model.DataProvider](), "base", "DataProvider"},
	{typeOf[model.DataProviderScheme](), "base", "DataProviderScheme"},
	{typeOf[model.Category](), "categoryscheme", "Category"},
	{typeOf[model.Categorisation](), "categoryscheme", "Categorisation"},
	{typeOf[model.CategoryScheme](), "categoryscheme", "CategoryScheme"},
	{typeOf[model.Code](), "codelist", "Code"},
	{typeOf[model.Codelist](), "codelist", "Codelist"},
	{typeOf[model.Concept](), "conceptscheme", "Concept"},
	{typeOf[model.ConceptScheme](), "conceptscheme", "ConceptScheme"},
	{typeOf[model.DataflowDefinition](), "datastructure", "Dataflow"},
	{typeOf[model.DataStructureDefinition](), "datastructure", "DataStructure"},
	{typeOf[model.StructureUsage](), "datastructure", "StructureUsage"},
	{typeOf[model.ContentConstraint](), "registry", "ContentConstraint"},
	{typeOf[model.ProvisionAgreement](), "registry", "ProvisionAgreement"},
}

type packageResult struct {
	pkg   string
	class string
	ok    bool
}

var packageCache = cache.New[reflect.Type, packageResult](len(classPackage) * 2)

// PackageClassFor returns the URN package and class name for the dynamic
// type of obj, unwrapping a pointer. Types outside the information model
// fail with an UnknownClassError.
func PackageClassFor(obj any) (pkg, class string, err error) {
	t := reflect.TypeOf(obj)
	if t == nil {
		return "", "", &UnknownClassError{Type: nil}
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	r := packageCache.GetOrSet(t, func() packageResult {
		for _, e := range classPackage {
			if e.typ == t {
				return packageResult{e.pkg, e.class, true}
			}
		}
		return packageResult{}
	})
	if !r.ok {
		return "", "", &UnknownClassError{Type: t}
	}
	return r.pkg, r.class, nil
}
