// Package model implements the SDMX information model.
//
// The model follows the inheritance chain of the standard using struct
// embedding: IdentifiableArtefact -> NameableArtefact -> VersionableArtefact
// -> MaintainableArtefact. Item schemes (Codelist, ConceptScheme, ...) embed
// the common ItemScheme core and hold their items in declaration order;
// items keep a back-reference to the enclosing scheme, which the URN
// builder consults when constructing identifiers for nested items.
package model
