// Package edm defines the entity data model consumed by the converter.
//
// A Model is a list of Schemas (namespaces) holding entity types, complex
// types, enum types, type definitions and operations, plus the entity
// container that exposes entity sets, singletons and operation imports.
// Models are usually produced by the csdl package but can be built directly:
//
//	model := &edm.Model{
//		Version: "4.01",
//		Schemas: []*edm.Schema{{
//			Namespace: "Trippin",
//			EntityTypes: []*edm.EntityType{{
//				StructuredType: edm.StructuredType{
//					Namespace:  "Trippin",
//					Name:       "Person",
//					Properties: []*edm.Property{{Name: "UserName", Type: edm.TypeRef{Name: "Edm.String"}}},
//				},
//				Key: []string{"UserName"},
//			}},
//		}},
//	}
//
// The package performs no validation. Lookups tolerate dangling names and
// report them as "not found"; the validator package reports them as errors.
// A Model is never mutated by the lookups in this package.
package edm
