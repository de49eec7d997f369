// Package validator checks an entity data model for structural errors before
// it is converted to OpenAPI.
//
// The converter only needs a verdict and an ordered list of errors; this
// package supplies both through [Validator.ValidateModel]. It checks a
// practical subset of the CSDL rules, enough to guarantee that a model which
// passes can be converted into a document whose references all resolve.
//
// # Validation Rules
//
// Schemas:
//   - Namespaces and aliases must be well formed and unique
//   - The reserved namespaces "Edm" and "odata" cannot be declared
//
// Types:
//   - Names must be simple identifiers, unique within their namespace
//   - Property, base and navigation target types must resolve
//   - Base type chains must not form a cycle and must keep their kind
//   - Entity types need a key of non-nullable primitive properties
//   - Enum members must be unique; underlying types must be integral
//
// Operations:
//   - Bound operations need a binding parameter
//   - Parameter and return types must resolve
//
// Entity container:
//   - Entity sets and singletons must name entity types
//   - Navigation property bindings must name a navigation property and an
//     existing entity set or singleton
//   - Operation imports must reference an unbound operation of the same kind
//   - Authorizations must carry the fields their kind requires
//
// Warnings (optional) flag entity types no entity set or singleton exposes
// and default values on collection properties.
//
// # Error Format
//
// Every issue is an error whose string form is "<code> : <message> :
// <location>", for example:
//
//	MissingKey : entity type Trippin.Person has no key : Trippin.Person
//
// # Options
//
// ValidateWithOptions reads the model itself with [WithFilePath], or takes an
// existing one with [WithModel]. [WithIncludeWarnings] and [WithStrictMode]
// mirror the Validator fields.
//
// # Example
//
//	v := validator.New()
//	result, err := v.Validate(model)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, e := range result.Errors {
//		fmt.Println(e.String())
//	}
package validator
