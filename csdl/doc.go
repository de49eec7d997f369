// Package csdl reads OData CSDL JSON documents into an edm.Model.
//
// The reader accepts CSDL JSON (OData CSDL JSON Format 4.01) and the same
// structure written as YAML. Documents are decoded through yaml.Node so that
// declaration order is kept: schemas, types, properties and container
// members appear in the model in the order they appear in the source.
//
// # Supported Constructs
//
//   - $Version, $EntityContainer, namespaces and $Alias
//   - EntityType, ComplexType, EnumType, TypeDefinition and EntityContainer
//   - Function and Action overloads
//   - Properties with $Type, $Collection, $Nullable, $MaxLength, $Precision,
//     $Scale and $DefaultValue
//   - Navigation properties with $ContainsTarget and $Partner
//   - Entity sets, singletons, function and action imports, and
//     $NavigationPropertyBinding
//   - @Core.Description on schemas, types, members and container children
//   - @Auth.Authorizations on the entity container
//
// Terms, $Annotations blocks, $Reference and other vocabulary annotations
// are skipped.
//
// # Options
//
//   - [WithFilePath], [WithReader] or [WithBytes] selects the input (exactly one)
//   - [WithSchemaCheck] enables the JSON Schema shape check
//   - [WithMaxInputSize] caps the number of bytes read
//
// # Schema Check
//
// [WithSchemaCheck] validates the document's shape against an embedded JSON
// Schema before decoding. Shape errors are then reported with the JSON
// Schema location instead of the decoder's first failure.
//
// # Example
//
//	result, err := csdl.ReadFile("trippin.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(len(result.Model.Schemas))
package csdl
