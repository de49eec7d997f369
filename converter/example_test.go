package converter_test

import (
	"fmt"
	"log"

	"github.com/erraggy/edmoas/converter"
	"github.com/erraggy/edmoas/internal/testutil"
	"github.com/erraggy/edmoas/openapi"
)

// Example demonstrates converting a CSDL file using functional options
func Example() {
	result, err := converter.ConvertWithOptions(
		converter.WithFilePath("../testdata/trippin.json"),
	)
	if err != nil {
		log.Fatal(err)
	}

	doc := result.Document
	fmt.Println(doc.Info.Title)
	fmt.Println(doc.Servers[0].URL)
	fmt.Println(doc.Components.Responses["error"].Content[openapi.MediaTypeJSON].Schema.Ref)
	// Output:
	// OData Service for namespace Trippin
	// http://localhost
	// #/components/schemas/odata.error
}

// Example_modelErrors demonstrates the error document of an invalid model
func Example_modelErrors() {
	result, err := converter.ConvertWithOptions(
		converter.WithFilePath("../testdata/invalid.json"),
	)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(result.HasModelErrors(), len(result.ModelErrors))
	_, ok := result.Document.Extra[converter.ExtensionModelError+"1"]
	fmt.Println(ok, result.Document.Components == nil)
	// Output:
	// true 3
	// true true
}

// Example_settings demonstrates customizing generation
func Example_settings() {
	result, err := converter.ConvertWithOptions(
		converter.WithFilePath("../testdata/trippin.json"),
		converter.WithSettings(&converter.ConvertSettings{
			ServiceRoot:       "https://services.example.com/trippin",
			OpenAPIVersion:    "3.1.1",
			SemVerVersion:     "2.0.0",
			VerifyEdmModel:    true,
			EnableOperationID: true,
			PathPrefix:        "/odata",
		}),
	)
	if err != nil {
		log.Fatal(err)
	}

	doc := result.Document
	fmt.Println(doc.OpenAPI, doc.Info.Version)
	_, ok := doc.Paths["/odata/People"]
	fmt.Println(ok)
	// Output:
	// 3.1.1 2.0.0
	// true
}

// Example_mutation demonstrates post-processing the assembled document
func Example_mutation() {
	model := testutil.NewSimpleModel()
	doc, err := converter.ConvertWithMutation(model, func(doc *openapi.Document) {
		doc.Info.Title = "Product catalog"
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(doc.Info.Title)
	// Output:
	// Product catalog
}
