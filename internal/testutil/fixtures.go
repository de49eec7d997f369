// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/edmoas/edm"
)

// NewSimpleModel creates a minimal valid model: one entity type keyed by a
// string, exposed by one entity set.
func NewSimpleModel() *edm.Model {
	return &edm.Model{
		Version: "4.01",
		Schemas: []*edm.Schema{{
			Namespace: "Sample",
			EntityTypes: []*edm.EntityType{{
				StructuredType: edm.StructuredType{
					Namespace: "Sample",
					Name:      "Product",
					Properties: []*edm.Property{
						{Name: "ID", Type: edm.TypeRef{Name: "Edm.String"}},
						{Name: "Name", Type: edm.TypeRef{Name: "Edm.String", Nullable: true}},
						{Name: "Price", Type: edm.TypeRef{Name: "Edm.Decimal", Nullable: true}},
					},
				},
				Key: []string{"ID"},
			}},
		}},
		EntityContainer: &edm.EntityContainer{
			Namespace:  "Sample",
			Name:       "Container",
			EntitySets: []*edm.EntitySet{{Name: "Products", EntityType: "Sample.Product"}},
		},
	}
}

// NewDetailedModel creates a valid model exercising most generators:
// inheritance, complex and enum types, containment, bound and unbound
// operations, a singleton and an OAuth2 authorization.
func NewDetailedModel() *edm.Model {
	str := edm.TypeRef{Name: "Edm.String"}
	person := &edm.EntityType{
		StructuredType: edm.StructuredType{
			Namespace:   "Trippin",
			Name:        "Person",
			Description: "A person",
			Properties: []*edm.Property{
				{Name: "UserName", Type: str},
				{Name: "FirstName", Type: str},
				{Name: "Age", Type: edm.TypeRef{Name: "Edm.Int64", Nullable: true}},
				{Name: "Gender", Type: edm.TypeRef{Name: "Trippin.PersonGender"}},
				{Name: "HomeAddress", Type: edm.TypeRef{Name: "Trippin.Location", Nullable: true}},
				{Name: "Emails", Type: edm.TypeRef{Name: "Edm.String", Collection: true}},
			},
			NavigationProperties: []*edm.NavigationProperty{
				{Name: "Friends", Type: edm.TypeRef{Name: "Trippin.Person", Collection: true}},
				{Name: "BestFriend", Type: edm.TypeRef{Name: "Trippin.Person", Nullable: true}},
				{Name: "Trips", Type: edm.TypeRef{Name: "Trippin.Trip", Collection: true}, ContainsTarget: true},
			},
		},
		Key: []string{"UserName"},
	}
	employee := &edm.EntityType{
		StructuredType: edm.StructuredType{
			Namespace:  "Trippin",
			Name:       "Employee",
			BaseType:   "Trippin.Person",
			Properties: []*edm.Property{{Name: "Cost", Type: edm.TypeRef{Name: "Edm.Int64"}}},
		},
	}
	trip := &edm.EntityType{
		StructuredType: edm.StructuredType{
			Namespace: "Trippin",
			Name:      "Trip",
			Properties: []*edm.Property{
				{Name: "TripId", Type: edm.TypeRef{Name: "Edm.Int32"}},
				{Name: "Name", Type: str},
				{Name: "StartsAt", Type: edm.TypeRef{Name: "Edm.DateTimeOffset"}},
			},
		},
		Key: []string{"TripId"},
	}
	airline := &edm.EntityType{
		StructuredType: edm.StructuredType{
			Namespace: "Trippin",
			Name:      "Airline",
			Properties: []*edm.Property{
				{Name: "AirlineCode", Type: str},
				{Name: "Name", Type: str},
			},
		},
		Key: []string{"AirlineCode"},
	}
	location := &edm.ComplexType{StructuredType: edm.StructuredType{
		Namespace: "Trippin",
		Name:      "Location",
		Properties: []*edm.Property{
			{Name: "Address", Type: edm.TypeRef{Name: "Edm.String", Nullable: true}},
		},
	}}
	gender := &edm.EnumType{
		Namespace: "Trippin",
		Name:      "PersonGender",
		Members: []*edm.EnumMember{
			{Name: "Male", Value: 0},
			{Name: "Female", Value: 1},
			{Name: "Unknown", Value: 2},
		},
	}

	return &edm.Model{
		Version: "4.01",
		Schemas: []*edm.Schema{{
			Namespace:    "Trippin",
			Alias:        "self",
			EntityTypes:  []*edm.EntityType{person, employee, trip, airline},
			ComplexTypes: []*edm.ComplexType{location},
			EnumTypes:    []*edm.EnumType{gender},
			Operations: []*edm.Operation{
				{
					Namespace: "Trippin", Name: "GetFavoriteAirline", Kind: edm.OperationFunction, IsBound: true,
					Parameters: []*edm.Parameter{{Name: "person", Type: edm.TypeRef{Name: "Trippin.Person"}}},
					ReturnType: &edm.TypeRef{Name: "Trippin.Airline"},
				},
				{
					Namespace: "Trippin", Name: "ShareTrip", Kind: edm.OperationAction, IsBound: true,
					Parameters: []*edm.Parameter{
						{Name: "personInstance", Type: edm.TypeRef{Name: "Trippin.Person"}},
						{Name: "userName", Type: str},
						{Name: "tripId", Type: edm.TypeRef{Name: "Edm.Int32"}},
					},
				},
				{
					Namespace: "Trippin", Name: "GetNearestAirline", Kind: edm.OperationFunction,
					Parameters: []*edm.Parameter{
						{Name: "lat", Type: edm.TypeRef{Name: "Edm.Double"}},
						{Name: "lon", Type: edm.TypeRef{Name: "Edm.Double"}},
					},
					ReturnType: &edm.TypeRef{Name: "Trippin.Airline", Nullable: true},
				},
				{Namespace: "Trippin", Name: "ResetDataSource", Kind: edm.OperationAction},
			},
		}},
		EntityContainer: &edm.EntityContainer{
			Namespace: "Trippin",
			Name:      "Container",
			EntitySets: []*edm.EntitySet{
				{
					Name: "People", EntityType: "Trippin.Person",
					NavigationPropertyBindings: []edm.NavigationPropertyBinding{
						{Path: "Friends", Target: "People"},
						{Path: "BestFriend", Target: "People"},
					},
				},
				{Name: "Airlines", EntityType: "Trippin.Airline", Description: "Airlines of the world"},
			},
			Singletons: []*edm.Singleton{{Name: "Me", Type: "Trippin.Person"}},
			OperationImports: []*edm.OperationImport{
				{Name: "GetNearestAirline", Kind: edm.OperationFunction, Operation: "Trippin.GetNearestAirline", EntitySet: "Airlines"},
				{Name: "ResetDataSource", Kind: edm.OperationAction, Operation: "Trippin.ResetDataSource"},
			},
			Authorizations: []*edm.Authorization{{
				Name:             "oauth",
				Kind:             edm.AuthOAuth2AuthCode,
				Description:      "Sign in with Trippin",
				AuthorizationURL: "https://login.example.com/authorize",
				TokenURL:         "https://login.example.com/token",
				Scopes:           []edm.Scope{{Scope: "trips.read", Description: "Read trips"}},
			}},
		},
	}
}

// NewInvalidModel creates a model with exactly three structural errors, in
// traversal order: a property whose type is not declared, an entity type
// without a key, and an entity set over a complex type.
func NewInvalidModel() *edm.Model {
	return &edm.Model{
		Version: "4.01",
		Schemas: []*edm.Schema{{
			Namespace: "Broken",
			EntityTypes: []*edm.EntityType{{
				StructuredType: edm.StructuredType{
					Namespace: "Broken",
					Name:      "Keyless",
					Properties: []*edm.Property{
						{Name: "Ghost", Type: edm.TypeRef{Name: "Broken.Missing"}},
					},
				},
			}},
			ComplexTypes: []*edm.ComplexType{{StructuredType: edm.StructuredType{Namespace: "Broken", Name: "Shape"}}},
		}},
		EntityContainer: &edm.EntityContainer{
			Namespace:  "Broken",
			Name:       "Container",
			EntitySets: []*edm.EntitySet{{Name: "Shapes", EntityType: "Broken.Shape"}},
		},
	}
}

// WriteTempFile writes data to a file named name in a temporary directory.
// Returns the path to the file.
// The file is automatically cleaned up when the test completes (via t.TempDir).
func WriteTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("Failed to write temporary file: %v", err)
	}
	return path
}
