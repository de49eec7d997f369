package csdl

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/erraggy/edmoas/oaserrors"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.yaml.in/yaml/v4"
)

const shapeSchemaURL = "https://github.com/erraggy/edmoas/csdl/csdl.schema.json"

//go:embed csdl.schema.json
var shapeSchemaJSON []byte

var compileShapeSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource(shapeSchemaURL, bytes.NewReader(shapeSchemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(shapeSchemaURL)
})

// checkShape validates data against the embedded CSDL shape schema.
func checkShape(data []byte, path string) error {
	schema, err := compileShapeSchema()
	if err != nil {
		return &oaserrors.ConfigError{Option: "WithSchemaCheck", Message: "compiling embedded schema", Cause: err}
	}

	instance, err := jsonInstance(data)
	if err != nil {
		return &oaserrors.ParseError{Path: path, Message: "malformed document", Cause: err}
	}
	if err := schema.Validate(instance); err != nil {
		return &oaserrors.ParseError{Path: path, Message: "document does not match the CSDL JSON shape", Cause: err}
	}
	return nil
}

// jsonInstance returns data as the generic value the validator expects.
// YAML input is round-tripped through JSON so numbers and maps have JSON
// types.
func jsonInstance(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err == nil {
		return v, nil
	}
	var y any
	if err := yaml.Unmarshal(data, &y); err != nil {
		return nil, err
	}
	converted, err := json.Marshal(y)
	if err != nil {
		return nil, fmt.Errorf("converting YAML to JSON: %w", err)
	}
	if err := json.Unmarshal(converted, &v); err != nil {
		return nil, err
	}
	return v, nil
}
