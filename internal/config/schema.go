// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/invopop/jsonschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// SchemaID is the $id of the generated config schema.
const SchemaID = "https://parkspot.dev/schemas/config.schema.json"

var compiledSchema = sync.OnceValues(compileSchema)

// GenerateSchema reflects the JSON Schema for config files from Config.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	schema := r.Reflect(&Config{})
	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "ParkSpot Configuration"
	schema.Description = "Schema for parkspot config.yaml files"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.Code(CodeSchemaInvalid).Wrapf(err, "marshal schema")
	}
	return data, nil
}

// ValidateFile checks a YAML config file against the generated schema.
func ValidateFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied config path
	if err != nil {
		return oops.Code(CodeLoadFailed).
			With("path", path).
			Wrap(fmt.Errorf("%w: %w", ErrConfiguration, err))
	}
	if err := Validate(data); err != nil {
		return oops.With("path", path).Wrap(err)
	}
	return nil
}

// Validate checks YAML config data against the generated schema. An empty
// document is valid.
func Validate(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return schemaInvalid(fmt.Errorf("invalid YAML: %w", err))
	}
	if doc == nil {
		return nil
	}

	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(jsonTypes(doc)); err != nil {
		return schemaInvalid(err)
	}
	return nil
}

func compileSchema() (*jschema.Schema, error) {
	raw, err := GenerateSchema()
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, oops.Code(CodeSchemaInvalid).Wrapf(err, "parse schema")
	}

	c := jschema.NewCompiler()
	if err := c.AddResource(SchemaID, doc); err != nil {
		return nil, oops.Code(CodeSchemaInvalid).Wrapf(err, "add schema resource")
	}
	sch, err := c.Compile(SchemaID)
	if err != nil {
		return nil, oops.Code(CodeSchemaInvalid).Wrapf(err, "compile schema")
	}
	return sch, nil
}

// jsonTypes normalizes yaml.v3 output into the types the validator expects.
func jsonTypes(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = jsonTypes(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = jsonTypes(item)
		}
		return out
	case int:
		return json.Number(fmt.Sprint(val))
	default:
		return val
	}
}

func schemaInvalid(err error) error {
	return oops.Code(CodeSchemaInvalid).Wrap(fmt.Errorf("%w: %w", ErrConfiguration, err))
}
