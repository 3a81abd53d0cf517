package manifest

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaResource = "latest.schema.json"

//go:embed schema/latest.schema.json
var schemaDocument []byte

// compiledSchema compiles the embedded schema on first use.
var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaDocument))
	if err != nil {
		return nil, fmt.Errorf("parse manifest schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err = compiler.AddResource(schemaResource, doc); err != nil {
		return nil, fmt.Errorf("add manifest schema: %w", err)
	}

	schema, err := compiler.Compile(schemaResource)
	if err != nil {
		return nil, fmt.Errorf("compile manifest schema: %w", err)
	}

	return schema, nil
})

// Validate checks that data is a manifest document updater clients accept.
func Validate(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}

	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}

	if err = schema.Validate(instance); err != nil {
		return fmt.Errorf("manifest does not match schema: %w", err)
	}

	return nil
}
