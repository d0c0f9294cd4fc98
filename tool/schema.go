package tool

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// SchemaValidator compiles a JSON schema exactly once and reuses the
// compiled form for every subsequent call, so a Policy (or a Toolkit
// validating ahead of dispatch) doesn't recompile its schema on every
// call.
type SchemaValidator struct {
	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

// NewSchemaValidator compiles schemaBytes immediately. Empty bytes
// produce a validator whose Validate always succeeds.
func NewSchemaValidator(schemaBytes []byte) *SchemaValidator {
	v := &SchemaValidator{}
	if len(schemaBytes) == 0 {
		return v
	}
	v.once.Do(func() { v.compile(schemaBytes) })
	return v
}

func (v *SchemaValidator) compile(schemaBytes []byte) {
	var schemaDoc any
	if err := json.Unmarshal(schemaBytes, &schemaDoc); err != nil {
		v.err = fmt.Errorf("unmarshal schema: %w", err)
		return
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaDoc); err != nil {
		v.err = fmt.Errorf("add schema resource: %w", err)
		return
	}
	schema, err := c.Compile("schema.json")
	if err != nil {
		v.err = fmt.Errorf("compile schema: %w", err)
		return
	}
	v.schema = schema
}

// Validate checks args against the compiled schema. A validator with no
// schema (empty bytes at construction) always succeeds.
func (v *SchemaValidator) Validate(args map[string]any) error {
	if v.err != nil {
		return v.err
	}
	if v.schema == nil {
		return nil
	}
	return v.schema.Validate(args)
}
