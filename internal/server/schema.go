package server

import (
	_ "embed"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed transform.schema.json
var transformSchemaJSON string

// transformSchema validates incoming transform request bodies.
var transformSchema = mustCompileSchema("transform.schema.json", transformSchemaJSON)

func mustCompileSchema(name, source string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(name, strings.NewReader(source)); err != nil {
		panic(err)
	}
	return compiler.MustCompile(name)
}

// firstSchemaCause walks a validation error to its most specific cause.
func firstSchemaCause(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	return err
}
