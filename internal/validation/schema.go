package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rankllms/rankllms/schemas"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

// outcomeSchema is the compiled JSON Schema for archived comparison outcomes.
var outcomeSchema *jsonschema.Schema

// ratingsSchema is the compiled JSON Schema for the persisted ELO store.
var ratingsSchema *jsonschema.Schema

func init() {
	outcomeSchema = mustCompileSchema(schemas.OutcomeSchemaJSON, "outcome.schema.json")
	ratingsSchema = mustCompileSchema(schemas.RatingsSchemaJSON, "ratings.schema.json")
}

func mustCompileSchema(raw string, name string) *jsonschema.Schema {
	var schemaDoc any
	if err := json.Unmarshal([]byte(raw), &schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// ValidateOutcomeBytes validates raw JSON bytes against the outcome schema.
// Returns a list of human-readable problems, empty when the document is valid.
func ValidateOutcomeBytes(data []byte) []string {
	return validateJSONBytes(outcomeSchema, data)
}

// ValidateRatingsBytes validates raw JSON bytes against the ELO store schema.
func ValidateRatingsBytes(data []byte) []string {
	return validateJSONBytes(ratingsSchema, data)
}

func validateJSONBytes(schema *jsonschema.Schema, data []byte) []string {
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return []string{fmt.Sprintf("JSON parse error: %v", err)}
	}
	return validateAgainstSchema(schema, instance)
}

func validateAgainstSchema(schema *jsonschema.Schema, instance any) []string {
	err := schema.Validate(instance)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var errs []string
	collectSchemaErrors(ve, &errs)
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}
