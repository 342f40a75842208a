package store

import (
	"github.com/xeipuuv/gojsonschema"
)

// memberDocumentSchema describes the persisted family_members.json layout.
// The document is an object keyed by member name so the file stays readable
// and hand-editable.
const memberDocumentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Family member records",
  "type": "object",
  "additionalProperties": {
    "type": "object",
    "required": ["name", "dp_value", "username", "password", "transaction_pin", "applied_kitta", "crn_number"],
    "properties": {
      "name": {"type": "string", "minLength": 1},
      "dp_value": {"type": "string", "pattern": "^[0-9]+$"},
      "username": {"type": "string", "minLength": 1},
      "password": {"type": "string", "minLength": 1},
      "transaction_pin": {"type": "string", "pattern": "^[0-9]{4}$"},
      "applied_kitta": {"type": "integer", "minimum": 10},
      "crn_number": {"type": "string", "minLength": 1}
    },
    "additionalProperties": false
  }
}`

// SchemaError reports a document that does not match the member schema,
// with the offending field paths.
type SchemaError struct {
	Errors []FieldError
}

// FieldError is a single schema violation at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (e *SchemaError) Error() string {
	msg := "member document failed schema validation:"
	for _, fe := range e.Errors {
		msg += "\n  " + fe.Field + ": " + fe.Message
	}
	return msg
}

// validateDocument checks raw JSON against the member document schema.
func validateDocument(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(memberDocumentSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaError{Errors: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}
	if result.Valid() {
		return nil
	}

	schemaErr := &SchemaError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		schemaErr.Errors = append(schemaErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return schemaErr
}
