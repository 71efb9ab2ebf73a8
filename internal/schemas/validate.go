// Package schemas provides JSON Schema validation of talent-acquisition API envelopes.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed envelopes/*.schema.json
var envelopeFS embed.FS

// Envelope names an embedded response schema.
type Envelope string

// Known response envelopes.
const (
	EnvelopeJobList Envelope = "job_list"
	EnvelopeStatus  Envelope = "status"
	EnvelopeLogin   Envelope = "login"
	EnvelopeProfile Envelope = "profile"
)

// Envelopes lists every embedded schema.
func Envelopes() []Envelope {
	return []Envelope{EnvelopeJobList, EnvelopeStatus, EnvelopeLogin, EnvelopeProfile}
}

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s validation failed:", ve.Schema))
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf(" %d. %s: %s;", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

var (
	compileOnce sync.Once
	compiled    map[Envelope]*gojsonschema.Schema
	compileErr  error
)

func compileAll() {
	compiled = make(map[Envelope]*gojsonschema.Schema, len(Envelopes()))
	for _, env := range Envelopes() {
		path := "envelopes/" + string(env) + ".schema.json"
		data, err := envelopeFS.ReadFile(path)
		if err != nil {
			compileErr = &SchemaLoadError{Path: path, Message: "not embedded", Cause: err}
			return
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
		if err != nil {
			compileErr = &SchemaLoadError{Path: path, Message: "invalid schema", Cause: err}
			return
		}
		compiled[env] = schema
	}
}

// ValidateEnvelope validates a raw API response body against the named envelope schema.
func ValidateEnvelope(env Envelope, body []byte) error {
	compileOnce.Do(compileAll)
	if compileErr != nil {
		return compileErr
	}

	schema, ok := compiled[env]
	if !ok {
		return &SchemaLoadError{Path: string(env), Message: "unknown envelope"}
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%s: document is not valid JSON: %w", env, err)
	}
	return toValidationError(string(env), result)
}

func toValidationError(name string, result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Schema: name,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
