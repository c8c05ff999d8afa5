// Package schema checks the structural shape of resume record documents
// against the embedded JSON Schema before they are decoded.
package schema

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"resume-builder/resume/model"
	"resume-builder/resume/validation"
)

//go:embed resume.schema.json
var resumeSchema []byte

// ErrMalformed is returned when the document is not JSON at all.
var ErrMalformed = errors.New("malformed resume document")

var (
	compileOnce sync.Once
	compiled    *gojsonschema.Schema
	compileErr  error
)

func load() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(resumeSchema))
		if compileErr != nil {
			compileErr = fmt.Errorf("load resume schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// Check validates doc against the record schema. Shape violations are
// returned as a *validation.ValidationError with code InvalidShape.
func Check(doc []byte) error {
	s, err := load()
	if err != nil {
		return err
	}
	if !json.Valid(doc) {
		return ErrMalformed
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if result.Valid() {
		return nil
	}

	verr := &validation.ValidationError{Errors: make([]validation.FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		verr.Errors = append(verr.Errors, validation.FieldError{
			Path:    fieldPath(desc),
			Code:    validation.CodeInvalidShape,
			Message: desc.Description(),
		})
	}
	return verr
}

// Decode checks doc and unmarshals it into a record.
func Decode(doc []byte) (model.Record, error) {
	if err := Check(doc); err != nil {
		return model.Record{}, err
	}
	var rec model.Record
	if err := json.Unmarshal(doc, &rec); err != nil {
		return model.Record{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return rec, nil
}

// fieldPath converts "workExperiences.0.startDate" into "workExperiences[0].startDate".
// Unknown properties are reported at the property itself.
func fieldPath(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if desc.Type() == "additional_property_not_allowed" {
		if prop, ok := desc.Details()["property"].(string); ok {
			if field == gojsonschema.STRING_ROOT_SCHEMA_PROPERTY {
				field = prop
			} else {
				field = field + "." + prop
			}
		}
	}
	if field == gojsonschema.STRING_ROOT_SCHEMA_PROPERTY {
		return field
	}

	var sb strings.Builder
	for i, part := range strings.Split(field, ".") {
		if _, err := strconv.Atoi(part); err == nil {
			sb.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(part)
	}
	return sb.String()
}
