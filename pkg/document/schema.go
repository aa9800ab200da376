package document

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/hashicorp/go-multierror"
)

//go:embed schema.yaml
var schemaSource []byte

var (
	schemaOnce sync.Once
	schemaRoot *openapi3.Schema
	schemaErr  error
)

// Schema returns the OpenAPI description of the document format.
func Schema() []byte {
	return append([]byte(nil), schemaSource...)
}

func documentSchema() (*openapi3.Schema, error) {
	schemaOnce.Do(func() {
		ctx := context.Background()
		loader := &openapi3.Loader{Context: ctx}
		spec, err := loader.LoadFromData(schemaSource)
		if err != nil {
			schemaErr = fmt.Errorf("document: load schema: %w", err)
			return
		}
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			schemaErr = fmt.Errorf("document: validate schema: %w", err)
			return
		}
		ref, ok := spec.Components.Schemas["Document"]
		if !ok || ref == nil || ref.Value == nil {
			schemaErr = errors.New("document: schema does not define Document")
			return
		}
		schemaRoot = ref.Value
	})
	return schemaRoot, schemaErr
}

// validateStructure checks a decoded document against the embedded schema.
// Every violation is reported, not just the first.
func validateStructure(raw any) error {
	schema, err := documentSchema()
	if err != nil {
		return err
	}

	value, err := normalise(raw)
	if err != nil {
		return err
	}

	err = schema.VisitJSON(value, openapi3.MultiErrors())
	if err == nil {
		return nil
	}

	var result *multierror.Error
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, item := range multi {
			result = multierror.Append(result, item)
		}
	} else {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// normalise converts YAML decoded values into the shapes kin-openapi expects
// (map[string]any, []any, float64).
func normalise(raw any) (any, error) {
	payload, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("document: normalise: %w", err)
	}
	var out any
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("document: normalise: %w", err)
	}
	return out, nil
}
