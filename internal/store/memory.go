package store

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/recall/internal/card"
)

const memorySchemaURL = "schema://card-memory.json"

// memorySchema describes the persisted card.Memory document.
const memorySchema = `{
	"type": "object",
	"properties": {
		"ease_factor": {"type": "number"},
		"stability": {"type": "number", "exclusiveMinimum": 0},
		"internal_difficulty": {"type": "number"},
		"lapses": {"type": "integer"},
		"state": {"enum": ["new", "learning", "review", "relearning"]},
		"repetitions": {"type": "integer"},
		"last_interval_days": {"type": "integer"},
		"last_response_time_ms": {"type": "integer"},
		"last_quality": {"enum": [
			"blackout", "wrong", "near_miss", "struggled", "hesitant", "effortful",
			"adequate", "solid", "confident", "fluent", "perfect"
		]}
	}
}`

// memoryValidator checks stored scheduler memory before it is decoded.
type memoryValidator struct {
	schema *jsonschema.Schema
}

func newMemoryValidator() (*memoryValidator, error) {
	var def any
	if err := json.Unmarshal([]byte(memorySchema), &def); err != nil {
		return nil, errors.Wrap(err, "parse memory schema")
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(memorySchemaURL, def); err != nil {
		return nil, errors.Wrap(err, "add memory schema")
	}
	compiled, err := c.Compile(memorySchemaURL)
	if err != nil {
		return nil, errors.Wrap(err, "compile memory schema")
	}
	return &memoryValidator{schema: compiled}, nil
}

// decode validates raw and unmarshals it. Empty input is a zero Memory.
func (v *memoryValidator) decode(raw []byte) (card.Memory, error) {
	var m card.Memory
	if len(raw) == 0 || string(raw) == "null" {
		return m, nil
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return m, errors.Wrap(err, "invalid memory JSON")
	}
	if err := v.schema.Validate(parsed); err != nil {
		return m, errors.Wrap(err, "memory schema validation")
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return card.Memory{}, errors.Wrap(err, "decode memory")
	}
	return m, nil
}

func encodeMemory(m card.Memory) (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", errors.Wrap(err, "encode memory")
	}
	return string(b), nil
}
