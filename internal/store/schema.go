package store

import (
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/idilsaglam/todo/internal/model"
)

const collectionSchemaURL = "collection.schema.json"

const collectionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["todos"],
  "properties": {
    "todos": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "title", "completed"],
        "properties": {
          "id":        {"type": "integer"},
          "title":     {"type": "string"},
          "completed": {"type": "boolean"}
        }
      }
    }
  }
}`

var schema = jsonschema.MustCompileString(collectionSchemaURL, collectionSchema)

// CorruptError reports a stored collection that cannot be used as-is.
type CorruptError struct {
	Name string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("collection %q is corrupt: %v", e.Name, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// decodeCollection parses and validates a stored blob.
func decodeCollection(name string, data []byte) (model.Collection, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.Collection{}, &CorruptError{Name: name, Err: err}
	}
	if err := schema.Validate(raw); err != nil {
		return model.Collection{}, &CorruptError{Name: name, Err: err}
	}
	var c model.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return model.Collection{}, &CorruptError{Name: name, Err: err}
	}
	if c.Todos == nil {
		c.Todos = []model.Todo{}
	}
	return c, nil
}

func encodeCollection(c model.Collection) ([]byte, error) {
	if c.Todos == nil {
		c.Todos = []model.Todo{}
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}
