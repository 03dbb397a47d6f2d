package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tgienger/tasker/internal/models"
)

//go:embed snapshot.schema.json
var snapshotSchemaSource string

var snapshotSchema = jsonschema.MustCompileString("snapshot.schema.json", snapshotSchemaSource)

// Encode serializes a task collection. An empty collection encodes as [].
func Encode(tasks []models.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	return json.Marshal(tasks)
}

// Decode parses and validates a serialized task collection
func Decode(data []byte) ([]models.Task, error) {
	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if err := snapshotSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate snapshot: %w", err)
	}

	var tasks []models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			return nil, fmt.Errorf("decode snapshot: duplicate task id %q", t.ID)
		}
		seen[t.ID] = true
	}

	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}
