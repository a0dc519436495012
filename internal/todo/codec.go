package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var schemaJSON []byte

const schemaURL = "tasks.schema.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// DecodeError reports persisted data that could not be turned into tasks.
// Path is a JSON pointer to the offending value, empty for the whole document.
type DecodeError struct {
	Path    string
	Message string
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return "decode tasks: " + e.Message
	}
	return fmt.Sprintf("decode tasks: %s: %s", e.Path, e.Message)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// record is the persisted shape of a Task.
type record struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Category  string `json:"category"`
	CreatedAt string `json:"createdAt"`
}

// Encode serializes tasks as a JSON array with RFC 3339 timestamps.
func Encode(tasks []Task) (string, error) {
	recs := make([]record, len(tasks))
	for i, t := range tasks {
		recs[i] = record{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			Category:  t.Category,
			CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return "", fmt.Errorf("encode tasks: %w", err)
	}
	return string(data), nil
}

// Decode validates data against the task list schema and returns typed tasks.
// Any failure is a *DecodeError.
func Decode(data string) ([]Task, error) {
	var doc any
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, &DecodeError{Message: "invalid JSON", Err: err}
	}

	schema, err := compileSchema()
	if err != nil {
		return nil, fmt.Errorf("compile task schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, schemaDecodeError(err)
	}

	var recs []record
	if err := json.Unmarshal([]byte(data), &recs); err != nil {
		return nil, &DecodeError{Message: "unexpected shape", Err: err}
	}

	tasks := make([]Task, 0, len(recs))
	seen := make(map[string]struct{}, len(recs))
	for i, r := range recs {
		if _, dup := seen[r.ID]; dup {
			return nil, &DecodeError{Path: fmt.Sprintf("/%d/id", i), Message: fmt.Sprintf("duplicate id %q", r.ID)}
		}
		seen[r.ID] = struct{}{}

		created, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
		if err != nil {
			return nil, &DecodeError{Path: fmt.Sprintf("/%d/createdAt", i), Message: "invalid timestamp", Err: err}
		}
		tasks = append(tasks, Task{
			ID:        r.ID,
			Text:      r.Text,
			Completed: r.Completed,
			Category:  r.Category,
			CreatedAt: created,
		})
	}
	return tasks, nil
}

// schemaDecodeError picks the first leaf cause, which names the actual field.
func schemaDecodeError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &DecodeError{Message: err.Error(), Err: err}
	}
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	return &DecodeError{Path: leaf.InstanceLocation, Message: leaf.Message, Err: err}
}
