package llm

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is the reply shape of a tutor prompt: a flat JSON object whose
// fields are all required non-empty strings.
type Schema struct {
	// Name identifies the schema to vendors and keys the compile cache.
	Name        string
	Description string
	Fields      []Field
}

// Field is one string property of a Schema.
type Field struct {
	Name        string
	Description string
}

// Definition is the JSON Schema sent to vendors.
func (s *Schema) Definition() map[string]any {
	return s.definition(false)
}

// definition optionally adds minLength, which strict vendor modes reject
// but local validation enforces.
func (s *Schema) definition(nonEmpty bool) map[string]any {
	props := make(map[string]any, len(s.Fields))
	required := make([]any, 0, len(s.Fields))
	for _, f := range s.Fields {
		p := map[string]any{"type": "string", "description": f.Description}
		if nonEmpty {
			p["minLength"] = 1
		}
		props[f.Name] = p
		required = append(required, f.Name)
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

var compiled sync.Map // schema name -> *jsonschema.Schema

func (s *Schema) compile() (*jsonschema.Schema, error) {
	if c, ok := compiled.Load(s.Name); ok {
		return c.(*jsonschema.Schema), nil
	}

	// The compiler wants decoded JSON, not Go maps with typed slices.
	b, err := json.Marshal(s.definition(true))
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}

	c := jsonschema.NewCompiler()
	url := "schema://" + s.Name + ".json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, err
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, err
	}
	compiled.Store(s.Name, sch)
	return sch, nil
}

// check validates a reply against s.
func (s *Schema) check(raw json.RawMessage) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("not JSON: %w", err)
	}
	sch, err := s.compile()
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", s.Name, err)
	}
	return sch.Validate(doc)
}

// extractJSON trims whitespace and a markdown code fence from model output.
func extractJSON(text string) json.RawMessage {
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "```") {
		t = strings.TrimPrefix(t, "```json")
		t = strings.TrimPrefix(t, "```")
		t = strings.TrimSuffix(t, "```")
		t = strings.TrimSpace(t)
	}
	return json.RawMessage(t)
}
