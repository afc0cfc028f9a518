package llm

import (
	"encoding/json"
	"testing"
)

func TestSchema_Definition(t *testing.T) {
	s := &Schema{
		Name: "schema-definition",
		Fields: []Field{
			{Name: "text", Description: "reply"},
			{Name: "hint", Description: "one-line hint"},
		},
	}
	b, err := json.Marshal(s.Definition())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"additionalProperties":false,"properties":{"hint":{"description":"one-line hint","type":"string"},"text":{"description":"reply","type":"string"}},"required":["text","hint"],"type":"object"}`
	if string(b) != want {
		t.Fatalf("unexpected definition:\n got %s\nwant %s", b, want)
	}
}

func TestSchema_Check(t *testing.T) {
	s := textSchema()
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"text":"Наголос на О."}`, false},
		{"missing field", `{}`, true},
		{"empty text", `{"text":""}`, true},
		{"wrong type", `{"text":4}`, true},
		{"extra field", `{"text":"так","kind":"stress"}`, true},
		{"not json", `{not json}`, true},
		{"empty reply", ``, true},
		{"bare string", `"так"`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.check(json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("check(%s) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", ` {"text":"a"} `, `{"text":"a"}`},
		{"json fence", "```json\n{\"text\":\"a\"}\n```", `{"text":"a"}`},
		{"bare fence", "```\n{}\n```", `{}`},
		{"prose", "Так", "Так"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(extractJSON(tt.in)); got != tt.want {
				t.Fatalf("extractJSON = %s, want %s", got, tt.want)
			}
		})
	}
}
