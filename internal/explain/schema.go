package explain

import "github.com/abhisek/slovo/internal/llm"

// TextSchema is the reply shape for both explanations and examples.
var TextSchema = &llm.Schema{
	Name:        "tutor-text",
	Description: "A short message to a learner of Ukrainian, written in Ukrainian",
	Fields: []llm.Field{
		{Name: textField, Description: "The message in Ukrainian, plain text without markdown"},
	},
}

const textField = "text"
