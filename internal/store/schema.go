package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// DialoguesColumns holds the columns for the "dialogues" table.
	DialoguesColumns = []*schema.Column{
		{Name: "conversation_id", Type: field.TypeString},
		{Name: "state", Type: field.TypeString, Size: 2147483647},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// DialoguesTable holds one serialized dialogue state per conversation.
	DialoguesTable = &schema.Table{
		Name:       "dialogues",
		Columns:    DialoguesColumns,
		PrimaryKey: []*schema.Column{DialoguesColumns[0]},
	}

	// QuizResultsColumns holds the columns for the "quiz_results" table.
	QuizResultsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "conversation_id", Type: field.TypeString},
		{Name: "kind", Type: field.TypeString},
		{Name: "score", Type: field.TypeInt},
		{Name: "total", Type: field.TypeInt},
		{Name: "finished_at", Type: field.TypeTime},
	}
	// QuizResultsTable holds one row per finished quiz.
	QuizResultsTable = &schema.Table{
		Name:       "quiz_results",
		Columns:    QuizResultsColumns,
		PrimaryKey: []*schema.Column{QuizResultsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "quizresult_conversation_id",
				Unique:  false,
				Columns: []*schema.Column{QuizResultsColumns[1]},
			},
			{
				Name:    "quizresult_kind",
				Unique:  false,
				Columns: []*schema.Column{QuizResultsColumns[2]},
			},
		},
	}

	// LlmRequestsColumns holds the columns for the "llm_requests" table.
	LlmRequestsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "failure", Type: field.TypeString, Default: ""},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	// LlmRequestsTable holds one row per LLM call.
	LlmRequestsTable = &schema.Table{
		Name:       "llm_requests",
		Columns:    LlmRequestsColumns,
		PrimaryKey: []*schema.Column{LlmRequestsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmrequest_timestamp",
				Unique:  false,
				Columns: []*schema.Column{LlmRequestsColumns[1]},
			},
			{
				Name:    "llmrequest_purpose",
				Unique:  false,
				Columns: []*schema.Column{LlmRequestsColumns[4]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		DialoguesTable,
		QuizResultsTable,
		LlmRequestsTable,
	}
)
