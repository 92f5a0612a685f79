package actions

import (
	"fmt"

	"inkwell/scribe/pkg/providers"
)

// builtinActions returns the standard action set. Each id doubles as the
// capability tag checked at dispatch.
func builtinActions() []Definition {
	return []Definition{
		{
			ID:          "explain",
			Name:        "Explain",
			Description: "Explain what the given code or text does",
			Task:        providers.TaskExplain,
			BuildPrompt: func(c ActionContext) string {
				return fmt.Sprintf("Explain the following%s:\n\n%s", fileHint(c), c.Text())
			},
		},
		{
			ID:          "refactor",
			Name:        "Refactor",
			Description: "Refactor code for clarity without changing behavior",
			Task:        providers.TaskRefactor,
			BuildPrompt: func(c ActionContext) string {
				return fmt.Sprintf("Refactor the following code%s:\n\n%s", fileHint(c), c.Text())
			},
		},
		{
			ID:          "convert",
			Name:        "Convert",
			Description: "Convert content to another format or language",
			Task:        providers.TaskConvert,
			BuildPrompt: func(c ActionContext) string {
				if c.Language != "" {
					return fmt.Sprintf("Convert the following content to %s:\n\n%s", c.Language, c.Text())
				}
				return fmt.Sprintf("Convert the following content to the most suitable structured format:\n\n%s", c.Text())
			},
		},
		{
			ID:            "infer_schema",
			Name:          "Infer Schema",
			Description:   "Infer a JSON schema describing the given data",
			Task:          providers.TaskInferSchema,
			ExtractFormat: "json",
			BuildPrompt: func(c ActionContext) string {
				return fmt.Sprintf("Infer a JSON schema for the following data. Return only the schema as JSON:\n\n%s", c.Text())
			},
		},
		{
			ID:          "summarize_logs",
			Name:        "Summarize Logs",
			Description: "Summarize log output: key events, errors, root causes",
			Task:        providers.TaskSummarizeLogs,
			BuildPrompt: func(c ActionContext) string {
				return fmt.Sprintf("Summarize the following logs:\n\n%s", c.Text())
			},
		},
		{
			ID:          "generate_tests",
			Name:        "Generate Tests",
			Description: "Write unit tests for the given code",
			Task:        providers.TaskGenerateTests,
			BuildPrompt: func(c ActionContext) string {
				return fmt.Sprintf("Write unit tests for the following code%s:\n\n%s", fileHint(c), c.Text())
			},
		},
		{
			ID:          "fix_syntax",
			Name:        "Fix Syntax",
			Description: "Fix syntax errors with minimal changes",
			Task:        providers.TaskFixSyntax,
			BuildPrompt: func(c ActionContext) string {
				return fmt.Sprintf("Fix the syntax errors in the following code%s:\n\n%s", fileHint(c), c.Text())
			},
		},
		{
			ID:          "transform_text",
			Name:        "Transform Text",
			Description: "Apply a free-form transformation to text",
			Task:        providers.TaskTransformText,
			BuildPrompt: func(c ActionContext) string {
				return fmt.Sprintf("Transform the following text as requested:\n\n%s", c.Text())
			},
		},
	}
}

// fileHint renders an optional " (from <file>)" suffix for prompts.
func fileHint(c ActionContext) string {
	if c.FileName == "" {
		return ""
	}
	return fmt.Sprintf(" (from %s)", c.FileName)
}
