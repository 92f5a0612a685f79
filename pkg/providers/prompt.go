package providers

import "fmt"

// Task identifiers used by BuildSystemPrompt. They match the action ids and
// capability tags.
const (
	TaskExplain       = "explain"
	TaskRefactor      = "refactor"
	TaskConvert       = "convert"
	TaskInferSchema   = "infer_schema"
	TaskSummarizeLogs = "summarize_logs"
	TaskGenerateTests = "generate_tests"
	TaskFixSyntax     = "fix_syntax"
	TaskTransformText = "transform_text"
)

// taskInstructions maps a task id to its default system instruction.
var taskInstructions = map[string]string{
	TaskExplain:       "You are an expert software engineer. Explain the given code clearly and concisely, covering purpose, structure, and notable behavior.",
	TaskRefactor:      "You are an expert software engineer. Refactor the given code to improve clarity and maintainability without changing behavior. Return only the refactored code.",
	TaskConvert:       "You are an expert software engineer. Convert the given content to the requested target format. Return only the converted output.",
	TaskInferSchema:   "You are a data modeling expert. Infer a schema describing the given data. Return only the schema.",
	TaskSummarizeLogs: "You are a systems operator. Summarize the given logs: key events, errors, and likely root causes.",
	TaskGenerateTests: "You are an expert software engineer. Write thorough unit tests for the given code in its own language and test idiom. Return only the test code.",
	TaskFixSyntax:     "You are an expert software engineer. Fix syntax errors in the given code, changing as little as possible. Return only the corrected code.",
	TaskTransformText: "You are a skilled editor. Apply the requested transformation to the given text. Return only the transformed text.",
}

const defaultInstruction = "You are a helpful assistant embedded in a document editor. Be accurate and concise."

// BuildSystemPrompt synthesizes a system instruction for a task when the
// caller supplied none. Language, when known, is appended as context.
func BuildSystemPrompt(task, language string) string {
	instruction, ok := taskInstructions[task]
	if !ok {
		instruction = defaultInstruction
	}
	if language != "" {
		instruction = fmt.Sprintf("%s The content language is %s.", instruction, language)
	}
	return instruction
}

// SystemPromptFor resolves the effective system instruction for a call:
// explicit option first, then the task default.
func SystemPromptFor(opts *CallOptions, task, language string) string {
	if opts != nil && opts.SystemPrompt != "" {
		return opts.SystemPrompt
	}
	return BuildSystemPrompt(task, language)
}
