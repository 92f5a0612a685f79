package actions

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"inkwell/scribe/pkg/providers"
)

// ActionContext is the input to an action: the full document content, an
// optional selection within it, and hints about what the content is.
type ActionContext struct {
	// Content is the full document text.
	Content string

	// Selection is the selected fragment; when set it takes precedence
	// over Content.
	Selection string

	// Language is the content language (programming or natural), when known.
	Language string

	// FileName is the source file name, when known.
	FileName string
}

// Text returns the content an action operates on: the selection when one
// exists, otherwise the full content.
func (c ActionContext) Text() string {
	if c.Selection != "" {
		return c.Selection
	}
	return c.Content
}

// Definition describes one registered action.
type Definition struct {
	// ID is the action identifier. Doubles as the capability tag providers
	// must carry to run it.
	ID string

	// Name is the human-readable action name.
	Name string

	// Description says what the action does.
	Description string

	// Task selects the default system instruction for the call.
	Task string

	// ExtractFormat, when set, post-processes the raw response with
	// ExtractContent to salvage a payload of this format.
	ExtractFormat string

	// BuildPrompt renders the user prompt from the action context.
	BuildPrompt func(ActionContext) string
}

// Result is the normalized outcome of an action run. Provider failures are
// folded into it; Execute never returns a Go error for a failed call.
type Result struct {
	Success  bool                  `json:"success"`
	Output   string                `json:"output,omitempty"`
	Error    string                `json:"error,omitempty"`
	Metadata map[string]string     `json:"metadata,omitempty"`
	Usage    *providers.TokenUsage `json:"usage,omitempty"`
}

// Completer is the provider surface actions run against. The runtime
// manager satisfies it.
type Completer interface {
	Complete(ctx context.Context, params *providers.CompletionParams) (*providers.Result, error)
	StreamComplete(ctx context.Context, params *providers.CompletionParams, onChunk providers.ChunkHandler) (*providers.Result, error)
}

// Registry holds the registered actions. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]Definition
	order []string
}

// NewRegistry creates a registry preloaded with the built-in actions.
func NewRegistry() *Registry {
	r := &Registry{defs: make(map[string]Definition)}
	for _, def := range builtinActions() {
		r.Register(def)
	}
	return r
}

// Register adds an action. Registering an existing id replaces the earlier
// definition; the last registration wins.
func (r *Registry) Register(def Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.ID]; !exists {
		r.order = append(r.order, def.ID)
	}
	r.defs[def.ID] = def
}

// Get looks up an action by id.
func (r *Registry) Get(id string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[id]
	return def, ok
}

// List returns all registered actions sorted by id.
func (r *Registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(r.defs))
	for _, id := range r.order {
		out = append(out, r.defs[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Execute runs an action as a non-streaming call. All failures, including an
// unknown action id, are reported inside the Result.
func (r *Registry) Execute(ctx context.Context, c Completer, id string, actx ActionContext) Result {
	def, params, errResult := r.prepare(id, actx)
	if errResult != nil {
		return *errResult
	}

	res, err := c.Complete(ctx, params)
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}
	return finishResult(def, res)
}

// ExecuteStream runs an action with streaming delivery. Chunks are the raw
// response; extraction applies only to the final output.
func (r *Registry) ExecuteStream(ctx context.Context, c Completer, id string, actx ActionContext, onChunk providers.ChunkHandler) Result {
	def, params, errResult := r.prepare(id, actx)
	if errResult != nil {
		return *errResult
	}

	res, err := c.StreamComplete(ctx, params, onChunk)
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}
	return finishResult(def, res)
}

// prepare resolves the action and builds the call parameters.
func (r *Registry) prepare(id string, actx ActionContext) (Definition, *providers.CompletionParams, *Result) {
	def, ok := r.Get(id)
	if !ok {
		return Definition{}, nil, &Result{
			Success: false,
			Error:   fmt.Sprintf("unknown action %q", id),
		}
	}
	if actx.Text() == "" {
		return Definition{}, nil, &Result{
			Success: false,
			Error:   fmt.Sprintf("action %q requires content", id),
		}
	}

	params := &providers.CompletionParams{
		Prompt:   def.BuildPrompt(actx),
		Language: actx.Language,
		Task:     def.Task,
		Options:  providers.CallOptions{ExtractFormat: def.ExtractFormat},
	}
	return def, params, nil
}

// finishResult maps a provider result onto the action result, applying
// extraction when the action declares a format.
func finishResult(def Definition, res *providers.Result) Result {
	output := res.Text
	if def.ExtractFormat != "" {
		output = ExtractContent(output, def.ExtractFormat)
	}
	return Result{
		Success:  true,
		Output:   output,
		Metadata: res.Metadata,
		Usage:    res.Usage,
	}
}
