// Package tools holds the tool registry the transports dispatch
// through.
package tools

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// Executor is the function signature the transports invoke.
type Executor func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// Registry maps registered tools to their executors. Tool definitions
// live in genkit so the schema is discoverable; executors adapt the
// transports' loosely-typed argument maps to each tool's typed input.
type Registry struct {
	tools     []ai.Tool
	executors map[string]Executor
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:     make([]ai.Tool, 0),
		executors: make(map[string]Executor),
	}
}

// Register adds a tool and its executor.
func (r *Registry) Register(tool ai.Tool, executor Executor) {
	r.tools = append(r.tools, tool)
	r.executors[tool.Definition().Name] = executor
}

// Tools returns all registered tool definitions.
func (r *Registry) Tools() []ai.Tool {
	return r.tools
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.tools))
	for i, t := range r.tools {
		names[i] = t.Definition().Name
	}
	return names
}

// Has reports whether a tool is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.executors[name]
	return ok
}

// Execute runs a registered tool by name.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	executor, ok := r.executors[name]
	if !ok {
		return nil, fmt.Errorf("tool not found: %s", name)
	}
	return executor(ctx, args)
}

// Define registers a typed genkit tool together with a registry
// executor in one call.
func Define[In, Out any](gk *genkit.Genkit, r *Registry, name, description string,
	fn func(ctx context.Context, input In) (Out, error),
	decode func(args map[string]interface{}) (In, error)) {
	r.Register(genkit.DefineTool[In, Out](
		gk,
		name,
		description,
		func(ctx *ai.ToolContext, input In) (Out, error) {
			return fn(ctx, input)
		},
	), func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		input, err := decode(args)
		if err != nil {
			return nil, err
		}
		return fn(ctx, input)
	})
}
