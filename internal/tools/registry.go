package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sandevgo/reliefbot/internal/core"
	"github.com/sandevgo/reliefbot/pkg/log"
)

// Definition describes one named capability a lane may expose to the model.
type Definition struct {
	Description string
	Schema      json.RawMessage
	Handler     core.ToolHandler
}

// Toolset is anything that contributes named definitions to the registry.
type Toolset interface {
	GetDefinitions() map[string]Definition
}

// Registry holds every tool in the system. Lanes select a subset by name;
// execution always dispatches through here.
type Registry struct {
	defs map[string]Definition
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

func (r *Registry) Register(name string, def Definition) {
	r.defs[name] = def
}

func (r *Registry) RegisterToolset(ts Toolset) {
	for name, def := range ts.GetDefinitions() {
		r.Register(name, def)
	}
}

// Definitions returns the wire-format tool declarations for the given names.
// Unknown names are a programming error and panic at lane construction time.
func (r *Registry) Definitions(names ...string) []core.Tool {
	out := make([]core.Tool, 0, len(names))
	for _, name := range names {
		def, ok := r.defs[name]
		if !ok {
			panic(fmt.Sprintf("tools: unknown tool %q", name))
		}
		out = append(out, core.NewFunctionTool(name, def.Description, def.Schema))
	}
	return out
}

// Call executes a named tool with the model-supplied arguments.
func (r *Registry) Call(ctx context.Context, name, args string) (string, error) {
	def, ok := r.defs[name]
	if !ok {
		return "", fmt.Errorf("unknown tool: %s", name)
	}

	log.FromCtx(ctx).Info().Str("tool", name).Msg("executing tool")
	return def.Handler(ctx, json.RawMessage(args))
}
