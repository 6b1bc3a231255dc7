// Package skills defines the skill execution contract: the Skill
// interface, the result envelope with typed metadata, the structured
// error taxonomy, and the Environment that injects clients, config,
// and stores into skill handlers.
package skills

import (
	"context"
	"fmt"

	"github.com/invopop/jsonschema"
	"go.opentelemetry.io/otel/attribute"

	"github.com/junohq/agentskills/pkg/clients"
	markettypes "github.com/junohq/agentskills/pkg/types/market"
)

// Skill is a request/response handler: it parses a JSON parameter
// string, validates it, optionally calls an injected client, and
// returns a human-readable summary plus structured metadata.
type Skill interface {
	GenerateSchema() *jsonschema.Schema
	Name() string
	Description() string
	ValidateInput(env Environment, parameters string) error
	Execute(ctx context.Context, env Environment, parameters string) SkillResult
	TracingKVs(parameters string) ([]attribute.KeyValue, error)
}

// SkillResult is the outcome of a skill execution. Implementations are
// per-action structs; use BaseSkillResult for bare errors.
type SkillResult interface {
	GetResult() string
	GetError() string
	IsError() bool
	AssistantFacing() string
	StructuredData() StructuredSkillResult
}

// Environment injects the per-call collaborators into skill handlers.
// Both client slots may be nil; each skill resolves them by its own
// preference order.
type Environment interface {
	ProviderClient() clients.Client
	GatewayClient() clients.Client
	Config() Config
	Watchlist() markettypes.WatchlistStore
}

// StringifySkillResult wraps content and error into the tagged text
// form fed back to the calling agent.
func StringifySkillResult(content, err string) string {
	out := ""
	if err != "" {
		out = fmt.Sprintf("<error>\n%s\n</error>\n", err)
	}
	if content != "" {
		out += fmt.Sprintf("<result>\n%s\n</result>\n", content)
	}
	return out
}

// BaseSkillResult is a minimal SkillResult used for dispatch-level
// failures where no action-specific metadata exists.
type BaseSkillResult struct {
	SkillName string
	Action    string
	Result    string
	Err       *SkillError
}

var _ SkillResult = &BaseSkillResult{}

func (r *BaseSkillResult) GetResult() string { return r.Result }

func (r *BaseSkillResult) GetError() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Message
}

func (r *BaseSkillResult) IsError() bool { return r.Err != nil }

func (r *BaseSkillResult) AssistantFacing() string {
	return StringifySkillResult(r.Result, r.GetError())
}

func (r *BaseSkillResult) StructuredData() StructuredSkillResult {
	return NewStructuredResult(r.SkillName, r.Action, r.Err)
}
