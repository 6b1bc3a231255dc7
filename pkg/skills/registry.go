// Package skills wires the individual skill implementations into a
// registry and runs them with validation and tracing.
package skills

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/junohq/agentskills/pkg/logger"
	"github.com/junohq/agentskills/pkg/skills/guardagent"
	"github.com/junohq/agentskills/pkg/skills/marketanalyzer"
	"github.com/junohq/agentskills/pkg/telemetry"
	skilltypes "github.com/junohq/agentskills/pkg/types/skills"
)

// skillRegistry holds all available skills mapped by their names.
var skillRegistry = map[string]skilltypes.Skill{
	guardagent.SkillName:     guardagent.NewSkill(),
	marketanalyzer.SkillName: marketanalyzer.NewSkill(),
}

// GetSkills returns every registered skill.
func GetSkills() []skilltypes.Skill {
	skills := make([]skilltypes.Skill, 0, len(skillRegistry))
	for _, s := range skillRegistry {
		skills = append(skills, s)
	}
	return skills
}

// GetSkill looks a skill up by name.
func GetSkill(name string) (skilltypes.Skill, error) {
	skill, ok := skillRegistry[name]
	if !ok {
		return nil, errors.Errorf("skill %q not found", name)
	}
	return skill, nil
}

var tracer = telemetry.Tracer("agentskills.skills")

// RunSkill validates parameters and executes the named skill under a
// tracing span. Validation failures come back as structured results
// rather than Go errors so callers always get the envelope shape.
func RunSkill(ctx context.Context, env skilltypes.Environment, skillName string, parameters string) skilltypes.SkillResult {
	skill, err := GetSkill(skillName)
	if err != nil {
		return &skilltypes.BaseSkillResult{
			SkillName: skillName,
			Err: skilltypes.NewSkillError(skilltypes.CodeInvalidAction,
				err.Error(), false),
		}
	}
	return RunWith(ctx, env, skill, parameters)
}

// RunWith runs a specific skill instance with the same validation and
// tracing flow as RunSkill. Callers use it when the instance differs
// from the registry default, such as a guard agent extended with an
// external rule pack.
func RunWith(ctx context.Context, env skilltypes.Environment, skill skilltypes.Skill, parameters string) skilltypes.SkillResult {
	kvs, err := skill.TracingKVs(parameters)
	if err != nil {
		logger.G(ctx).WithError(err).Error("failed to get tracing kvs")
	}

	ctx, span := tracer.Start(
		ctx,
		fmt.Sprintf("skills.run_skill.%s", skill.Name()),
		trace.WithAttributes(kvs...),
	)
	defer span.End()

	if err := skill.ValidateInput(env, parameters); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return &skilltypes.BaseSkillResult{
			SkillName: skill.Name(),
			Result:    "Error: " + skilltypes.AsSkillError(err).Message,
			Err:       skilltypes.AsSkillError(err),
		}
	}

	result := skill.Execute(ctx, env, parameters)

	if result.IsError() {
		span.SetStatus(codes.Error, result.GetError())
		span.RecordError(errors.New(result.GetError()))
	} else {
		span.SetStatus(codes.Ok, "")
	}

	return result
}
