package guardagent

import (
	"os"
	"regexp"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	guardtypes "github.com/junohq/agentskills/pkg/types/guard"
)

// rulePackFile is the YAML shape of an external rule pack. Packs extend
// the built-in tables; they cannot remove or replace built-in rules.
type rulePackFile struct {
	TextRules   []rulePackRule `yaml:"text_rules"`
	PromptRules []rulePackRule `yaml:"prompt_rules"`
}

type rulePackRule struct {
	ID          string `yaml:"id"`
	Category    string `yaml:"category"`
	Severity    string `yaml:"severity"`
	Description string `yaml:"description"`
	Pattern     string `yaml:"pattern"`
	Redact      bool   `yaml:"redact"`
}

var validSeverities = map[guardtypes.Severity]bool{
	guardtypes.SeverityCritical: true,
	guardtypes.SeverityHigh:     true,
	guardtypes.SeverityMedium:   true,
	guardtypes.SeverityLow:      true,
}

// LoadRulePack parses a YAML rule pack from path and returns the
// compiled extra text and prompt rules. Invalid rules are reported
// together rather than failing on the first one.
func LoadRulePack(path string) (text, prompt []ThreatRule, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read rule pack")
	}

	var file rulePackFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, errors.Wrap(err, "failed to parse rule pack")
	}

	var result *multierror.Error

	compile := func(rules []rulePackRule, section string) []ThreatRule {
		var compiled []ThreatRule
		for _, r := range rules {
			rule, err := compilePackRule(r)
			if err != nil {
				result = multierror.Append(result, errors.Wrapf(err, "%s rule %q", section, r.ID))
				continue
			}
			compiled = append(compiled, rule)
		}
		return compiled
	}

	text = compile(file.TextRules, "text")
	prompt = compile(file.PromptRules, "prompt")

	if err := result.ErrorOrNil(); err != nil {
		return nil, nil, err
	}
	return text, prompt, nil
}

func compilePackRule(r rulePackRule) (ThreatRule, error) {
	if r.ID == "" {
		return ThreatRule{}, errors.New("id is required")
	}
	if r.Category == "" {
		return ThreatRule{}, errors.New("category is required")
	}
	if !validSeverities[guardtypes.Severity(r.Severity)] {
		return ThreatRule{}, errors.Errorf("invalid severity %q", r.Severity)
	}
	if r.Pattern == "" {
		return ThreatRule{}, errors.New("pattern is required")
	}

	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		return ThreatRule{}, errors.Wrap(err, "invalid pattern")
	}

	return ThreatRule{
		ID:          r.ID,
		Category:    r.Category,
		Severity:    guardtypes.Severity(r.Severity),
		Description: r.Description,
		Pattern:     re,
		Redact:      r.Redact,
	}, nil
}
