// Package guardagent implements the security scanning skill: pattern
// based text/prompt/url/config scanners, an optional LLM deep-analysis
// pass, and an aggregated risk report.
package guardagent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	guardtypes "github.com/junohq/agentskills/pkg/types/guard"
	"github.com/junohq/agentskills/pkg/types/skills"
)

const SkillName = "guard_agent"

// Guard-agent actions.
const (
	ActionScanText   = "scan_text"
	ActionScanPrompt = "scan_prompt"
	ActionScanURL    = "scan_url"
	ActionScanConfig = "scan_config"
	ActionReport     = "report"
)

// GuardAgentSkill scans untrusted inputs for security threats. The
// rule tables are fixed at construction; WithExtraRules extends them.
type GuardAgentSkill struct {
	textRules   []ThreatRule
	promptRules []ThreatRule
}

var _ skills.Skill = &GuardAgentSkill{}

// Option customizes a GuardAgentSkill at construction time.
type Option func(*GuardAgentSkill)

// WithExtraRules appends rule-pack rules to the built-in tables.
func WithExtraRules(text, prompt []ThreatRule) Option {
	return func(s *GuardAgentSkill) {
		s.textRules = append(s.textRules, text...)
		s.promptRules = append(s.promptRules, prompt...)
	}
}

// NewSkill builds a guard-agent skill with the built-in rule tables.
func NewSkill(opts ...Option) *GuardAgentSkill {
	s := &GuardAgentSkill{
		textRules:   textRules,
		promptRules: promptRules,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReportInputs selects which scanners a report call runs.
type ReportInputs struct {
	Text   string         `json:"text,omitempty" jsonschema:"description=Free text to scan"`
	Prompt string         `json:"prompt,omitempty" jsonschema:"description=Prompt text to scan for injection"`
	URL    string         `json:"url,omitempty" jsonschema:"description=URL to scan"`
	Config map[string]any `json:"config,omitempty" jsonschema:"description=Configuration object to scan"`
}

func (r ReportInputs) empty() bool {
	return r.Text == "" && r.Prompt == "" && r.URL == "" && r.Config == nil
}

// GuardAgentInput is the parameter shape for every guard-agent action.
// Top-level text/prompt/url/config with no action is shorthand for a
// report over those inputs.
type GuardAgentInput struct {
	Action       string         `json:"action,omitempty" jsonschema:"description=One of scan_text | scan_prompt | scan_url | scan_config | report,enum=scan_text,enum=scan_prompt,enum=scan_url,enum=scan_config,enum=report"`
	Text         string         `json:"text,omitempty" jsonschema:"description=Text to scan (scan_text or report shorthand)"`
	Prompt       string         `json:"prompt,omitempty" jsonschema:"description=Prompt to scan (scan_prompt or report shorthand)"`
	URL          string         `json:"url,omitempty" jsonschema:"description=URL to scan (scan_url or report shorthand)"`
	Config       map[string]any `json:"config,omitempty" jsonschema:"description=Configuration object to scan (scan_config or report shorthand)"`
	DeepAnalysis *bool          `json:"deep_analysis,omitempty" jsonschema:"description=Enable the LLM deep-analysis pass for scan_prompt (default true)"`
	Inputs       *ReportInputs  `json:"inputs,omitempty" jsonschema:"description=Inputs for the report action"`
}

func (s *GuardAgentSkill) Name() string { return SkillName }

func (s *GuardAgentSkill) Description() string {
	return `Scan untrusted text, prompts, URLs, and configuration objects for security threats.

## Actions
- "scan_text": pattern scan for SQL injection, XSS, command injection, path traversal, leaked secrets, and social engineering
- "scan_prompt": prompt-injection scan; adds an LLM deep-analysis pass when a model client is configured
- "scan_url": malicious scheme, SSRF target, raw-IP, and homograph checks
- "scan_config": hardcoded secrets, weak credentials, insecure and overly permissive settings
- "report": run any combination of the scanners and aggregate the findings into a scored risk report

Providing "text", "prompt", "url", or "config" without an action produces a report over those inputs.

Sensitive matches are redacted before they appear in results. An empty findings list is a successful scan.`
}

func (s *GuardAgentSkill) GenerateSchema() *jsonschema.Schema {
	return skills.GenerateSchema[GuardAgentInput]()
}

func (s *GuardAgentSkill) TracingKVs(parameters string) ([]attribute.KeyValue, error) {
	input := &GuardAgentInput{}
	if err := json.Unmarshal([]byte(parameters), input); err != nil {
		return nil, err
	}
	return []attribute.KeyValue{
		attribute.String("skill", SkillName),
		attribute.String("action", resolveAction(input)),
	}, nil
}

// resolveAction applies the report shorthand: no action plus any
// top-level input means report.
func resolveAction(input *GuardAgentInput) string {
	if input.Action != "" {
		return input.Action
	}
	if input.Text != "" || input.Prompt != "" || input.URL != "" || input.Config != nil || input.Inputs != nil {
		return ActionReport
	}
	return ""
}

func (s *GuardAgentSkill) ValidateInput(env skills.Environment, parameters string) error {
	input := &GuardAgentInput{}
	if err := json.Unmarshal([]byte(parameters), input); err != nil {
		return errors.Wrap(err, "invalid input")
	}

	switch resolveAction(input) {
	case ActionScanText:
		if input.Text == "" {
			return skills.NewSkillError(skills.CodeMissingInput, "text is required for scan_text", false)
		}
	case ActionScanPrompt:
		if input.Prompt == "" {
			return skills.NewSkillError(skills.CodeMissingInput, "prompt is required for scan_prompt", false)
		}
	case ActionScanURL:
		if input.URL == "" {
			return skills.NewSkillError(skills.CodeMissingInput, "url is required for scan_url", false)
		}
	case ActionScanConfig:
		if input.Config == nil {
			return skills.NewSkillError(skills.CodeMissingInput, "config is required for scan_config", false)
		}
	case ActionReport:
		if reportInputs(input).empty() {
			return skills.NewSkillError(skills.CodeMissingInput, "report requires at least one of text, prompt, url, or config", false)
		}
	case "":
		return skills.NewSkillError(skills.CodeMissingInput, "no action and no inputs provided", false)
	default:
		return skills.NewSkillError(skills.CodeInvalidAction, fmt.Sprintf("unknown action %q", input.Action), false)
	}
	return nil
}

// reportInputs merges the explicit inputs object with the top-level
// shorthand fields.
func reportInputs(input *GuardAgentInput) ReportInputs {
	inputs := ReportInputs{}
	if input.Inputs != nil {
		inputs = *input.Inputs
	}
	if inputs.Text == "" {
		inputs.Text = input.Text
	}
	if inputs.Prompt == "" {
		inputs.Prompt = input.Prompt
	}
	if inputs.URL == "" {
		inputs.URL = input.URL
	}
	if inputs.Config == nil {
		inputs.Config = input.Config
	}
	return inputs
}

func (s *GuardAgentSkill) Execute(ctx context.Context, env skills.Environment, parameters string) skills.SkillResult {
	input := &GuardAgentInput{}
	if err := json.Unmarshal([]byte(parameters), input); err != nil {
		serr := skills.NewSkillError(skills.CodeInvalidInput, "invalid input: "+err.Error(), false)
		return &skills.BaseSkillResult{
			SkillName: SkillName,
			Result:    "Error: " + serr.Message,
			Err:       serr,
		}
	}

	deepAnalysis := true
	if input.DeepAnalysis != nil {
		deepAnalysis = *input.DeepAnalysis
	}

	switch resolveAction(input) {
	case ActionScanText:
		return s.executeScanText(input.Text)
	case ActionScanPrompt:
		return s.executeScanPrompt(ctx, env, input.Prompt, deepAnalysis)
	case ActionScanURL:
		return s.executeScanURL(input.URL)
	case ActionScanConfig:
		return s.executeScanConfig(input.Config)
	case ActionReport:
		return s.executeReport(ctx, env, reportInputs(input), deepAnalysis)
	default:
		serr := skills.NewSkillError(skills.CodeInvalidAction, fmt.Sprintf("unknown action %q", input.Action), false)
		return &skills.BaseSkillResult{
			SkillName: SkillName,
			Action:    input.Action,
			Result:    "Error: " + serr.Message,
			Err:       serr,
		}
	}
}

func (s *GuardAgentSkill) executeScanText(text string) skills.SkillResult {
	findings := s.scanText(text)
	return &ScanTextResult{textLength: len(text), findings: findings}
}

func (s *GuardAgentSkill) executeScanPrompt(ctx context.Context, env skills.Environment, prompt string, deepAnalysis bool) skills.SkillResult {
	findings, mode := s.scanPrompt(ctx, env, prompt, deepAnalysis)
	return &ScanPromptResult{analysisMode: mode, findings: findings}
}

func (s *GuardAgentSkill) executeScanURL(url string) skills.SkillResult {
	findings, domain := s.scanURL(url)
	return &ScanURLResult{url: url, domain: domain, findings: findings}
}

func (s *GuardAgentSkill) executeScanConfig(config map[string]any) skills.SkillResult {
	findings, keys := s.scanConfig(config)
	return &ScanConfigResult{keysScanned: keys, findings: findings}
}

func (s *GuardAgentSkill) executeReport(ctx context.Context, env skills.Environment, inputs ReportInputs, deepAnalysis bool) skills.SkillResult {
	var findings []guardtypes.Finding
	var scanned []string
	mode := ""

	if inputs.Text != "" {
		findings = append(findings, s.scanText(inputs.Text)...)
		scanned = append(scanned, "text")
	}
	if inputs.Prompt != "" {
		promptFindings, promptMode := s.scanPrompt(ctx, env, inputs.Prompt, deepAnalysis)
		findings = append(findings, promptFindings...)
		scanned = append(scanned, "prompt")
		mode = promptMode
	}
	if inputs.URL != "" {
		urlFindings, _ := s.scanURL(inputs.URL)
		findings = append(findings, urlFindings...)
		scanned = append(scanned, "url")
	}
	if inputs.Config != nil {
		configFindings, _ := s.scanConfig(inputs.Config)
		findings = append(findings, configFindings...)
		scanned = append(scanned, "config")
	}

	return &GuardReportResult{
		report:        buildReport(findings),
		inputsScanned: scanned,
		analysisMode:  mode,
	}
}

// renderFindings is the shared assistant-facing summary for the four
// single-scanner actions.
func renderFindings(header string, findings []guardtypes.Finding) string {
	var sb strings.Builder
	sb.WriteString(header)
	if len(findings) == 0 {
		sb.WriteString("\nNo threats detected.")
		return sb.String()
	}
	fmt.Fprintf(&sb, "\n%d threat(s) detected:\n", len(findings))
	for i, f := range findings {
		fmt.Fprintf(&sb, "%d. [%s] %s: %s\n", i+1, f.Severity, f.Threat, f.Description)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// ScanTextResult is the outcome of a scan_text action.
type ScanTextResult struct {
	textLength int
	findings   []guardtypes.Finding
}

var _ skills.SkillResult = &ScanTextResult{}

func (r *ScanTextResult) GetResult() string {
	return renderFindings(fmt.Sprintf("Scanned %d characters of text.", r.textLength), r.findings)
}
func (r *ScanTextResult) GetError() string { return "" }
func (r *ScanTextResult) IsError() bool    { return false }
func (r *ScanTextResult) AssistantFacing() string {
	return skills.StringifySkillResult(r.GetResult(), "")
}
func (r *ScanTextResult) StructuredData() skills.StructuredSkillResult {
	result := skills.NewStructuredResult(SkillName, ActionScanText, nil)
	result.Metadata = skills.ScanTextMetadata{
		TextLength:  r.textLength,
		Findings:    r.findings,
		ThreatCount: len(r.findings),
	}
	return result
}

// ScanPromptResult is the outcome of a scan_prompt action.
type ScanPromptResult struct {
	analysisMode string
	findings     []guardtypes.Finding
}

var _ skills.SkillResult = &ScanPromptResult{}

func (r *ScanPromptResult) GetResult() string {
	return renderFindings(fmt.Sprintf("Prompt scan complete (analysis mode: %s).", r.analysisMode), r.findings)
}
func (r *ScanPromptResult) GetError() string { return "" }
func (r *ScanPromptResult) IsError() bool    { return false }
func (r *ScanPromptResult) AssistantFacing() string {
	return skills.StringifySkillResult(r.GetResult(), "")
}
func (r *ScanPromptResult) StructuredData() skills.StructuredSkillResult {
	result := skills.NewStructuredResult(SkillName, ActionScanPrompt, nil)
	result.Metadata = skills.ScanPromptMetadata{
		AnalysisMode: r.analysisMode,
		Findings:     r.findings,
		ThreatCount:  len(r.findings),
	}
	return result
}

// ScanURLResult is the outcome of a scan_url action.
type ScanURLResult struct {
	url      string
	domain   string
	findings []guardtypes.Finding
}

var _ skills.SkillResult = &ScanURLResult{}

func (r *ScanURLResult) GetResult() string {
	return renderFindings(fmt.Sprintf("Scanned URL (domain: %s).", r.domain), r.findings)
}
func (r *ScanURLResult) GetError() string { return "" }
func (r *ScanURLResult) IsError() bool    { return false }
func (r *ScanURLResult) AssistantFacing() string {
	return skills.StringifySkillResult(r.GetResult(), "")
}
func (r *ScanURLResult) StructuredData() skills.StructuredSkillResult {
	result := skills.NewStructuredResult(SkillName, ActionScanURL, nil)
	result.Metadata = skills.ScanURLMetadata{
		URL:         r.url,
		Domain:      r.domain,
		Findings:    r.findings,
		ThreatCount: len(r.findings),
	}
	return result
}

// ScanConfigResult is the outcome of a scan_config action.
type ScanConfigResult struct {
	keysScanned int
	findings    []guardtypes.Finding
}

var _ skills.SkillResult = &ScanConfigResult{}

func (r *ScanConfigResult) GetResult() string {
	return renderFindings(fmt.Sprintf("Scanned %d configuration keys.", r.keysScanned), r.findings)
}
func (r *ScanConfigResult) GetError() string { return "" }
func (r *ScanConfigResult) IsError() bool    { return false }
func (r *ScanConfigResult) AssistantFacing() string {
	return skills.StringifySkillResult(r.GetResult(), "")
}
func (r *ScanConfigResult) StructuredData() skills.StructuredSkillResult {
	result := skills.NewStructuredResult(SkillName, ActionScanConfig, nil)
	result.Metadata = skills.ScanConfigMetadata{
		KeysScanned: r.keysScanned,
		Findings:    r.findings,
		ThreatCount: len(r.findings),
	}
	return result
}

// GuardReportResult is the outcome of a report action.
type GuardReportResult struct {
	report        guardtypes.RiskReport
	inputsScanned []string
	analysisMode  string
}

var _ skills.SkillResult = &GuardReportResult{}

func (r *GuardReportResult) GetResult() string { return renderReport(r.report) }
func (r *GuardReportResult) GetError() string  { return "" }
func (r *GuardReportResult) IsError() bool     { return false }
func (r *GuardReportResult) AssistantFacing() string {
	return skills.StringifySkillResult(r.GetResult(), "")
}
func (r *GuardReportResult) StructuredData() skills.StructuredSkillResult {
	result := skills.NewStructuredResult(SkillName, ActionReport, nil)
	result.Metadata = skills.GuardReportMetadata{
		Report:        r.report,
		InputsScanned: r.inputsScanned,
		AnalysisMode:  r.analysisMode,
	}
	return result
}
