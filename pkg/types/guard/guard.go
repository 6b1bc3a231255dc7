// Package guard holds the threat-finding and risk-report types shared
// by the guard-agent skill and the result envelope.
package guard

// Severity levels a finding can carry.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Threat categories produced by the scanners.
const (
	ThreatSQLInjection      = "sql_injection"
	ThreatXSS               = "xss"
	ThreatCommandInjection  = "command_injection"
	ThreatPathTraversal     = "path_traversal"
	ThreatSensitiveData     = "sensitive_data"
	ThreatSocialEngineering = "social_engineering"
	ThreatPromptInjection   = "prompt_injection"
	ThreatMaliciousURL      = "malicious_url"
	ThreatSSRF              = "ssrf"
	ThreatSuspiciousURL     = "suspicious_url"
	ThreatHomographAttack   = "homograph_attack"
	ThreatHardcodedSecret   = "hardcoded_secret"
	ThreatWeakCredential    = "weak_credential"
	ThreatInsecureSetting   = "insecure_setting"
	ThreatOverlyPermissive  = "overly_permissive"
)

// Finding sources for prompt scanning.
const (
	SourceRegex = "regex"
	SourceLLM   = "llm"
)

// Analysis modes reported by scan_prompt.
const (
	ModeRegexOnly        = "regex_only"
	ModeRegexAndLLM      = "regex_and_llm"
	ModeRegexLLMFallback = "regex_with_llm_fallback"
)

// Location pinpoints where a finding was detected. Exactly one of the
// three shapes is populated: text span, URL, or config path.
type Location struct {
	Start int    `json:"start,omitempty"`
	End   int    `json:"end,omitempty"`
	Match string `json:"match,omitempty"`
	URL   string `json:"url,omitempty"`
	Path  string `json:"path,omitempty"`
	Key   string `json:"key,omitempty"`
	Value string `json:"value,omitempty"`
}

// Finding is a single detected threat. Immutable once created; the
// Match and Value fields are redacted before the finding is built.
type Finding struct {
	Threat      string    `json:"threat"`
	Severity    Severity  `json:"severity"`
	Description string    `json:"description"`
	Source      string    `json:"source,omitempty"`
	Location    *Location `json:"location,omitempty"`
}

// Risk levels derived from the aggregate score.
const (
	RiskNone     = "NONE"
	RiskLow      = "LOW"
	RiskMedium   = "MEDIUM"
	RiskHigh     = "HIGH"
	RiskCritical = "CRITICAL"
)

// RiskReport is the aggregate over a list of findings, recomputed
// fresh on every report call.
type RiskReport struct {
	ReportID       string             `json:"reportId"`
	RiskScore      int                `json:"riskScore"`
	RiskLevel      string             `json:"riskLevel"`
	TotalThreats   int                `json:"totalThreats"`
	SeverityCounts map[Severity]int   `json:"severityCounts"`
	ThreatsByType  map[string]int     `json:"threatsByType"`
	Findings       []Finding          `json:"findings"`
	Remediations   []string           `json:"remediations"`
}
