package guardagent

import (
	"regexp"

	guardtypes "github.com/junohq/agentskills/pkg/types/guard"
)

// ThreatRule is one entry in a scan table. Rules are compiled once at
// package init and are safe for concurrent use. Redact marks rules
// whose matched text must never appear verbatim in a finding.
type ThreatRule struct {
	ID          string
	Category    string
	Severity    guardtypes.Severity
	Description string
	Pattern     *regexp.Regexp
	Redact      bool
}

// textRules are evaluated by scan_text against the whole input. The
// first match per rule is recorded, not every occurrence.
var textRules = []ThreatRule{
	{
		ID:          "sqli-union-select",
		Category:    guardtypes.ThreatSQLInjection,
		Severity:    guardtypes.SeverityHigh,
		Description: "SQL keywords arranged as an injection payload",
		Pattern:     regexp.MustCompile(`(?i)(\bunion\b[\s\S]{0,40}\bselect\b|\bselect\b[\s\S]{0,80}\bfrom\b|\binsert\s+into\b|\bdrop\s+table\b|\bdelete\s+from\b|\bupdate\b[\s\S]{0,40}\bset\b)`),
	},
	{
		ID:          "sqli-tautology",
		Category:    guardtypes.ThreatSQLInjection,
		Severity:    guardtypes.SeverityHigh,
		Description: "SQL tautology or comment-based injection",
		Pattern:     regexp.MustCompile(`(?i)('\s*or\s*'?1'?\s*=\s*'?1|\bor\b\s+1\s*=\s*1|--\s|;\s*--|\bexec\s*\(|\bxp_cmdshell\b)`),
	},
	{
		ID:          "xss-script",
		Category:    guardtypes.ThreatXSS,
		Severity:    guardtypes.SeverityHigh,
		Description: "Script tag or inline JavaScript handler",
		Pattern:     regexp.MustCompile(`(?i)(<script\b|</script>|javascript\s*:|\bon(?:error|load|click|mouseover|focus)\s*=|<iframe\b|document\.cookie|eval\s*\()`),
	},
	{
		ID:          "cmd-injection",
		Category:    guardtypes.ThreatCommandInjection,
		Severity:    guardtypes.SeverityCritical,
		Description: "Shell metacharacters chained with system commands",
		Pattern:     regexp.MustCompile(`(?i)(;\s*(?:rm|cat|ls|wget|curl|bash|sh|nc|chmod)\b|\|\s*(?:sh|bash|nc)\b|&&\s*(?:rm|curl|wget|chmod)\b|\$\([^)]+\)|` + "`[^`]+`" + `)`),
	},
	{
		ID:          "path-traversal",
		Category:    guardtypes.ThreatPathTraversal,
		Severity:    guardtypes.SeverityHigh,
		Description: "Directory traversal sequence",
		Pattern:     regexp.MustCompile(`(?i)(\.\./|\.\.\\|%2e%2e%2f|%2e%2e/|\.\.%2f|%252e%252e)`),
	},
	{
		ID:          "sensitive-api-key",
		Category:    guardtypes.ThreatSensitiveData,
		Severity:    guardtypes.SeverityCritical,
		Description: "Credential or API key material in text",
		Pattern:     regexp.MustCompile(`(?i)(api[_-]?key|secret[_-]?key|access[_-]?token|auth[_-]?token|password|passwd)\s*[=:]\s*\S+|AKIA[0-9A-Z]{16}|gh[pousr]_[A-Za-z0-9]{36}|-----BEGIN (?:RSA |EC |OPENSSH )?PRIVATE KEY-----`),
		Redact:      true,
	},
	{
		ID:          "sensitive-pii",
		Category:    guardtypes.ThreatSensitiveData,
		Severity:    guardtypes.SeverityHigh,
		Description: "Personally identifiable number pattern",
		Pattern:     regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b|\b(?:\d{4}[ -]?){3}\d{4}\b`),
		Redact:      true,
	},
	{
		ID:          "social-urgency",
		Category:    guardtypes.ThreatSocialEngineering,
		Severity:    guardtypes.SeverityMedium,
		Description: "Urgency or account-threat language typical of phishing",
		Pattern:     regexp.MustCompile(`(?i)(urgent(?:ly)?\s+(?:action|verification|response)\s+(?:is\s+)?required|verify\s+your\s+(?:account|identity|password)|click\s+(?:here|this\s+link)\s+(?:now|immediately)|account\s+(?:will\s+be|has\s+been)\s+(?:suspended|locked|closed)|confirm\s+your\s+(?:password|credentials))`),
	},
	{
		ID:          "social-payment",
		Category:    guardtypes.ThreatSocialEngineering,
		Severity:    guardtypes.SeverityMedium,
		Description: "Unusual payment-channel request",
		Pattern:     regexp.MustCompile(`(?i)(wire\s+transfer\s+(?:now|immediately|today)|gift\s+cards?\b|western\s+union|pay\s+in\s+(?:bitcoin|crypto)\b)`),
	},
}

// promptRules are evaluated by scan_prompt phase 1.
var promptRules = []ThreatRule{
	{
		ID:          "pi-instruction-override",
		Category:    guardtypes.ThreatPromptInjection,
		Severity:    guardtypes.SeverityHigh,
		Description: "Instruction override attempt",
		Pattern:     regexp.MustCompile(`(?i)(ignore\s+(?:all\s+)?(?:previous|prior|above|earlier)\s+(?:instructions?|prompts?|rules?|directives?)|disregard\s+(?:your|all|any|previous)\s|forget\s+(?:everything|all|your)\s)`),
	},
	{
		ID:          "pi-role-hijack",
		Category:    guardtypes.ThreatPromptInjection,
		Severity:    guardtypes.SeverityHigh,
		Description: "Role hijack or persona override",
		Pattern:     regexp.MustCompile(`(?i)(you\s+are\s+now\s+(?:a|an|in)\b|act\s+as\s+(?:if|though)\b|pretend\s+(?:to\s+be|you\s+are)|from\s+now\s+on\s+you\b|developer\s+mode)`),
	},
	{
		ID:          "pi-prompt-extraction",
		Category:    guardtypes.ThreatPromptInjection,
		Severity:    guardtypes.SeverityMedium,
		Description: "System prompt extraction attempt",
		Pattern:     regexp.MustCompile(`(?i)((?:reveal|show|print|repeat|output|display)\s+(?:your|the)\s+(?:system\s+)?(?:prompt|instructions?)|what\s+(?:is|are)\s+your\s+(?:system\s+)?(?:prompt|instructions?))`),
	},
	{
		ID:          "pi-encoding-exfil",
		Category:    guardtypes.ThreatPromptInjection,
		Severity:    guardtypes.SeverityMedium,
		Description: "Encoding-based payload or exfiltration channel",
		Pattern:     regexp.MustCompile(`(?i)(base64\s*(?:decode|encode|payload)|\b[A-Za-z0-9+/]{60,}={0,2}\b|rot13|decode\s+the\s+following\s+hex)`),
	},
	{
		ID:          "pi-jailbreak-keyword",
		Category:    guardtypes.ThreatPromptInjection,
		Severity:    guardtypes.SeverityHigh,
		Description: "Known jailbreak keyword",
		Pattern:     regexp.MustCompile(`(?i)(\bDAN\b|do\s+anything\s+now|\bjailbr(?:eak|oken)\b|AIM\s+mode|opposite\s+day\s+mode)`),
	},
	{
		ID:          "pi-template-token",
		Category:    guardtypes.ThreatPromptInjection,
		Severity:    guardtypes.SeverityCritical,
		Description: "Chat-template control token injection",
		Pattern:     regexp.MustCompile(`(?i)(<\|im_start\|>|<\|im_end\|>|<\|system\|>|<\|assistant\|>|\[INST\]|\[/INST\]|<<SYS>>|</s>)`),
	},
}

// maliciousSchemes flag URI schemes that execute content instead of
// fetching it.
var maliciousSchemes = []ThreatRule{
	{
		ID:          "url-data-scheme",
		Category:    guardtypes.ThreatMaliciousURL,
		Severity:    guardtypes.SeverityHigh,
		Description: "data: URI can smuggle executable payloads",
		Pattern:     regexp.MustCompile(`(?i)^data:`),
	},
	{
		ID:          "url-javascript-scheme",
		Category:    guardtypes.ThreatMaliciousURL,
		Severity:    guardtypes.SeverityCritical,
		Description: "javascript: URI executes script on navigation",
		Pattern:     regexp.MustCompile(`(?i)^javascript:`),
	},
	{
		ID:          "url-vbscript-scheme",
		Category:    guardtypes.ThreatMaliciousURL,
		Severity:    guardtypes.SeverityCritical,
		Description: "vbscript: URI executes script on navigation",
		Pattern:     regexp.MustCompile(`(?i)^vbscript:`),
	},
}

// ssrfHostPatterns match hosts that resolve inside the private or
// metadata address space.
var ssrfHostPatterns = []ThreatRule{
	{
		ID:          "ssrf-loopback",
		Category:    guardtypes.ThreatSSRF,
		Severity:    guardtypes.SeverityHigh,
		Description: "Loopback address target",
		Pattern:     regexp.MustCompile(`(?i)^(localhost|127\.\d{1,3}\.\d{1,3}\.\d{1,3}|0\.0\.0\.0|\[?::1\]?)$`),
	},
	{
		ID:          "ssrf-private-range",
		Category:    guardtypes.ThreatSSRF,
		Severity:    guardtypes.SeverityHigh,
		Description: "RFC1918 private-range target",
		Pattern:     regexp.MustCompile(`^(10\.\d{1,3}\.\d{1,3}\.\d{1,3}|172\.(?:1[6-9]|2\d|3[01])\.\d{1,3}\.\d{1,3}|192\.168\.\d{1,3}\.\d{1,3})$`),
	},
	{
		ID:          "ssrf-link-local",
		Category:    guardtypes.ThreatSSRF,
		Severity:    guardtypes.SeverityCritical,
		Description: "Link-local / cloud-metadata range target",
		Pattern:     regexp.MustCompile(`^169\.254\.\d{1,3}\.\d{1,3}$`),
	},
}

// bareIPPattern is the weaker "numeric host" heuristic, suppressed when
// an SSRF rule already fired for the same URL.
var bareIPPattern = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}$`)

// secretKeyPattern matches config keys that typically hold credentials.
var secretKeyPattern = regexp.MustCompile(`(?i)(password|passwd|pwd|secret|token|api[_-]?key|private[_-]?key|credential|auth)`)

// weakValuePattern matches well-known default or dictionary passwords.
var weakValuePattern = regexp.MustCompile(`(?i)^(password|passw0rd|pass|123456|12345678|123456789|admin|root|qwerty|letmein|changeme|default|welcome|test|abc123|secret)[0-9!]{0,4}$`)

// insecureSetting pairs a key pattern with the literal values that make
// the setting dangerous.
type insecureSetting struct {
	ID          string
	KeyPattern  *regexp.Regexp
	BadValues   []any
	Description string
}

var insecureSettings = []insecureSetting{
	{
		ID:          "cfg-debug-enabled",
		KeyPattern:  regexp.MustCompile(`(?i)^debug(_mode)?$`),
		BadValues:   []any{true, "true", "1", 1, "yes", "on"},
		Description: "Debug mode enabled",
	},
	{
		ID:          "cfg-ssl-disabled",
		KeyPattern:  regexp.MustCompile(`(?i)^(ssl|tls|https?)[_-]?(enabled|required)?$`),
		BadValues:   []any{false, "false", "0", 0, "no", "off", "disabled"},
		Description: "Transport encryption disabled",
	},
	{
		ID:          "cfg-cert-verify-disabled",
		KeyPattern:  regexp.MustCompile(`(?i)(verify[_-]?(ssl|tls|certs?|certificates?)|(ssl|tls|certs?)[_-]?verif(y|ication))`),
		BadValues:   []any{false, "false", "0", 0, "no", "none"},
		Description: "Certificate verification disabled",
	},
}

// permissiveSetting pairs a key pattern with wildcard-like values that
// grant overly broad access.
type permissiveSetting struct {
	ID          string
	KeyPattern  *regexp.Regexp
	BadValues   []string
	Description string
}

var permissiveSettings = []permissiveSetting{
	{
		ID:          "cfg-cors-wildcard",
		KeyPattern:  regexp.MustCompile(`(?i)(cors|origins?|access[_-]?control[_-]?allow)`),
		BadValues:   []string{"*", "null"},
		Description: "CORS allows any origin",
	},
	{
		ID:          "cfg-hosts-wildcard",
		KeyPattern:  regexp.MustCompile(`(?i)(allowed[_-]?hosts?|bind|listen)`),
		BadValues:   []string{"*", "0.0.0.0", "0.0.0.0/0", "::"},
		Description: "Service bound or open to all hosts",
	},
	{
		ID:          "cfg-permissions-wildcard",
		KeyPattern:  regexp.MustCompile(`(?i)(permissions?|privileges?|grants?|scopes?)`),
		BadValues:   []string{"*", "all", "admin", "root", "777"},
		Description: "Wildcard permission grant",
	},
}

// remediations maps a threat category to its advisory string. The
// report deduplicates by category presence.
var remediations = map[string]string{
	guardtypes.ThreatSQLInjection:      "Use parameterized queries or an ORM; never interpolate user input into SQL.",
	guardtypes.ThreatXSS:               "Encode output for its HTML context and sanitize rich-text input with an allowlist.",
	guardtypes.ThreatCommandInjection:  "Avoid shelling out with user input; use exec with argument arrays and strict allowlists.",
	guardtypes.ThreatPathTraversal:     "Canonicalize paths and reject any resolved path outside the allowed root.",
	guardtypes.ThreatSensitiveData:     "Remove credentials from text and rotate any exposed keys immediately.",
	guardtypes.ThreatSocialEngineering: "Treat urgency and payment-channel requests as phishing indicators; verify out of band.",
	guardtypes.ThreatPromptInjection:   "Isolate untrusted content from instructions and strip template control tokens before inference.",
	guardtypes.ThreatMaliciousURL:      "Block non-http(s) URI schemes before fetching or rendering links.",
	guardtypes.ThreatSSRF:              "Resolve and validate target hosts against a denylist of internal ranges before fetching.",
	guardtypes.ThreatSuspiciousURL:     "Prefer named hosts over raw IP literals; verify the destination before following.",
	guardtypes.ThreatHomographAttack:   "Display punycode for mixed-script domains and verify the registrable domain.",
	guardtypes.ThreatHardcodedSecret:   "Move secrets into a secret manager or environment variables and rotate the exposed values.",
	guardtypes.ThreatWeakCredential:    "Replace default or dictionary passwords with generated high-entropy credentials.",
	guardtypes.ThreatInsecureSetting:   "Re-enable TLS, certificate verification, and disable debug mode outside development.",
	guardtypes.ThreatOverlyPermissive:  "Replace wildcard origins, hosts, and permissions with explicit allowlists.",
}
