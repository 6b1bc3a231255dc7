package guardagent

import (
	"fmt"
	"sort"
	"strings"

	"github.com/junohq/agentskills/pkg/redact"
	guardtypes "github.com/junohq/agentskills/pkg/types/guard"
)

// scanText evaluates the text rule tables against input. Each rule
// records at most its first match; an empty result is a successful
// "no threats found".
func (s *GuardAgentSkill) scanText(input string) []guardtypes.Finding {
	var findings []guardtypes.Finding
	for _, rule := range s.textRules {
		loc := rule.Pattern.FindStringIndex(input)
		if loc == nil {
			continue
		}
		match := input[loc[0]:loc[1]]
		if rule.Redact {
			match = redact.Value(match)
		} else {
			match = redact.Redact(match)
		}
		findings = append(findings, guardtypes.Finding{
			Threat:      rule.Category,
			Severity:    rule.Severity,
			Description: rule.Description,
			Location: &guardtypes.Location{
				Start: loc[0],
				End:   loc[1],
				Match: match,
			},
		})
	}
	return findings
}

// extractDomain strips the scheme, path, and port from a URL.
func extractDomain(url string) string {
	domain := url
	for _, prefix := range []string{"https://", "http://"} {
		if strings.HasPrefix(strings.ToLower(domain), prefix) {
			domain = domain[len(prefix):]
			break
		}
	}
	if i := strings.Index(domain, "/"); i >= 0 {
		domain = domain[:i]
	}
	if strings.HasPrefix(domain, "[") {
		// Keep bracketed IPv6 hosts intact.
		if i := strings.Index(domain, "]"); i >= 0 {
			return domain[:i+1]
		}
	}
	if i := strings.Index(domain, ":"); i >= 0 {
		domain = domain[:i]
	}
	return domain
}

// confusableRanges lists non-Latin letters commonly used to spoof Latin
// domains (Cyrillic and Greek homoglyphs).
var confusableRunes = map[rune]bool{
	'а': true, 'е': true, 'о': true, 'р': true, 'с': true, 'х': true,
	'у': true, 'і': true, 'ѕ': true, 'ԁ': true, 'ɡ': true, 'ⅼ': true,
	'α': true, 'ο': true, 'ν': true, 'τ': true, 'ρ': true, 'κ': true,
}

func hasConfusableRunes(domain string) bool {
	hasLatin := false
	hasConfusable := false
	for _, r := range domain {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			hasLatin = true
		}
		if confusableRunes[r] {
			hasConfusable = true
		}
	}
	// Pure non-Latin domains are legitimate IDNs; only the mixed-script
	// case is a homograph signal.
	return hasConfusable && hasLatin
}

// scanURL runs the local-only URL checks: scheme table, SSRF targets,
// bare-IP heuristic, and the confusable-domain homograph check.
func (s *GuardAgentSkill) scanURL(url string) ([]guardtypes.Finding, string) {
	var findings []guardtypes.Finding
	trimmed := strings.TrimSpace(url)

	for _, rule := range maliciousSchemes {
		if rule.Pattern.MatchString(trimmed) {
			findings = append(findings, guardtypes.Finding{
				Threat:      rule.Category,
				Severity:    rule.Severity,
				Description: rule.Description,
				Location:    &guardtypes.Location{URL: redact.Redact(trimmed)},
			})
		}
	}

	domain := extractDomain(trimmed)

	ssrfFlagged := false
	for _, rule := range ssrfHostPatterns {
		if rule.Pattern.MatchString(domain) {
			ssrfFlagged = true
			findings = append(findings, guardtypes.Finding{
				Threat:      rule.Category,
				Severity:    rule.Severity,
				Description: rule.Description,
				Location:    &guardtypes.Location{URL: redact.Redact(trimmed)},
			})
		}
	}

	// The bare-IP heuristic would double count every SSRF hit, so it
	// only fires when no SSRF rule matched.
	if !ssrfFlagged && bareIPPattern.MatchString(domain) {
		findings = append(findings, guardtypes.Finding{
			Threat:      guardtypes.ThreatSuspiciousURL,
			Severity:    guardtypes.SeverityMedium,
			Description: "URL uses a raw IP address instead of a hostname",
			Location:    &guardtypes.Location{URL: redact.Redact(trimmed)},
		})
	}

	if hasConfusableRunes(domain) {
		findings = append(findings, guardtypes.Finding{
			Threat:      guardtypes.ThreatHomographAttack,
			Severity:    guardtypes.SeverityHigh,
			Description: "Domain mixes Latin letters with lookalike characters from another script",
			Location:    &guardtypes.Location{URL: redact.Redact(trimmed)},
		})
	}

	return findings, domain
}

// scanConfig walks a nested configuration object. Nested maps are
// recursed into; arrays are leaf values checked only for wildcard
// membership. Returns the findings and the number of keys visited.
func (s *GuardAgentSkill) scanConfig(config map[string]any) ([]guardtypes.Finding, int) {
	var findings []guardtypes.Finding
	keys := 0
	s.walkConfig(config, "", &findings, &keys)
	return findings, keys
}

func (s *GuardAgentSkill) walkConfig(node map[string]any, path string, findings *[]guardtypes.Finding, keys *int) {
	// Deterministic order keeps report output stable.
	names := make([]string, 0, len(node))
	for k := range node {
		names = append(names, k)
	}
	sort.Strings(names)

	for _, key := range names {
		value := node[key]
		*keys++
		keyPath := key
		if path != "" {
			keyPath = path + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			s.walkConfig(nested, keyPath, findings, keys)
			continue
		}

		if str, ok := value.(string); ok && str != "" && secretKeyPattern.MatchString(key) {
			*findings = append(*findings, guardtypes.Finding{
				Threat:      guardtypes.ThreatHardcodedSecret,
				Severity:    guardtypes.SeverityCritical,
				Description: fmt.Sprintf("Hardcoded secret in config key %q", keyPath),
				Location:    &guardtypes.Location{Path: keyPath, Key: key, Value: redact.Value(str)},
			})
			if weakValuePattern.MatchString(str) {
				*findings = append(*findings, guardtypes.Finding{
					Threat:      guardtypes.ThreatWeakCredential,
					Severity:    guardtypes.SeverityHigh,
					Description: fmt.Sprintf("Weak or default credential in config key %q", keyPath),
					Location:    &guardtypes.Location{Path: keyPath, Key: key, Value: redact.Value(str)},
				})
			}
		}

		for _, setting := range insecureSettings {
			if setting.KeyPattern.MatchString(key) && matchesBadValue(value, setting.BadValues) {
				*findings = append(*findings, guardtypes.Finding{
					Threat:      guardtypes.ThreatInsecureSetting,
					Severity:    guardtypes.SeverityHigh,
					Description: fmt.Sprintf("%s at config key %q", setting.Description, keyPath),
					Location:    &guardtypes.Location{Path: keyPath, Key: key, Value: fmt.Sprintf("%v", value)},
				})
			}
		}

		for _, setting := range permissiveSettings {
			if setting.KeyPattern.MatchString(key) && matchesWildcard(value, setting.BadValues) {
				*findings = append(*findings, guardtypes.Finding{
					Threat:      guardtypes.ThreatOverlyPermissive,
					Severity:    guardtypes.SeverityMedium,
					Description: fmt.Sprintf("%s at config key %q", setting.Description, keyPath),
					Location:    &guardtypes.Location{Path: keyPath, Key: key, Value: fmt.Sprintf("%v", value)},
				})
			}
		}
	}
}

func matchesBadValue(value any, bad []any) bool {
	for _, b := range bad {
		if fmt.Sprintf("%v", value) == fmt.Sprintf("%v", b) {
			return true
		}
	}
	return false
}

// matchesWildcard checks a scalar value, or each element of an array
// value, against the wildcard literals.
func matchesWildcard(value any, bad []string) bool {
	check := func(v any) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		for _, b := range bad {
			if strings.EqualFold(strings.TrimSpace(s), b) {
				return true
			}
		}
		return false
	}

	if arr, ok := value.([]any); ok {
		for _, item := range arr {
			if check(item) {
				return true
			}
		}
		return false
	}
	return check(value)
}
