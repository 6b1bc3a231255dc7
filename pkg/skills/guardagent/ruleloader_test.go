package guardagent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	guardtypes "github.com/junohq/agentskills/pkg/types/guard"
)

func writeRulePack(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadRulePack(t *testing.T) {
	path := writeRulePack(t, `
text_rules:
  - id: custom-ssn
    category: sensitive_data
    severity: high
    description: National insurance number
    pattern: '[A-Z]{2}\d{6}[A-Z]'
    redact: true
prompt_rules:
  - id: custom-jailbreak
    category: prompt_injection
    severity: critical
    description: Known local jailbreak phrase
    pattern: '(?i)grandma exploit'
`)

	text, prompt, err := LoadRulePack(path)
	require.NoError(t, err)
	require.Len(t, text, 1)
	require.Len(t, prompt, 1)

	assert.Equal(t, "custom-ssn", text[0].ID)
	assert.True(t, text[0].Redact)
	assert.Equal(t, guardtypes.SeverityHigh, text[0].Severity)
	assert.True(t, prompt[0].Pattern.MatchString("the Grandma Exploit trick"))
}

func TestLoadRulePackAggregatesErrors(t *testing.T) {
	path := writeRulePack(t, `
text_rules:
  - id: missing-pattern
    category: xss
    severity: high
  - id: bad-severity
    category: xss
    severity: extreme
    pattern: 'x'
  - id: bad-regex
    category: xss
    severity: low
    pattern: '['
`)

	_, _, err := LoadRulePack(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing-pattern")
	assert.Contains(t, err.Error(), "bad-severity")
	assert.Contains(t, err.Error(), "bad-regex")
}

func TestLoadRulePackMissingFile(t *testing.T) {
	_, _, err := LoadRulePack(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read rule pack")
}
