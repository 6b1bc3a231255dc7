package guardagent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	guardtypes "github.com/junohq/agentskills/pkg/types/guard"
)

func findingCategories(findings []guardtypes.Finding) []string {
	categories := make([]string, 0, len(findings))
	for _, f := range findings {
		categories = append(categories, f.Threat)
	}
	return categories
}

func TestScanTextDetectsThreats(t *testing.T) {
	skill := NewSkill()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sql injection select",
			input:    "SELECT * FROM users WHERE 1=1",
			expected: guardtypes.ThreatSQLInjection,
		},
		{
			name:     "sql tautology",
			input:    "admin' OR '1'='1",
			expected: guardtypes.ThreatSQLInjection,
		},
		{
			name:     "xss script tag",
			input:    "<script>alert(document.cookie)</script>",
			expected: guardtypes.ThreatXSS,
		},
		{
			name:     "command injection",
			input:    "file.txt; rm -rf /",
			expected: guardtypes.ThreatCommandInjection,
		},
		{
			name:     "path traversal",
			input:    "../../etc/passwd",
			expected: guardtypes.ThreatPathTraversal,
		},
		{
			name:     "phishing urgency",
			input:    "Please verify your account immediately or it will be closed",
			expected: guardtypes.ThreatSocialEngineering,
		},
		{
			name:     "gift card request",
			input:    "The CEO needs you to buy gift cards right away",
			expected: guardtypes.ThreatSocialEngineering,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := skill.scanText(tt.input)
			require.NotEmpty(t, findings)
			assert.Contains(t, findingCategories(findings), tt.expected)
		})
	}
}

func TestScanTextCleanInput(t *testing.T) {
	skill := NewSkill()
	findings := skill.scanText("This is a perfectly safe sentence.")
	assert.Empty(t, findings)
}

func TestScanTextRedactsSensitiveMatches(t *testing.T) {
	skill := NewSkill()
	findings := skill.scanText("config has api_key=sk-abcdef1234567890abcdef inside")

	require.Len(t, findings, 1)
	assert.Equal(t, guardtypes.ThreatSensitiveData, findings[0].Threat)
	require.NotNil(t, findings[0].Location)
	assert.Equal(t, "[REDACTED]", findings[0].Location.Match)
	assert.Greater(t, findings[0].Location.End, findings[0].Location.Start)
}

func TestScanTextFirstMatchPerRule(t *testing.T) {
	skill := NewSkill()
	findings := skill.scanText("DROP TABLE a; DROP TABLE b; DROP TABLE c")

	count := 0
	for _, f := range findings {
		if f.Threat == guardtypes.ThreatSQLInjection {
			count++
		}
	}
	// Two SQL rules exist; each records at most one finding.
	assert.LessOrEqual(t, count, 2)
	assert.GreaterOrEqual(t, count, 1)
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://example.com", "example.com"},
		{"http://example.com/path/to/page", "example.com"},
		{"https://example.com:8443/admin", "example.com"},
		{"example.com/no-scheme", "example.com"},
		{"https://127.0.0.1:8080/internal", "127.0.0.1"},
		{"http://[::1]/admin", "[::1]"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractDomain(tt.url))
		})
	}
}

func TestScanURL(t *testing.T) {
	skill := NewSkill()

	t.Run("malicious scheme", func(t *testing.T) {
		findings, _ := skill.scanURL("javascript:alert(1)")
		require.NotEmpty(t, findings)
		assert.Contains(t, findingCategories(findings), guardtypes.ThreatMaliciousURL)
	})

	t.Run("metadata endpoint is ssrf not suspicious", func(t *testing.T) {
		findings, domain := skill.scanURL("http://169.254.169.254/latest/meta-data/")
		assert.Equal(t, "169.254.169.254", domain)
		categories := findingCategories(findings)
		assert.Contains(t, categories, guardtypes.ThreatSSRF)
		assert.NotContains(t, categories, guardtypes.ThreatSuspiciousURL)
	})

	t.Run("loopback", func(t *testing.T) {
		findings, _ := skill.scanURL("http://localhost:8080/admin")
		assert.Contains(t, findingCategories(findings), guardtypes.ThreatSSRF)
	})

	t.Run("private range", func(t *testing.T) {
		findings, _ := skill.scanURL("http://192.168.1.10/router")
		assert.Contains(t, findingCategories(findings), guardtypes.ThreatSSRF)
	})

	t.Run("public bare ip is suspicious only", func(t *testing.T) {
		findings, _ := skill.scanURL("http://8.8.8.8/download")
		categories := findingCategories(findings)
		assert.Contains(t, categories, guardtypes.ThreatSuspiciousURL)
		assert.NotContains(t, categories, guardtypes.ThreatSSRF)
	})

	t.Run("mixed script homograph", func(t *testing.T) {
		findings, _ := skill.scanURL("https://аpple.com/login")
		assert.Contains(t, findingCategories(findings), guardtypes.ThreatHomographAttack)
	})

	t.Run("clean url", func(t *testing.T) {
		findings, domain := skill.scanURL("https://example.com/docs")
		assert.Empty(t, findings)
		assert.Equal(t, "example.com", domain)
	})
}

func TestScanConfig(t *testing.T) {
	skill := NewSkill()

	t.Run("hardcoded secret with weak credential", func(t *testing.T) {
		findings, keys := skill.scanConfig(map[string]any{
			"database": map[string]any{
				"host":     "db.internal",
				"password": "password",
			},
		})

		assert.Equal(t, 3, keys)
		categories := findingCategories(findings)
		assert.Contains(t, categories, guardtypes.ThreatHardcodedSecret)
		assert.Contains(t, categories, guardtypes.ThreatWeakCredential)

		for _, f := range findings {
			require.NotNil(t, f.Location)
			assert.Equal(t, "database.password", f.Location.Path)
			assert.Equal(t, "[REDACTED]", f.Location.Value)
		}
	})

	t.Run("strong secret is still hardcoded", func(t *testing.T) {
		findings, _ := skill.scanConfig(map[string]any{
			"api_key": "Zx9$kQ2mNv8pLw4r",
		})
		categories := findingCategories(findings)
		assert.Contains(t, categories, guardtypes.ThreatHardcodedSecret)
		assert.NotContains(t, categories, guardtypes.ThreatWeakCredential)
	})

	t.Run("insecure settings", func(t *testing.T) {
		findings, _ := skill.scanConfig(map[string]any{
			"debug":      true,
			"ssl":        false,
			"verify_ssl": "false",
		})
		count := 0
		for _, f := range findings {
			if f.Threat == guardtypes.ThreatInsecureSetting {
				count++
			}
		}
		assert.Equal(t, 3, count)
	})

	t.Run("permissive wildcard in array", func(t *testing.T) {
		findings, _ := skill.scanConfig(map[string]any{
			"cors_origins": []any{"https://app.example.com", "*"},
		})
		assert.Contains(t, findingCategories(findings), guardtypes.ThreatOverlyPermissive)
	})

	t.Run("objects inside arrays are not scanned", func(t *testing.T) {
		findings, keys := skill.scanConfig(map[string]any{
			"items": []any{
				map[string]any{"password": "hunter2hunter2"},
			},
		})
		assert.Empty(t, findings)
		assert.Equal(t, 1, keys)
	})

	t.Run("empty secret value ignored", func(t *testing.T) {
		findings, _ := skill.scanConfig(map[string]any{"password": ""})
		assert.Empty(t, findings)
	})

	t.Run("clean config", func(t *testing.T) {
		findings, keys := skill.scanConfig(map[string]any{
			"host": "example.com",
			"port": 443,
			"tls":  true,
		})
		assert.Empty(t, findings)
		assert.Equal(t, 3, keys)
	})
}
