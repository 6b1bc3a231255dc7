package guardagent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	guardtypes "github.com/junohq/agentskills/pkg/types/guard"
)

func TestRiskLevelThresholds(t *testing.T) {
	tests := []struct {
		score    int
		expected string
	}{
		{0, guardtypes.RiskNone},
		{1, guardtypes.RiskLow},
		{19, guardtypes.RiskLow},
		{20, guardtypes.RiskMedium},
		{39, guardtypes.RiskMedium},
		{40, guardtypes.RiskHigh},
		{69, guardtypes.RiskHigh},
		{70, guardtypes.RiskCritical},
		{100, guardtypes.RiskCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, riskLevel(tt.score), "score %d", tt.score)
	}
}

func TestBuildReportEmpty(t *testing.T) {
	report := buildReport(nil)

	assert.NotEmpty(t, report.ReportID)
	assert.Equal(t, 0, report.RiskScore)
	assert.Equal(t, guardtypes.RiskNone, report.RiskLevel)
	assert.Equal(t, 0, report.TotalThreats)
	assert.Empty(t, report.Remediations)
}

func TestBuildReportScoring(t *testing.T) {
	findings := []guardtypes.Finding{
		{Threat: guardtypes.ThreatCommandInjection, Severity: guardtypes.SeverityCritical},
		{Threat: guardtypes.ThreatSQLInjection, Severity: guardtypes.SeverityHigh},
		{Threat: guardtypes.ThreatSocialEngineering, Severity: guardtypes.SeverityMedium},
		{Threat: guardtypes.ThreatSuspiciousURL, Severity: guardtypes.SeverityLow},
	}

	report := buildReport(findings)

	assert.Equal(t, 25+15+8+3, report.RiskScore)
	assert.Equal(t, guardtypes.RiskCritical, report.RiskLevel)
	assert.Equal(t, 4, report.TotalThreats)
	assert.Equal(t, 1, report.SeverityCounts[guardtypes.SeverityCritical])
	assert.Equal(t, 1, report.ThreatsByType[guardtypes.ThreatSQLInjection])
}

func TestBuildReportScoreCappedAt100(t *testing.T) {
	var findings []guardtypes.Finding
	for i := 0; i < 6; i++ {
		findings = append(findings, guardtypes.Finding{
			Threat:   guardtypes.ThreatCommandInjection,
			Severity: guardtypes.SeverityCritical,
		})
	}

	report := buildReport(findings)

	assert.Equal(t, 100, report.RiskScore)
	assert.Equal(t, guardtypes.RiskCritical, report.RiskLevel)
}

func TestBuildReportDeduplicatesRemediations(t *testing.T) {
	findings := []guardtypes.Finding{
		{Threat: guardtypes.ThreatSQLInjection, Severity: guardtypes.SeverityHigh},
		{Threat: guardtypes.ThreatSQLInjection, Severity: guardtypes.SeverityHigh},
		{Threat: guardtypes.ThreatXSS, Severity: guardtypes.SeverityHigh},
	}

	report := buildReport(findings)

	require.Len(t, report.Remediations, 2)
}

func TestBuildReportFreshIDs(t *testing.T) {
	first := buildReport(nil)
	second := buildReport(nil)
	assert.NotEqual(t, first.ReportID, second.ReportID)
}

func TestRenderReport(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		out := renderReport(buildReport(nil))
		assert.Contains(t, out, "NONE")
		assert.Contains(t, out, "No threats detected")
	})

	t.Run("with findings", func(t *testing.T) {
		report := buildReport([]guardtypes.Finding{
			{
				Threat:      guardtypes.ThreatSQLInjection,
				Severity:    guardtypes.SeverityHigh,
				Description: "SQL keywords arranged as an injection payload",
				Location:    &guardtypes.Location{Start: 0, End: 10, Match: "SELECT *"},
			},
		})
		out := renderReport(report)

		assert.Contains(t, out, report.ReportID)
		assert.Contains(t, out, "sql_injection")
		assert.Contains(t, out, "By severity:")
		assert.Contains(t, out, "Recommended remediations:")
		assert.True(t, strings.Contains(out, "score 15/100"))
	})
}
