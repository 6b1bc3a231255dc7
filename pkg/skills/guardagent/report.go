package guardagent

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	guardtypes "github.com/junohq/agentskills/pkg/types/guard"
)

// severityWeights score each finding's contribution to the aggregate
// risk score.
var severityWeights = map[guardtypes.Severity]int{
	guardtypes.SeverityCritical: 25,
	guardtypes.SeverityHigh:     15,
	guardtypes.SeverityMedium:   8,
	guardtypes.SeverityLow:      3,
}

const maxRiskScore = 100

// riskLevel maps an aggregate score onto the coarse level bands.
func riskLevel(score int) string {
	switch {
	case score >= 70:
		return guardtypes.RiskCritical
	case score >= 40:
		return guardtypes.RiskHigh
	case score >= 20:
		return guardtypes.RiskMedium
	case score > 0:
		return guardtypes.RiskLow
	default:
		return guardtypes.RiskNone
	}
}

// buildReport aggregates findings into a risk report. Reports carry a
// fresh ID every time; they are never cached or merged.
func buildReport(findings []guardtypes.Finding) guardtypes.RiskReport {
	report := guardtypes.RiskReport{
		ReportID:       uuid.New().String(),
		TotalThreats:   len(findings),
		SeverityCounts: make(map[guardtypes.Severity]int),
		ThreatsByType:  make(map[string]int),
		Findings:       findings,
	}

	score := 0
	for _, f := range findings {
		score += severityWeights[f.Severity]
		report.SeverityCounts[f.Severity]++
		report.ThreatsByType[f.Threat]++
	}
	if score > maxRiskScore {
		score = maxRiskScore
	}
	report.RiskScore = score
	report.RiskLevel = riskLevel(score)

	seen := make(map[string]bool)
	for _, f := range findings {
		r, ok := remediations[f.Threat]
		if !ok || seen[r] {
			continue
		}
		seen[r] = true
		report.Remediations = append(report.Remediations, r)
	}

	return report
}

// renderReport formats a report for the assistant-facing result.
func renderReport(report guardtypes.RiskReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Security Report %s\n", report.ReportID)
	fmt.Fprintf(&sb, "Risk: %s (score %d/%d)\n", report.RiskLevel, report.RiskScore, maxRiskScore)
	fmt.Fprintf(&sb, "Threats found: %d\n", report.TotalThreats)

	if report.TotalThreats == 0 {
		sb.WriteString("\nNo threats detected.\n")
		return sb.String()
	}

	sb.WriteString("\nBy severity:\n")
	for _, sev := range []guardtypes.Severity{
		guardtypes.SeverityCritical,
		guardtypes.SeverityHigh,
		guardtypes.SeverityMedium,
		guardtypes.SeverityLow,
	} {
		if n := report.SeverityCounts[sev]; n > 0 {
			fmt.Fprintf(&sb, "  %s: %d\n", sev, n)
		}
	}

	sb.WriteString("\nBy category:\n")
	categories := make([]string, 0, len(report.ThreatsByType))
	for c := range report.ThreatsByType {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		fmt.Fprintf(&sb, "  %s: %d\n", c, report.ThreatsByType[c])
	}

	sb.WriteString("\nFindings:\n")
	for i, f := range report.Findings {
		fmt.Fprintf(&sb, "  %d. [%s] %s: %s\n", i+1, f.Severity, f.Threat, f.Description)
		if f.Location != nil {
			switch {
			case f.Location.URL != "":
				fmt.Fprintf(&sb, "     url: %s\n", f.Location.URL)
			case f.Location.Path != "":
				fmt.Fprintf(&sb, "     path: %s\n", f.Location.Path)
			case f.Location.Match != "":
				fmt.Fprintf(&sb, "     match: %s (offset %d-%d)\n", f.Location.Match, f.Location.Start, f.Location.End)
			}
		}
	}

	if len(report.Remediations) > 0 {
		sb.WriteString("\nRecommended remediations:\n")
		for _, r := range report.Remediations {
			fmt.Fprintf(&sb, "  - %s\n", r)
		}
	}

	return sb.String()
}
