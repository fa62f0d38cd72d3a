package analyzer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"bigocheck/internal/config"
	"bigocheck/internal/models"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// ReportGenerator handles formatting and displaying analysis results
type ReportGenerator struct {
	format string
	config *config.Config
}

// NewReportGenerator creates a new report generator
func NewReportGenerator(format string) *ReportGenerator {
	return &ReportGenerator{
		format: format,
		config: config.DefaultConfig(),
	}
}

func NewReportGeneratorWithConfig(cfg *config.Config) *ReportGenerator {
	return &ReportGenerator{
		format: cfg.Output.Format,
		config: cfg,
	}
}

// Generate creates a formatted report from analysis results
func (r *ReportGenerator) Generate(result *models.AnalysisResult) string {
	switch r.format {
	case "json":
		return r.generateJSON(result)
	default:
		return r.generateConsole(result)
	}
}

// generateJSON creates a JSON report
func (r *ReportGenerator) generateJSON(result *models.AnalysisResult) string {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error generating JSON report: %v", err)
	}
	return string(data) + "\n"
}

// generateConsole creates a colorized console report
func (r *ReportGenerator) generateConsole(result *models.AnalysisResult) string {
	var report strings.Builder

	useColors := true
	verbose := false
	showFindings := true

	if r.config != nil {
		useColors = r.config.Output.Colors
		verbose = r.config.Output.Verbose
		showFindings = r.config.Output.ShowFindings
	}

	// Header
	if useColors {
		report.WriteString(color.CyanString("🔍 BigOCheck Complexity Report\n"))
		report.WriteString(color.WhiteString("═══════════════════════════════════════\n\n"))
	} else {
		report.WriteString("BigOCheck Complexity Report\n")
		report.WriteString("=======================================\n\n")
	}

	if verbose && r.config != nil {
		r.writeConfigInfo(&report, useColors)
	}

	r.writeSummary(&report, result, useColors)
	r.writeFileTable(&report, result, useColors)

	if len(result.Issues) > 0 {
		r.writeIssuesSummary(&report, result, useColors)

		if showFindings {
			report.WriteString("\n")
			r.writeDetailedIssues(&report, result, useColors)
		}
	}

	// Footer
	if useColors {
		report.WriteString(color.WhiteString("Analysis completed in %s\n", result.AnalysisDuration))
	} else {
		report.WriteString(fmt.Sprintf("Analysis completed in %s\n", result.AnalysisDuration))
	}

	return report.String()
}

// writeFileTable renders one row per file with its estimated complexity
func (r *ReportGenerator) writeFileTable(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	if len(result.Files) == 0 {
		return
	}

	var tableBuffer strings.Builder
	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"File", "Complexity", "Loop depth", "Recursive"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER})

	for _, file := range result.Files {
		label := file.Complexity
		depth := fmt.Sprintf("%d", file.MaxLoopDepth)
		recursive := yesNo(file.Recursive)
		if file.Failed() {
			label = "error: " + file.Error
			depth, recursive = "-", "-"
		} else if useColors {
			label = r.labelColor(file)(label)
		}
		table.Append([]string{file.File, label, depth, recursive})
	}
	table.Render()

	report.WriteString(tableBuffer.String())
	report.WriteString("\n")
}

// labelColor picks a color by how steep the estimate is
func (r *ReportGenerator) labelColor(file models.FileResult) func(a ...interface{}) string {
	switch {
	case file.MaxLoopDepth >= 3:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case file.MaxLoopDepth == 2:
		return color.New(color.FgYellow).SprintFunc()
	case file.Recursive:
		return color.New(color.FgHiYellow).SprintFunc()
	default:
		return color.New(color.FgGreen).SprintFunc()
	}
}

// getSeverityDisplay returns emoji and color function for a severity level
func (r *ReportGenerator) getSeverityDisplay(severity string) (string, func(a ...interface{}) string) {
	switch severity {
	case "CRITICAL":
		return "🚨", color.New(color.FgRed, color.Bold).SprintFunc()
	case "HIGH":
		return "❌", color.New(color.FgRed).SprintFunc()
	case "MEDIUM":
		return "⚠️", color.New(color.FgYellow).SprintFunc()
	case "LOW":
		return "ℹ️", color.New(color.FgBlue).SprintFunc()
	default:
		return "❓", color.New(color.FgWhite).SprintFunc()
	}
}

// CONFIG HELPERS
func (r *ReportGenerator) writeConfigInfo(report *strings.Builder, useColors bool) {
	rules := r.enabledRules()
	if useColors {
		report.WriteString(color.WhiteString("📋 Configuration:\n"))
		report.WriteString(fmt.Sprintf("   Enabled rules: %s\n", color.CyanString(strings.Join(rules, ", "))))
		report.WriteString(fmt.Sprintf("   Workers: %s\n", color.CyanString("%d", r.config.Analysis.MaxWorkers)))
	} else {
		report.WriteString("Configuration:\n")
		report.WriteString(fmt.Sprintf("   Enabled rules: %s\n", strings.Join(rules, ", ")))
		report.WriteString(fmt.Sprintf("   Workers: %d\n", r.config.Analysis.MaxWorkers))
	}
	report.WriteString("\n")
}

func (r *ReportGenerator) enabledRules() []string {
	var rules []string
	for _, rule := range []string{"nested_loops", "recursion", "halving"} {
		if r.config.IsRuleEnabled(rule) {
			rules = append(rules, rule)
		}
	}
	if len(rules) == 0 {
		return []string{"none"}
	}
	return rules
}

func (r *ReportGenerator) writeSummary(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	if useColors {
		report.WriteString(color.WhiteString("📊 Summary:\n"))
	} else {
		report.WriteString("Summary:\n")
	}
	report.WriteString(fmt.Sprintf("   Files analyzed: %d\n", len(result.Files)-result.FailedFiles))
	if result.FailedFiles > 0 {
		report.WriteString(fmt.Sprintf("   Files failed: %d\n", result.FailedFiles))
	}
	report.WriteString(fmt.Sprintf("   Findings: %d\n", result.TotalIssues))
	report.WriteString("\n")
}

func (r *ReportGenerator) writeIssuesSummary(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	if useColors {
		report.WriteString(color.WhiteString("📋 Findings by Severity:\n"))
	} else {
		report.WriteString("Findings by Severity:\n")
	}

	severities := []string{"CRITICAL", "HIGH", "MEDIUM", "LOW"}
	for _, severity := range severities {
		count := result.IssuesBySeverity[severity]
		if count > 0 {
			if useColors {
				emoji, colorFunc := r.getSeverityDisplay(severity)
				countText := colorFunc(fmt.Sprintf("%d", count))
				report.WriteString(fmt.Sprintf("   %s %s: %s\n", emoji, severity, countText))
			} else {
				report.WriteString(fmt.Sprintf("   %s: %d\n", severity, count))
			}
		}
	}
	report.WriteString("\n")
}

func (r *ReportGenerator) writeDetailedIssues(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	if useColors {
		report.WriteString(color.WhiteString("🔍 Detailed Findings:\n"))
	} else {
		report.WriteString("Detailed Findings:\n")
	}
	report.WriteString(strings.Repeat("─", 50) + "\n\n")

	// Sort issues by severity (critical first)
	sortedIssues := make([]models.Issue, len(result.Issues))
	copy(sortedIssues, result.Issues)

	sort.SliceStable(sortedIssues, func(i, j int) bool {
		return sortedIssues[i].Severity > sortedIssues[j].Severity
	})

	for i, issue := range sortedIssues {
		r.writeIssueDetail(report, issue, i+1, useColors)
		report.WriteString("\n")
	}
}

func (r *ReportGenerator) writeIssueDetail(report *strings.Builder, issue models.Issue, index int, useColors bool) {
	if useColors {
		emoji, severityColor := r.getSeverityDisplay(issue.Severity.String())

		report.WriteString(fmt.Sprintf("%s Finding #%d - %s %s\n",
			emoji, index, severityColor(issue.Severity.String()),
			color.WhiteString(strings.ToUpper(string(issue.Type)))))

		report.WriteString(color.CyanString("   📍 Location: %s:%d:%d",
			issue.File, issue.Line, issue.Column))
		if issue.Function != "" {
			report.WriteString(color.CyanString(" in function '%s'", issue.Function))
		}
		report.WriteString("\n")

		report.WriteString(color.WhiteString("   💭 Finding: %s\n", issue.Message))

		if issue.Complexity != "" {
			report.WriteString(color.YellowString("   📊 Complexity: %s\n", issue.Complexity))
		}

		report.WriteString(color.GreenString("   💡 Suggestion: %s\n", issue.Suggestion))
	} else {
		report.WriteString(fmt.Sprintf("Finding #%d - %s %s\n",
			index, issue.Severity.String(), strings.ToUpper(string(issue.Type))))

		report.WriteString(fmt.Sprintf("   Location: %s:%d:%d", issue.File, issue.Line, issue.Column))
		if issue.Function != "" {
			report.WriteString(fmt.Sprintf(" in function '%s'", issue.Function))
		}
		report.WriteString("\n")

		report.WriteString(fmt.Sprintf("   Finding: %s\n", issue.Message))

		if issue.Complexity != "" {
			report.WriteString(fmt.Sprintf("   Complexity: %s\n", issue.Complexity))
		}

		report.WriteString(fmt.Sprintf("   Suggestion: %s\n", issue.Suggestion))
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
