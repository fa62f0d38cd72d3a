package analyzer

import (
	"encoding/json"
	"strings"
	"testing"

	"bigocheck/internal/config"
	"bigocheck/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *models.AnalysisResult {
	result := models.NewAnalysisResult()
	result.AddFile(models.FileResult{File: "pkg/pairs.py", Complexity: "O(n^2)", MaxLoopDepth: 2, LoopCount: 2})
	result.AddFile(models.FileResult{File: "pkg/sort.py", Complexity: "T(n) = 2T(n/2) + O(n)", MaxLoopDepth: 1, LoopCount: 1, Recursive: true})
	result.AddFile(models.FileResult{File: "pkg/broken.py", Error: "invalid syntax at pkg/broken.py:1:11"})
	result.AddIssue(models.Issue{
		Type:       models.IssueNestedLoops,
		Severity:   models.SeverityMedium,
		File:       "pkg/pairs.py",
		Line:       3,
		Column:     9,
		Function:   "pairs",
		Message:    "Nested for loop in function 'pairs' - potential O(n^2) complexity",
		Suggestion: "Use a set",
		Complexity: "O(n^2)",
	})
	result.Sort()
	result.AnalysisDuration = "1ms"
	return result
}

func plainConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Output.Colors = false
	return cfg
}

func TestGenerateConsole_Plain(t *testing.T) {
	cfg := plainConfig()
	cfg.Output.ShowFindings = true

	report := NewReportGeneratorWithConfig(cfg).Generate(sampleResult())

	assert.True(t, strings.HasPrefix(report, "BigOCheck Complexity Report\n"))
	assert.Contains(t, report, "Files analyzed: 2")
	assert.Contains(t, report, "Files failed: 1")
	assert.Contains(t, report, "Findings: 1")
	assert.Contains(t, report, "pkg/pairs.py")
	assert.Contains(t, report, "O(n^2)")
	assert.Contains(t, report, "T(n) = 2T(n/2) + O(n)")
	assert.Contains(t, report, "error: invalid syntax")
	assert.Contains(t, report, "MEDIUM: 1")
	assert.Contains(t, report, "Detailed Findings:")
	assert.Contains(t, report, "Location: pkg/pairs.py:3:9 in function 'pairs'")
	assert.Contains(t, report, "Analysis completed in 1ms")
	assert.NotContains(t, report, "\x1b[")
}

func TestGenerateConsole_FindingsHidden(t *testing.T) {
	report := NewReportGeneratorWithConfig(plainConfig()).Generate(sampleResult())

	assert.Contains(t, report, "Findings by Severity:")
	assert.NotContains(t, report, "Detailed Findings:")
}

func TestGenerateConsole_Verbose(t *testing.T) {
	cfg := plainConfig()
	cfg.Output.Verbose = true
	cfg.Rules.Halving.Enabled = false

	report := NewReportGeneratorWithConfig(cfg).Generate(sampleResult())
	assert.Contains(t, report, "Enabled rules: nested_loops, recursion")
	assert.Contains(t, report, "Workers: 4")
}

func TestGenerateConsole_Empty(t *testing.T) {
	report := NewReportGeneratorWithConfig(plainConfig()).Generate(models.NewAnalysisResult())

	assert.Contains(t, report, "Files analyzed: 0")
	assert.NotContains(t, report, "Files failed")
	assert.NotContains(t, report, "Findings by Severity")
}

func TestGenerateJSON(t *testing.T) {
	report := NewReportGenerator("json").Generate(sampleResult())
	require.True(t, strings.HasSuffix(report, "\n"))

	var decoded models.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(report), &decoded))

	require.Len(t, decoded.Files, 3)
	assert.Equal(t, "pkg/broken.py", decoded.Files[0].File)
	assert.True(t, decoded.Files[0].Failed())
	assert.Equal(t, "O(n^2)", decoded.Files[1].Complexity)
	assert.Equal(t, 1, decoded.FailedFiles)
	assert.Equal(t, 1, decoded.TotalIssues)
	assert.Equal(t, models.SeverityMedium, decoded.Issues[0].Severity)
	assert.Equal(t, 1, decoded.IssuesBySeverity["MEDIUM"])
}
