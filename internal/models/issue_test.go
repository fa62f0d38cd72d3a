package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input   string
		want    Severity
		wantErr bool
	}{
		{input: "low", want: SeverityLow},
		{input: "MEDIUM", want: SeverityMedium},
		{input: " High ", want: SeverityHigh},
		{input: "critical", want: SeverityCritical},
		{input: "severe", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSeverity(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "LOW", SeverityLow.String())
	assert.Equal(t, "CRITICAL", SeverityCritical.String())
	assert.Equal(t, "UNKNOWN", Severity(42).String())
}

func TestAnalysisResult_AddAndSort(t *testing.T) {
	result := NewAnalysisResult()
	result.AddFile(FileResult{File: "b.py", Complexity: "O(n)"})
	result.AddFile(FileResult{File: "a.py", Error: "invalid syntax"})
	result.AddIssue(Issue{File: "b.py", Line: 9, Severity: SeverityHigh})
	result.AddIssue(Issue{File: "b.py", Line: 2, Column: 5, Severity: SeverityMedium})
	result.AddIssue(Issue{File: "b.py", Line: 2, Column: 1, Severity: SeverityMedium})
	result.AddIssue(Issue{File: "a.py", Line: 20, Severity: SeverityLow})

	result.Sort()

	assert.Equal(t, 1, result.FailedFiles)
	assert.Equal(t, "a.py", result.Files[0].File)
	assert.True(t, result.Files[0].Failed())
	assert.False(t, result.Files[1].Failed())

	assert.Equal(t, 4, result.TotalIssues)
	assert.Equal(t, 2, result.IssuesBySeverity["MEDIUM"])
	assert.Equal(t, "a.py", result.Issues[0].File)
	assert.Equal(t, 1, result.Issues[1].Column)
	assert.Equal(t, 5, result.Issues[2].Column)
	assert.Equal(t, 9, result.Issues[3].Line)
}

func TestAnalysisResult_HasIssuesAtLeast(t *testing.T) {
	result := NewAnalysisResult()
	assert.False(t, result.HasIssuesAtLeast(SeverityLow))

	result.AddIssue(Issue{Severity: SeverityMedium})
	assert.True(t, result.HasIssuesAtLeast(SeverityLow))
	assert.True(t, result.HasIssuesAtLeast(SeverityMedium))
	assert.False(t, result.HasIssuesAtLeast(SeverityHigh))
}
