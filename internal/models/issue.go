package models

import (
	"fmt"
	"sort"
	"strings"
)

type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity accepts the lowercase or uppercase severity name.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOW":
		return SeverityLow, nil
	case "MEDIUM":
		return SeverityMedium, nil
	case "HIGH":
		return SeverityHigh, nil
	case "CRITICAL":
		return SeverityCritical, nil
	default:
		return SeverityLow, fmt.Errorf("unknown severity %q", s)
	}
}

type IssueType string

const (
	IssueNestedLoops IssueType = "nested_loops"
	IssueRecursion   IssueType = "recursion"
	IssueHalvingLoop IssueType = "halving_loop"
)

type Issue struct {
	Type       IssueType `json:"type"`
	Severity   Severity  `json:"severity"`
	File       string    `json:"file"`
	Line       int       `json:"line"`
	Column     int       `json:"column"`
	Function   string    `json:"function,omitempty"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion"`
	Complexity string    `json:"complexity,omitempty"` // e.g. "O(n^2)", "T(n) = 2T(n/2) + O(n)"
}

// FileResult is the estimate for a single source file.
type FileResult struct {
	File         string `json:"file"`
	Complexity   string `json:"complexity,omitempty"`
	MaxLoopDepth int    `json:"max_loop_depth"`
	LoopCount    int    `json:"loop_count"`
	Recursive    bool   `json:"recursive"`
	Logarithmic  bool   `json:"logarithmic"`
	Error        string `json:"error,omitempty"`
}

func (fr FileResult) Failed() bool {
	return fr.Error != ""
}

type AnalysisResult struct {
	Files            []FileResult   `json:"files"`
	FailedFiles      int            `json:"failed_files"`
	TotalIssues      int            `json:"total_issues"`
	IssuesBySeverity map[string]int `json:"issues_by_severity"`
	Issues           []Issue        `json:"issues"`
	AnalysisDuration string         `json:"analysis_duration"`
}

func NewAnalysisResult() *AnalysisResult {
	return &AnalysisResult{
		Files:            make([]FileResult, 0),
		Issues:           make([]Issue, 0),
		IssuesBySeverity: make(map[string]int),
	}
}

func (ar *AnalysisResult) AddFile(fr FileResult) {
	ar.Files = append(ar.Files, fr)
	if fr.Failed() {
		ar.FailedFiles++
	}
}

func (ar *AnalysisResult) AddIssue(issue Issue) {
	ar.Issues = append(ar.Issues, issue)
	ar.TotalIssues++
	ar.IssuesBySeverity[issue.Severity.String()]++
}

// Sort orders files by path and issues by file, line and column so results
// do not depend on worker scheduling.
func (ar *AnalysisResult) Sort() {
	sort.SliceStable(ar.Files, func(i, j int) bool {
		return ar.Files[i].File < ar.Files[j].File
	})
	sort.SliceStable(ar.Issues, func(i, j int) bool {
		a, b := ar.Issues[i], ar.Issues[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// HasIssuesAtLeast reports whether any issue is at or above the given severity.
func (ar *AnalysisResult) HasIssuesAtLeast(threshold Severity) bool {
	for _, issue := range ar.Issues {
		if issue.Severity >= threshold {
			return true
		}
	}
	return false
}
