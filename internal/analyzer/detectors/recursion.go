package detectors

import (
	"fmt"

	"bigocheck/internal/complexity"
	"bigocheck/internal/models"
)

// RecursionDetector reports functions that call themselves by name.
type RecursionDetector struct{}

func NewRecursionDetector() *RecursionDetector {
	return &RecursionDetector{}
}

func (d *RecursionDetector) Name() string {
	return "Recursion Detector"
}

func (d *RecursionDetector) Detect(state *complexity.AnalysisState, filename string) []models.Issue {
	issues := make([]models.Issue, 0, len(state.RecursiveFunctions))
	for _, fn := range state.RecursiveFunctions {
		severity := models.SeverityLow
		if fn.LoopDepth > 0 {
			severity = models.SeverityMedium
		}
		issues = append(issues, models.Issue{
			Type:       models.IssueRecursion,
			Severity:   severity,
			File:       filename,
			Line:       fn.Position.Line,
			Column:     fn.Position.Column,
			Function:   fn.Name,
			Message:    fmt.Sprintf("Function '%s' calls itself directly", fn.Name),
			Suggestion: "Check the recursion depth and whether results can be memoized (functools.lru_cache) or the call made iterative",
			Complexity: complexity.RecurrencePrefix + complexity.PolynomialLabel(fn.LoopDepth),
		})
	}
	return issues
}
