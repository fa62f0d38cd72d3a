package detectors

import (
	"fmt"

	"bigocheck/internal/complexity"
	"bigocheck/internal/models"
)

type NestedLoopDetector struct {
	maxDepth int
}

// NewNestedLoopDetector reports for-loops nested maxDepth or more levels deep.
func NewNestedLoopDetector(maxDepth int) *NestedLoopDetector {
	if maxDepth < 2 {
		maxDepth = 2
	}
	return &NestedLoopDetector{maxDepth: maxDepth}
}

func (d *NestedLoopDetector) Name() string {
	return "Nested Loop Detector"
}

func (d *NestedLoopDetector) Detect(state *complexity.AnalysisState, filename string) []models.Issue {
	issues := make([]models.Issue, 0)
	for _, loop := range state.Loops {
		if loop.Depth < d.maxDepth {
			continue
		}
		issues = append(issues, models.Issue{
			Type:       models.IssueNestedLoops,
			Severity:   d.calculateSeverity(loop.Depth),
			File:       filename,
			Line:       loop.Position.Line,
			Column:     loop.Position.Column,
			Function:   loop.Function,
			Message:    d.generateMessage(loop),
			Suggestion: d.generateSuggestion(loop.Depth),
			Complexity: complexity.PolynomialLabel(loop.Depth),
		})
	}
	return issues
}

func (d *NestedLoopDetector) calculateSeverity(depth int) models.Severity {
	switch depth {
	case 2:
		return models.SeverityMedium // O(n^2) is concerning but common
	case 3:
		return models.SeverityHigh
	default:
		return models.SeverityCritical
	}
}

func (d *NestedLoopDetector) generateMessage(loop complexity.LoopSite) string {
	where := "at module level"
	if loop.Function != "" {
		where = fmt.Sprintf("in function '%s'", loop.Function)
	}
	if loop.Depth == 2 {
		return fmt.Sprintf("Nested for loop %s - potential O(n^2) complexity", where)
	}
	return fmt.Sprintf("Deeply nested for loops %s - O(n^%d) complexity", where, loop.Depth)
}

func (d *NestedLoopDetector) generateSuggestion(depth int) string {
	suggestions := []string{
		"Consider using a dict or set for O(1) lookups instead of nested iteration",
		"Pre-process data into a more efficient structure (e.g., a dict keyed by the inner lookup)",
		"Use bisect or a sorted structure if the data is ordered",
		"Profile this code section to measure actual performance impact",
	}

	if depth == 2 {
		return suggestions[0] + ". " + suggestions[1]
	}
	return suggestions[2] + ". " + suggestions[3]
}
