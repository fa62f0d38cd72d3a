package detectors

import (
	"bigocheck/internal/complexity"
	"bigocheck/internal/models"
)

// HalvingLoopDetector reports while-loops whose condition has the form
// (n + 1) // k <op> ... . These are reported as a hint only; they never
// change the file's label.
type HalvingLoopDetector struct{}

func NewHalvingLoopDetector() *HalvingLoopDetector {
	return &HalvingLoopDetector{}
}

func (d *HalvingLoopDetector) Name() string {
	return "Halving Loop Detector"
}

func (d *HalvingLoopDetector) Detect(state *complexity.AnalysisState, filename string) []models.Issue {
	issues := make([]models.Issue, 0, len(state.HalvingLoops))
	for _, loop := range state.HalvingLoops {
		issues = append(issues, models.Issue{
			Type:       models.IssueHalvingLoop,
			Severity:   models.SeverityLow,
			File:       filename,
			Line:       loop.Position.Line,
			Column:     loop.Position.Column,
			Function:   loop.Function,
			Message:    "While loop condition halves its operand on each check",
			Suggestion: "A loop that halves its bound runs O(log n) times",
			Complexity: "O(log n)",
		})
	}
	return issues
}
