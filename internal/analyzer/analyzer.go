package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"bigocheck/internal/analyzer/detectors"
	"bigocheck/internal/complexity"
	"bigocheck/internal/config"
	"bigocheck/internal/logging"
	"bigocheck/internal/models"
	"bigocheck/internal/parser"

	"golang.org/x/sync/errgroup"
)

type Analyzer struct {
	parser     *parser.Parser
	detectors  []Detector
	maxWorkers int
	maxBytes   int64
	logger     *slog.Logger
}

// Detector turns the signals of one file into findings.
type Detector interface {
	Name() string
	Detect(state *complexity.AnalysisState, filename string) []models.Issue
}

func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithConfig(config.DefaultConfig(), logging.NewDiscardLogger())
}

func NewAnalyzerWithConfig(cfg *config.Config, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	analyzer := &Analyzer{
		parser:     parser.NewParser(),
		maxWorkers: max(cfg.Analysis.MaxWorkers, 1),
		maxBytes:   cfg.Files.MaxFileBytes(),
		logger:     logger,
	}

	if cfg.IsRuleEnabled("nested_loops") {
		analyzer.detectors = append(analyzer.detectors, detectors.NewNestedLoopDetector(cfg.Rules.NestedLoops.MaxDepth))
	}
	if cfg.IsRuleEnabled("recursion") {
		analyzer.detectors = append(analyzer.detectors, detectors.NewRecursionDetector())
	}
	if cfg.IsRuleEnabled("halving") {
		analyzer.detectors = append(analyzer.detectors, detectors.NewHalvingLoopDetector())
	}

	return analyzer
}

// AnalyzeFiles estimates every file concurrently. Files that cannot be read
// or parsed are recorded as failed and do not stop the run.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, filenames []string) (*models.AnalysisResult, error) {
	startTime := time.Now()
	result := models.NewAnalysisResult()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxWorkers)

	for _, filename := range filenames {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fileResult, issues := a.analyzeFile(gctx, filename)

			mu.Lock()
			defer mu.Unlock()
			result.AddFile(fileResult)
			for _, issue := range issues {
				result.AddIssue(issue)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analysis interrupted: %w", err)
	}

	result.Sort()
	result.AnalysisDuration = time.Since(startTime).String()
	return result, nil
}

func (a *Analyzer) analyzeFile(ctx context.Context, filename string) (models.FileResult, []models.Issue) {
	source, err := a.readSource(filename)
	if err != nil {
		a.logger.Warn("skipping file", "file", filename, "error", err)
		return models.FileResult{File: filename, Error: err.Error()}, nil
	}

	fileResult, issues, err := a.AnalyzeSource(ctx, filename, source)
	if err != nil {
		a.logger.Warn("failed to analyze file", "file", filename, "error", err)
		return models.FileResult{File: filename, Error: err.Error()}, nil
	}

	a.logger.Debug("analyzed file",
		"file", filename,
		"complexity", fileResult.Complexity,
		"issues", len(issues))
	return fileResult, issues
}

func (a *Analyzer) readSource(filename string) ([]byte, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return nil, err
	}
	if a.maxBytes > 0 && info.Size() > a.maxBytes {
		return nil, fmt.Errorf("file is %d bytes, larger than the %d byte limit", info.Size(), a.maxBytes)
	}
	return os.ReadFile(filename)
}

// AnalyzeSource estimates one in-memory source file and runs the detectors on it.
func (a *Analyzer) AnalyzeSource(ctx context.Context, filename string, source []byte) (models.FileResult, []models.Issue, error) {
	state, err := complexity.AnalyzeSource(ctx, a.parser, filename, source)
	if err != nil {
		return models.FileResult{}, nil, err
	}

	fileResult := models.FileResult{
		File:         filename,
		Complexity:   state.Label(),
		MaxLoopDepth: state.MaxLoopDepth(),
		LoopCount:    len(state.NestedLoopDepths),
		Recursive:    state.IsRecursive,
		Logarithmic:  state.IsLogarithmic,
	}

	var allIssues []models.Issue
	for _, detector := range a.detectors {
		allIssues = append(allIssues, detector.Detect(state, filename)...)
	}

	return fileResult, allIssues, nil
}

// GetDetectorCount returns the number of active detectors
func (a *Analyzer) GetDetectorCount() int {
	return len(a.detectors)
}

// GetDetectorNames returns the names of all active detectors
func (a *Analyzer) GetDetectorNames() []string {
	names := make([]string, len(a.detectors))
	for i, detector := range a.detectors {
		names[i] = detector.Name()
	}
	return names
}
