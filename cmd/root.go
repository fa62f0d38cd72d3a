package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"bigocheck/internal/analyzer"
	"bigocheck/internal/complexity"
	"bigocheck/internal/config"
	"bigocheck/internal/logging"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	formatFlag         string
	watchFlag          bool
	configFlag         string
	generateConfigFlag bool
	codeFlag           string
	verboseFlag        bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bigocheck [files or directories]",
	Short: "Estimate the Big-O complexity of Python code",
	Long: `bigocheck statically inspects Python source for nested for-loops,
self-recursive functions and halving while-conditions, and reports an
estimated time complexity such as O(n^2) or T(n) = 2T(n/2) + O(n).

The estimate is a syntactic heuristic, not a proof.

Examples:
  bigocheck .                                # Analyze current directory
  bigocheck sort.py search.py                # Analyze specific files
  bigocheck --code 'for i in x: pass'        # Label an inline snippet
  cat snippet.py | bigocheck -               # Label a snippet from stdin
  bigocheck --format=json .                  # Output results in JSON format
  bigocheck --watch src/                     # Re-analyze on change
  bigocheck --config=.bigocheck.yml .        # Use custom config
  bigocheck --generate-config                # Generate sample config file`,
	Run: runAnalysis,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format (console, json)")
	rootCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch mode for development")
	rootCmd.Flags().StringVarP(&configFlag, "config", "c", "", "Path to configuration file")
	rootCmd.Flags().BoolVar(&generateConfigFlag, "generate-config", false, "Generate sample configuration file")
	rootCmd.Flags().StringVar(&codeFlag, "code", "", "Analyze an inline Python snippet and print its label")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose output and debug logging")
}

func runAnalysis(cmd *cobra.Command, args []string) {
	if generateConfigFlag {
		generateConfig()
		return
	}

	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		color.Red("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if formatFlag != "" {
		cfg.Output.Format = formatFlag
		if err := cfg.Validate(); err != nil {
			color.Red("Error: %v\n", err)
			os.Exit(1)
		}
	}
	if verboseFlag {
		cfg.Output.Verbose = true
	}

	logger := logging.NewLogger(os.Stderr, logLevel(cfg))
	slog.SetDefault(logger)

	if cmd.Flags().Changed("code") {
		os.Exit(printLabel(cmd.OutOrStdout(), cmd.ErrOrStderr(), codeFlag))
	}
	if len(args) == 1 && args[0] == "-" {
		source, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			color.Red("Error reading stdin: %v\n", err)
			os.Exit(1)
		}
		os.Exit(printLabel(cmd.OutOrStdout(), cmd.ErrOrStderr(), string(source)))
	}

	if len(args) == 0 {
		args = []string{"."}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	analyzerEngine := analyzer.NewAnalyzerWithConfig(cfg, logger)
	reportGen := analyzer.NewReportGeneratorWithConfig(cfg)

	if watchFlag {
		if err := runWatch(ctx, cfg, logger, args, analyzerEngine, reportGen); err != nil {
			stop()
			color.Red("Watch mode failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	status := analyzeOnce(ctx, cfg, args, analyzerEngine, reportGen)
	stop()
	os.Exit(status)
}

// printLabel writes the label of one snippet to w, or the parse error to
// errW, and returns the exit status.
func printLabel(w, errW io.Writer, code string) int {
	label, err := complexity.AnalyzeComplexity(code)
	if err != nil {
		color.New(color.FgRed).Fprintf(errW, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintln(w, label)
	return 0
}

// logLevel picks the diagnostics level: --verbose wins, then output.log_level.
func logLevel(cfg *config.Config) slog.Level {
	if cfg.Output.Verbose || cfg.Output.LogLevel == "" {
		return logging.LevelFromVerbosity(cfg.Output.Verbose)
	}
	return logging.LevelFromString(cfg.Output.LogLevel)
}

func analyzeOnce(ctx context.Context, cfg *config.Config, args []string, analyzerEngine *analyzer.Analyzer, reportGen *analyzer.ReportGenerator) int {
	pyFiles := collectFromArgs(cfg, args)
	if len(pyFiles) == 0 {
		color.Yellow("⚠️  No Python files found to analyze\n")
		return 0
	}

	if cfg.Output.Format == "console" {
		if cfg.Output.Verbose {
			color.Cyan("🔍 Analyzing %d Python files with %d detectors...\n", len(pyFiles), analyzerEngine.GetDetectorCount())
			if configFlag != "" {
				color.Cyan("📋 Using configuration: %s\n", configFlag)
			}
			color.Cyan("🎯 Enabled detectors: %s\n\n", strings.Join(analyzerEngine.GetDetectorNames(), ", "))
		} else {
			color.Cyan("🔍 Analyzing %d Python files...\n\n", len(pyFiles))
		}
	}

	result, err := analyzerEngine.AnalyzeFiles(ctx, pyFiles)
	if err != nil {
		color.Red("Analysis failed: %v\n", err)
		return 1
	}

	report := reportGen.Generate(result)

	if cfg.Output.OutputFile != "" {
		if err := writeReportToFile(report, cfg.Output.OutputFile); err != nil {
			color.Red("Failed to write report to file: %v\n", err)
			return 1
		}
		color.Green("📄 Report saved to: %s\n", cfg.Output.OutputFile)
	} else {
		fmt.Print(report)
	}

	if threshold, ok := cfg.FailThreshold(); ok && result.HasIssuesAtLeast(threshold) {
		return 1
	}
	return 0
}

func collectFromArgs(cfg *config.Config, args []string) []string {
	var pyFiles []string
	for _, arg := range args {
		files, err := collectPythonFiles(arg, cfg.Files)
		if err != nil {
			color.Red("Error collecting files from %s: %v\n", arg, err)
			continue
		}
		pyFiles = append(pyFiles, files...)
	}
	return pyFiles
}

func writeReportToFile(report, filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(filePath, []byte(report), 0644)
}

func generateConfig() {
	configPath := ".bigocheck.yml"
	if err := config.GenerateConfig(configPath); err != nil {
		color.Red("Failed to generate config file: %v\n", err)
		os.Exit(1)
	}
	color.Green("✅ Generated sample configuration file: %s\n", configPath)
	color.Cyan("📝 Edit this file to customize bigocheck behavior\n")
	color.Cyan("🚀 Run 'bigocheck --config=%s .' to use it\n", configPath)
}

// collectPythonFiles recursively finds the .py files under path selected by
// the include and exclude patterns. A file named explicitly is always kept.
func collectPythonFiles(path string, files config.FilesConfig) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var pyFiles []string
	err = filepath.Walk(path, func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if filePath != path && files.ExcludesDir(filePath) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasSuffix(filePath, ".py") && files.IncludesFile(filePath) {
			pyFiles = append(pyFiles, filePath)
		}

		return nil
	})

	return pyFiles, err
}
