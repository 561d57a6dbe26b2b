package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/your-org/bdd-html-report/pkg/config"
	"github.com/your-org/bdd-html-report/pkg/generator"
	"github.com/your-org/bdd-html-report/pkg/logger"
	"github.com/your-org/bdd-html-report/pkg/server"
	"github.com/your-org/bdd-html-report/pkg/storage"
)

var (
	version = "1.0.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:     "bdd-html-report",
		Short:   "HTML report generator for BDD test runs",
		Long:    "Aggregates per-run JSON result fragments into a multi-page HTML report with timing, screenshots, and logs.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	}

	var generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate an HTML report from run result fragments",
		RunE:  runGenerate,
	}

	var serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve a generated report over HTTP",
		RunE:  runServe,
	}

	var historyCmd = &cobra.Command{
		Use:   "history",
		Short: "List past report generation runs",
		RunE:  runHistory,
	}

	generateCmd.Flags().StringP("results", "r", "", "Directory containing run result fragments (required)")
	generateCmd.Flags().StringP("output", "o", "", "Output directory for the generated report (required)")
	generateCmd.Flags().Bool("only-failures", false, "Only include failed features in the report")
	generateCmd.Flags().Bool("progress", false, "Stream progress characters while processing")
	generateCmd.Flags().String("assets", "", "Directory of static assets to copy into external/")
	generateCmd.Flags().StringP("config", "c", "", "Path to configuration file")
	generateCmd.Flags().Bool("no-history", false, "Do not record this run in the history database")

	serveCmd.Flags().IntP("port", "p", 8080, "Port to run server on")
	serveCmd.Flags().StringP("host", "H", "localhost", "Host to bind server to")
	serveCmd.Flags().StringP("dir", "d", "report", "Generated report directory to serve")

	historyCmd.Flags().StringP("dir", "d", "report", "Generated report directory")
	historyCmd.Flags().Int("limit", 10, "Number of runs to list")

	rootCmd.AddCommand(generateCmd, serveCmd, historyCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	resultsDir, _ := cmd.Flags().GetString("results")
	outputDir, _ := cmd.Flags().GetString("output")
	onlyFailures, _ := cmd.Flags().GetBool("only-failures")
	showProgress, _ := cmd.Flags().GetBool("progress")
	assetsDir, _ := cmd.Flags().GetString("assets")
	configFile, _ := cmd.Flags().GetString("config")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	cfg := config.NewConfig()
	if configFile != "" {
		if err := cfg.LoadFromFile(configFile); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	cfg.LoadFromEnv()

	// flags override file and environment
	if resultsDir != "" {
		cfg.ResultsDir = resultsDir
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if assetsDir != "" {
		cfg.ExternalAssetsDir = assetsDir
	}
	if onlyFailures {
		cfg.OnlyFailures = true
	}
	if showProgress {
		cfg.ShowProgress = true
	}
	if noHistory {
		cfg.HistoryEnabled = false
	}

	logger.SetLevel(cfg.LogLevel)
	logger.Infof("Results: %s", cfg.ResultsDir)
	logger.Infof("Output: %s", cfg.OutputDir)

	gen := generator.New(cfg, nil, nil)
	if err := gen.Generate(); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	port, _ := cmd.Flags().GetInt("port")
	host, _ := cmd.Flags().GetString("host")
	reportDir, _ := cmd.Flags().GetString("dir")

	srv := server.NewServer(&server.Config{
		Host:      host,
		Port:      port,
		ReportDir: reportDir,
	})
	return srv.Start()
}

func runHistory(cmd *cobra.Command, args []string) error {
	reportDir, _ := cmd.Flags().GetString("dir")
	limit, _ := cmd.Flags().GetInt("limit")

	// the generator writes the history database next to the report directory
	db, err := storage.Open(filepath.Dir(reportDir))
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.RecentRuns(limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}

	for _, run := range runs {
		fmt.Printf("%s  %s  scenarios=%d passed=%d failed=%d skipped=%d duration=%.1fs\n",
			run.GeneratedAt.Format("2006-01-02 15:04:05"),
			run.ID,
			run.Scenarios,
			run.Passed,
			run.Failed,
			run.Skipped,
			run.Duration,
		)
	}
	return nil
}
