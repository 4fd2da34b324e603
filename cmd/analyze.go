// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sugimori/git-analyzer/internal/config"
	"github.com/sugimori/git-analyzer/internal/domain"
	"github.com/sugimori/git-analyzer/internal/export"
	"github.com/sugimori/git-analyzer/internal/gateway"
	"github.com/sugimori/git-analyzer/internal/usecase"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <repository>",
	Short: "Analyzes a public repository and prints its derived statistics",
	Long: `Analyzes the given repository (as "owner/name" or a full URL): language
breakdown, top contributors, and daily commit activity. With --export, the
result is also written out as JSON and/or CSV artifacts.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		}

		// Get other flags.
		tokenFlag, _ := cmd.Flags().GetString("token")
		configPath, _ := cmd.Flags().GetString("config")
		exportFormats, _ := cmd.Flags().GetStringSlice("export")
		outDir, _ := cmd.Flags().GetString("out")
		asJSON, _ := cmd.Flags().GetBool("json")

		// Reject bad export formats up front, before any network call.
		formats := make([]export.Format, 0, len(exportFormats))
		for _, name := range exportFormats {
			format, err := export.ParseFormat(name)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid --export flag: %v\n", err)
				os.Exit(1)
			}
			formats = append(formats, format)
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		if tokenFlag != "" {
			cfg.Token = tokenFlag
		}

		// Inject dependencies and run the main business logic.
		githubGateway, err := gateway.NewGitHubGateway(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		analyzer := usecase.NewAnalyzer(githubGateway, logger)
		session := usecase.NewSession()

		result, err := analyzer.Run(ctx, session, args[0])
		if err != nil {
			var inputErr *domain.InputError
			if errors.As(err, &inputErr) {
				fmt.Fprintf(os.Stderr, "Invalid input: %v\n", inputErr)
			} else {
				fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
			}
			os.Exit(1)
		}

		if asJSON {
			// Marshal the result into a pretty-printed JSON string.
			jsonData, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to marshal result to JSON: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(jsonData))
		} else {
			renderResult(os.Stdout, result)
		}

		// Export artifacts only for a successful run; the session holds the
		// last published result.
		if err := writeExports(session.Result(), formats, outDir, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
	},
}

// writeExports writes one artifact per requested format into outDir.
func writeExports(result *domain.AnalysisResult, formats []export.Format, outDir string, logger *log.Logger) error {
	if result == nil || len(formats) == 0 {
		return nil
	}

	for _, format := range formats {
		artifact, err := export.Export(result, format)
		if err != nil {
			return err
		}
		path := filepath.Join(outDir, artifact.Name)
		if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		logger.Printf("Wrote %s (%d bytes).", path, len(artifact.Data))
		fmt.Printf("Exported %s\n", path)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringP("token", "t", "", "GitHub bearer token (defaults to GIT_ANALYZER_TOKEN or GITHUB_TOKEN)")
	analyzeCmd.Flags().String("config", "", "Path to a config file (defaults to .git-analyzer.yaml in CWD or $HOME)")
	analyzeCmd.Flags().StringSlice("export", nil, "Artifact formats to write after a successful run (json, csv)")
	analyzeCmd.Flags().String("out", ".", "Directory for exported artifacts")
	analyzeCmd.Flags().Bool("json", false, "Print the raw analysis result as JSON instead of tables")
}
