package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/atomustam/prospector/internal/crm"
	"github.com/atomustam/prospector/internal/model"
	"github.com/atomustam/prospector/internal/pipeline"
	"github.com/atomustam/prospector/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <records.jsonl>",
	Short: "Score multiple companies from a JSONL file in parallel",
	Long: `Batch scores many companies concurrently:
- Read evidence records from the input file (one JSON object per line)
- Score records in parallel with a configurable worker count
- Write one JSON report per company plus a tier-distribution summary
- A failing record is reported and skipped; the batch continues

Example:
  prospector batch pipeline.jsonl
  prospector batch pipeline.jsonl --concurrency 10 --output-dir ./scores
  prospector batch pipeline.jsonl --contracts --sync-crm`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./prospector-scores", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Shared flags with the score command
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().BoolVar(&withResearch, "research", false, "enrich evidence with LLM research summaries (requires OPENAI_API_KEY)")
	batchCmd.Flags().StringVar(&researchModel, "research-model", "", "research model name (default from config)")
	batchCmd.Flags().BoolVar(&withContracts, "contracts", false, "enrich evidence with award history (requires HIGHERGOV_API_KEY)")
	batchCmd.Flags().BoolVar(&syncCRM, "sync-crm", false, "write results to CRM records that carry a crm_id (requires HUBSPOT_TOKEN)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.Workers = concurrency

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Prospector Batch Scoring\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Algorithm:    %s\n", cfg.Scoring.AlgorithmVersion)
	fmt.Fprintf(os.Stderr, "\n")

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(p, concurrency)

	fmt.Fprintf(os.Stderr, "⚙️  Reading records from file...\n")
	outcomes, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Scored %d records with %d workers\n", len(outcomes), concurrency)
	fmt.Fprintf(os.Stderr, "\n")

	var crmClient *crm.HubSpotClient
	if syncCRM {
		crmClient, err = crm.NewHubSpotClient(cfg.CRM)
		if err != nil {
			return err
		}
	}

	renderer := p.Renderer()
	tierCounts := make(map[model.Tier]int)
	successCount := 0
	failureCount := 0

	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", outcome.Company, outcome.Err)
			continue
		}

		successCount++
		tierCounts[outcome.Result.Tier]++

		jsonPath := filepath.Join(outputDir, sanitizeFilename(outcome.Company)+".json")
		if err := renderer.RenderJSON(outcome.Result, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", outcome.Company, err)
			continue
		}

		if crmClient != nil && outcome.Record.CRMID != "" {
			if err := crmClient.SyncResult(ctx, outcome.Record.CRMID, outcome.Result); err != nil {
				fmt.Fprintf(os.Stderr, "✗ %s: CRM sync failed: %v\n", outcome.Company, err)
			}
		}

		fmt.Fprintf(os.Stderr, "✓ %s (%.2f, %s)\n", outcome.Company, outcome.Result.Composite, outcome.Result.Tier)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d records\n", len(outcomes))
	fmt.Fprintf(os.Stderr, "  Scored:    %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	for _, tier := range []model.Tier{model.Tier1, model.Tier2, model.Tier3, model.Tier4, model.TierExcluded} {
		if count := tierCounts[tier]; count > 0 {
			fmt.Fprintf(os.Stderr, "  %-9s  %d\n", tier+":", count)
		}
	}
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// sanitizeFilename turns a company name into a safe filename.
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(strings.TrimSpace(s))

	// Limit length
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
