package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/atomustam/prospector/internal/crm"
	"github.com/atomustam/prospector/internal/model"
	"github.com/atomustam/prospector/internal/pipeline"
)

var (
	outJSON       string
	outMD         string
	timeout       time.Duration
	noFooter      bool
	withResearch  bool
	researchModel string
	withContracts bool
	syncCRM       bool
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score <evidence.yaml>",
	Short: "Score a single company from an evidence file",
	Long: `Score reads one company's evidence record (research text, identifiers,
firmographics, contract history) and produces a scoring report:
- Per-category sub-scores with the taxonomy terms that drove them
- Weighted composite score (0-100)
- Priority tier (TIER_1 through TIER_4, or EXCLUDED)

Example:
  prospector score firestorm.yaml
  prospector score firestorm.yaml --json result.json --md result.md
  prospector score firestorm.yaml --research --contracts
  prospector score firestorm.yaml --sync-crm`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	// Output flags
	scoreCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	scoreCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	scoreCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	scoreCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall timeout including enrichment calls")

	// Enrichment flags
	scoreCmd.Flags().BoolVar(&withResearch, "research", false, "enrich evidence with an LLM research summary (requires OPENAI_API_KEY)")
	scoreCmd.Flags().StringVar(&researchModel, "research-model", "", "research model name (default from config)")
	scoreCmd.Flags().BoolVar(&withContracts, "contracts", false, "enrich evidence with award history (requires HIGHERGOV_API_KEY)")

	// CRM flags
	scoreCmd.Flags().BoolVar(&syncCRM, "sync-crm", false, "write the result to the CRM record (requires HUBSPOT_TOKEN and crm_id in the evidence file)")
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	rec, err := readEvidenceFile(args[0])
	if err != nil {
		return err
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Scoring: %s\n", rec.Company)
		fmt.Fprintf(os.Stderr, "Algorithm: %s\n", cfg.Scoring.AlgorithmVersion)
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	result, err := p.ScoreCompany(ctx, rec)
	if err != nil {
		return fmt.Errorf("score failed: %w", err)
	}

	if err := p.RenderResult(result, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if syncCRM {
		if err := syncResultToCRM(ctx, cfg, rec, result); err != nil {
			return err
		}
	}

	return nil
}

// readEvidenceFile loads one evidence record from a YAML file.
func readEvidenceFile(path string) (model.EvidenceRecord, error) {
	var rec model.EvidenceRecord

	data, err := os.ReadFile(path)
	if err != nil {
		return rec, fmt.Errorf("read evidence file: %w", err)
	}
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("parse evidence file: %w", err)
	}
	return rec, nil
}

// buildConfig loads configuration and applies enrichment flags plus API
// credentials from the environment.
func buildConfig() (*model.Config, error) {
	cfg, err := model.LoadConfig(configPath())
	if err != nil {
		return nil, err
	}

	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if withResearch {
		cfg.Research.Provider = "openai"
		if researchModel != "" {
			cfg.Research.Model = researchModel
		}
		cfg.Research.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Research.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	if withContracts {
		cfg.Contracts.Enabled = true
		cfg.Contracts.APIKey = os.Getenv("HIGHERGOV_API_KEY")
		if cfg.Contracts.APIKey == "" {
			return nil, fmt.Errorf("HIGHERGOV_API_KEY environment variable not set")
		}
	}

	if syncCRM {
		cfg.CRM.Enabled = true
		cfg.CRM.Token = os.Getenv("HUBSPOT_TOKEN")
		if cfg.CRM.Token == "" {
			return nil, fmt.Errorf("HUBSPOT_TOKEN environment variable not set")
		}
	}

	return cfg, nil
}

func syncResultToCRM(ctx context.Context, cfg *model.Config, rec model.EvidenceRecord, result *model.ScoringResult) error {
	if rec.CRMID == "" {
		return fmt.Errorf("evidence file has no crm_id, cannot sync")
	}

	client, err := crm.NewHubSpotClient(cfg.CRM)
	if err != nil {
		return err
	}
	if err := client.SyncResult(ctx, rec.CRMID, result); err != nil {
		return fmt.Errorf("CRM sync failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Synced result to CRM record %s\n", rec.CRMID)
	}
	return nil
}
