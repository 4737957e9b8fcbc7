// Package pipeline orchestrates the complete scoring flow: optional
// enrichment of the evidence record from the contracts and research
// providers, deterministic scoring, and report rendering.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/atomustam/prospector/internal/contracts"
	"github.com/atomustam/prospector/internal/model"
	"github.com/atomustam/prospector/internal/research"
	"github.com/atomustam/prospector/internal/score"
)

// ContractsClient fetches a company's award history.
type ContractsClient interface {
	FetchAwards(ctx context.Context, company string) ([]model.ContractAward, error)
}

// Pipeline enriches evidence records and scores them. Enrichment failures
// degrade to scoring the record as-is; only scoring itself can fail a
// company.
type Pipeline struct {
	engine    *score.Engine
	research  research.Provider // nil if disabled
	contracts ContractsClient   // nil if disabled
	renderer  *Renderer
	config    *model.Config
}

// NewPipeline creates a pipeline from configuration. The scoring engine is
// mandatory; research and contracts enrichment are optional and a
// misconfigured provider only logs a warning.
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	engine, err := score.NewEngine(&cfg.Scoring)
	if err != nil {
		return nil, fmt.Errorf("scoring engine: %w", err)
	}

	var provider research.Provider
	if cfg.Research.Provider != "" {
		provider, err = research.NewProvider(cfg.Research)
		if err != nil {
			log.Warn().Err(err).Msg("research provider unavailable, scoring without research enrichment")
			provider = nil
		}
	}

	var awards ContractsClient
	if cfg.Contracts.Enabled {
		client, err := contracts.NewClient(cfg.Contracts)
		if err != nil {
			log.Warn().Err(err).Msg("contracts client unavailable, scoring without award history")
		} else {
			awards = client
		}
	}

	return &Pipeline{
		engine:    engine,
		research:  provider,
		contracts: awards,
		renderer:  NewRenderer(cfg.Output.IncludeFooter),
		config:    cfg,
	}, nil
}

// Renderer exposes the pipeline's report renderer.
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// ScoreCompany enriches the record and scores it. Implements the batch
// worker's Scorer.
func (p *Pipeline) ScoreCompany(ctx context.Context, rec model.EvidenceRecord) (*model.ScoringResult, error) {
	rec = p.enrich(ctx, rec)
	return p.engine.Score(rec)
}

// enrich fills gaps in the evidence record from the configured providers.
// Missing enrichment is zero evidence, never an error.
func (p *Pipeline) enrich(ctx context.Context, rec model.EvidenceRecord) model.EvidenceRecord {
	if p.contracts != nil && len(rec.ContractHistory) == 0 {
		awards, err := p.contracts.FetchAwards(ctx, rec.Company)
		if err != nil {
			log.Warn().Err(err).Str("company", rec.Company).Msg("award history fetch failed")
		} else if len(awards) > 0 {
			rec.ContractHistory = awards
			log.Debug().Str("company", rec.Company).Int("awards", len(awards)).Msg("enriched with award history")
		}
	}

	if p.research != nil {
		summary, err := p.research.Research(ctx, research.Request{
			Company:  rec.Company,
			Industry: rec.Firmographics.Industry,
		})
		if err != nil {
			log.Warn().Err(err).Str("company", rec.Company).Msg("research enrichment failed")
		} else if summary != nil && summary.Text != "" {
			rec.TextBlocks = append(rec.TextBlocks, summary.Text)
			log.Debug().Str("company", rec.Company).Str("model", summary.Model).Msg("enriched with research summary")
		}
	}

	return rec
}

// RenderResult renders one scoring result to the requested outputs and
// prints the summary to stdout.
func (p *Pipeline) RenderResult(result *model.ScoringResult, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(result, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(result, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(result)
	return nil
}
