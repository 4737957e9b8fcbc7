// Package research produces LLM-backed company research summaries that
// enrich an evidence record's text blocks before scoring. Research is an
// optional enrichment: a disabled or failing provider never blocks a run.
package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/atomustam/prospector/internal/model"
)

// Provider generates a research summary for one company.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Research summarizes what is publicly known about the company.
	Research(ctx context.Context, req Request) (*Summary, error)

	// IsAvailable reports whether the provider is configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// Request describes the company to research.
type Request struct {
	// Company is the canonical company identifier.
	Company string

	// Website, if known, anchors the research to the right entity.
	Website string

	// Industry, if known, disambiguates common company names.
	Industry string

	// Model overrides the configured model for this request.
	Model string

	// MaxTokens limits the response length.
	MaxTokens int
}

// Summary is the provider's research output.
type Summary struct {
	// Text is the research summary, appended to the record's text blocks.
	Text string

	// Model is the model that generated the summary.
	Model string

	// TokensUsed tracks token consumption.
	TokensUsed int
}

// NewProvider creates a research provider from configuration. An empty
// provider name disables research and returns nil, nil.
func NewProvider(cfg model.ResearchConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIProvider(cfg)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown research provider: %s (supported: openai)", cfg.Provider)
	}
}

// BuildPrompt constructs the default research prompt. The prompt asks for
// verifiable facts in the vocabulary the scoring taxonomy understands, and
// forbids speculation so absent evidence stays absent.
func BuildPrompt(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are researching a company for a defense-industry prospect pipeline.

Company: %s
`, req.Company)
	if req.Website != "" {
		fmt.Fprintf(&b, "Website: %s\n", req.Website)
	}
	if req.Industry != "" {
		fmt.Fprintf(&b, "Industry: %s\n", req.Industry)
	}

	b.WriteString(`
Summarize what is verifiably known about this company, covering:
1. Government or defense contract work (agencies, prime/sub roles).
2. Technology focus (aerospace, propulsion, RF, radar, embedded, software, drones/UAS).
3. Compliance posture (CMMC, DFARS, NIST 800-171, ITAR, FedRAMP, security clearances, CUI handling).
4. Size and location (employee count, revenue if public, HQ country).

RULES:
- State only facts you are confident about. If something is unknown, omit it.
- Do NOT speculate or infer certifications the company has not claimed.
- Plain prose, 4-8 sentences, no headings or bullet lists.`)

	return b.String()
}
